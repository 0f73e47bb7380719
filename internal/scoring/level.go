package scoring

// Level is the discretised failure risk shown next to the probability.
type Level string

const (
	LevelLow      Level = "Low"
	LevelMedium   Level = "Medium"
	LevelHigh     Level = "High"
	LevelCritical Level = "Critical"
)

// Upper bounds (exclusive) of the Low, Medium and High buckets.
const (
	lowCeiling    = 0.2
	mediumCeiling = 0.5
	highCeiling   = 0.8
)

// LevelFor maps a failure probability onto a Level. A probability sitting
// exactly on a threshold belongs to the higher bucket, and anything that fails
// every comparison (including NaN) is Critical.
func LevelFor(probability float64) Level {
	if probability < lowCeiling {
		return LevelLow
	}
	if probability < mediumCeiling {
		return LevelMedium
	}
	if probability < highCeiling {
		return LevelHigh
	}
	return LevelCritical
}

// Direction words used when describing a risk factor contribution.
const (
	Increases = "increases"
	Decreases = "decreases"
)

// Direction reports whether a signed contribution pushes the failure risk up.
// Zero counts as decreasing.
func Direction(contribution float64) string {
	if contribution > 0 {
		return Increases
	}
	return Decreases
}
