package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the GORM DB handle and exposes the submission log.
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

const maxListLimit = 500

// Open initializes the SQLite-backed database at the provided path, creating
// its directory when needed.
func Open(path string, silent bool) (*Database, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("db path required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Submission{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	if err := db.Exec("PRAGMA synchronous=NORMAL").Error; err != nil {
		logrus.WithError(err).Warn("set synchronous pragma")
	}
	return &Database{gorm: db}, nil
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveSubmission appends a submission row.
func (d *Database) SaveSubmission(s *Submission) error {
	if s == nil {
		return errors.New("submission is nil")
	}
	if strings.TrimSpace(s.SubmissionID) == "" {
		return errors.New("submission id required")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Create(s).Error
}

// RecentSubmissions returns the newest submissions first, optionally limited
// to one outcome.
func (d *Database) RecentSubmissions(outcome string, limit int) ([]Submission, error) {
	if d == nil {
		return nil, errors.New("database is nil")
	}
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	query := d.gorm.Model(&Submission{}).Order("created_at DESC").Order("id DESC").Limit(limit)
	if outcome = strings.TrimSpace(outcome); outcome != "" {
		query = query.Where("outcome = ?", outcome)
	}
	var rows []Submission
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetSubmission looks up one submission by its public id.
func (d *Database) GetSubmission(submissionID string) (*Submission, error) {
	var row Submission
	if err := d.gorm.Where("submission_id = ?", submissionID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CountByOutcome tallies submissions per outcome.
func (d *Database) CountByOutcome() ([]OutcomeCount, error) {
	var counts []OutcomeCount
	err := d.gorm.Model(&Submission{}).
		Select("outcome, COUNT(*) AS total").
		Group("outcome").
		Order("outcome").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// IsNotFound reports whether err means a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
