package predict

import (
	"errors"
	"math"

	"github.com/tidwall/gjson"
)

// Factor is one entry of top_risk_factors: a feature and its signed
// contribution to the predicted failure probability.
type Factor struct {
	Name         string  `json:"name"`
	Contribution float64 `json:"contribution"`
}

// Response is a successful prediction. TopRiskFactors keeps the order in which
// the service listed them.
type Response struct {
	FailureProbability float64  `json:"failure_probability"`
	TopRiskFactors     []Factor `json:"top_risk_factors"`
}

var errInvalidJSON = errors.New("invalid JSON in prediction response")

// DecodeResponse parses a success body. The body must be a JSON object with a
// numeric failure_probability and an object of top_risk_factors.
func DecodeResponse(body []byte) (Response, error) {
	if !gjson.ValidBytes(body) {
		return Response{}, errInvalidJSON
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return Response{}, errors.New("prediction response is not a JSON object")
	}

	prob := root.Get("failure_probability")
	if prob.Type != gjson.Number {
		return Response{}, errors.New("prediction response missing numeric failure_probability")
	}

	factors := root.Get("top_risk_factors")
	if !factors.IsObject() {
		return Response{}, errors.New("prediction response missing top_risk_factors object")
	}

	resp := Response{FailureProbability: prob.Float()}
	index := make(map[string]int)
	factors.ForEach(func(key, value gjson.Result) bool {
		contribution := math.NaN()
		if value.Type == gjson.Number {
			contribution = value.Float()
		}
		name := key.String()
		// a repeated key keeps its first position and its last value
		if at, ok := index[name]; ok {
			resp.TopRiskFactors[at].Contribution = contribution
			return true
		}
		index[name] = len(resp.TopRiskFactors)
		resp.TopRiskFactors = append(resp.TopRiskFactors, Factor{Name: name, Contribution: contribution})
		return true
	})
	return resp, nil
}

// decodeServiceError builds the error for a non-success status. It fails only
// when the body cannot be read as JSON at all.
func decodeServiceError(status int, body []byte) (*ServiceError, error) {
	if !gjson.ValidBytes(body) {
		return nil, errInvalidJSON
	}
	root := gjson.ParseBytes(body)
	if root.Type == gjson.Null {
		return nil, errors.New("prediction error response is null")
	}

	svcErr := &ServiceError{Status: status, Message: DefaultErrorMessage}
	if msg := root.Get("error"); truthy(msg) {
		svcErr.Message = msg.String()
	}
	for _, item := range root.Get("missing_features").Array() {
		svcErr.MissingFeatures = append(svcErr.MissingFeatures, item.String())
	}
	return svcErr, nil
}

// truthy mirrors the falsy set of a `value || fallback` expression.
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return v.Num != 0 && !math.IsNaN(v.Num)
	case gjson.String:
		return v.Str != ""
	}
	return v.Exists()
}
