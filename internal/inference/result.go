package inference

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Prediction is one (class, confidence) pair returned by the backend.
type Prediction struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}

// Result is the ranked prediction list for a single image, ordered by
// descending confidence. It lives only for the request that produced it.
type Result []Prediction

// Top returns the highest-confidence prediction.
func (r Result) Top() (Prediction, bool) {
	if len(r) == 0 {
		return Prediction{}, false
	}

	return r[0], true
}

// decodeResult parses the serving handler's response body: a JSON object
// mapping class names to confidence scores. Anything else, including scores
// outside [0,1], is treated as a decode failure.
func decodeResult(body []byte) (Result, error) {
	var scores map[string]float64
	if err := json.Unmarshal(body, &scores); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if len(scores) == 0 {
		return nil, fmt.Errorf("%w: empty prediction map", ErrDecode)
	}

	result := make(Result, 0, len(scores))
	for class, confidence := range scores {
		if confidence < 0 || confidence > 1 {
			return nil, fmt.Errorf("%w: confidence %g for %q outside [0,1]", ErrDecode, confidence, class)
		}

		result = append(result, Prediction{Class: class, Confidence: confidence})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Confidence != result[j].Confidence {
			return result[i].Confidence > result[j].Confidence
		}
		return result[i].Class < result[j].Class
	})

	return result, nil
}
