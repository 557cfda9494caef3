package classify

import (
	"strconv"
	"strings"
)

// parsed holds the six fields of a well-formed model response.
type parsed struct {
	official   bool
	matrix     bool
	ugc        bool
	brand      string
	confidence float64
	rationale  string
}

// parseResponse applies the six-pipe contract. The second return is false
// when the response cannot be used and the caller must fall back to the UGC
// default: wrong field count, unparseable booleans, or a label set that is
// not exactly one true.
func parseResponse(text string) (parsed, bool) {
	parts := strings.Split(text, "|")
	if len(parts) != 6 {
		return parsed{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	official, ok1 := parseBool(parts[0])
	matrix, ok2 := parseBool(parts[1])
	ugc, ok3 := parseBool(parts[2])
	if !ok1 || !ok2 || !ok3 {
		return parsed{}, false
	}

	trueCount := 0
	for _, b := range []bool{official, matrix, ugc} {
		if b {
			trueCount++
		}
	}
	if trueCount != 1 {
		return parsed{}, false
	}

	brand := parts[3]
	if strings.EqualFold(brand, "none") {
		brand = ""
	}

	confidence, err := strconv.ParseFloat(parts[4], 64)
	if err != nil {
		confidence = 0.0
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return parsed{
		official:   official,
		matrix:     matrix,
		ugc:        ugc,
		brand:      brand,
		confidence: confidence,
		rationale:  parts[5],
	}, true
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}
