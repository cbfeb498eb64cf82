package recommend

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

var (
	fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	braceSpan  = regexp.MustCompile(`(?s)\{.*\}`)
)

// Extract returns the part of a model answer that should hold the JSON payload:
// the first ```json fenced block, else the span from the first '{' to the last
// '}', else the whole text.
func Extract(raw string) string {
	if m := fencedJSON.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	if m := braceSpan.FindString(raw); m != "" {
		return m
	}
	return raw
}

// Parsed is a model answer reduced to the entries the response keeps.
type Parsed struct {
	Recommendations []Recommendation
	// Received is how many entries the model sent.
	Received int
	// Issues describes kept entries that break the record invariant (blank
	// title or author, confidence missing or outside [0,1]). They are reported,
	// never rejected.
	Issues []string
}

// Parse extracts the recommendations in a model answer and keeps the first
// MaxRecommendations in order. Only the envelope is checked: a top-level object
// with a recommendations array. Entries pass through as the model wrote them.
// Failures are *Error with KindParse or KindInvalidStructure.
func Parse(raw string) (Parsed, error) {
	var top any
	if err := json.Unmarshal([]byte(Extract(raw)), &top); err != nil {
		return Parsed{}, newError(KindParse, raw, "%v", err)
	}

	obj, ok := top.(map[string]any)
	if !ok {
		return Parsed{}, newError(KindInvalidStructure, raw, "top level is not an object")
	}
	items, ok := obj["recommendations"].([]any)
	if !ok {
		return Parsed{}, newError(KindInvalidStructure, raw, "recommendations is missing or not an array")
	}

	out := Parsed{Received: len(items)}
	if len(items) > MaxRecommendations {
		items = items[:MaxRecommendations]
	}

	out.Recommendations = make([]Recommendation, 0, len(items))
	for i, item := range items {
		rec, problems := decodeItem(item)
		rec.Ordinal = i
		rec.ID = fmt.Sprintf("rec-%d", i)
		for _, p := range problems {
			out.Issues = append(out.Issues, fmt.Sprintf("recommendation %d: %s", i, p))
		}
		out.Recommendations = append(out.Recommendations, rec)
	}
	return out, nil
}

// decodeItem copies the fields of one entry without clamping or rounding.
// Values of the wrong type are left zero and reported.
func decodeItem(item any) (Recommendation, []string) {
	m, ok := item.(map[string]any)
	if !ok {
		return Recommendation{}, []string{"not an object"}
	}

	var (
		rec      Recommendation
		problems []string
	)
	for _, f := range []struct {
		key      string
		dst      *string
		required bool
	}{
		{"title", &rec.Title, true},
		{"author", &rec.Author, true},
		{"reason", &rec.Reason, false},
	} {
		v, present := m[f.key]
		s, isString := v.(string)
		switch {
		case present && v != nil && !isString:
			problems = append(problems, f.key+" is not a string")
		case f.required && strings.TrimSpace(s) == "":
			problems = append(problems, f.key+" is blank")
		}
		*f.dst = s
	}

	switch c := m["confidence"].(type) {
	case float64:
		rec.Confidence = c
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			problems = append(problems, "confidence is not a number")
			break
		}
		rec.Confidence = f
	case nil:
		problems = append(problems, "confidence is missing")
		return rec, problems
	default:
		problems = append(problems, "confidence is not a number")
	}
	if rec.Confidence < 0 || rec.Confidence > 1 {
		problems = append(problems, fmt.Sprintf("confidence %v outside [0,1]", rec.Confidence))
	}
	return rec, problems
}
