// Package recommend turns a free-text reading query into at most three book
// recommendations produced by a hosted language model.
package recommend

import (
	"errors"
	"fmt"
)

// MaxRecommendations is how many entries a response keeps.
const MaxRecommendations = 3

// rawLimit caps the model text carried in errors and logs, in runes.
const rawLimit = 500

var ErrQueryRequired = errors.New("query is required")

// Kind classifies a failed recommendation request.
type Kind string

const (
	KindUpstream         Kind = "AI_UPSTREAM_ERROR"
	KindParse            Kind = "AI_RESPONSE_PARSE_ERROR"
	KindInvalidStructure Kind = "AI_RESPONSE_INVALID_STRUCTURE"
)

// Recommendation is one suggested book. Nothing about it is persisted.
type Recommendation struct {
	ID         string  `json:"id"`
	Ordinal    int     `json:"ordinal"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// Response is the body of a successful POST /recommendations.
type Response struct {
	Recommendations []Recommendation `json:"recommendations"`
}

// Request is the body of POST /recommendations.
type Request struct {
	Query string `json:"query"`
}

// Error is a failed model call or an unusable model answer.
type Error struct {
	Kind    Kind
	Message string
	// Raw is the start of the model text, empty when the call produced none.
	Raw string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, raw, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Raw: truncate(raw, rawLimit)}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
