package recommend

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeEntries = `{"recommendations":[
  {"title":"Dune","author":"Frank Herbert","reason":"Desert politics","confidence":0.95},
  {"title":"Hyperion","author":"Dan Simmons","reason":"Pilgrims","confidence":0.8},
  {"title":"Foundation","author":"Isaac Asimov","reason":"Empire","confidence":0.7}
]}`

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"fenced json block", "Sure!\n```json\n{\"a\":1}\n```\nEnjoy.", `{"a":1}`},
		{"first fenced block wins", "```json {\"a\":1} ``` and ```json {\"b\":2} ```", `{"a":1}`},
		{"untagged fence falls to brace span", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"brace span is greedy", `Here: {"a":{"b":1}} and {"c":2} done`, `{"a":{"b":1}} and {"c":2}`},
		{"no braces returns raw", "I cannot help with that.", "I cannot help with that."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.raw))
		})
	}
}

func TestParse_FencedBlockWithThreeEntries(t *testing.T) {
	raw := "Here are my picks:\n```json\n" + threeEntries + "\n```\nHappy reading!"

	parsed, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, 3, parsed.Received)
	assert.Empty(t, parsed.Issues)
	recs := parsed.Recommendations
	require.Len(t, recs, 3)
	for i, rec := range recs {
		assert.Equal(t, i, rec.Ordinal)
	}
	assert.Equal(t, "rec-0", recs[0].ID)
	assert.Equal(t, "Dune", recs[0].Title)
	assert.Equal(t, "Frank Herbert", recs[0].Author)
	assert.Equal(t, "Desert politics", recs[0].Reason)
	assert.Equal(t, 0.95, recs[0].Confidence)
	assert.Equal(t, "Foundation", recs[2].Title)
}

func TestParse_FiveEntriesInProseKeepsFirstThree(t *testing.T) {
	raw := `I think you'll enjoy these. {"recommendations":[
	  {"title":"A","author":"a","reason":"r","confidence":0.9},
	  {"title":"B","author":"b","reason":"r","confidence":0.8},
	  {"title":"C","author":"c","reason":"r","confidence":0.7},
	  {"title":"D","author":"d","reason":"r","confidence":0.6},
	  {"title":"E","author":"e","reason":"r","confidence":0.5}
	]} Let me know if you want more.`

	parsed, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, 5, parsed.Received)
	recs := parsed.Recommendations
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{recs[0].Title, recs[1].Title, recs[2].Title})
	assert.Equal(t, "rec-2", recs[2].ID)
}

func TestParse_TruncatesBeforeValidatingElements(t *testing.T) {
	raw := `{"recommendations":[
	  {"title":"A","author":"a","confidence":0.9},
	  {"title":"B","author":"b","confidence":0.8},
	  {"title":"C","author":"c","confidence":0.7},
	  {"title":"","author":"","confidence":7}
	]}`

	parsed, err := Parse(raw)
	require.NoError(t, err)
	assert.Len(t, parsed.Recommendations, 3)
	assert.Empty(t, parsed.Recommendations[0].Reason)
	assert.Empty(t, parsed.Issues, "dropped entries are not inspected")
}

func TestParse_ShortListAccepted(t *testing.T) {
	parsed, err := Parse(`{"recommendations":[{"title":"Solo","author":"One","reason":"only","confidence":1}]}`)
	require.NoError(t, err)
	assert.Equal(t, 1, parsed.Received)
	require.Len(t, parsed.Recommendations, 1)
	assert.Equal(t, 1.0, parsed.Recommendations[0].Confidence)

	parsed, err = Parse(`{"recommendations":[]}`)
	require.NoError(t, err)
	assert.Zero(t, parsed.Received)
	assert.Empty(t, parsed.Recommendations)
}

func TestParse_UnparseableText(t *testing.T) {
	raw := "Sorry, I can only recommend books when asked nicely."

	_, err := Parse(raw)
	var recErr *Error
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, KindParse, recErr.Kind)
	assert.NotEmpty(t, recErr.Message)
	assert.Equal(t, raw, recErr.Raw)
}

func TestParse_RawDiagnosticIsTruncated(t *testing.T) {
	raw := strings.Repeat("é", 800)

	_, err := Parse(raw)
	var recErr *Error
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, 500, len([]rune(recErr.Raw)))
}

func TestParse_InvalidStructure(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"top level array", `[{"title":"A"}]`},
		{"top level string", `"just text"`},
		{"missing recommendations", `{"books":[]}`},
		{"recommendations not an array", `{"recommendations":{"title":"A"}}`},
		{"recommendations null", `{"recommendations":null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			var recErr *Error
			require.True(t, errors.As(err, &recErr), "got %v", err)
			assert.Equal(t, KindInvalidStructure, recErr.Kind)
			assert.Equal(t, tt.raw, recErr.Raw)
		})
	}
}

func TestParse_EntriesPassThroughUnchanged(t *testing.T) {
	raw := `{"recommendations":[
	  {"title":"Dune","author":"Frank Herbert","reason":"Desert politics","confidence":0.9},
	  {"title":"Hyperion","author":"Dan Simmons","reason":"Pilgrims","confidence":1.2},
	  {"title":"Foundation","author":"Isaac Asimov","reason":"Empire","confidence":0.7}
	]}`

	parsed, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, parsed.Recommendations, 3)
	assert.Equal(t, 1.2, parsed.Recommendations[1].Confidence)
	assert.Equal(t, "Hyperion", parsed.Recommendations[1].Title)
	assert.Equal(t, []string{"recommendation 1: confidence 1.2 outside [0,1]"}, parsed.Issues)
}

func TestParse_OffShapeEntriesAreReported(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		want  Recommendation
		issue string
	}{
		{"missing confidence", `{"title":"A","author":"a","reason":"r"}`,
			Recommendation{Title: "A", Author: "a", Reason: "r"}, "confidence is missing"},
		{"confidence as numeric string", `{"title":"A","author":"a","confidence":"0.8"}`,
			Recommendation{Title: "A", Author: "a", Confidence: 0.8}, ""},
		{"confidence as word", `{"title":"A","author":"a","confidence":"high"}`,
			Recommendation{Title: "A", Author: "a"}, "confidence is not a number"},
		{"negative confidence", `{"title":"A","author":"a","confidence":-0.1}`,
			Recommendation{Title: "A", Author: "a", Confidence: -0.1}, "confidence -0.1 outside [0,1]"},
		{"blank title", `{"title":"  ","author":"a","confidence":0.5}`,
			Recommendation{Title: "  ", Author: "a", Confidence: 0.5}, "title is blank"},
		{"missing author", `{"title":"A","confidence":0.5}`,
			Recommendation{Title: "A", Confidence: 0.5}, "author is blank"},
		{"reason not a string", `{"title":"A","author":"a","reason":3,"confidence":0.5}`,
			Recommendation{Title: "A", Author: "a", Confidence: 0.5}, "reason is not a string"},
		{"element not an object", `"Dune"`, Recommendation{}, "not an object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse(`{"recommendations":[` + tt.entry + `]}`)
			require.NoError(t, err)
			require.Len(t, parsed.Recommendations, 1)

			want := tt.want
			want.ID = "rec-0"
			assert.Equal(t, want, parsed.Recommendations[0])
			if tt.issue == "" {
				assert.Empty(t, parsed.Issues)
			} else {
				assert.Equal(t, []string{"recommendation 0: " + tt.issue}, parsed.Issues)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("space opera with strong women")
	assert.Contains(t, p, `User query: "space opera with strong women"`)
	assert.Contains(t, p, `"recommendations": [`)
	assert.Contains(t, p, "exactly 3 recommendations")
}
