package feedback

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Interpret extracts a Feedback from raw model output. It never fails: when
// the text is not the expected JSON object, every partial result is discarded
// and the raw text becomes the overall summary, so the user always gets
// readable feedback.
func Interpret(raw string) Feedback {
	fb, err := interpret(raw)
	if err != nil {
		fb = New()
		fb.OverallSummary = raw
	}
	return fb
}

func interpret(raw string) (Feedback, error) {
	fb := New()

	cleaned := strings.TrimSpace(raw)

	// Models routinely wrap JSON in markdown fences despite instructions.
	// Slicing from the first '{' to the last '}' strips any fence variant
	// without caring about its exact syntax.
	if strings.HasPrefix(cleaned, "```") {
		first := strings.Index(cleaned, "{")
		last := strings.LastIndex(cleaned, "}")
		if first != -1 && last > first {
			cleaned = cleaned[first : last+1]
		}
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &root); err != nil {
		return fb, err
	}
	if root == nil {
		return fb, fmt.Errorf("payload is not a JSON object")
	}

	// The summary falls back to the whole cleaned text so the user always
	// sees something, even when the model omitted the field.
	fb.OverallSummary = cleaned
	if rawSummary, ok := root["overallSummary"]; ok && !isNull(rawSummary) {
		fb.OverallSummary = asText(rawSummary)
	}

	if rawScores, ok := root["scores"]; ok && isObject(rawScores) {
		if err := json.Unmarshal(rawScores, &fb.Scores); err != nil {
			return fb, err
		}
	}

	fb.Strengths = stringList(root["strengths"])
	fb.AreasToImprove = stringList(root["areasToImprove"])

	if rawSamples, ok := root["sampleImprovedAnswers"]; ok && isArray(rawSamples) {
		var elems []json.RawMessage
		if err := json.Unmarshal(rawSamples, &elems); err != nil {
			return fb, err
		}
		for _, elem := range elems {
			// Each sub-field defaults independently; one missing field
			// does not drop the whole entry.
			var sample SampleAnswer
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(elem, &obj); err == nil {
				sample.Question = asText(obj["question"])
				sample.ImprovedAnswer = asText(obj["improvedAnswer"])
			}
			fb.SampleImprovedAnswers = append(fb.SampleImprovedAnswers, sample)
		}
	}

	return fb, nil
}

// stringList coerces a JSON array into a slice of strings. Anything that is
// not an array yields an empty slice.
func stringList(raw json.RawMessage) []string {
	out := []string{}
	if !isArray(raw) {
		return out
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return out
	}
	for _, e := range elems {
		out = append(out, asText(e))
	}
	return out
}

// asText renders a JSON value the way a user would read it: strings decode,
// numbers and booleans keep their literal form, everything else is empty.
func asText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return ""
		}
		return s
	case '{', '[', 'n':
		return ""
	default:
		return string(trimmed)
	}
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || string(trimmed) == "null"
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
