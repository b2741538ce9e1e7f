// Package feedback defines the structured evaluation produced at the end of
// an interview and the tolerant interpreter that extracts it from raw model
// output.
package feedback

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Feedback is the final evaluation of a finished interview. Every field is
// always populated; collections are empty rather than nil when extraction
// yields nothing.
type Feedback struct {
	OverallSummary        string         `json:"overallSummary"`
	Scores                Scores         `json:"scores"`
	Strengths             []string       `json:"strengths"`
	AreasToImprove        []string       `json:"areasToImprove"`
	SampleImprovedAnswers []SampleAnswer `json:"sampleImprovedAnswers"`
}

// SampleAnswer pairs an interview question with a model-written improved answer.
type SampleAnswer struct {
	Question       string `json:"question"`
	ImprovedAnswer string `json:"improvedAnswer"`
}

// New returns a Feedback with every collection initialized to empty.
func New() Feedback {
	return Feedback{
		Scores:                Scores{},
		Strengths:             []string{},
		AreasToImprove:        []string{},
		SampleImprovedAnswers: []SampleAnswer{},
	}
}

// Scores is a category-name to integer mapping that preserves insertion
// order, both in memory and in its JSON form. Category names are not
// predeclared; whatever the model returns is kept as-is.
type Scores struct {
	entries []scoreEntry
}

type scoreEntry struct {
	name  string
	value int
}

func (s *Scores) Set(name string, value int) {
	for i := range s.entries {
		if s.entries[i].name == name {
			s.entries[i].value = value
			return
		}
	}
	s.entries = append(s.entries, scoreEntry{name: name, value: value})
}

func (s Scores) Get(name string) (int, bool) {
	for _, e := range s.entries {
		if e.name == name {
			return e.value, true
		}
	}
	return 0, false
}

func (s Scores) Len() int {
	return len(s.entries)
}

// Names returns the category names in insertion order.
func (s Scores) Names() []string {
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.name
	}
	return names
}

// MarshalJSON emits a JSON object whose keys appear in insertion order.
func (s Scores) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(e.value))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object field by field, keeping document order
// and coercing each value to an integer. Non-numeric values become 0 instead
// of failing the decode.
func (s *Scores) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("scores: expected JSON object")
	}

	entries := s.entries[:0]
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("scores: expected string key")
		}

		value, err := decodeScalar(dec)
		if err != nil {
			return err
		}
		entries = append(entries, scoreEntry{name: key, value: coerceInt(value)})
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}

	s.entries = entries
	return nil
}

// decodeScalar reads one JSON value from the decoder. Scalars are returned
// as-is; nested containers are skipped whole and reported as nil.
func decodeScalar(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	d, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	if d != '{' && d != '[' {
		return nil, fmt.Errorf("unexpected delimiter %q", d)
	}
	depth := 1
	for depth > 0 {
		t, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if dd, ok := t.(json.Delim); ok {
			switch dd {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil, nil
}

func coerceInt(v interface{}) int {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		if f, err := t.Float64(); err == nil {
			return int(f)
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return i
		}
	case bool:
		if t {
			return 1
		}
	}
	return 0
}
