// Package interview implements the mock-interview engine: the session
// registry and the start/answer/finish state machine around the language
// model gateway.
package interview

import (
	"strings"
	"sync"
	"time"
)

// InterviewType is the closed set of interview styles. Unrecognized input is
// coerced to TypeMixed, the most general category, rather than rejected.
type InterviewType string

const (
	TypeTechnical  InterviewType = "TECHNICAL"
	TypeBehavioral InterviewType = "BEHAVIORAL"
	TypeHR         InterviewType = "HR"
	TypeMixed      InterviewType = "MIXED"
)

// ParseInterviewType maps free-text input onto the enum, falling back to
// TypeMixed for anything it does not recognize.
func ParseInterviewType(value string) InterviewType {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "TECHNICAL":
		return TypeTechnical
	case "BEHAVIORAL":
		return TypeBehavioral
	case "HR":
		return TypeHR
	default:
		return TypeMixed
	}
}

// SessionConfig is supplied once at session start and never changes.
type SessionConfig struct {
	Role            string        `json:"role" validate:"required"`
	ExperienceLevel string        `json:"experienceLevel" validate:"required"`
	Type            InterviewType `json:"interviewType" validate:"required"`
}

// Session is one candidate's interview. Questions and answers grow in
// chronological order and always satisfy
// len(Answers) <= len(Questions) <= len(Answers)+1: at most one question is
// outstanding at any time.
//
// The per-session mutex serializes every mutation, including the gateway
// call made while a turn is in flight, so two concurrent answers can never
// corrupt the question/answer pairing.
type Session struct {
	ID           string
	Config       SessionConfig
	Questions    []string
	Answers      []string
	Finished     bool
	CreatedAt    time.Time
	LastActivity time.Time

	mu sync.Mutex
}
