package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// InterviewSettings holds the tunable parts of the interview flow that live
// in config/interview.yaml rather than in environment variables.
type InterviewSettings struct {
	InterviewerPersona string `yaml:"interviewer_persona"`
	CoachPersona       string `yaml:"coach_persona"`
	MaxAnswerLength    int    `yaml:"max_answer_length"`
	SessionTTLHours    int    `yaml:"session_ttl_hours"`
}

// DefaultInterviewSettings returns the settings used when no YAML file is
// provided. The personas match the prompts the evaluation flow was tuned on.
func DefaultInterviewSettings() *InterviewSettings {
	return &InterviewSettings{
		InterviewerPersona: "You are a professional job interviewer.",
		CoachPersona:       "You are an interview coach providing structured feedback.",
		MaxAnswerLength:    4000,
		SessionTTLHours:    0,
	}
}

// LoadInterviewSettings loads settings from a YAML file. Keys omitted from the
// file keep their default values.
func LoadInterviewSettings(filename string) (*InterviewSettings, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}

	settings := DefaultInterviewSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing interview settings YAML: %w", err)
	}

	if err := validateInterviewSettings(settings); err != nil {
		return nil, fmt.Errorf("validating interview settings: %w", err)
	}

	return settings, nil
}

func validateInterviewSettings(settings *InterviewSettings) error {
	if settings.InterviewerPersona == "" {
		return fmt.Errorf("interviewer_persona must not be empty")
	}

	if settings.CoachPersona == "" {
		return fmt.Errorf("coach_persona must not be empty")
	}

	if settings.MaxAnswerLength <= 0 {
		return fmt.Errorf("max_answer_length must be greater than 0")
	}

	if settings.SessionTTLHours < 0 {
		return fmt.Errorf("session_ttl_hours cannot be negative")
	}

	return nil
}
