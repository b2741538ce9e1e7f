// Package storage writes finished-interview reports to disk as JSON files.
// Reports are export artifacts only; the session registry itself lives in
// memory and is never reloaded from these files.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mock-interview-api/internal/feedback"
)

// Report is everything worth keeping from a finished interview.
type Report struct {
	SessionID       string            `json:"session_id"`
	GeneratedAt     string            `json:"generated_at"`
	Role            string            `json:"role"`
	ExperienceLevel string            `json:"experience_level"`
	InterviewType   string            `json:"interview_type"`
	Transcript      string            `json:"transcript"`
	Feedback        feedback.Feedback `json:"feedback"`
}

// Archive saves and loads reports under a single directory.
type Archive struct {
	dir string
}

func NewArchive(dir string) *Archive {
	return &Archive{dir: dir}
}

// SaveReport writes the report as an indented JSON file and returns its path.
func (a *Archive) SaveReport(report *Report) (string, error) {
	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", a.dir, err)
	}

	filename := fmt.Sprintf("report_%s.json", report.SessionID)
	path := filepath.Join(a.dir, filename)

	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing report: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}

	return path, nil
}

// LoadReport reads a previously saved report by session id.
func (a *Archive) LoadReport(sessionID string) (*Report, error) {
	path := filepath.Join(a.dir, fmt.Sprintf("report_%s.json", sessionID))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing report JSON: %w", err)
	}

	return &report, nil
}

// ListReports returns the session ids of all saved reports.
func (a *Archive) ListReports() ([]string, error) {
	if _, err := os.Stat(a.dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", a.dir, err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		if strings.HasPrefix(name, "report_") {
			ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(name, "report_"), ".json"))
		}
	}

	return ids, nil
}
