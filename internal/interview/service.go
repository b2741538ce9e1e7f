package interview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"mock-interview-api/internal/config"
	"mock-interview-api/internal/feedback"
	"mock-interview-api/internal/gateway"
	"mock-interview-api/internal/metrics"
	"mock-interview-api/internal/prompts"
	"mock-interview-api/internal/storage"
)

// AnswerSentinel is returned in place of a question when an answer targets an
// unknown or finished session. Soft payload, not an error: the caller still
// gets a readable response.
const AnswerSentinel = "Session not found or already finished."

// NotFoundSummary is the overall summary of the degraded feedback returned
// when finish targets an unknown or already-finished session.
const NotFoundSummary = "Session not found."

// Service drives the interview state machine: start creates a session and
// posts the opening question, answer appends one turn, finish renders the
// transcript and interprets the model's evaluation. Apart from invalid input,
// nothing here returns an error; failures degrade to soft payloads.
type Service struct {
	gateway  gateway.Client
	store    *Store
	prompts  *prompts.Builder
	settings *config.InterviewSettings
	metrics  *metrics.Metrics
	archive  *storage.Archive
	log      *zap.Logger
	validate *validator.Validate
}

func NewService(
	gw gateway.Client,
	store *Store,
	settings *config.InterviewSettings,
	m *metrics.Metrics,
	archive *storage.Archive,
	log *zap.Logger,
) *Service {
	if settings == nil {
		settings = config.DefaultInterviewSettings()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		gateway:  gw,
		store:    store,
		prompts:  prompts.NewBuilder(settings),
		settings: settings,
		metrics:  m,
		archive:  archive,
		log:      log,
		validate: validator.New(),
	}
}

type StartResult struct {
	SessionID     string `json:"sessionId"`
	FirstQuestion string `json:"firstQuestion"`
}

type AnswerResult struct {
	NextQuestion string `json:"nextQuestion"`
}

// Start validates the config, obtains the opening question and only then
// registers the session. The session never becomes reachable without its
// first question, so a concurrent answer cannot slip in ahead of it.
// Invalid config is rejected before any gateway call.
func (s *Service) Start(ctx context.Context, cfg SessionConfig) (*StartResult, error) {
	if err := s.validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid interview config: %w", err)
	}
	cfg.Type = ParseInterviewType(string(cfg.Type))

	messages := s.prompts.Opening(cfg.Role, cfg.ExperienceLevel, string(cfg.Type))
	question := s.gateway.Chat(ctx, messages)

	session := s.store.Create(cfg, question)

	if s.metrics != nil {
		s.metrics.IncrementInterviewsStarted()
	}
	s.log.Info("interview started",
		zap.String("session_id", session.ID),
		zap.String("role", cfg.Role),
		zap.String("type", string(cfg.Type)))

	return &StartResult{SessionID: session.ID, FirstQuestion: question}, nil
}

// Answer records the candidate's answer and posts the follow-up question.
// An unknown or finished session yields the sentinel message and no mutation.
// The session lock is held across the gateway call so concurrent answers to
// the same session serialize.
func (s *Service) Answer(ctx context.Context, sessionID, text string) (*AnswerResult, error) {
	text = strings.TrimSpace(text)
	if err := s.validateAnswer(text); err != nil {
		return nil, err
	}

	session, ok := s.store.Get(sessionID)
	if !ok {
		return &AnswerResult{NextQuestion: AnswerSentinel}, nil
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.Finished {
		return &AnswerResult{NextQuestion: AnswerSentinel}, nil
	}

	lastQuestion := "No previous question."
	if len(session.Questions) > 0 {
		lastQuestion = session.Questions[len(session.Questions)-1]
	}

	session.Answers = append(session.Answers, text)

	cfg := session.Config
	messages := s.prompts.FollowUp(cfg.Role, cfg.ExperienceLevel, string(cfg.Type), lastQuestion, text)
	nextQuestion := s.gateway.Chat(ctx, messages)

	session.Questions = append(session.Questions, nextQuestion)
	session.LastActivity = time.Now()

	if s.metrics != nil {
		s.metrics.IncrementAnswersProcessed()
	}
	s.log.Info("answer processed",
		zap.String("session_id", session.ID),
		zap.Int("turn", len(session.Answers)))

	return &AnswerResult{NextQuestion: nextQuestion}, nil
}

// Finish marks the session terminal, evaluates the full transcript and
// interprets the result. Unknown and already-finished sessions both yield the
// degraded record without a gateway call.
func (s *Service) Finish(ctx context.Context, sessionID string) feedback.Feedback {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return notFoundFeedback()
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.Finished {
		return notFoundFeedback()
	}

	session.Finished = true
	session.LastActivity = time.Now()

	cfg := session.Config
	transcript := prompts.RenderTranscript(session.Questions, session.Answers)
	messages := s.prompts.Evaluation(cfg.Role, cfg.ExperienceLevel, string(cfg.Type), transcript)

	raw := s.gateway.Chat(ctx, messages)
	fb := feedback.Interpret(raw)

	if s.metrics != nil {
		s.metrics.IncrementInterviewsFinished()
	}
	s.log.Info("interview finished",
		zap.String("session_id", session.ID),
		zap.Int("questions", len(session.Questions)),
		zap.Int("answers", len(session.Answers)))

	if s.archive != nil {
		report := &storage.Report{
			SessionID:       session.ID,
			GeneratedAt:     time.Now().Format(time.RFC3339),
			Role:            cfg.Role,
			ExperienceLevel: cfg.ExperienceLevel,
			InterviewType:   string(cfg.Type),
			Transcript:      transcript,
			Feedback:        fb,
		}
		if _, err := s.archive.SaveReport(report); err != nil {
			s.log.Warn("failed to archive report",
				zap.String("session_id", session.ID),
				zap.Error(err))
		}
	}

	return fb
}

func (s *Service) validateAnswer(text string) error {
	if text == "" {
		return fmt.Errorf("answer text must not be empty")
	}

	if len(text) > s.settings.MaxAnswerLength {
		return fmt.Errorf("answer is too long (maximum %d characters)", s.settings.MaxAnswerLength)
	}

	// Crude spam guard: a message that is mostly one repeated character.
	if len(text) > 10 && strings.Count(text, text[:1]) > len(text)*8/10 {
		return fmt.Errorf("answer contains too many repeated characters")
	}

	return nil
}

func notFoundFeedback() feedback.Feedback {
	fb := feedback.New()
	fb.OverallSummary = NotFoundSummary
	return fb
}
