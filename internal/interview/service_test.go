package interview

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mock-interview-api/internal/config"
	"mock-interview-api/internal/gateway"
	"mock-interview-api/internal/metrics"
)

func newTestService(gw gateway.Client) *Service {
	return NewService(gw, NewStore(), nil, metrics.NewMetrics(), nil, nil)
}

// gatewayFunc adapts a plain function to gateway.Client for tests that need
// to observe or stall the call.
type gatewayFunc func(ctx context.Context, messages []gateway.Message) string

func (f gatewayFunc) Chat(ctx context.Context, messages []gateway.Message) string {
	return f(ctx, messages)
}

func backendConfig() SessionConfig {
	return SessionConfig{
		Role:            "Backend Engineer",
		ExperienceLevel: "Senior",
		Type:            TypeTechnical,
	}
}

func TestStartCreatesSessionWithFirstQuestion(t *testing.T) {
	mock := gateway.NewMock("Tell me about yourself.")
	svc := newTestService(mock)

	res, err := svc.Start(context.Background(), backendConfig())
	require.NoError(t, err)
	require.NotEmpty(t, res.SessionID)
	assert.Equal(t, "Tell me about yourself.", res.FirstQuestion)

	session, ok := svc.store.Get(res.SessionID)
	require.True(t, ok)
	assert.Len(t, session.Questions, 1)
	assert.Empty(t, session.Answers)
	assert.False(t, session.Finished)
}

func TestStartRejectsIncompleteConfig(t *testing.T) {
	mock := gateway.NewMock()
	svc := newTestService(mock)

	_, err := svc.Start(context.Background(), SessionConfig{Role: "Backend Engineer"})
	require.Error(t, err)
	assert.Empty(t, mock.Calls(), "invalid config must not reach the gateway")
}

func TestStartRejectsEmptyTypeBeforeCoercion(t *testing.T) {
	svc := newTestService(gateway.NewMock())

	_, err := svc.Start(context.Background(), SessionConfig{
		Role:            "Backend Engineer",
		ExperienceLevel: "Senior",
	})
	require.Error(t, err)
}

func TestStartCoercesUnknownTypeToMixed(t *testing.T) {
	mock := gateway.NewMock("Q1")
	svc := newTestService(mock)

	res, err := svc.Start(context.Background(), SessionConfig{
		Role:            "Backend Engineer",
		ExperienceLevel: "Senior",
		Type:            "casual chat",
	})
	require.NoError(t, err)

	session, _ := svc.store.Get(res.SessionID)
	assert.Equal(t, TypeMixed, session.Config.Type)
}

func TestAnswerAppendsTurn(t *testing.T) {
	mock := gateway.NewMock("Q1", "Q2")
	svc := newTestService(mock)

	res, err := svc.Start(context.Background(), backendConfig())
	require.NoError(t, err)

	ans, err := svc.Answer(context.Background(), res.SessionID, "I led the migration to Go.")
	require.NoError(t, err)
	assert.Equal(t, "Q2", ans.NextQuestion)

	session, _ := svc.store.Get(res.SessionID)
	assert.Equal(t, []string{"Q1", "Q2"}, session.Questions)
	assert.Equal(t, []string{"I led the migration to Go."}, session.Answers)
}

func TestAnswerUnknownSessionReturnsSentinel(t *testing.T) {
	mock := gateway.NewMock()
	svc := newTestService(mock)

	res, err := svc.Answer(context.Background(), "no-such-id", "hello")
	require.NoError(t, err)
	assert.Equal(t, AnswerSentinel, res.NextQuestion)
	assert.Empty(t, mock.Calls())
}

func TestAnswerFinishedSessionReturnsSentinel(t *testing.T) {
	mock := gateway.NewMock("Q1", `{"overallSummary": "done"}`)
	svc := newTestService(mock)

	res, err := svc.Start(context.Background(), backendConfig())
	require.NoError(t, err)
	svc.Finish(context.Background(), res.SessionID)

	ans, err := svc.Answer(context.Background(), res.SessionID, "too late")
	require.NoError(t, err)
	assert.Equal(t, AnswerSentinel, ans.NextQuestion)

	session, _ := svc.store.Get(res.SessionID)
	assert.Empty(t, session.Answers, "finished session must not record the answer")
}

func TestAnswerValidation(t *testing.T) {
	svc := newTestService(gateway.NewMock("Q1"))
	res, err := svc.Start(context.Background(), backendConfig())
	require.NoError(t, err)

	cases := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t  "},
		{"too long", strings.Repeat("a b ", 2000)},
		{"repeated characters", strings.Repeat("z", 50)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Answer(context.Background(), res.SessionID, tc.text)
			assert.Error(t, err)
		})
	}
}

func TestFinishReturnsInterpretedFeedback(t *testing.T) {
	evaluation := `{
	  "overallSummary": "Strong candidate.",
	  "scores": {"communication": 8},
	  "strengths": ["clarity"],
	  "areasToImprove": ["depth"],
	  "sampleImprovedAnswers": []
	}`
	mock := gateway.NewMock("Q1", "Q2", evaluation)
	svc := newTestService(mock)

	res, err := svc.Start(context.Background(), backendConfig())
	require.NoError(t, err)
	_, err = svc.Answer(context.Background(), res.SessionID, "My answer.")
	require.NoError(t, err)

	fb := svc.Finish(context.Background(), res.SessionID)

	assert.Equal(t, "Strong candidate.", fb.OverallSummary)
	score, ok := fb.Scores.Get("communication")
	require.True(t, ok)
	assert.Equal(t, 8, score)

	session, _ := svc.store.Get(res.SessionID)
	assert.True(t, session.Finished)

	// The evaluation prompt carries the numbered transcript.
	calls := mock.Calls()
	require.Len(t, calls, 3)
	evalPrompt := calls[2][1].Content
	assert.Contains(t, evalPrompt, "Q1: Q1")
	assert.Contains(t, evalPrompt, "A1: My answer.")
}

func TestFinishUnknownSessionReturnsDegradedRecord(t *testing.T) {
	mock := gateway.NewMock()
	svc := newTestService(mock)

	fb := svc.Finish(context.Background(), "no-such-id")

	assert.Equal(t, NotFoundSummary, fb.OverallSummary)
	assert.Equal(t, 0, fb.Scores.Len())
	assert.Empty(t, mock.Calls())
}

func TestFinishTwiceSecondCallDegradesWithoutGatewayCall(t *testing.T) {
	mock := gateway.NewMock("Q1", `{"overallSummary": "done"}`)
	svc := newTestService(mock)

	res, err := svc.Start(context.Background(), backendConfig())
	require.NoError(t, err)

	first := svc.Finish(context.Background(), res.SessionID)
	assert.Equal(t, "done", first.OverallSummary)

	callsAfterFirst := len(mock.Calls())
	second := svc.Finish(context.Background(), res.SessionID)
	assert.Equal(t, NotFoundSummary, second.OverallSummary)
	assert.Equal(t, callsAfterFirst, len(mock.Calls()), "second finish must not call the gateway")
}

func TestFinishWithNonJSONFeedbackFallsBack(t *testing.T) {
	mock := gateway.NewMock("Q1", "The candidate did fine, no JSON today.")
	svc := newTestService(mock)

	res, err := svc.Start(context.Background(), backendConfig())
	require.NoError(t, err)

	fb := svc.Finish(context.Background(), res.SessionID)
	assert.Equal(t, "The candidate did fine, no JSON today.", fb.OverallSummary)
	assert.Empty(t, fb.Strengths)
}

func TestConcurrentAnswersKeepPairingIntact(t *testing.T) {
	mock := gateway.NewMock()
	svc := newTestService(mock)

	res, err := svc.Start(context.Background(), backendConfig())
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Answer(context.Background(), res.SessionID, fmt.Sprintf("answer number %d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	session, _ := svc.store.Get(res.SessionID)
	require.Len(t, session.Answers, workers)
	require.Len(t, session.Questions, workers+1)

	want := make([]string, 0, workers)
	for i := 0; i < workers; i++ {
		want = append(want, fmt.Sprintf("answer number %d", i))
	}
	assert.ElementsMatch(t, want, session.Answers)

	// Each follow-up prompt quotes the answer it responds to together with
	// the question that was outstanding at that moment, so the recorded
	// batches prove every answer was paired with the question at its own
	// index and not one appended by a racing turn.
	calls := mock.Calls()
	require.Len(t, calls, workers+1)
	for _, call := range calls[1:] {
		content := call[1].Content
		matched := false
		for j, answer := range session.Answers {
			if strings.Contains(content, `"`+answer+`"`) {
				assert.Contains(t, content, `"`+session.Questions[j]+`"`)
				matched = true
				break
			}
		}
		assert.True(t, matched, "follow-up prompt does not quote any recorded answer")
	}
}

func TestStartRegistersSessionWithFirstQuestionInPlace(t *testing.T) {
	store := NewStore()

	var registeredDuringOpening int
	gw := gatewayFunc(func(_ context.Context, _ []gateway.Message) string {
		registeredDuringOpening = store.Len()
		return "Q1"
	})
	svc := NewService(gw, store, nil, nil, nil, nil)

	res, err := svc.Start(context.Background(), backendConfig())
	require.NoError(t, err)

	assert.Equal(t, 0, registeredDuringOpening,
		"session must not be reachable before its first question exists")

	session, ok := store.Get(res.SessionID)
	require.True(t, ok)
	assert.Equal(t, []string{"Q1"}, session.Questions)
	assert.Empty(t, session.Answers)
}

func TestEvictIdleDoesNotBlockRegistryDuringInFlightTurn(t *testing.T) {
	store := NewStore()

	entered := make(chan struct{})
	release := make(chan struct{})
	gw := gatewayFunc(func(_ context.Context, messages []gateway.Message) string {
		if strings.Contains(messages[1].Content, "FIRST") {
			return "Q1"
		}
		close(entered)
		<-release
		return "Q2"
	})
	svc := NewService(gw, store, nil, nil, nil, nil)

	res, err := svc.Start(context.Background(), backendConfig())
	require.NoError(t, err)

	answered := make(chan struct{})
	go func() {
		defer close(answered)
		_, err := svc.Answer(context.Background(), res.SessionID, "let me think about that")
		assert.NoError(t, err)
	}()
	<-entered

	// The busy session holds its own lock for the whole gateway call. The
	// janitor must skip it rather than wait, and must not stall the registry.
	evicted := store.evictIdle(time.Now().Add(time.Hour))
	assert.Equal(t, 0, evicted, "session with a turn in flight is not idle")

	created := make(chan struct{})
	go func() {
		defer close(created)
		store.Create(SessionConfig{Role: "r", ExperienceLevel: "e", Type: TypeMixed}, "q")
	}()

	select {
	case <-created:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("registry blocked while a turn was in flight")
	}

	close(release)
	<-answered

	session, ok := store.Get(res.SessionID)
	require.True(t, ok)
	assert.Equal(t, []string{"Q1", "Q2"}, session.Questions)
	assert.Equal(t, []string{"let me think about that"}, session.Answers)
}

func TestFullInterviewFlow(t *testing.T) {
	evaluation := `{"overallSummary": "Good run.", "scores": {"structure": 7}}`
	mock := gateway.NewMock(
		"What drew you to backend work?",
		"How do you handle production incidents?",
		"What would you do differently?",
		evaluation,
	)
	svc := newTestService(mock)

	res, err := svc.Start(context.Background(), backendConfig())
	require.NoError(t, err)
	assert.Equal(t, "What drew you to backend work?", res.FirstQuestion)

	a1, err := svc.Answer(context.Background(), res.SessionID, "I like distributed systems.")
	require.NoError(t, err)
	assert.Equal(t, "How do you handle production incidents?", a1.NextQuestion)

	a2, err := svc.Answer(context.Background(), res.SessionID, "Triage, mitigate, then root-cause.")
	require.NoError(t, err)
	assert.Equal(t, "What would you do differently?", a2.NextQuestion)

	fb := svc.Finish(context.Background(), res.SessionID)
	assert.Equal(t, "Good run.", fb.OverallSummary)

	session, _ := svc.store.Get(res.SessionID)
	assert.Len(t, session.Questions, 3)
	assert.Len(t, session.Answers, 2)
	assert.True(t, session.Finished)
}

func TestMaxAnswerLengthFromSettings(t *testing.T) {
	settings := config.DefaultInterviewSettings()
	settings.MaxAnswerLength = 20
	svc := NewService(gateway.NewMock("Q1"), NewStore(), settings, nil, nil, nil)

	res, err := svc.Start(context.Background(), backendConfig())
	require.NoError(t, err)

	_, err = svc.Answer(context.Background(), res.SessionID, "this answer is clearly longer than twenty characters")
	assert.Error(t, err)

	_, err = svc.Answer(context.Background(), res.SessionID, "short one")
	assert.NoError(t, err)
}
