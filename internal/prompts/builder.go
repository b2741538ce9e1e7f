// Package prompts builds the message lists sent to the language model
// gateway. Every builder produces exactly two messages: the persona as a
// system message and one user message carrying the task. The full transcript
// is only ever sent at evaluation time.
package prompts

import (
	"fmt"
	"strings"

	"mock-interview-api/internal/config"
	"mock-interview-api/internal/gateway"
)

type Builder struct {
	settings *config.InterviewSettings
}

func NewBuilder(settings *config.InterviewSettings) *Builder {
	if settings == nil {
		settings = config.DefaultInterviewSettings()
	}
	return &Builder{settings: settings}
}

// Opening asks the model for the first question of a fresh interview.
func (b *Builder) Opening(role, experienceLevel, interviewType string) []gateway.Message {
	prompt := fmt.Sprintf(`You are an AI interviewer for the role: %s.
Candidate experience level: %s.
Interview type: %s (technical, behavioral, HR, or mixed).
Ask the FIRST interview question. Keep it clear and conversational, 1-2 sentences.`,
		role, experienceLevel, interviewType)

	return []gateway.Message{
		{Role: gateway.RoleSystem, Content: b.settings.InterviewerPersona},
		{Role: gateway.RoleUser, Content: prompt},
	}
}

// FollowUp asks for one follow-up question based on the most recent exchange
// only. Earlier turns are deliberately not included.
func (b *Builder) FollowUp(role, experienceLevel, interviewType, lastQuestion, answerText string) []gateway.Message {
	prompt := fmt.Sprintf(`You are continuing a mock interview.
Role: %s, experience: %s, type: %s.
The last question was: "%s"
The candidate answered: "%s"

Based on this answer, ask ONE good follow-up interview question.
It can be a deeper technical probe, a behavioral follow-up, or a clarification.
Keep it short (1-2 sentences).`,
		role, experienceLevel, interviewType, lastQuestion, answerText)

	return []gateway.Message{
		{Role: gateway.RoleSystem, Content: b.settings.InterviewerPersona},
		{Role: gateway.RoleUser, Content: prompt},
	}
}

// Evaluation asks the model to grade the whole interview and reply with a
// strict JSON object.
func (b *Builder) Evaluation(role, experienceLevel, interviewType, transcript string) []gateway.Message {
	var prompt strings.Builder

	prompt.WriteString("You are an interview coach. Evaluate this mock interview.\n\n")
	prompt.WriteString(fmt.Sprintf("Role: %s\n", role))
	prompt.WriteString(fmt.Sprintf("Experience level: %s\n", experienceLevel))
	prompt.WriteString(fmt.Sprintf("Interview type: %s\n\n", interviewType))
	prompt.WriteString("Conversation:\n")
	prompt.WriteString(transcript)
	prompt.WriteString("\n")
	prompt.WriteString("Respond ONLY in strict JSON with the following schema.\n")
	prompt.WriteString("Do NOT wrap it in ```json or any markdown fences.\n\n")
	prompt.WriteString(`{
  "overallSummary": "string",
  "scores": {
    "communication": 0-10,
    "technicalDepth": 0-10,
    "structure": 0-10,
    "confidence": 0-10
  },
  "strengths": ["string"],
  "areasToImprove": ["string"],
  "sampleImprovedAnswers": [
    {
      "question": "string",
      "improvedAnswer": "string"
    }
  ]
}`)

	return []gateway.Message{
		{Role: gateway.RoleSystem, Content: b.settings.CoachPersona},
		{Role: gateway.RoleUser, Content: prompt.String()},
	}
}

// RenderTranscript numbers every question Q1..Qn and pairs each with its
// answer A1..An. A trailing unanswered question gets no answer line.
func RenderTranscript(questions, answers []string) string {
	var convo strings.Builder
	for i, question := range questions {
		convo.WriteString(fmt.Sprintf("Q%d: %s\n", i+1, question))
		if i < len(answers) {
			convo.WriteString(fmt.Sprintf("A%d: %s\n\n", i+1, answers[i]))
		}
	}
	return convo.String()
}
