package server

type StartInterviewRequest struct {
	Role            string `json:"role" validate:"required"`
	ExperienceLevel string `json:"experienceLevel" validate:"required"`
	InterviewType   string `json:"interviewType" validate:"required"`
}

type SubmitAnswerRequest struct {
	Text string `json:"text" validate:"required"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
