package server

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"mock-interview-api/internal/interview"
	"mock-interview-api/internal/metrics"
)

// InterviewController exposes the interview engine over HTTP. Not-found and
// already-finished conditions come back as 200 responses with soft payloads;
// only malformed or invalid input produces a 400.
type InterviewController struct {
	service *interview.Service
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewInterviewController(service *interview.Service, m *metrics.Metrics, log *zap.Logger) *InterviewController {
	if log == nil {
		log = zap.NewNop()
	}
	return &InterviewController{
		service: service,
		metrics: m,
		log:     log,
	}
}

func (c *InterviewController) RegisterRoutes(r fiber.Router) {
	g := r.Group("/api/interview")
	g.Get("", c.Health)
	g.Get("/metrics", c.Metrics)
	g.Post("/start", c.Start)
	g.Post("/:sessionId/answer", c.Answer)
	g.Post("/:sessionId/finish", c.Finish)
}

func (c *InterviewController) Health(ctx *fiber.Ctx) error {
	return ctx.SendString("Interview API is up")
}

func (c *InterviewController) Metrics(ctx *fiber.Ctx) error {
	return ctx.JSON(c.metrics.GetSnapshot())
}

func (c *InterviewController) Start(ctx *fiber.Ctx) error {
	var req StartInterviewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	if err := validateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	cfg := interview.SessionConfig{
		Role:            req.Role,
		ExperienceLevel: req.ExperienceLevel,
		Type:            interview.InterviewType(req.InterviewType),
	}

	res, err := c.service.Start(ctx.Context(), cfg)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	return ctx.JSON(res)
}

func (c *InterviewController) Answer(ctx *fiber.Ctx) error {
	var req SubmitAnswerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	if err := validateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	res, err := c.service.Answer(ctx.Context(), ctx.Params("sessionId"), req.Text)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	return ctx.JSON(res)
}

func (c *InterviewController) Finish(ctx *fiber.Ctx) error {
	fb := c.service.Finish(ctx.Context(), ctx.Params("sessionId"))
	return ctx.JSON(fb)
}
