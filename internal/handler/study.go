package handler

import (
	"fmt"

	"studygen/internal/dto"
	"studygen/internal/logger"
	"studygen/internal/pdf"
	"studygen/internal/service"
	"studygen/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StudyHandler handles study-pack and session HTTP requests
type StudyHandler struct {
	study     service.StudyService
	sessions  service.SessionService
	tokens    service.TokenService
	validator *validation.Validator
}

// NewStudyHandler creates a new StudyHandler instance
func NewStudyHandler(study service.StudyService, sessions service.SessionService, tokens service.TokenService) *StudyHandler {
	return &StudyHandler{
		study:     study,
		sessions:  sessions,
		tokens:    tokens,
		validator: validation.NewValidator(),
	}
}

// GenerateOutline godoc
// @Summary Generate a topic outline
// @Description Produces a short numbered outline for a topic as a preview step
// @Tags study
// @Accept json
// @Produce json
// @Param request body dto.OutlineRequest true "Topic"
// @Success 200 {object} dto.OutlineResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /outline [post]
func (h *StudyHandler) GenerateOutline(c *fiber.Ctx) error {
	var req dto.OutlineRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if errs := h.validator.ValidateTopic(req.Topic); len(errs) > 0 {
		return errs
	}

	outline, err := h.study.GenerateOutline(c.Context(), req.Topic)
	if err != nil {
		return err
	}

	return c.JSON(dto.OutlineResponse{Topic: req.Topic, Outline: outline})
}

// CreateStudyPack godoc
// @Summary Generate a full study pack
// @Description Generates notes, references, illustrations, and a 10-question quiz for a topic, and opens a session over it
// @Tags study
// @Accept json
// @Produce json
// @Param request body dto.CreatePackRequest true "Topic"
// @Success 201 {object} dto.StudyPackResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /study-packs [post]
func (h *StudyHandler) CreateStudyPack(c *fiber.Ctx) error {
	var req dto.CreatePackRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if errs := h.validator.ValidateTopic(req.Topic); len(errs) > 0 {
		return errs
	}

	pack, err := h.study.GeneratePack(c.Context(), req.Topic)
	if err != nil {
		return err
	}

	session, err := h.sessions.CreateSession(c.Context(), pack)
	if err != nil {
		return err
	}

	token, err := h.tokens.IssueSessionToken(session.ID)
	if err != nil {
		return err
	}

	logger.Get().Info("Study pack generated",
		zap.String("topic", req.Topic),
		zap.String("session_id", session.ID),
		zap.Bool("quiz_fallback", pack.QuizFallback),
	)

	return c.Status(fiber.StatusCreated).JSON(dto.FromStudyPack(pack, session.ID, token))
}

// GetSession godoc
// @Summary Get session state
// @Description Returns the quiz, recorded answers, and submission state for a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id} [get]
// @Security ApiKeyAuth
func (h *StudyHandler) GetSession(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	if errs := h.validator.ValidateSessionID(sessionID); len(errs) > 0 {
		return errs
	}

	session, err := h.sessions.GetSession(c.Context(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromSession(session))
}

// RecordAnswer godoc
// @Summary Record an answer
// @Description Records the user's choice for one question; choice -1 clears it
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.RecordAnswerRequest true "Answer"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id}/answers [put]
// @Security ApiKeyAuth
func (h *StudyHandler) RecordAnswer(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	if errs := h.validator.ValidateSessionID(sessionID); len(errs) > 0 {
		return errs
	}

	var req dto.RecordAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.sessions.RecordAnswer(c.Context(), sessionID, req.Question, req.Choice)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromSession(session))
}

// SubmitQuiz godoc
// @Summary Submit the quiz
// @Description Grades the recorded answers; all questions must be answered
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SubmitResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id}/submit [post]
// @Security ApiKeyAuth
func (h *StudyHandler) SubmitQuiz(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	if errs := h.validator.ValidateSessionID(sessionID); len(errs) > 0 {
		return errs
	}

	result, err := h.sessions.Submit(c.Context(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromQuizResult(result))
}

// ResetSession godoc
// @Summary Reset a session
// @Description Clears recorded answers and the submission flag
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id}/reset [post]
// @Security ApiKeyAuth
func (h *StudyHandler) ResetSession(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	if errs := h.validator.ValidateSessionID(sessionID); len(errs) > 0 {
		return errs
	}

	session, err := h.sessions.Reset(c.Context(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromSession(session))
}

// DeleteSession godoc
// @Summary Delete a session
// @Description Discards the session and its stored state entirely
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id} [delete]
// @Security ApiKeyAuth
func (h *StudyHandler) DeleteSession(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	if errs := h.validator.ValidateSessionID(sessionID); len(errs) > 0 {
		return errs
	}

	if err := h.sessions.DeleteSession(c.Context(), sessionID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadPDF godoc
// @Summary Download a PDF export
// @Description Exports the session's notes, quiz, or answer key as PDF
// @Tags sessions
// @Produce application/pdf
// @Param id path string true "Session ID"
// @Param kind path string true "Export kind" Enums(notes, quiz, answer-key)
// @Success 200 {file} binary
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id}/pdf/{kind} [get]
// @Security ApiKeyAuth
func (h *StudyHandler) DownloadPDF(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	if errs := h.validator.ValidateSessionID(sessionID); len(errs) > 0 {
		return errs
	}

	session, err := h.sessions.GetSession(c.Context(), sessionID)
	if err != nil {
		return err
	}

	var (
		data     []byte
		filename string
	)
	switch kind := c.Params("kind"); kind {
	case "notes":
		data, err = pdf.Notes(fmt.Sprintf("Notes: %s", session.Pack.Topic), session.Pack.NotesMarkdown)
		filename = "notes.pdf"
	case "quiz":
		data, err = pdf.Quiz(fmt.Sprintf("Quiz: %s", session.Pack.Topic), session.Pack.Quiz)
		filename = "quiz.pdf"
	case "answer-key":
		data, err = pdf.AnswerKey(fmt.Sprintf("Answer Key: %s", session.Pack.Topic), session.Pack.Quiz)
		filename = "answer_key.pdf"
	default:
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("unknown export kind: %s", kind))
	}
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(data)
}
