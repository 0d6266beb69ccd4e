package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/siriuscareer/career-admin/internal/middleware"
	"github.com/siriuscareer/career-admin/internal/model"
	"github.com/siriuscareer/career-admin/internal/response"
	"github.com/siriuscareer/career-admin/internal/service"
	"github.com/siriuscareer/career-admin/internal/validator"
)

// TestHandler serves the admin test management endpoints.
type TestHandler struct {
	testService *service.TestService
	log         zerolog.Logger
}

func NewTestHandler(testService *service.TestService, log zerolog.Logger) *TestHandler {
	return &TestHandler{
		testService: testService,
		log:         log.With().Str("component", "test_handler").Logger(),
	}
}

// List handles GET /admin/tests.
func (h *TestHandler) List(c *gin.Context) {
	tests, err := h.testService.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, tests)
}

// ListActive handles GET /admin/tests/active/.
func (h *TestHandler) ListActive(c *gin.Context) {
	tests, err := h.testService.GetActive(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, tests)
}

// ListInactive handles GET /admin/tests/inactive/.
func (h *TestHandler) ListInactive(c *gin.Context) {
	tests, err := h.testService.GetInactive(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, tests)
}

// Get handles GET /admin/tests/:slug.
func (h *TestHandler) Get(c *gin.Context) {
	test, err := h.testService.GetDetails(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, test)
}

// Create handles POST /admin/tests.
func (h *TestHandler) Create(c *gin.Context) {
	var req model.CreateTestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		failBinding(c, fields)
		return
	}

	test, err := h.testService.Create(c.Request.Context(), req.ToTest())
	if err != nil {
		h.fail(c, err)
		return
	}

	h.log.Info().
		Str("actor", middleware.Identity(c)).
		Str("slug", test.Slug).
		Msg("Test created via admin API")
	response.Success(c, http.StatusCreated, test)
}

// Update handles PUT /admin/tests/:slug.
func (h *TestHandler) Update(c *gin.Context) {
	var req model.UpdateTestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		failBinding(c, fields)
		return
	}

	test, err := h.testService.Update(c.Request.Context(), c.Param("slug"), req.ToPatch())
	if err != nil {
		h.fail(c, err)
		return
	}

	h.log.Info().
		Str("actor", middleware.Identity(c)).
		Str("slug", test.Slug).
		Msg("Test updated via admin API")
	response.Success(c, http.StatusOK, test)
}

// Delete handles DELETE /admin/tests/:slug. Success carries no body.
func (h *TestHandler) Delete(c *gin.Context) {
	slug := c.Param("slug")
	if err := h.testService.Delete(c.Request.Context(), slug); err != nil {
		h.fail(c, err)
		return
	}

	h.log.Info().
		Str("actor", middleware.Identity(c)).
		Str("slug", slug).
		Msg("Test deleted via admin API")
	response.NoContent(c)
}

// fail maps a service error onto the response envelope.
func (h *TestHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTestNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
	case errors.Is(err, service.ErrSlugConflict):
		response.Fail(c, http.StatusConflict, response.ErrSlugConflict)
	case errors.Is(err, service.ErrHasResults):
		response.Fail(c, http.StatusConflict, response.ErrHasResults)
	case errors.Is(err, service.ErrInvalidOrder):
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrInvalidOrder, ruleFields(err))
	case errors.Is(err, service.ErrInvalidConfig):
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrInvalidConfig, ruleFields(err))
	case errors.Is(err, service.ErrIntegrity):
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("Integrity violation")
		response.Fail(c, http.StatusInternalServerError, response.ErrIntegrity)
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled service error")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

func ruleFields(err error) map[string]string {
	var target *validator.RuleError
	if errors.As(err, &target) {
		return map[string]string{target.Field: target.Message}
	}
	return nil
}

func failBinding(c *gin.Context, fields map[string]string) {
	if validator.IsMalformed(fields) {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload, fields)
		return
	}
	response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
}
