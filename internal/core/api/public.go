package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/formward/formward/internal/runtime"
	"github.com/formward/formward/internal/submission"
	"github.com/formward/formward/internal/types"
	"github.com/formward/formward/internal/validate"
)

// AddPublicAPI registers the unauthenticated visitor surface.
func (h *HttpEndpoints) AddPublicAPI(rg *gin.RouterGroup) {
	formsGroup := rg.Group("/forms/:formKey")
	{
		formsGroup.GET("", h.getPublishedForm)
		formsGroup.POST("/submissions", h.submitAssessment)
		formsGroup.GET("/report/:submissionID", h.getReport)
	}

	rg.POST("/newsletter", h.subscribeNewsletter)
}

func (h *HttpEndpoints) getPublishedForm(c *gin.Context) {
	formKey := c.Param("formKey")

	form, err := h.publishedForm(c.Request.Context(), formKey)
	if err != nil {
		if errors.Is(err, types.ErrFormNotFound) || errors.Is(err, types.ErrNotPublished) {
			c.JSON(http.StatusNotFound, gin.H{"error": "form not found"})
			return
		}
		slog.Error("error loading published form", slog.String("formKey", formKey), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error loading form"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"form_id": form.FormID,
		"schema":  form.Schema,
		"version": form.Version,
	})
}

// submitAssessment drives a server-side session over the published schema:
// the submitted answers replay through visibility and validation exactly as
// the client saw them, then hand off to the submission pipeline.
func (h *HttpEndpoints) submitAssessment(c *gin.Context) {
	formKey := c.Param("formKey")
	ctx := c.Request.Context()

	var req struct {
		Answers map[string]any `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Answers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "answers are required"})
		return
	}

	form, err := h.publishedForm(ctx, formKey)
	if err != nil {
		if errors.Is(err, types.ErrFormNotFound) || errors.Is(err, types.ErrNotPublished) {
			c.JSON(http.StatusNotFound, gin.H{"error": "form not found"})
			return
		}
		slog.Error("error loading published form", slog.String("formKey", formKey), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error loading form"})
		return
	}

	var subCache submission.Cache
	if h.cache != nil {
		subCache = h.cache
	}
	handler := submission.NewHandler(form.FormID, h.submissions, subCache, h.notifier)
	sess := runtime.New(form.Schema, handler)

	for id, value := range req.Answers {
		if err := sess.SetAnswer(types.FieldID(id), value); err != nil {
			// Unknown field ids are dropped rather than rejected; stale
			// clients may carry answers for removed fields.
			if errors.Is(err, types.ErrUnknownField) {
				continue
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	// Walk every step so per-step validation applies to the whole answer set.
	for {
		fieldErrs, err := sess.Next()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(fieldErrs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fieldErrorsJSON(fieldErrs)})
			return
		}
		if _, ok := sess.CurrentStep(); !ok {
			break
		}
	}

	if err := sess.Submit(ctx); err != nil {
		switch {
		case errors.Is(err, types.ErrInvalidAnswers),
			errors.Is(err, types.ErrMissingRequiredField),
			errors.Is(err, types.ErrInvalidEmail),
			errors.Is(err, types.ErrInvalidPhone):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			slog.Error("error persisting submission", slog.String("formKey", formKey), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error storing submission"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "received"})
}

// subscribeNewsletter is duplicate-key tolerant: re-subscribing the same
// email reports success.
func (h *HttpEndpoints) subscribeNewsletter(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validate.Email(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email address"})
		return
	}

	if err := h.submissions.SubscribeNewsletter(c.Request.Context(), req.Email); err != nil {
		if !errors.Is(err, types.ErrDuplicateSubmission) {
			slog.Error("error subscribing to newsletter", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error subscribing"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "subscribed"})
}

func fieldErrorsJSON(errs []validate.FieldError) []gin.H {
	out := make([]gin.H, 0, len(errs))
	for _, e := range errs {
		out = append(out, gin.H{"field_id": e.FieldID, "message": e.Message})
	}
	return out
}
