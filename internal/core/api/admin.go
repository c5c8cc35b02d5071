package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/formward/formward/internal/schema"
	"github.com/formward/formward/internal/types"
)

// AddAdminAPI registers the authenticated admin surface.
func (h *HttpEndpoints) AddAdminAPI(rg *gin.RouterGroup) {
	adminGroup := rg.Group("/admin")

	adminGroup.POST("/login", h.adminLogin)

	formsGroup := adminGroup.Group("/forms")
	formsGroup.Use(h.authenticator.Middleware())
	{
		formsGroup.GET("", h.listForms)
		formsGroup.POST("", h.createForm)
		formsGroup.GET("/:formKey", h.getDraft)
		formsGroup.PUT("/:formKey", h.saveDraft)
		formsGroup.POST("/:formKey/publish", h.publishForm)
	}

	uploadsGroup := adminGroup.Group("/uploads")
	uploadsGroup.Use(h.authenticator.Middleware())
	{
		uploadsGroup.POST("", h.uploadAsset)
	}
}

func (h *HttpEndpoints) adminLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.authenticator.Login(req.Email, req.Password)
	if err != nil {
		slog.Warn("admin login failed", slog.String("email", req.Email))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *HttpEndpoints) listForms(c *gin.Context) {
	forms, err := h.forms.List(c.Request.Context())
	if err != nil {
		slog.Error("error listing forms", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error listing forms"})
		return
	}

	items := make([]gin.H, 0, len(forms))
	for _, f := range forms {
		item := gin.H{
			"form_id":       f.FormID,
			"form_key":      f.FormKey,
			"title":         f.Title,
			"draft_version": f.DraftVersion,
			"created_at":    f.CreatedAt,
			"updated_at":    f.UpdatedAt,
		}
		if f.PublishedVersion.Valid {
			item["published_version"] = f.PublishedVersion.Int64
		}
		items = append(items, item)
	}
	c.JSON(http.StatusOK, gin.H{"forms": items})
}

func (h *HttpEndpoints) createForm(c *gin.Context) {
	var req struct {
		FormKey string            `json:"form_key"`
		Title   string            `json:"title"`
		Schema  *types.FormSchema `json:"schema"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.FormKey == "" || req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "form_key and title are required"})
		return
	}
	if req.Schema == nil {
		req.Schema = &types.FormSchema{}
	}

	schema.Normalize(req.Schema)
	if err := schema.Validate(req.Schema); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.forms.Create(c.Request.Context(), req.FormKey, req.Title, req.Schema)
	if err != nil {
		if errors.Is(err, types.ErrFormKeyTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "form key already taken"})
			return
		}
		slog.Error("error creating form", slog.String("formKey", req.FormKey), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error creating form"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"form_id": id, "form_key": req.FormKey, "version": 1})
}

func (h *HttpEndpoints) getDraft(c *gin.Context) {
	formKey := c.Param("formKey")

	draft, err := h.forms.GetDraft(c.Request.Context(), formKey)
	if err != nil {
		if errors.Is(err, types.ErrFormNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "form not found"})
			return
		}
		slog.Error("error loading draft", slog.String("formKey", formKey), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error loading form"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"form_id":  draft.FormID,
		"form_key": draft.FormKey,
		"title":    draft.Title,
		"schema":   draft.Schema,
		"version":  draft.Version,
	})
}

// saveDraft carries the version the admin loaded; a concurrent edit in
// between yields 409 and no write.
func (h *HttpEndpoints) saveDraft(c *gin.Context) {
	formKey := c.Param("formKey")

	var req struct {
		Title   string            `json:"title"`
		Schema  *types.FormSchema `json:"schema"`
		Version int               `json:"version"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Schema == nil || req.Title == "" || req.Version < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, schema and version are required"})
		return
	}

	schema.Normalize(req.Schema)
	if err := schema.Validate(req.Schema); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newVersion, err := h.forms.SaveDraft(c.Request.Context(), formKey, req.Title, req.Schema, req.Version)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrFormNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "form not found"})
		case errors.Is(err, types.ErrVersionConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "draft was modified by someone else, reload and retry"})
		default:
			slog.Error("error saving draft", slog.String("formKey", formKey), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error saving draft"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"form_key": formKey, "version": newVersion})
}

func (h *HttpEndpoints) publishForm(c *gin.Context) {
	formKey := c.Param("formKey")
	ctx := c.Request.Context()

	// Re-validate the draft; a schema that fails integrity checks must not
	// go live even if it somehow got saved.
	draft, err := h.forms.GetDraft(ctx, formKey)
	if err != nil {
		if errors.Is(err, types.ErrFormNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "form not found"})
			return
		}
		slog.Error("error loading draft", slog.String("formKey", formKey), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error loading form"})
		return
	}
	if err := schema.Validate(draft.Schema); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.forms.Publish(ctx, formKey); err != nil {
		slog.Error("error publishing form", slog.String("formKey", formKey), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error publishing form"})
		return
	}

	if h.cache != nil {
		if err := h.cache.InvalidatePublished(ctx, formKey); err != nil {
			slog.Warn("error invalidating schema cache", slog.String("formKey", formKey), slog.String("error", err.Error()))
		}
	}

	slog.Info("form published", slog.String("formKey", formKey), slog.Int("version", draft.Version))
	c.JSON(http.StatusOK, gin.H{"form_key": formKey, "published_version": draft.Version})
}
