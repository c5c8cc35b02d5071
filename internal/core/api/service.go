// Package api provides the gin HTTP handlers for the Formward service.
//
// Thin orchestration layer: handlers bind and classify, domain packages
// decide. Error mapping is done inline in handlers; sentinel errors from
// internal/types select the status code.
package api

import (
	"context"
	"fmt"

	"github.com/formward/formward/internal/core/auth"
	"github.com/formward/formward/internal/core/cache"
	"github.com/formward/formward/internal/core/config"
	"github.com/formward/formward/internal/core/store"
	"github.com/formward/formward/internal/types"
)

// Notifier is the sales notification collaborator. Optional.
type Notifier interface {
	SubmissionReceived(ctx context.Context, formID types.FormID, rec *types.SubmissionRecord) error
}

// HttpEndpoints holds the handler dependencies.
type HttpEndpoints struct {
	forms         *store.FormStore
	submissions   *store.SubmissionStore
	cache         *cache.SchemaCache // nil disables caching
	notifier      Notifier           // nil disables notifications
	authenticator *auth.Authenticator
	cfg           *config.Config
}

// NewHttpEndpoints wires the API handlers. cache and notifier may be nil.
func NewHttpEndpoints(
	forms *store.FormStore,
	submissions *store.SubmissionStore,
	schemaCache *cache.SchemaCache,
	notifier Notifier,
	authenticator *auth.Authenticator,
	cfg *config.Config,
) (*HttpEndpoints, error) {
	if forms == nil {
		return nil, fmt.Errorf("forms store cannot be nil")
	}
	if submissions == nil {
		return nil, fmt.Errorf("submissions store cannot be nil")
	}
	if authenticator == nil {
		return nil, fmt.Errorf("authenticator cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}

	return &HttpEndpoints{
		forms:         forms,
		submissions:   submissions,
		cache:         schemaCache,
		notifier:      notifier,
		authenticator: authenticator,
		cfg:           cfg,
	}, nil
}

// publishedForm loads a published form, cache first.
func (h *HttpEndpoints) publishedForm(ctx context.Context, formKey string) (*cache.PublishedForm, error) {
	if h.cache != nil {
		if form, found, err := h.cache.GetPublished(ctx, formKey); err == nil && found {
			return form, nil
		}
	}

	pub, err := h.forms.GetPublished(ctx, formKey)
	if err != nil {
		return nil, err
	}
	form := &cache.PublishedForm{FormID: pub.FormID, Schema: pub.Schema, Version: pub.Version}
	if h.cache != nil {
		// Best-effort; a cache write failure never fails the read.
		_ = h.cache.SetPublished(ctx, formKey, form)
	}
	return form, nil
}
