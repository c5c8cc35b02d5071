// Package cache holds the published-schema cache and assessment view
// revalidation on Redis. A nil *SchemaCache disables caching entirely;
// callers fall through to the store.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/formward/formward/internal/types"
)

const publishedTTL = 5 * time.Minute

// PublishedForm is the cached view of a published form.
type PublishedForm struct {
	FormID  types.FormID      `json:"form_id"`
	Schema  *types.FormSchema `json:"schema"`
	Version int               `json:"version"`
}

// SchemaCache caches published schemas by form key and tracks which
// assessment views need revalidation after a new submission.
type SchemaCache struct {
	client *redis.Client
}

// New wraps a Redis client.
func New(client *redis.Client) *SchemaCache {
	return &SchemaCache{client: client}
}

// GetPublished returns a cached form, or found=false on a miss.
func (c *SchemaCache) GetPublished(ctx context.Context, formKey string) (*PublishedForm, bool, error) {
	v, err := c.client.Get(ctx, schemaKey(formKey)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var form PublishedForm
	if err := json.Unmarshal([]byte(v), &form); err != nil {
		return nil, false, err
	}
	return &form, true, nil
}

// SetPublished caches a published form with a short TTL.
func (c *SchemaCache) SetPublished(ctx context.Context, formKey string, form *PublishedForm) error {
	b, err := json.Marshal(form)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, schemaKey(formKey), b, publishedTTL).Err()
}

// InvalidatePublished drops the cached schema after a publish.
func (c *SchemaCache) InvalidatePublished(ctx context.Context, formKey string) error {
	return c.client.Del(ctx, schemaKey(formKey)).Err()
}

// InvalidateAssessments drops cached assessment views of a form after a new
// submission lands. Implements submission.Cache.
func (c *SchemaCache) InvalidateAssessments(ctx context.Context, formID types.FormID) error {
	return c.client.Del(ctx, assessmentKey(formID)).Err()
}

func schemaKey(formKey string) string {
	return fmt.Sprintf("schema:%s", formKey)
}

func assessmentKey(formID types.FormID) string {
	return fmt.Sprintf("assessments:%s", formID)
}
