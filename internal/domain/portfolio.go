package domain

import (
	"time"

	"github.com/google/uuid"
)

// Template identifies one of the visual templates a portfolio can be
// generated into.
type Template struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PublicPortfolio is the published, read-only view of a user's portfolio as
// returned by the backend for a tenant slug.
type PublicPortfolio struct {
	Slug       string                 `json:"slug"`
	TemplateID string                 `json:"templateId"`
	Profile    map[string]interface{} `json:"profile"`
}

// GenerationResult is what the wizard hands to the editor screen after a
// successful generate call. The wizard instance is discarded afterwards.
type GenerationResult struct {
	Profile    map[string]interface{} `json:"profile"`
	TemplateID string                 `json:"templateId"`
}

// AnalyticsEvent is a fire-and-forget page event forwarded to the backend.
type AnalyticsEvent struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug,omitempty"`
	Kind      string    `json:"kind"`
	Path      string    `json:"path,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
