package services

import (
	"context"
)

// GenerationRequest is the DTO for content generation.
type GenerationRequest struct {
	ContentType  string `json:"content_type"` // blog, email, code, social-media
	Topic        string `json:"topic"`
	Tone         string `json:"tone,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	Model        string `json:"model,omitempty"`
}

// GenerationService produces one-shot generated content (blog posts,
// emails, code, social media copy) from a templated prompt. Stateless; no
// conversation memory is involved.
type GenerationService interface {
	GenerateContent(ctx context.Context, req *GenerationRequest) (*ChatResult, error)
}
