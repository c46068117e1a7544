package services

import (
	"context"
)

// AnalysisRequest is the DTO for document analysis. The document text is
// passed inline; there is no document store.
type AnalysisRequest struct {
	Document     string `json:"document"`
	AnalysisType string `json:"analysis_type"` // summarize, sentiment, keypoints, qa
	Question     string `json:"question,omitempty"`
	Model        string `json:"model,omitempty"`
}

// AnalysisService runs one-shot document analysis (summaries, sentiment,
// key points, question answering) over a templated prompt.
type AnalysisService interface {
	AnalyzeDocument(ctx context.Context, req *AnalysisRequest) (*ChatResult, error)
}
