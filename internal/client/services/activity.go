package services

import (
	"context"

	"github.com/acemate/acemate-cli/internal/client/api"
)

// ActivityService posts usage records on behalf of the companion desktop
// application: transcript lines and generated AI responses, both billed
// against the account's credits server-side.
type ActivityService struct {
	api api.Client
}

func NewActivityService(apiClient api.Client) *ActivityService {
	return &ActivityService{api: apiClient}
}

func (s *ActivityService) LogTranscript(ctx context.Context, text string) error {
	return s.api.LogTranscription(ctx, text)
}

func (s *ActivityService) LogResponse(ctx context.Context, query, response string, tokensUsed int64) error {
	return s.api.LogAIResponse(ctx, query, response, tokensUsed)
}
