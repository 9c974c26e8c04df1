package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/Margays/config"
	"github.com/lshigami/Margays/internal/dto"
	"github.com/lshigami/Margays/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// GradingAssistService produces an informational mark suggestion for
// graders. It never writes marks and its failures never affect the add/edit
// mark flow.
type GradingAssistService interface {
	SuggestMark(ctx context.Context, answer *model.Answer) (*dto.MarkSuggestionResponse, error)
}

type gradingAssistService struct {
	client *genai.GenerativeModel
}

func NewGradingAssistService(cfg *config.Config) (GradingAssistService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set; mark suggestions are disabled")
		return &gradingAssistService{}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("initializing Gemini client: %w", err)
	}
	return &gradingAssistService{client: client.GenerativeModel("gemini-1.5-flash")}, nil
}

func (s *gradingAssistService) SuggestMark(ctx context.Context, answer *model.Answer) (*dto.MarkSuggestionResponse, error) {
	if s.client == nil {
		return nil, fmt.Errorf("grading assist is not configured")
	}

	prompt := fmt.Sprintf(
		"You are grading a written exam answer.\n"+
			"Question: %s\n"+
			"Maximum mark: %.1f\n"+
			"Student answer: %s\n\n"+
			"Reply with exactly two lines:\n"+
			"MARK: <number between 0 and %.1f>\n"+
			"RATIONALE: <one sentence>",
		answer.Question.Prompt, answer.Question.MaxMark, answer.AnswerText, answer.Question.MaxMark,
	)

	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Warn().Err(err).Uint("answerID", answer.ID).Msg("SuggestMark: generation failed")
		return nil, fmt.Errorf("generating suggestion: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("empty suggestion response")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	suggestion := &dto.MarkSuggestionResponse{AnswerID: answer.ID}
	for _, line := range strings.Split(text.String(), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "MARK:"):
			raw := strings.TrimSpace(strings.TrimPrefix(line, "MARK:"))
			mark, parseErr := strconv.ParseFloat(raw, 64)
			if parseErr != nil {
				return nil, fmt.Errorf("unparseable suggested mark %q: %w", raw, parseErr)
			}
			if mark < 0 {
				mark = 0
			}
			if mark > answer.Question.MaxMark {
				mark = answer.Question.MaxMark
			}
			suggestion.Suggested = mark
		case strings.HasPrefix(line, "RATIONALE:"):
			suggestion.Rationale = strings.TrimSpace(strings.TrimPrefix(line, "RATIONALE:"))
		}
	}
	return suggestion, nil
}
