package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/Mdx2025/emailbot-backend/config"
	"github.com/Mdx2025/emailbot-backend/dto"
	er "github.com/Mdx2025/emailbot-backend/internal/errors"
	"github.com/Mdx2025/emailbot-backend/internal/tracing"
)

type generationService struct {
	config *config.GenerationConfig
	client *http.Client
}

func NewGenerationService(cfg *config.GenerationConfig) *generationService {
	return &generationService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// Generate sends the prompt to the external generation API and returns the
// produced text. The call is bounded by the configured timeout; a deadline
// overrun surfaces as ErrGenerationTimeout rather than hanging the caller.
func (s *generationService) Generate(ctx context.Context, prompt string) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "generationService.Generate")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("prompt.length", len(prompt))

	request := dto.GenerationRequest{
		Prompt:    prompt,
		MaxTokens: s.config.MaxTokens,
	}

	payload, err := json.Marshal(request)
	if err != nil {
		tracing.TraceErr(span, err)
		return "", errors.Wrap(err, "failed to marshal payload")
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.config.TimeoutSeconds)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.Url+"/v1/generate", bytes.NewBuffer(payload))
	if err != nil {
		tracing.TraceErr(span, err)
		return "", errors.Wrap(err, "failed to create request")
	}

	req.Header.Set("Content-Type", "application/json")
	if s.config.ApiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.ApiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		tracing.TraceErr(span, err)
		if ctx.Err() == context.DeadlineExceeded {
			return "", er.ErrGenerationTimeout
		}
		return "", errors.Wrap(er.ErrGenerationFailed, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		tracing.TraceErr(span, err)
		return "", errors.Wrap(err, "unable to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err = errors.Wrap(er.ErrGenerationFailed, fmt.Sprintf("status code %d: %s", resp.StatusCode, string(body)))
		tracing.TraceErr(span, err)
		return "", err
	}

	var response dto.GenerationResponse
	if err := json.Unmarshal(body, &response); err != nil {
		tracing.TraceErr(span, err)
		return "", errors.Wrap(err, "failed to unmarshal response")
	}

	if response.Text == "" {
		tracing.TraceErr(span, er.ErrEmptyGeneration)
		return "", er.ErrEmptyGeneration
	}
	if response.FinishReason != "" && response.FinishReason != "stop" {
		err = errors.Wrap(er.ErrGenerationFailed, "finish reason "+response.FinishReason)
		tracing.TraceErr(span, err)
		return "", err
	}

	span.SetTag("response.length", len(response.Text))
	return response.Text, nil
}
