package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/spec-kit/coach-gateway/internal/api/dto"
	"github.com/spec-kit/coach-gateway/internal/config"
	apperrors "github.com/spec-kit/coach-gateway/pkg/util"
)

const defaultTemperature = 0.7

// ProxyService relays chat completion requests to the upstream AI
// provider, buffered or streamed. It never retries; transient upstream
// failures surface immediately.
type ProxyService struct {
	cfg    config.UpstreamConfig
	client *http.Client
}

// NewProxyService builds the service. The HTTP client carries no global
// timeout so streamed responses of arbitrary length are not cut off.
func NewProxyService(cfg config.UpstreamConfig) *ProxyService {
	return &ProxyService{cfg: cfg, client: &http.Client{}}
}

type upstreamMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type upstreamRequest struct {
	Model       string            `json:"model"`
	Temperature float64           `json:"temperature"`
	Stream      bool              `json:"stream"`
	Messages    []upstreamMessage `json:"messages"`
}

// completionResponse is the success envelope; field presence is validated
// before the content is trusted.
type completionResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete performs a buffered completion and extracts the first choice.
func (s *ProxyService) Complete(ctx context.Context, req dto.ChatRequest) (string, error) {
	resp, err := s.forward(ctx, req, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperrors.NewUpstreamError(resp.StatusCode, string(body))
	}

	var parsed completionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", apperrors.NewDomainError("UPSTREAM_ERROR", "unexpected upstream response", http.StatusBadGateway)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == nil {
		return "", apperrors.NewDomainError("UPSTREAM_ERROR", "unexpected upstream response", http.StatusBadGateway)
	}
	return *parsed.Choices[0].Message.Content, nil
}

// Stream opens a streamed completion and returns the upstream byte stream
// for verbatim relay. The caller owns closing the reader.
func (s *ProxyService) Stream(ctx context.Context, req dto.ChatRequest) (io.ReadCloser, error) {
	resp, err := s.forward(ctx, req, true)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, apperrors.NewUpstreamError(resp.StatusCode, string(body))
	}
	return resp.Body, nil
}

func (s *ProxyService) forward(ctx context.Context, req dto.ChatRequest, stream bool) (*http.Response, error) {
	if s.cfg.APIKey == "" {
		return nil, apperrors.NewServerMisconfigured()
	}

	temperature := defaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	messages := make([]upstreamMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, upstreamMessage{Role: "system", Content: req.SystemPrompt})
	}
	for _, m := range req.Messages {
		messages = append(messages, upstreamMessage{Role: m.Role, Content: m.Content})
	}

	payload, err := json.Marshal(upstreamRequest{
		Model:       s.cfg.Model,
		Temperature: temperature,
		Stream:      stream,
		Messages:    messages,
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, apperrors.NewDomainError("UPSTREAM_ERROR", "upstream request failed", http.StatusBadGateway)
	}
	return resp, nil
}
