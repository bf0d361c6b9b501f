package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nichelens-be/pkg/analysis"
)

// DefaultHealthTimeout bounds the liveness probe.
const DefaultHealthTimeout = 5 * time.Second

// Gateway is the boundary to the analysis backend.
type Gateway interface {
	// Invoke performs exactly one round trip for the request and returns the
	// validated result for its mode. Nothing is retried.
	Invoke(ctx context.Context, req analysis.GatewayRequest) (analysis.Result, error)

	// GenerateVisual returns an image data URI for prompt.
	GenerateVisual(ctx context.Context, prompt string) (string, error)

	// HealthCheck reports backend liveness. It never blocks longer than the
	// configured timeout and reports false on any failure.
	HealthCheck(ctx context.Context) bool
}

// Envelope is the response body of every analysis operation.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type visualRequest struct {
	Prompt string `json:"prompt"`
}

type visualResponse struct {
	Image string `json:"image"`
}

type HTTPGateway struct {
	BaseURL       string
	Client        *http.Client
	HealthTimeout time.Duration
	// Token, when set, supplies a bearer token attached to every request so
	// the backend can attribute request logs.
	Token func() string
}

var _ Gateway = (*HTTPGateway)(nil)

func NewHTTPGateway(baseURL string) *HTTPGateway {
	return &HTTPGateway{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		Client:        &http.Client{Timeout: 120 * time.Second},
		HealthTimeout: DefaultHealthTimeout,
	}
}

func (g *HTTPGateway) Invoke(ctx context.Context, req analysis.GatewayRequest) (analysis.Result, error) {
	if !req.Mode.IsAPI() {
		return nil, &analysis.UnsupportedModeError{Mode: req.Mode}
	}

	status, body, err := g.post(ctx, "/api/analysis"+req.Endpoint(), req)
	if err != nil {
		return nil, &analysis.GatewayUnavailableError{Op: string(req.Mode), Err: err}
	}

	var env Envelope
	decodeErr := json.Unmarshal(body, &env)

	if status < 200 || status > 299 {
		msg := env.Error
		if decodeErr != nil || msg == "" {
			msg = fmt.Sprintf("Backend error (%d): %s", status, strings.TrimSpace(string(body)))
		}
		return nil, &analysis.BackendError{StatusCode: status, Message: msg}
	}
	if decodeErr != nil {
		return nil, &analysis.MalformedResultError{Mode: req.Mode, Reason: "response is not a JSON envelope"}
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "Backend request failed"
		}
		return nil, &analysis.BackendError{StatusCode: status, Message: msg}
	}

	return analysis.DecodeResult(req.Mode, env.Data)
}

func (g *HTTPGateway) GenerateVisual(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", &analysis.VisualGenerationError{Err: errors.New("prompt is empty")}
	}

	status, body, err := g.post(ctx, "/api/analysis/visual", visualRequest{Prompt: prompt})
	if err != nil {
		return "", &analysis.VisualGenerationError{Err: err}
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", &analysis.VisualGenerationError{Err: fmt.Errorf("status %d: %w", status, err)}
	}
	if status < 200 || status > 299 || !env.Success {
		return "", &analysis.VisualGenerationError{Err: errors.New(env.Error)}
	}

	var out visualResponse
	if err := json.Unmarshal(env.Data, &out); err != nil || !strings.HasPrefix(out.Image, "data:") {
		return "", &analysis.VisualGenerationError{Err: errors.New("response carried no image")}
	}
	return out.Image, nil
}

func (g *HTTPGateway) HealthCheck(ctx context.Context) bool {
	timeout := g.HealthTimeout
	if timeout <= 0 {
		timeout = DefaultHealthTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := g.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}

func (g *HTTPGateway) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+path, bytes.NewReader(payloadJSON))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.Token != nil {
		if token := g.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	res, err := g.Client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return res.StatusCode, resBody, nil
}
