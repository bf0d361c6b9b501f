package integration

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"nichelens-be/internal/pkg/logger"
	"nichelens-be/internal/service"
	"nichelens-be/pkg/analysis"
	"nichelens-be/pkg/llm/ollama"

	"github.com/stretchr/testify/require"
)

// TestOllamaOptimize runs a real post analysis against a local Ollama. The
// model must return the full optimization shape.
func TestOllamaOptimize(t *testing.T) {
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	model := os.Getenv("OLLAMA_MODEL")
	if baseURL == "" || model == "" {
		t.Skip("Skipping integration test: OLLAMA_BASE_URL or OLLAMA_MODEL not set")
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/tags")
	if err != nil {
		t.Skipf("Skipping integration test: Ollama unreachable: %v", err)
	}
	resp.Body.Close()

	svc := service.NewAnalysisService(ollama.NewOllamaProvider(baseURL, model), logger.NewNopLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	res, err := svc.Analyze(ctx, analysis.GatewayRequest{Mode: analysis.ModePost, Input: "I shipped my side project after 14 months"})
	require.NoError(t, err)
	require.Equal(t, analysis.ModePost, res.Mode())
}
