package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"nichelens-be/internal/constant"
	"nichelens-be/internal/pkg/logger"
	"nichelens-be/pkg/analysis"
	"nichelens-be/pkg/analysis/analysistest"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeBuildsModePrompt(t *testing.T) {
	llm := &scriptedLLM{reply: "```json\n" + string(analysistest.JSON(analysis.ModeAudit)) + "\n```"}
	svc := NewAnalysisService(llm, logger.NewNopLogger())

	res, err := svc.Analyze(context.Background(), analysis.GatewayRequest{
		Mode:   analysis.ModeAudit,
		Items:  []string{"first", "second"},
		Handle: "maker",
	})
	require.NoError(t, err)
	assert.Equal(t, analysis.ModeAudit, res.Mode())

	require.Len(t, llm.prompts, 1)
	assert.Equal(t, "Analyze these tweets from @maker:\nfirst\n---\nsecond", llm.prompts[0])
	opts := llm.options[0]
	assert.Equal(t, constant.AuditSystemInstruction, opts.SystemInstruction)
	assert.Equal(t, constant.AuditMaxTokens, opts.MaxTokens)
	assert.True(t, opts.JSON)
}

func TestAnalyzeDefaultsHandle(t *testing.T) {
	llm := &scriptedLLM{reply: string(analysistest.JSON(analysis.ModeNiche))}
	svc := NewAnalysisService(llm, logger.NewNopLogger())

	_, err := svc.Analyze(context.Background(), analysis.GatewayRequest{Mode: analysis.ModeNiche, Items: []string{"a"}})
	require.NoError(t, err)
	assert.Contains(t, llm.prompts[0], "@user")
}

func TestAnalyzeSingleItemModes(t *testing.T) {
	cases := map[analysis.Mode]string{
		analysis.ModePost:   `Optimize this tweet: "ship it"`,
		analysis.ModeReply:  `Craft a reply for this source tweet: "ship it"`,
		analysis.ModeIdeate: `Build a content plan for: "ship it"`,
	}
	for mode, prompt := range cases {
		llm := &scriptedLLM{reply: string(analysistest.JSON(mode))}
		svc := NewAnalysisService(llm, logger.NewNopLogger())

		res, err := svc.Analyze(context.Background(), analysis.GatewayRequest{Mode: mode, Input: "ship it"})
		require.NoError(t, err, mode)
		assert.Equal(t, mode, res.Mode())
		assert.Equal(t, prompt, llm.prompts[0])
	}
}

func TestAnalyzeRejectsIncompleteModelReply(t *testing.T) {
	llm := &scriptedLLM{reply: `{"handle":"maker","overallScore":50}`}
	svc := NewAnalysisService(llm, logger.NewNopLogger())

	_, err := svc.Analyze(context.Background(), analysis.GatewayRequest{Mode: analysis.ModeAudit, Items: []string{"a"}, Handle: "maker"})
	var malformed *analysis.MalformedResultError
	assert.ErrorAs(t, err, &malformed)
}

func TestAnalyzeModelFailureIsBadGateway(t *testing.T) {
	llm := &scriptedLLM{err: errors.New("quota exceeded")}
	svc := NewAnalysisService(llm, logger.NewNopLogger())

	_, err := svc.Analyze(context.Background(), analysis.GatewayRequest{Mode: analysis.ModePost, Input: "x"})
	var backend *analysis.BackendError
	require.ErrorAs(t, err, &backend)
	assert.Equal(t, http.StatusBadGateway, backend.StatusCode)
	assert.Equal(t, ModelFailureMessage, backend.Message)
}

func TestAnalyzeGuideIsUnsupported(t *testing.T) {
	svc := NewAnalysisService(&scriptedLLM{}, logger.NewNopLogger())
	_, err := svc.Analyze(context.Background(), analysis.GatewayRequest{Mode: analysis.ModeGuide})
	var unsupported *analysis.UnsupportedModeError
	assert.ErrorAs(t, err, &unsupported)
}

func TestGenerateVisual(t *testing.T) {
	t.Run("provider without images", func(t *testing.T) {
		svc := NewAnalysisService(&scriptedLLM{}, logger.NewNopLogger())
		_, err := svc.GenerateVisual(context.Background(), "growth")
		var fe *fiber.Error
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, fiber.StatusNotImplemented, fe.Code)
	})

	t.Run("image provider", func(t *testing.T) {
		gen := &imageLLM{image: "data:image/png;base64,AAAA"}
		svc := NewAnalysisService(gen, logger.NewNopLogger())
		img, err := svc.GenerateVisual(context.Background(), "growth")
		require.NoError(t, err)
		assert.Equal(t, "data:image/png;base64,AAAA", img)
		assert.Contains(t, gen.prompts[0], "growth")
	})

	t.Run("image failure", func(t *testing.T) {
		gen := &imageLLM{imageErr: errors.New("no image data")}
		svc := NewAnalysisService(gen, logger.NewNopLogger())
		_, err := svc.GenerateVisual(context.Background(), "growth")
		var backend *analysis.BackendError
		assert.ErrorAs(t, err, &backend)
	})
}
