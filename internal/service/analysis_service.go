package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"nichelens-be/internal/constant"
	"nichelens-be/internal/pkg/logger"
	"nichelens-be/pkg/analysis"
	"nichelens-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
)

// ModelFailureMessage is returned to clients when the model call itself fails.
const ModelFailureMessage = "The analysis model is unavailable right now. Please try again."

type IAnalysisService interface {
	Analyze(ctx context.Context, req analysis.GatewayRequest) (analysis.Result, error)
	GenerateVisual(ctx context.Context, prompt string) (string, error)
}

type analysisService struct {
	provider llm.LLMProvider
	logger   logger.ILogger
}

func NewAnalysisService(provider llm.LLMProvider, logger logger.ILogger) IAnalysisService {
	return &analysisService{
		provider: provider,
		logger:   logger,
	}
}

type modePrompt struct {
	system    string
	maxTokens int
	build     func(req analysis.GatewayRequest) string
}

var modePrompts = map[analysis.Mode]modePrompt{
	analysis.ModePost: {
		system:    constant.OptimizeSystemInstruction,
		maxTokens: constant.OptimizeMaxTokens,
		build: func(req analysis.GatewayRequest) string {
			return fmt.Sprintf(constant.OptimizePromptTemplate, req.Input)
		},
	},
	analysis.ModeReply: {
		system:    constant.ReplySystemInstruction,
		maxTokens: constant.ReplyMaxTokens,
		build: func(req analysis.GatewayRequest) string {
			return fmt.Sprintf(constant.ReplyPromptTemplate, req.Input)
		},
	},
	analysis.ModeAudit: {
		system:    constant.AuditSystemInstruction,
		maxTokens: constant.AuditMaxTokens,
		build: func(req analysis.GatewayRequest) string {
			return fmt.Sprintf(constant.AuditPromptTemplate, req.Handle, strings.Join(req.Items, constant.ItemJoiner))
		},
	},
	analysis.ModeNiche: {
		system:    constant.NicheSystemInstruction,
		maxTokens: constant.NicheMaxTokens,
		build: func(req analysis.GatewayRequest) string {
			return fmt.Sprintf(constant.NichePromptTemplate, req.Handle, strings.Join(req.Items, constant.ItemJoiner))
		},
	},
	analysis.ModeIdeate: {
		system:    constant.IdeateSystemInstruction,
		maxTokens: constant.IdeateMaxTokens,
		build: func(req analysis.GatewayRequest) string {
			return fmt.Sprintf(constant.IdeatePromptTemplate, req.Input)
		},
	},
}

// Analyze runs one mode against the model and returns a validated result.
// Model failures become a 502 BackendError; replies that do not decode into
// the mode's shape become a MalformedResultError.
func (s *analysisService) Analyze(ctx context.Context, req analysis.GatewayRequest) (analysis.Result, error) {
	mp, ok := modePrompts[req.Mode]
	if !ok {
		return nil, &analysis.UnsupportedModeError{Mode: req.Mode}
	}
	if req.Mode.IsMultiItem() && strings.TrimSpace(req.Handle) == "" {
		req.Handle = analysis.DefaultHandle
	}

	text, err := s.provider.Generate(ctx, mp.build(req),
		llm.WithSystemInstruction(mp.system),
		llm.WithJSONResponse(),
		llm.WithMaxTokens(mp.maxTokens),
	)
	if err != nil {
		s.logger.Error("ANALYSIS", "Model request failed", map[string]interface{}{
			"mode":  req.Mode.String(),
			"error": err.Error(),
		})
		return nil, &analysis.BackendError{StatusCode: http.StatusBadGateway, Message: ModelFailureMessage}
	}

	res, err := analysis.DecodeResult(req.Mode, analysis.CleanJSON(text))
	if err != nil {
		s.logger.Warn("ANALYSIS", "Model reply failed validation", map[string]interface{}{
			"mode":  req.Mode.String(),
			"error": err.Error(),
		})
		return nil, err
	}

	s.logger.Info("ANALYSIS", "Analysis completed", map[string]interface{}{"mode": req.Mode.String()})
	return res, nil
}

func (s *analysisService) GenerateVisual(ctx context.Context, prompt string) (string, error) {
	gen, ok := s.provider.(llm.ImageGenerator)
	if !ok {
		return "", fiber.NewError(fiber.StatusNotImplemented, "Visual generation is not available on this server")
	}

	image, err := gen.GenerateImage(ctx, fmt.Sprintf(constant.VisualPromptTemplate, prompt))
	if err != nil {
		s.logger.Error("ANALYSIS", "Visual generation failed", map[string]interface{}{"error": err.Error()})
		if errors.Is(err, llm.ErrImageUnsupported) {
			return "", fiber.NewError(fiber.StatusNotImplemented, "Visual generation is not available on this server")
		}
		return "", &analysis.BackendError{StatusCode: http.StatusBadGateway, Message: "Failed to forge visual asset"}
	}
	return image, nil
}
