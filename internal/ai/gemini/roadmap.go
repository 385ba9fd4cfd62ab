package gemini

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/jobsight/internal/ai"
	"github.com/spigell/jobsight/internal/logger"
	"github.com/spigell/jobsight/internal/roadmap"
	"github.com/spigell/jobsight/internal/utils"
)

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

var _ roadmap.PreciseGenerator = (*RoadmapWriter)(nil)

// RoadmapWriter writes precise roadmaps with an LLM.
type RoadmapWriter struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewRoadmapWriter(generator ai.Generator, log *zap.Logger, maxLogLength int) *RoadmapWriter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &RoadmapWriter{
		generator: generator,
		logger:    logger.WithCommonFields(log, ai.ProviderGemini, generator.Model()),
		maxLogLen: maxLogLength,
	}
}

func (w *RoadmapWriter) GeneratePrecise(ctx context.Context, req *roadmap.PreciseRequest) (*roadmap.PreciseResult, error) {
	if req == nil {
		return nil, errors.New("roadmap request is required")
	}

	prompt := buildPrompt(req)
	w.logger.Debug("gemini generate content request",
		zap.String("target_role", req.TargetRole),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, w.maxLogLen)),
	)

	raw, err := w.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	w.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, w.maxLogLen)),
	)

	return &roadmap.PreciseResult{
		Plan:  stripFences(raw),
		Model: w.generator.Model(),
	}, nil
}

func buildPrompt(req *roadmap.PreciseRequest) string {
	r := strings.NewReplacer(
		"{{TARGET_ROLE}}", orDash(req.TargetRole),
		"{{CURRENT_SKILLS}}", orDash(req.CurrentSkills),
		"{{TIMELINE_MONTHS}}", strconv.Itoa(req.TimelineMonths),
		"{{COUNTRY}}", orDash(req.Country),
	)
	return r.Replace(promptTemplate)
}

// stripFences drops a markdown code fence the model may wrap its answer in.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		if idx := strings.Index(raw, "\n"); idx != -1 {
			raw = raw[idx+1:]
		}
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}

func orDash(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "-"
	}
	return s
}
