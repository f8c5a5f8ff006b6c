// Package lineextract picks candidate transaction lines out of raw OCR text.
package lineextract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-validator/internal/parser"
)

// LineExtractor isolates the lines of a statement that describe
// transactions, in page order.
type LineExtractor interface {
	ExtractLines(ctx context.Context, ocrText string) ([]string, error)
	Name() string
}

var leadingNoise = regexp.MustCompile(`^[^0-9A-Za-z]+`)

// CandidateLines splits text into trimmed, non-blank lines. Leading OCR
// noise is kept; the normalizer deals with it.
func CandidateLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// HeuristicExtractor keeps every line that starts with a DD-Mon-YYYY date
// once leading noise ("=", ";", ":", "=!") is ignored. It needs no model and
// is the fallback when no LLM is configured.
type HeuristicExtractor struct{}

func (HeuristicExtractor) Name() string { return "heuristic" }

// ExtractLines never fails.
func (HeuristicExtractor) ExtractLines(_ context.Context, ocrText string) ([]string, error) {
	var lines []string
	for _, line := range CandidateLines(ocrText) {
		if parser.StartsWithDate(leadingNoise.ReplaceAllString(line, "")) {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// Provider names accepted by New.
const (
	ProviderHeuristic = "heuristic"
	ProviderGemini    = "gemini"
)

// New builds the extractor for provider.
func New(ctx context.Context, provider string, gemini GeminiConfig) (LineExtractor, error) {
	switch strings.ToLower(provider) {
	case ProviderHeuristic, "":
		return HeuristicExtractor{}, nil
	case ProviderGemini:
		return NewGeminiExtractor(ctx, gemini)
	default:
		return nil, fmt.Errorf("unsupported line extractor provider: %q", provider)
	}
}
