package lineextract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is used when GeminiConfig.Model is empty.
const DefaultModel = "gemini-2.5-flash"

const answerMarker = "Transaction lines:"

// GeminiConfig configures GeminiExtractor.
type GeminiConfig struct {
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// GeminiExtractor asks a Gemini model to copy out the transaction lines.
type GeminiExtractor struct {
	client *genai.Client
	cfg    GeminiConfig
}

// NewGeminiExtractor creates a Gemini API client. An empty API key falls back
// to the GEMINI_API_KEY / GOOGLE_API_KEY environment variables read by genai.
func NewGeminiExtractor(ctx context.Context, cfg GeminiConfig) (*GeminiExtractor, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiExtractor{client: client, cfg: cfg}, nil
}

func (g *GeminiExtractor) Name() string { return "gemini:" + g.cfg.Model }

// ExtractLines sends the OCR text to the model and returns the candidate
// lines from its answer.
func (g *GeminiExtractor) ExtractLines(ctx context.Context, ocrText string) ([]string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.cfg.Temperature),
	}
	if g.cfg.MaxOutputTokens > 0 {
		config.MaxOutputTokens = g.cfg.MaxOutputTokens
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(BuildPrompt(ocrText)), config)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	raw := resp.Text()
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("empty response from model")
	}
	return CandidateLines(cleanModelAnswer(raw)), nil
}

// cleanModelAnswer keeps the text after the answer marker, if the model
// echoed the prompt, and drops Markdown fences.
func cleanModelAnswer(raw string) string {
	s := raw
	if idx := strings.LastIndex(s, answerMarker); idx != -1 {
		s = s[idx+len(answerMarker):]
	}
	s = strings.TrimSpace(s)

	var kept []string
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// BuildPrompt returns the extraction prompt for ocrText.
func BuildPrompt(ocrText string) string {
	return `You are a helpful assistant. Your task is to extract only the lines that represent financial transactions from the OCR bank statement text. These include debits, credits, interest payments, loan disbursements, recoveries, etc.

Return only the transaction lines exactly as they appear, without explanation or extra formatting.

NOTE: EACH TRANSACTION LINE MUST START WITH A DATE IN THE FORMAT DD-MMM-YYYY (e.g., 09-Apr-2023). ALSO BEFORE THE DATE THERE CAN APPEAR SOME EXTRA SYMBOLS LIKE =, ;, :, =!

Here are some examples of a valid transaction line:

09-Apr-2023 2004204258873001 Loan Disbursement Debit 2,000,000.00 -2,000,000.00
; 09-Aug-2023 6042588730002 Penal Int 58.35 -1,810,963.63
= 09-May-2023 Loan Recovery From -2004204258873007 82,104.00 -1,332 896.00
: 08-Jun-2023 Loan Recovery From -2004204258873001 82,104.00 -1,865,288.72

An invalid transaction line would be:

RAHMAN ELECTRIC AND HARDWARE Cust ID 04258873

Now extract transaction lines from this text:

` + ocrText + `

` + answerMarker
}
