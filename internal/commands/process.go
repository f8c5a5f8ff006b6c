package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-validator/internal/extractor"
	"github.com/insightdelivered/statement-validator/internal/lineextract"
	"github.com/insightdelivered/statement-validator/internal/logger"
	"github.com/insightdelivered/statement-validator/internal/models"
	"github.com/insightdelivered/statement-validator/internal/reconcile"
	"github.com/insightdelivered/statement-validator/internal/writer"
)

type processOptions struct {
	output   string
	format   string
	lines    bool
	provider string
	jsonOut  bool
}

func newProcessCommand(g *globals) *cobra.Command {
	opts := &processOptions{}

	cmd := &cobra.Command{
		Use:   "process <statement>",
		Short: "Extract, classify and validate the transactions in a statement",
		Long: `Process reads a statement (pdf, png, jpg, jpeg, or a .txt file of OCR
text), selects its transaction lines and writes the validated ledger.

With --lines the input is taken as candidate transaction lines, one per
line, and no line extraction is done.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, g, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, or - for stdout (default: <output dir>/validated_bank_statement_<id>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: csv or xlsx (default from config)")
	cmd.Flags().BoolVar(&opts.lines, "lines", false, "treat input as candidate transaction lines")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "line extractor: heuristic or gemini (default from config)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the summary and diagnostics as JSON")

	return cmd
}

func runProcess(cmd *cobra.Command, g *globals, opts *processOptions, input string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	format := writer.Format(g.cfg.Output.Format)
	switch {
	case opts.format != "":
		format = writer.Format(strings.ToLower(opts.format))
	case opts.output != "" && opts.output != "-":
		format = writer.FormatFromPath(opts.output, format)
	}
	sink, err := writer.New(format)
	if err != nil {
		return err
	}

	var lines []string
	if opts.lines {
		data, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("reading %s: %w", input, err)
		}
		lines = lineextract.CandidateLines(string(data))
	} else {
		text, err := readStatementText(cmd, g, input)
		if err != nil {
			return err
		}

		provider := g.cfg.LLM.Provider
		if opts.provider != "" {
			provider = opts.provider
		}
		lx, err := lineextract.New(ctx, provider, geminiConfig(g))
		if err != nil {
			return err
		}
		lines, err = lx.ExtractLines(ctx, text)
		if err != nil {
			return fmt.Errorf("extracting transaction lines: %w", err)
		}
		log.Debug().Str("extractor", lx.Name()).Int("lines", len(lines)).Msg("transaction lines selected")
	}

	res := reconcile.Process(lines)
	logger.LogDiagnostics(log, res.Diagnostics)

	out := opts.output
	if out == "" {
		out = filepath.Join(g.cfg.Output.Dir, fmt.Sprintf("validated_bank_statement_%s%s", uuid.NewString(), format.Extension()))
	}

	if out == "-" {
		if err := sink.Write(cmd.OutOrStdout(), res.Transactions); err != nil {
			return fmt.Errorf("writing ledger: %w", err)
		}
		// Keep stdout clean for the ledger; the summary goes to stderr.
		return printSummary(cmd.ErrOrStderr(), res, "", opts.jsonOut)
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := sink.WriteToFile(out, res.Transactions); err != nil {
		return err
	}
	log.Info().Str("output", out).Int("transactions", len(res.Transactions)).Msg("ledger written")

	return printSummary(cmd.OutOrStdout(), res, out, opts.jsonOut)
}

// readStatementText returns OCR text for input. Plain text files are used as is.
func readStatementText(cmd *cobra.Command, g *globals, input string) (string, error) {
	if strings.EqualFold(filepath.Ext(input), ".txt") {
		data, err := os.ReadFile(input)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", input, err)
		}
		return string(data), nil
	}

	text, err := extractor.ExtractText(cmd.Context(), input, ocrOptions(g))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", input, err)
	}
	return text, nil
}

func ocrOptions(g *globals) extractor.OCROptions {
	return extractor.OCROptions{
		DPI:      g.cfg.OCR.DPI,
		Language: g.cfg.OCR.Language,
		PSM:      g.cfg.OCR.PSM,
	}
}

func geminiConfig(g *globals) lineextract.GeminiConfig {
	return lineextract.GeminiConfig{
		APIKey:          g.cfg.LLM.APIKey,
		Model:           g.cfg.LLM.Model,
		Temperature:     g.cfg.LLM.Temperature,
		MaxOutputTokens: g.cfg.LLM.MaxOutputTokens,
	}
}

type summaryReport struct {
	Output      string              `json:"output,omitempty"`
	Summary     models.Summary      `json:"summary"`
	Diagnostics []models.Diagnostic `json:"diagnostics,omitempty"`
}

func printSummary(w io.Writer, res *models.Result, output string, asJSON bool) error {
	s := res.Summarize()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summaryReport{Output: output, Summary: s, Diagnostics: res.Diagnostics})
	}

	if output != "" {
		fmt.Fprintf(w, "Wrote %s\n", output)
	}
	fmt.Fprintf(w, "Transactions: %d\n", s.Count)
	fmt.Fprintf(w, "  OK:         %d\n", s.OK)
	fmt.Fprintf(w, "  Mismatched: %d\n", s.Mismatched)
	fmt.Fprintf(w, "  Unknown:    %d\n", s.Unknown)
	fmt.Fprintf(w, "Total debit:  %s\n", s.TotalDebit.StringFixed(2))
	fmt.Fprintf(w, "Total credit: %s\n", s.TotalCredit.StringFixed(2))
	if n := len(res.Diagnostics); n > 0 {
		fmt.Fprintf(w, "Diagnostics:  %d (run with --log-level debug for details)\n", n)
	}
	return nil
}
