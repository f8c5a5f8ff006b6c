package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-validator/internal/buildinfo"
	"github.com/insightdelivered/statement-validator/internal/extractor"
	"github.com/insightdelivered/statement-validator/internal/lineextract"
	"github.com/insightdelivered/statement-validator/internal/logger"
	"github.com/insightdelivered/statement-validator/internal/models"
	"github.com/insightdelivered/statement-validator/internal/reconcile"
	"github.com/insightdelivered/statement-validator/internal/writer"
)

// ConvertResponse is the JSON response from the /api/convert endpoint.
type ConvertResponse struct {
	Success      bool                 `json:"success"`
	Error        string               `json:"error,omitempty"`
	Extractor    string               `json:"extractor,omitempty"`
	Transactions []models.Transaction `json:"transactions"`
	Diagnostics  []models.Diagnostic  `json:"diagnostics,omitempty"`
	Summary      *models.Summary      `json:"summary,omitempty"`
	CSV          string               `json:"csv,omitempty"`
	Download     string               `json:"download,omitempty"`
	RawText      string               `json:"rawText,omitempty"`
	Version      string               `json:"version,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Lines     lineextract.LineExtractor
	OCR       extractor.OCROptions
	UploadDir string
	OutputDir string
	Format    writer.Format
	Log       zerolog.Logger
}

// outputName matches files this server wrote, so downloads cannot escape OutputDir.
var outputName = regexp.MustCompile(`^validated_bank_statement_[0-9a-f-]{36}\.(csv|xlsx)$`)

// errNoInput is returned when a convert request carries nothing to process.
var errNoInput = errors.New("no input: upload a file, or send 'text' or 'lines'")

// NewApp builds the fiber app with all routes registered.
func NewApp(h *Handler, bodyLimitMB int, staticDir string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "statement-validator",
		BodyLimit:             bodyLimitMB << 20,
		DisableStartupMessage: true,
	})
	h.RegisterRoutes(app)
	if staticDir != "" {
		app.Static("/", staticDir)
	}
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Use(h.cors)
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/convert", h.HandleConvert)
	app.Get("/api/download/:name", h.HandleDownload)
}

func (h *Handler) cors(c *fiber.Ctx) error {
	c.Set("Access-Control-Allow-Origin", "*")
	c.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	c.Set("Access-Control-Allow-Headers", "Content-Type")
	if c.Method() == fiber.MethodOptions {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Next()
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": buildinfo.Version,
	})
}

// HandleConvert runs one statement through OCR, line extraction and the
// reconcile pipeline. Input is, in order of preference, form field "lines"
// (candidate lines, one per line), "text" (raw OCR text) or an uploaded
// "file" (pdf, png, jpg, jpeg).
func (h *Handler) HandleConvert(c *fiber.Ctx) (err error) {
	reqID := uuid.NewString()
	log := h.Log.With().Str("request_id", reqID).Logger()
	ctx := logger.WithContext(c.UserContext(), log)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("convert crashed")
			err = writeError(c, fiber.StatusInternalServerError, "could not process uploaded file")
		}
	}()

	format := h.Format
	if f := c.FormValue("format"); f != "" {
		format = writer.Format(strings.ToLower(f))
	}
	sink, err := writer.New(format)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	lines, rawText, extractorName, status, err := h.candidateLines(ctx, c)
	if err != nil {
		log.Warn().Err(err).Msg("convert failed")
		return writeError(c, status, err.Error())
	}

	res := reconcile.Process(lines)
	logger.LogDiagnostics(&log, res.Diagnostics)
	summary := res.Summarize()

	var csvBuf bytes.Buffer
	if err := (&writer.CSVWriter{IncludeHeader: true}).Write(&csvBuf, res.Transactions); err != nil {
		log.Error().Err(err).Msg("CSV generation failed")
		return writeError(c, fiber.StatusInternalServerError, "could not process uploaded file")
	}

	name := fmt.Sprintf("validated_bank_statement_%s%s", reqID, format.Extension())
	if err := os.MkdirAll(h.OutputDir, 0o755); err != nil {
		log.Error().Err(err).Msg("creating output dir")
		return writeError(c, fiber.StatusInternalServerError, "could not process uploaded file")
	}
	if err := sink.WriteToFile(filepath.Join(h.OutputDir, name), res.Transactions); err != nil {
		log.Error().Err(err).Msg("writing ledger")
		return writeError(c, fiber.StatusInternalServerError, "could not process uploaded file")
	}

	log.Info().
		Int("transactions", summary.Count).
		Int("ok", summary.OK).
		Int("mismatched", summary.Mismatched).
		Int("diagnostics", len(res.Diagnostics)).
		Str("output", name).
		Msg("statement processed")

	return c.JSON(ConvertResponse{
		Success:      true,
		Extractor:    extractorName,
		Transactions: res.Transactions,
		Diagnostics:  res.Diagnostics,
		Summary:      &summary,
		CSV:          csvBuf.String(),
		Download:     "/api/download/" + name,
		RawText:      rawText,
		Version:      buildinfo.Version,
	})
}

// candidateLines resolves the request input to the ordered RawLine sequence.
func (h *Handler) candidateLines(ctx context.Context, c *fiber.Ctx) (lines []string, rawText, source string, status int, err error) {
	if v := c.FormValue("lines"); strings.TrimSpace(v) != "" {
		return lineextract.CandidateLines(v), "", "none", fiber.StatusOK, nil
	}

	rawText = c.FormValue("text")
	if strings.TrimSpace(rawText) == "" {
		fh, ferr := c.FormFile("file")
		if ferr != nil {
			return nil, "", "", fiber.StatusBadRequest, errNoInput
		}
		if !extractor.IsAllowed(fh.Filename) {
			return nil, "", "", fiber.StatusBadRequest, fmt.Errorf("only %s files are supported", strings.Join(extractor.AllowedExtensions, ", "))
		}

		if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
			return nil, "", "", fiber.StatusInternalServerError, fmt.Errorf("could not process uploaded file")
		}
		path := filepath.Join(h.UploadDir, uuid.NewString()+strings.ToLower(filepath.Ext(fh.Filename)))
		if err := c.SaveFile(fh, path); err != nil {
			return nil, "", "", fiber.StatusInternalServerError, fmt.Errorf("could not save uploaded file")
		}
		defer os.Remove(path)

		rawText, err = extractor.ExtractText(ctx, path, h.OCR)
		if err != nil {
			return nil, "", "", fiber.StatusUnprocessableEntity, fmt.Errorf("could not process uploaded file: %w", err)
		}
	}

	lines, err = h.Lines.ExtractLines(ctx, rawText)
	if err != nil {
		return nil, rawText, "", fiber.StatusBadGateway, fmt.Errorf("transaction line extraction failed: %w", err)
	}
	return lines, rawText, h.Lines.Name(), fiber.StatusOK, nil
}

// HandleDownload serves a ledger written by HandleConvert as an attachment.
func (h *Handler) HandleDownload(c *fiber.Ctx) error {
	name := c.Params("name")
	if !outputName.MatchString(name) {
		return writeError(c, fiber.StatusBadRequest, "invalid file name")
	}
	path := filepath.Join(h.OutputDir, name)
	if _, err := os.Stat(path); err != nil {
		return writeError(c, fiber.StatusNotFound, "file not found")
	}
	return c.Download(path, name)
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ConvertResponse{
		Success: false,
		Error:   msg,
	})
}
