// Package extractor turns an uploaded statement (PDF or image) into plain
// text for the line extractor. Pages are flattened into one string with
// "=== Page N ===" markers.
package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// AllowedExtensions lists the file types ExtractText accepts.
var AllowedExtensions = []string{".pdf", ".png", ".jpg", ".jpeg"}

// IsAllowed reports whether filename has a supported extension.
func IsAllowed(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ExtractText returns the text of the document at filePath. PDFs with a
// readable text layer are read directly; scanned PDFs and images go through
// Tesseract.
func ExtractText(ctx context.Context, filePath string, opts OCROptions) (string, error) {
	if !IsAllowed(filePath) {
		return "", fmt.Errorf("unsupported file type %q (allowed: %s)", filepath.Ext(filePath), strings.Join(AllowedExtensions, ", "))
	}
	if opts.DPI <= 0 {
		opts.DPI = DefaultOCROptions().DPI
	}
	if opts.Language == "" {
		opts.Language = DefaultOCROptions().Language
	}

	log := zerolog.Ctx(ctx)

	if strings.EqualFold(filepath.Ext(filePath), ".pdf") {
		pages, err := textLayerPages(ctx, filePath)
		if err == nil {
			log.Debug().Int("pages", len(pages)).Msg("using PDF text layer")
			return JoinPages(pages), nil
		}
		log.Debug().Err(err).Msg("falling back to OCR")

		pages, err = ocrPDF(ctx, filePath, opts)
		if err != nil {
			return "", fmt.Errorf("OCR failed: %w", err)
		}
		return JoinPages(pages), nil
	}

	text, err := ocrImage(ctx, filePath, opts)
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return JoinPages([]string{text}), nil
}

// JoinPages concatenates page texts with 1-based page markers.
func JoinPages(pages []string) string {
	var b strings.Builder
	for i, page := range pages {
		fmt.Fprintf(&b, "\n=== Page %d ===\n%s\n", i+1, page)
	}
	return b.String()
}
