package extractor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// OCROptions control page rendering and Tesseract.
type OCROptions struct {
	DPI      int    // rendering resolution for pdftoppm
	Language string // tesseract -l
	PSM      int    // tesseract page segmentation mode; 0 leaves the default
}

// DefaultOCROptions renders at 300 DPI and reads English.
func DefaultOCROptions() OCROptions {
	return OCROptions{DPI: 300, Language: "eng", PSM: 4}
}

// IsOCRAvailable reports whether pdftoppm and tesseract are on PATH.
func IsOCRAvailable() bool {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return false
	}
	_, err := exec.LookPath("tesseract")
	return err == nil
}

// ocrPDF renders each PDF page to PNG with pdftoppm and OCRs it.
func ocrPDF(ctx context.Context, filePath string, opts OCROptions) ([]string, error) {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return nil, fmt.Errorf("pdftoppm not available (install poppler-utils): %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "ocr-pages-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	cmd := exec.CommandContext(ctx, "pdftoppm", "-r", strconv.Itoa(opts.DPI), "-png", filePath, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w (output: %s)", err, strings.TrimSpace(string(out)))
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp dir: %w", err)
	}
	var images []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".png") {
			images = append(images, filepath.Join(tmpDir, e.Name()))
		}
	}
	// pdftoppm zero-pads page numbers, so name order is page order.
	sort.Strings(images)
	if len(images) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no page images")
	}

	log := zerolog.Ctx(ctx)
	var pages []string
	for _, img := range images {
		text, err := ocrImage(ctx, img, opts)
		if err != nil {
			log.Warn().Err(err).Str("image", filepath.Base(img)).Msg("skipping page that tesseract could not read")
			continue
		}
		pages = append(pages, text)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("tesseract OCR produced no text from %d page images", len(images))
	}
	return pages, nil
}

// ocrImage runs tesseract on one image and returns its text.
func ocrImage(ctx context.Context, imgPath string, opts OCROptions) (string, error) {
	if _, err := exec.LookPath("tesseract"); err != nil {
		return "", fmt.Errorf("tesseract not available (install tesseract-ocr): %w", err)
	}

	args := []string{imgPath, "stdout", "-l", opts.Language}
	if opts.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(opts.PSM))
	}
	out, err := exec.CommandContext(ctx, "tesseract", args...).Output()
	if err != nil {
		return "", fmt.Errorf("tesseract failed on %s: %w", filepath.Base(imgPath), err)
	}
	return strings.TrimSpace(string(out)), nil
}
