package imagescan

import (
	"context"
	"strings"

	"github.com/openraise/screening/internal/domain"
	"github.com/openraise/screening/internal/services/rules"
)

// Moderation labels emitted as findings.
const (
	LabelUnsupportedFormat = "unsupported_format"
	LabelLargeFileSize     = "large_file_size"
	LabelModerationError   = "moderation_error"
	LabelRiskyTextInImage  = "risky_text_in_image"
)

const (
	scoreUnsupportedFormat = 0.3
	scoreLargeFileSize     = 0.2
	scoreModerationError   = 0.1
	scoreRiskyText         = 0.7
)

// TextRecognizer is the external OCR collaborator. Unreadable images yield
// empty text, not an error.
type TextRecognizer interface {
	Recognize(ctx context.Context, imageBytes []byte) (string, error)
}

type Config struct {
	MaxBytes     int64
	AllowedMIMEs []string
}

type Scanner struct {
	cfg        Config
	allowed    map[string]struct{}
	recognizer TextRecognizer
}

func NewScanner(cfg Config, recognizer TextRecognizer) *Scanner {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 10 * 1024 * 1024
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, m := range cfg.AllowedMIMEs {
		allowed[strings.ToLower(strings.TrimSpace(m))] = struct{}{}
	}
	if len(allowed) == 0 {
		allowed["image/jpeg"] = struct{}{}
		allowed["image/png"] = struct{}{}
		allowed["image/webp"] = struct{}{}
	}

	return &Scanner{
		cfg:        cfg,
		allowed:    allowed,
		recognizer: recognizer,
	}
}

// Evaluate moderates one image payload and extracts its visible text. The
// returned image carries the OCR text; findings are moderation labels. An
// unexpected fault fails open with a low score instead of blocking the
// campaign on a tooling problem.
func (s *Scanner) Evaluate(ctx context.Context, image domain.Image, data []byte) (out domain.Image, result domain.SignalResult) {
	out = image

	defer func() {
		if r := recover(); r != nil {
			raise(&result, scoreModerationError, LabelModerationError)
		}
	}()

	if _, ok := s.allowed[strings.ToLower(strings.TrimSpace(image.MIMEType))]; !ok {
		raise(&result, scoreUnsupportedFormat, LabelUnsupportedFormat)
	}
	if int64(len(data)) > s.cfg.MaxBytes {
		raise(&result, scoreLargeFileSize, LabelLargeFileSize)
	}

	out.ExtractedText = s.recognizeText(ctx, data)
	if out.ExtractedText != "" && rules.HasRiskyText(out.ExtractedText) {
		raise(&result, scoreRiskyText, LabelRiskyTextInImage)
	}

	return out, result
}

// EvaluateAll processes the batch one image at a time to bound peak memory
// over large binary payloads.
func (s *Scanner) EvaluateAll(ctx context.Context, images []domain.Image, payloads [][]byte) ([]domain.Image, []domain.SignalResult) {
	outImages := make([]domain.Image, len(images))
	results := make([]domain.SignalResult, len(images))
	for i, img := range images {
		var data []byte
		if i < len(payloads) {
			data = payloads[i]
		}
		outImages[i], results[i] = s.Evaluate(ctx, img, data)
	}
	return outImages, results
}

// MaxRisk is the batch's contribution to the overall risk score.
func MaxRisk(results []domain.SignalResult) float64 {
	max := 0.0
	for _, r := range results {
		if r.Score > max {
			max = r.Score
		}
	}
	return max
}

func (s *Scanner) recognizeText(ctx context.Context, data []byte) string {
	if s.recognizer == nil || len(data) == 0 {
		return ""
	}
	text, err := s.recognizer.Recognize(ctx, data)
	if err != nil {
		// Recognition failure degrades to empty text, never to a pipeline error.
		return ""
	}
	return strings.TrimSpace(text)
}

func raise(result *domain.SignalResult, floor float64, label string) {
	if floor > result.Score {
		result.Score = floor
	}
	result.Findings = append(result.Findings, label)
}
