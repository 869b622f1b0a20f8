package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Document is cleaned text plus where it came from.
type Document struct {
	Text     string
	Metadata *Metadata
}

// ReadResume extracts and cleans the resume at path.
func ReadResume(ctx context.Context, path string, extractor *DetectingExtractor) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ResumeFromBytes(ctx, filepath.Base(path), data, extractor)
}

// ResumeFromBytes extracts and cleans an in-memory resume named filename.
func ResumeFromBytes(ctx context.Context, filename string, data []byte, extractor *DetectingExtractor) (*Document, error) {
	if extractor == nil {
		extractor = NewDetectingExtractor()
	}
	text, err := extractor.ExtractNamed(ctx, filename, data)
	if err != nil {
		return nil, err
	}
	cleaned := CleanText(text)
	return &Document{Text: cleaned, Metadata: NewMetadata(filename, DetectMIME(filename, data), cleaned)}, nil
}
