package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/resume-analyzer/internal/analysis"
	"github.com/jonathan/resume-analyzer/internal/config"
	"github.com/jonathan/resume-analyzer/internal/db"
	"github.com/jonathan/resume-analyzer/internal/fetch"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/sentiment"
	"github.com/jonathan/resume-analyzer/internal/skills"
)

var errNoVocabulary = errors.New("a skill vocabulary is required: use --vocab or --db-url")

// loadVocabulary reads the vocabulary file when one is configured and the
// database table otherwise.
func loadVocabulary(ctx context.Context) (*skills.Vocabulary, error) {
	switch {
	case settings.Vocabulary != "":
		return skills.LoadVocabularyFile(settings.Vocabulary)
	case settings.DatabaseURL != "":
		store, err := db.Connect(ctx, settings.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		vocab, err := store.LoadVocabulary(ctx)
		if err != nil {
			return nil, err
		}
		if vocab.Len() == 0 {
			return nil, fmt.Errorf("vocabulary table %s is empty: run vocab-import first", db.VocabularyTable)
		}
		return vocab, nil
	default:
		return nil, errNoVocabulary
	}
}

// newAnalyzer builds an Analyzer from the resolved settings. strategy and
// nameStrategy override the configured defaults when non-empty.
func newAnalyzer(ctx context.Context, strategy, nameStrategy string, recorder analysis.Recorder) (*analysis.Analyzer, error) {
	vocab, err := loadVocabulary(ctx)
	if err != nil {
		return nil, err
	}
	taxonomy, err := config.LoadTaxonomy(settings.Taxonomy)
	if err != nil {
		return nil, err
	}
	scorer, err := sentiment.Default()
	if err != nil {
		return nil, err
	}

	opts := analysis.Options{
		Vocabulary:    vocab,
		Taxonomy:      taxonomy.Traits,
		Sentiment:     scorer,
		BonusKeywords: taxonomy.BonusKeywords,
		Strategy:      settings.Strategy,
		NameStrategy:  settings.NameStrategy,
		Concurrency:   settings.Concurrency,
		Logger:        log,
	}
	if strategy != "" {
		opts.Strategy = strategy
	}
	if nameStrategy != "" {
		opts.NameStrategy = nameStrategy
	}
	if recorder != nil {
		opts.Recorder = recorder
	}
	return analysis.New(opts)
}

// newJobSource resolves job descriptions given as text, files or URLs. The
// headless browser fallback is only started when useBrowser is set.
func newJobSource(useBrowser bool) *ingestion.JobSource {
	var renderer fetch.Renderer
	if useBrowser || settings.UseBrowser {
		renderer = fetch.NewChromeRenderer(log)
	}
	return &ingestion.JobSource{Fetcher: fetch.New(fetch.DefaultOptions(), renderer, log)}
}
