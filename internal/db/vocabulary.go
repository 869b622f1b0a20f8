package db

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/skills"
)

// VocabularyTable holds one row per skill term.
const VocabularyTable = "skill_vocabulary"

const vocabularySchema = `CREATE TABLE IF NOT EXISTS skill_vocabulary (
	term       TEXT PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// EnsureSchema creates the vocabulary table when it does not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, vocabularySchema); err != nil {
		return fmt.Errorf("failed to create %s: %w", VocabularyTable, err)
	}
	return nil
}

// LoadVocabulary reads every stored term into a Vocabulary.
func (db *DB) LoadVocabulary(ctx context.Context) (*skills.Vocabulary, error) {
	rows, err := db.pool.Query(ctx, `SELECT term FROM skill_vocabulary ORDER BY term`)
	if err != nil {
		return nil, fmt.Errorf("failed to query vocabulary: %w", err)
	}
	terms, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary: %w", err)
	}
	return skills.NewVocabulary(terms...), nil
}

// CountVocabulary returns the number of stored terms.
func (db *DB) CountVocabulary(ctx context.Context) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM skill_vocabulary`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count vocabulary: %w", err)
	}
	return n, nil
}

// ImportVocabulary stores terms, normalized and deduplicated. With replace
// the table is emptied first and the terms are bulk-copied; otherwise new
// terms are added and existing ones are left alone. It returns the number of
// rows written.
func (db *DB) ImportVocabulary(ctx context.Context, terms []string, replace bool) (int64, error) {
	normalized := normalizeTerms(terms)

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var written int64
	if replace {
		if _, err := tx.Exec(ctx, `DELETE FROM skill_vocabulary`); err != nil {
			return 0, fmt.Errorf("failed to clear vocabulary: %w", err)
		}
		written, err = tx.CopyFrom(ctx, pgx.Identifier{VocabularyTable}, []string{"term"},
			pgx.CopyFromSlice(len(normalized), func(i int) ([]any, error) {
				return []any{normalized[i]}, nil
			}))
		if err != nil {
			return 0, fmt.Errorf("failed to copy vocabulary: %w", err)
		}
	} else {
		batch := &pgx.Batch{}
		for _, term := range normalized {
			batch.Queue(`INSERT INTO skill_vocabulary (term) VALUES ($1) ON CONFLICT (term) DO NOTHING`, term)
		}
		results := tx.SendBatch(ctx, batch)
		for range normalized {
			tag, err := results.Exec()
			if err != nil {
				_ = results.Close()
				return 0, fmt.Errorf("failed to insert vocabulary: %w", err)
			}
			written += tag.RowsAffected()
		}
		if err := results.Close(); err != nil {
			return 0, fmt.Errorf("failed to insert vocabulary: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit vocabulary: %w", err)
	}
	db.log.Info("imported vocabulary", zap.Int64("rows", written), zap.Int("terms", len(normalized)), zap.Bool("replace", replace))
	return written, nil
}

func normalizeTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
