// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Mouli51ch/Move-Mint-Mantle-sub001/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when no stored analysis matches an id.
var ErrNotFound = errors.New("analysis not found")

// ErrAmbiguous is returned when an id prefix matches more than one analysis.
var ErrAmbiguous = errors.New("analysis id prefix is ambiguous")

// Store wraps SQLite access for analysis data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Batch writers share one connection; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id TEXT PRIMARY KEY,
			video_id TEXT NOT NULL,
			source_path TEXT NOT NULL,
			created_at TEXT NOT NULL,
			duration REAL NOT NULL,
			primary_style TEXT NOT NULL,
			overall REAL NOT NULL,
			technique REAL NOT NULL,
			timing REAL NOT NULL,
			expression REAL NOT NULL,
			clarity REAL NOT NULL,
			movement_count INTEGER NOT NULL,
			unique_styles INTEGER NOT NULL,
			avg_difficulty REAL NOT NULL,
			result_json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS movements (
			analysis_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			movement_id TEXT NOT NULL,
			name TEXT NOT NULL,
			movement TEXT NOT NULL,
			style TEXT NOT NULL,
			difficulty INTEGER NOT NULL,
			confidence REAL NOT NULL,
			start_frame INTEGER NOT NULL,
			end_frame INTEGER NOT NULL,
			start_time REAL NOT NULL,
			end_time REAL NOT NULL,
			PRIMARY KEY (analysis_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_movements_style ON movements(style);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertAnalysis stores a result and its movements. It returns the new
// analysis id.
func (s *Store) InsertAnalysis(ctx context.Context, sourcePath string, createdAt time.Time, result model.AnalysisResult) (string, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	q := result.Quality
	_, err = tx.ExecContext(ctx,
		`INSERT INTO analyses (id, video_id, source_path, created_at, duration, primary_style,
			overall, technique, timing, expression, clarity,
			movement_count, unique_styles, avg_difficulty, result_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		result.VideoID,
		sourcePath,
		createdAt.UTC().Format(time.RFC3339Nano),
		result.Duration,
		string(result.PrimaryStyle),
		q.Overall, q.Technique, q.Timing, q.Expression, q.Clarity,
		result.Metrics.TotalMovements,
		result.Metrics.UniqueStyles,
		result.Metrics.AverageDifficulty,
		string(payload),
	)
	if err != nil {
		return "", err
	}

	if len(result.DetectedMovements) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO movements (analysis_id, seq, movement_id, name, movement, style, difficulty,
				confidence, start_frame, end_frame, start_time, end_time)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return "", err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, m := range result.DetectedMovements {
			if _, err = stmt.ExecContext(ctx, id, i, m.ID, m.Name, m.Movement, string(m.Style), int(m.Difficulty),
				m.Confidence, m.StartFrame, m.EndFrame, m.StartTime, m.EndTime); err != nil {
				return "", err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

const summaryColumns = `id, video_id, source_path, created_at, duration, primary_style,
	overall, technique, timing, expression, clarity,
	movement_count, unique_styles, avg_difficulty`

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner, extra ...any) (model.AnalysisSummary, error) {
	var sum model.AnalysisSummary
	var createdAt, style string
	dest := []any{
		&sum.ID, &sum.VideoID, &sum.SourcePath, &createdAt, &sum.Duration, &style,
		&sum.Quality.Overall, &sum.Quality.Technique, &sum.Quality.Timing, &sum.Quality.Expression, &sum.Quality.Clarity,
		&sum.MovementCount, &sum.UniqueStyles, &sum.AverageDifficulty,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return model.AnalysisSummary{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return model.AnalysisSummary{}, err
	}
	sum.CreatedAt = parsed
	sum.PrimaryStyle = model.Style(style)
	return sum, nil
}

// GetAnalysis loads a stored analysis by id or unique id prefix.
func (s *Store) GetAnalysis(ctx context.Context, id string) (model.AnalysisSummary, model.AnalysisResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.AnalysisSummary{}, model.AnalysisResult{}, ErrNotFound
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+summaryColumns+`, result_json FROM analyses
		 WHERE id = ? OR id LIKE ? ESCAPE '\'
		 ORDER BY id = ? DESC
		 LIMIT 2`,
		id, escapeLike(id)+"%", id)
	if err != nil {
		return model.AnalysisSummary{}, model.AnalysisResult{}, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var matches []model.AnalysisSummary
	var payloads []string
	for rows.Next() {
		var payload string
		sum, err := scanSummary(rows, &payload)
		if err != nil {
			return model.AnalysisSummary{}, model.AnalysisResult{}, err
		}
		matches = append(matches, sum)
		payloads = append(payloads, payload)
	}
	if err := rows.Err(); err != nil {
		return model.AnalysisSummary{}, model.AnalysisResult{}, err
	}
	switch {
	case len(matches) == 0:
		return model.AnalysisSummary{}, model.AnalysisResult{}, ErrNotFound
	case len(matches) > 1 && matches[0].ID != id:
		return model.AnalysisSummary{}, model.AnalysisResult{}, ErrAmbiguous
	}

	var result model.AnalysisResult
	if err := json.Unmarshal([]byte(payloads[0]), &result); err != nil {
		return model.AnalysisSummary{}, model.AnalysisResult{}, fmt.Errorf("failed to decode stored result: %w", err)
	}
	return matches[0], result, nil
}

// ListAnalyses returns summaries filtered by history config, oldest first.
// Last keeps only the most recent N after the other filters apply.
func (s *Store) ListAnalyses(ctx context.Context, cfg model.HistoryConfig) ([]model.AnalysisSummary, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Style != "" {
		clauses = append(clauses, "primary_style = ?")
		args = append(args, cfg.Style)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, cfg.Since.UTC().Format(time.RFC3339Nano))
	}
	limit := -1
	if cfg.Last > 0 {
		limit = cfg.Last
	}
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT * FROM (
			SELECT %s FROM analyses
			WHERE %s
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		) ORDER BY created_at ASC, id ASC`, summaryColumns, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.AnalysisSummary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// StyleTotals aggregates stored movements by style across analyses.
func (s *Store) StyleTotals(ctx context.Context, analysisIDs []string) ([]model.StyleAggregate, error) {
	if len(analysisIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(analysisIDs))
	args := make([]any, len(analysisIDs))
	for i, id := range analysisIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT style, COUNT(*) AS total, AVG(confidence), AVG(difficulty)
		FROM movements
		WHERE analysis_id IN (%s)
		GROUP BY style
		ORDER BY total DESC, style ASC`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.StyleAggregate
	for rows.Next() {
		var agg model.StyleAggregate
		var style string
		if err := rows.Scan(&style, &agg.Count, &agg.AverageConfidence, &agg.AverageDifficulty); err != nil {
			return nil, err
		}
		agg.Style = model.Style(style)
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteAnalysis removes an analysis and its movements.
func (s *Store) DeleteAnalysis(ctx context.Context, id string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = ErrNotFound
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM movements WHERE analysis_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
