package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/paper-grader/internal/entity"
	"github.com/joseph-ayodele/paper-grader/internal/llm"
)

type ReviewRepository interface {
	InsertRecords(ctx context.Context, paperID uuid.UUID, records []llm.ReviewRecord, rawJSON []byte) ([]*entity.Review, error)
	ListByPaper(ctx context.Context, paperID uuid.UUID) ([]*entity.Review, error)
	ListAll(ctx context.Context) ([]*entity.Review, error)
}

type reviewRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewReviewRepository(db *sql.DB, logger *slog.Logger) ReviewRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &reviewRepository{db: db, logger: logger}
}

// InsertRecords persists the validated records of one structuring call.
// All-or-nothing: a single transaction so a mid-batch failure never leaves
// partial results behind.
func (r *reviewRepository) InsertRecords(ctx context.Context, paperID uuid.UUID, records []llm.ReviewRecord, rawJSON []byte) ([]*entity.Review, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	out := make([]*entity.Review, 0, len(records))
	for _, rec := range records {
		rv := &entity.Review{
			ID:          uuid.New(),
			PaperID:     paperID,
			Name:        rec.Name,
			Marks:       rec.Marks,
			Remarks:     rec.Remarks,
			Suggestions: rec.Suggestions,
			Errors:      rec.Errors,
			RawJSON:     rawJSON,
			CreatedAt:   now,
		}
		remarks, _ := json.Marshal(rec.Remarks)
		suggestions, _ := json.Marshal(rec.Suggestions)
		errs, _ := json.Marshal(rec.Errors)

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO review (id, paper_id, name, marks, remarks, suggestions, errors, raw_json, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			rv.ID.String(), paperID.String(), rv.Name, rv.Marks,
			string(remarks), string(suggestions), string(errs), string(rawJSON), now); err != nil {
			r.logger.Error("failed to insert review", "paper_id", paperID, "error", err)
			return nil, err
		}
		out = append(out, rv)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reviewRepository) ListByPaper(ctx context.Context, paperID uuid.UUID) ([]*entity.Review, error) {
	return r.list(ctx,
		`SELECT id, paper_id, name, marks, remarks, suggestions, errors, raw_json, created_at
		 FROM review WHERE paper_id = $1 ORDER BY created_at`, paperID.String())
}

func (r *reviewRepository) ListAll(ctx context.Context) ([]*entity.Review, error) {
	return r.list(ctx,
		`SELECT id, paper_id, name, marks, remarks, suggestions, errors, raw_json, created_at
		 FROM review ORDER BY created_at`)
}

func (r *reviewRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list reviews", "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []*entity.Review
	for rows.Next() {
		var rv entity.Review
		var rawID, rawPaperID, remarks, suggestions, errs string
		var rawJSON sql.NullString
		if err := rows.Scan(&rawID, &rawPaperID, &rv.Name, &rv.Marks,
			&remarks, &suggestions, &errs, &rawJSON, &rv.CreatedAt); err != nil {
			return nil, err
		}
		rv.ID, _ = uuid.Parse(rawID)
		rv.PaperID, _ = uuid.Parse(rawPaperID)
		if err := json.Unmarshal([]byte(remarks), &rv.Remarks); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(suggestions), &rv.Suggestions); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(errs), &rv.Errors); err != nil {
			return nil, err
		}
		if rawJSON.Valid {
			rv.RawJSON = json.RawMessage(rawJSON.String)
		}
		out = append(out, &rv)
	}
	return out, rows.Err()
}
