package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/paper-grader/constants"
	"github.com/joseph-ayodele/paper-grader/internal/entity"
)

type PaperRepository interface {
	Create(ctx context.Context, sourcePath, fileExt string) (*entity.Paper, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Paper, error)
	MarkRunning(ctx context.Context, id uuid.UUID) error
	FinishFeedback(ctx context.Context, id uuid.UUID, documentRef string) error
	FinishStructured(ctx context.Context, id uuid.UUID) error
	FinishFailure(ctx context.Context, id uuid.UUID, errMsg string) error
}

type paperRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewPaperRepository(db *sql.DB, logger *slog.Logger) PaperRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &paperRepository{db: db, logger: logger}
}

func (r *paperRepository) Create(ctx context.Context, sourcePath, fileExt string) (*entity.Paper, error) {
	now := time.Now().UTC()
	p := &entity.Paper{
		ID:         uuid.New(),
		SourcePath: sourcePath,
		FileExt:    constants.NormalizeExt(fileExt),
		Status:     string(constants.JobStatusQueued),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO paper (id, source_path, file_ext, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID.String(), p.SourcePath, p.FileExt, p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to create paper", "source_path", sourcePath, "error", err)
		return nil, err
	}
	return p, nil
}

func (r *paperRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Paper, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, source_path, file_ext, status, document_ref, error_message, created_at, updated_at
		 FROM paper WHERE id = $1`, id.String())

	var p entity.Paper
	var rawID string
	if err := row.Scan(&rawID, &p.SourcePath, &p.FileExt, &p.Status,
		&p.DocumentRef, &p.ErrorMsg, &p.CreatedAt, &p.UpdatedAt); err != nil {
		r.logger.Error("failed to load paper", "paper_id", id, "error", err)
		return nil, err
	}
	p.ID, _ = uuid.Parse(rawID)
	return &p, nil
}

func (r *paperRepository) MarkRunning(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id, constants.JobStatusRunning)
}

// FinishFeedback records stage-one success: the backend document reference is
// kept for traceability even though it is never reused.
func (r *paperRepository) FinishFeedback(ctx context.Context, id uuid.UUID, documentRef string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE paper SET status = $1, document_ref = $2, updated_at = $3 WHERE id = $4`,
		string(constants.JobStatusFeedbackOK), documentRef, time.Now().UTC(), id.String())
	if err != nil {
		r.logger.Error("failed to update paper", "paper_id", id, "error", err)
	}
	return err
}

func (r *paperRepository) FinishStructured(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id, constants.JobStatusStructuredOK)
}

func (r *paperRepository) FinishFailure(ctx context.Context, id uuid.UUID, errMsg string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE paper SET status = $1, error_message = $2, updated_at = $3 WHERE id = $4`,
		string(constants.JobStatusFailed), errMsg, time.Now().UTC(), id.String())
	if err != nil {
		r.logger.Error("failed to update paper", "paper_id", id, "error", err)
	}
	return err
}

func (r *paperRepository) setStatus(ctx context.Context, id uuid.UUID, status constants.JobStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE paper SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), id.String())
	if err != nil {
		r.logger.Error("failed to update paper", "paper_id", id, "error", err)
	}
	return err
}
