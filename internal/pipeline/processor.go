package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/paper-grader/constants"
	"github.com/joseph-ayodele/paper-grader/internal/llm"
	"github.com/joseph-ayodele/paper-grader/internal/repository"
)

// Processor coordinates the submission stage (upload + free-text feedback)
// then the structuring stage (feedback -> validated records).
type Processor struct {
	logger      *slog.Logger
	grader      llm.PaperGrader
	papersRepo  repository.PaperRepository
	reviewsRepo repository.ReviewRepository
}

func NewProcessor(
	logger *slog.Logger,
	grader llm.PaperGrader,
	papersRepo repository.PaperRepository,
	reviewsRepo repository.ReviewRepository,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:      logger,
		grader:      grader,
		papersRepo:  papersRepo,
		reviewsRepo: reviewsRepo,
	}
}

// GradePaper runs the full two-stage pipeline for the document at path.
// Strict short-circuit: the structuring stage never runs if submission failed,
// stage errors propagate unchanged, and no partial results are ever returned.
// Each external call is attempted exactly once.
func (p *Processor) GradePaper(ctx context.Context, path string) (uuid.UUID, []llm.ReviewRecord, error) {
	ext := filepath.Ext(path)
	if !constants.IsAllowedExt(ext) {
		return uuid.Nil, nil, fmt.Errorf("unsupported document type: %s", ext)
	}

	paper, err := p.papersRepo.Create(ctx, path, ext)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("create paper: %w", err)
	}
	if err := p.papersRepo.MarkRunning(ctx, paper.ID); err != nil {
		return paper.ID, nil, fmt.Errorf("start job: %w", err)
	}

	// 1) submission stage -> document uploaded + raw feedback text
	feedback, err := p.grader.RequestFeedback(ctx, path)
	if err != nil {
		p.logger.Error("processor.feedback.failed", "paper_id", paper.ID, "err", err)
		_ = p.papersRepo.FinishFailure(ctx, paper.ID, err.Error())
		return paper.ID, nil, err
	}
	if err := p.papersRepo.FinishFeedback(ctx, paper.ID, feedback.DocumentRef); err != nil {
		return paper.ID, nil, err
	}
	p.logger.Debug("processor feedback success",
		"paper_id", paper.ID,
		"document_ref", feedback.DocumentRef,
		"text_len", len(feedback.Text),
	)

	// 2) structuring stage -> validated records (fails whole call on any bad record)
	records, raw, err := p.grader.StructureFeedback(ctx, feedback.Text)
	if err != nil {
		p.logger.Error("processor.structure.failed", "paper_id", paper.ID, "err", err)
		_ = p.papersRepo.FinishFailure(ctx, paper.ID, err.Error())
		return paper.ID, nil, err
	}

	if _, err := p.reviewsRepo.InsertRecords(ctx, paper.ID, records, raw); err != nil {
		_ = p.papersRepo.FinishFailure(ctx, paper.ID, err.Error())
		return paper.ID, nil, fmt.Errorf("persist reviews: %w", err)
	}
	if err := p.papersRepo.FinishStructured(ctx, paper.ID); err != nil {
		return paper.ID, nil, err
	}

	p.logger.Debug("processor structure success", "paper_id", paper.ID, "records", len(records))
	return paper.ID, records, nil
}

// Grade wraps GradePaper into the caller-facing envelope: exactly one of
// error / records populated, stage errors passed through unmodified.
func (p *Processor) Grade(ctx context.Context, path string) llm.GradeResult {
	_, records, err := p.GradePaper(ctx, path)
	if err != nil {
		return llm.Failure(err.Error())
	}
	return llm.Successful(records)
}
