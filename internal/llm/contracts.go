package llm

import "context"

// ReviewRecord is the normalized grading result for one paper.
type ReviewRecord struct {
	Name        string   `json:"name"`
	Marks       int      `json:"marks"` // always within [0,100]
	Remarks     []string `json:"remarks"`
	Suggestions []string `json:"suggestions"`
	Errors      []string `json:"errors"`
}

// Feedback is the output of the submission stage: an opaque backend reference
// for the uploaded document plus the model's free-text review.
type Feedback struct {
	DocumentRef string
	Text        string
}

// GradeResult is the envelope returned to callers. Exactly one of Error /
// Records is populated.
type GradeResult struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Records []ReviewRecord `json:"records,omitempty"`
}

// Failure builds the failure variant of the envelope.
func Failure(msg string) GradeResult {
	return GradeResult{Success: false, Error: msg}
}

// Successful builds the success variant of the envelope.
func Successful(records []ReviewRecord) GradeResult {
	return GradeResult{Success: true, Records: records}
}

// PaperGrader is the interface the pipeline depends on.
type PaperGrader interface {
	// RequestFeedback uploads the document at path and asks for free-text
	// review covering score, strengths, improvement areas and errors.
	RequestFeedback(ctx context.Context, path string) (Feedback, error)
	// StructureFeedback re-expresses raw free-text feedback as validated
	// review records.
	StructureFeedback(ctx context.Context, rawText string) ([]ReviewRecord, []byte /*rawJSON*/, error)
}
