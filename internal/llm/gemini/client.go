package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/joseph-ayodele/paper-grader/constants"
	"github.com/joseph-ayodele/paper-grader/internal/llm"
)

// RequestFeedback implements the submission stage of llm.PaperGrader: one file
// upload plus one inference call asking for free-text review. Upload and
// inference failures collapse to a single failure shape; callers get one
// human-readable message either way.
func (c *Client) RequestFeedback(ctx context.Context, path string) (llm.Feedback, error) {
	if c.cfg.APIKey == "" {
		return llm.Feedback{}, errors.New("GEMINI_API_KEY is empty")
	}
	rid := uuid.New().String()
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	cl, err := genai.NewClient(ctx, option.WithAPIKey(c.cfg.APIKey))
	if err != nil {
		return llm.Feedback{}, fmt.Errorf("gemini client: %w", err)
	}
	defer cl.Close()

	f, err := os.Open(path)
	if err != nil {
		c.log.Error("llm.feedback.open_error", "req_id", rid, "path", path, "error", err)
		return llm.Feedback{}, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	ext := filepath.Ext(path)
	c.log.Info("llm.feedback.upload",
		"req_id", rid,
		"model", c.cfg.Model,
		"basename", filepath.Base(path),
		"mime", constants.MapExtToMIME(ext),
	)

	doc, err := cl.UploadFile(ctx, "", f, &genai.UploadFileOptions{
		DisplayName: filepath.Base(path),
		MIMEType:    constants.MapExtToMIME(ext),
	})
	if err != nil {
		c.log.Error("llm.feedback.upload_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return llm.Feedback{}, fmt.Errorf("upload document: %w", err)
	}

	m := cl.GenerativeModel(c.cfg.Model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature: ptrFloat32(c.cfg.Temperature),
	}

	resp, err := m.GenerateContent(ctx,
		genai.FileData{MIMEType: doc.MIMEType, URI: doc.URI},
		genai.Text(llm.BuildFeedbackPrompt()),
	)
	if err != nil {
		c.log.Error("llm.feedback.generate_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return llm.Feedback{}, fmt.Errorf("generate feedback: %w", err)
	}
	txt := firstText(resp)
	if txt == "" {
		c.log.Error("llm.feedback.empty_response", "req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds())
		return llm.Feedback{}, errors.New("generate feedback: empty response")
	}

	c.log.Info("llm.feedback.ok",
		"req_id", rid,
		"document_ref", doc.URI,
		"text_len", len(txt),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return llm.Feedback{DocumentRef: doc.URI, Text: txt}, nil
}

// StructureFeedback implements the structuring stage: one inference call
// constrained to JSON output, then sanitize, coerce and validate. The call is
// attempted exactly once; a malformed response is a reported error, not a retry.
func (c *Client) StructureFeedback(ctx context.Context, rawText string) ([]llm.ReviewRecord, []byte, error) {
	if c.cfg.APIKey == "" {
		return nil, nil, errors.New("GEMINI_API_KEY is empty")
	}
	rid := uuid.New().String()
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	cl, err := genai.NewClient(ctx, option.WithAPIKey(c.cfg.APIKey))
	if err != nil {
		return nil, nil, fmt.Errorf("gemini client: %w", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(c.cfg.Model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}

	c.log.Info("llm.structure.start", "req_id", rid, "model", c.cfg.Model, "text_len", len(rawText))

	resp, err := m.GenerateContent(ctx, genai.Text(llm.BuildStructuringPrompt(rawText)))
	if err != nil {
		c.log.Error("llm.structure.generate_error", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, nil, fmt.Errorf("generate structured feedback: %w", err)
	}
	txt := firstText(resp)
	if txt == "" {
		c.log.Error("llm.structure.empty_response", "req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, nil, errors.New("generate structured feedback: empty response")
	}
	raw := []byte(llm.StripCodeFences(txt))

	records, _, err := llm.DecodeRecords(txt, c.log)
	if err != nil {
		c.log.Error("llm.structure.decode_error", "req_id", rid, "error", err,
			"content", txt, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, raw, err
	}
	if err := llm.ValidateRecords(records); err != nil {
		c.log.Error("llm.structure.schema_validation_failed", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, raw, fmt.Errorf("schema validation failed: %w", err)
	}

	c.log.Info("llm.structure.ok",
		"req_id", rid,
		"records", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return records, raw, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
