package llm

import (
	"encoding/json"
	"strings"
)

// BuildFeedbackPrompt composes the submission-stage instruction. The model is
// asked for natural-language feedback here, never JSON; structure comes later.
func BuildFeedbackPrompt() string {
	parts := []string{
		"You are an experienced academic reviewer grading the attached paper.",
		"Read the whole document and provide detailed feedback in plain prose (NOT JSON).",
		"Cover, in order:",
		"1. An overall quality score out of 100 and a one-line justification.",
		"2. The positive aspects of the work (structure, argument, evidence, writing).",
		"3. Concrete areas for improvement.",
		"4. Any factual, technical, grammatical or citation errors you found.",
		"If the paper states an author or title, mention it.",
		"Be specific; refer to sections or claims rather than generalities.",
	}
	return strings.Join(parts, " ")
}

// BuildStructuringPrompt embeds the stage-one feedback verbatim and the target
// JSON shape. The marks bounds and empty-array rules are restated here because
// model output is not trusted to follow the schema alone.
func BuildStructuringPrompt(rawFeedback string) string {
	var b strings.Builder
	b.WriteString("Re-express the review below as JSON matching the provided JSON Schema.\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Return a JSON array of review records, one per paper reviewed (usually one).\n")
	b.WriteString("- 'marks' MUST be an integer between 0 and 100 inclusive.\n")
	b.WriteString("- 'name' is the paper or author name if the review mentions one, else an empty string.\n")
	b.WriteString("- 'remarks', 'suggestions' and 'errors' MUST always be present as arrays of strings; use [] when there is nothing to say, never null.\n")
	b.WriteString("- Output ONLY the JSON, no markdown fences, no commentary.\n")
	b.WriteString("\nReview:\n")
	b.WriteString(rawFeedback)
	b.WriteString("\n\nJSON Schema:\n")
	b.WriteString(mustJSON(BuildReviewJSONSchema()))
	return b.String()
}

// BuildReviewJSONSchema returns a JSON-Schema (draft 2020-12 subset) for an
// array of review records, as a generic map. We pass this to the backend as a
// structured-output constraint and also use it locally to validate.
func BuildReviewJSONSchema() map[string]any {
	record := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":        map[string]any{"type": "string"},
			"marks":       map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			"remarks":     stringArrayProp(),
			"suggestions": stringArrayProp(),
			"errors":      stringArrayProp(),
		},
		"required": []string{"name", "marks", "remarks", "suggestions", "errors"},
	}
	return map[string]any{
		"type":  "array",
		"items": record,
	}
}

func stringArrayProp() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
