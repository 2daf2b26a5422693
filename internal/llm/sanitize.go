package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/paper-grader/constants"
)

// StripCodeFences removes a markdown code fence the model may have wrapped the
// JSON in. Handles absent, leading-only and paired markers, with or without a
// "json" language tag.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// DecodeRecords turns structuring-stage model output into coerced review records.
// - Strips enclosing code fences.
// - Parses as an array; a lone object is wrapped into a one-element array
//   (model output shape is not trusted).
// - Per element: marks -> int clamped into [0,100] (default 0 when absent),
//   name -> string (default ""), list fields -> []string (default empty).
//   A value that cannot be coerced fails the whole call.
// Returns the records plus notes describing every applied default/coercion.
func DecodeRecords(raw string, logger *slog.Logger) ([]ReviewRecord, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cleaned := StripCodeFences(raw)

	var items []map[string]any
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		var single map[string]any
		if err2 := json.Unmarshal([]byte(cleaned), &single); err2 != nil {
			return nil, nil, fmt.Errorf("parse structured feedback: %w", err)
		}
		items = []map[string]any{single}
	}

	notes := make([]string, 0, 4)
	records := make([]ReviewRecord, 0, len(items))
	for i, item := range items {
		if item == nil {
			return nil, notes, fmt.Errorf("record %d: null element", i)
		}
		rec, recNotes, err := coerceRecord(item)
		if err != nil {
			return nil, notes, fmt.Errorf("record %d: %w", i, err)
		}
		notes = append(notes, recNotes...)
		records = append(records, rec)
	}

	if len(notes) > 0 {
		logger.Warn("llm.structure.coerced", "notes", notes)
	}
	return records, notes, nil
}

func coerceRecord(item map[string]any) (ReviewRecord, []string, error) {
	var notes []string

	name, noted, err := coerceName(item["name"])
	if err != nil {
		return ReviewRecord{}, notes, err
	}
	if noted != "" {
		notes = append(notes, noted)
	}

	marks, noted, err := coerceMarks(item["marks"])
	if err != nil {
		return ReviewRecord{}, notes, err
	}
	if noted != "" {
		notes = append(notes, noted)
	}

	rec := ReviewRecord{Name: name, Marks: marks}
	for field, dst := range map[string]*[]string{
		"remarks":     &rec.Remarks,
		"suggestions": &rec.Suggestions,
		"errors":      &rec.Errors,
	} {
		list, noted, err := coerceStringList(field, item[field])
		if err != nil {
			return ReviewRecord{}, notes, err
		}
		if noted != "" {
			notes = append(notes, noted)
		}
		*dst = list
	}
	return rec, notes, nil
}

func coerceName(v any) (string, string, error) {
	switch t := v.(type) {
	case nil:
		return "", "name(defaulted)", nil
	case string:
		return strings.TrimSpace(t), "", nil
	default:
		return "", "", fmt.Errorf("name: cannot coerce %T to string", v)
	}
}

func coerceMarks(v any) (int, string, error) {
	switch t := v.(type) {
	case nil:
		return 0, "marks(defaulted)", nil
	case float64:
		n := int(math.Round(t))
		if c := constants.ClampMarks(n); c != n {
			return c, fmt.Sprintf("marks(clamped %d->%d)", n, c), nil
		}
		return n, "", nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, "", fmt.Errorf("marks: cannot coerce %q to integer", t)
		}
		if c := constants.ClampMarks(n); c != n {
			return c, fmt.Sprintf("marks(clamped %d->%d)", n, c), nil
		}
		return n, "marks(string->int)", nil
	default:
		return 0, "", fmt.Errorf("marks: cannot coerce %T to integer", v)
	}
}

func coerceStringList(field string, v any) ([]string, string, error) {
	switch t := v.(type) {
	case nil:
		return []string{}, field + "(defaulted)", nil
	case []any:
		out := make([]string, 0, len(t))
		for _, el := range t {
			s, ok := el.(string)
			if !ok {
				return nil, "", fmt.Errorf("%s: cannot coerce %T element to string", field, el)
			}
			out = append(out, s)
		}
		return out, "", nil
	case string:
		// a bare string becomes a one-element list
		return []string{t}, field + "(wrapped)", nil
	default:
		return nil, "", fmt.Errorf("%s: cannot coerce %T to string array", field, v)
	}
}
