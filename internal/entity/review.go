package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Review represents one validated review record for a paper.
type Review struct {
	ID          uuid.UUID       `json:"id"`
	PaperID     uuid.UUID       `json:"paper_id"`
	Name        string          `json:"name"`
	Marks       int             `json:"marks"`
	Remarks     []string        `json:"remarks"`
	Suggestions []string        `json:"suggestions"`
	Errors      []string        `json:"errors"`
	RawJSON     json.RawMessage `json:"raw_json,omitempty"` // sanitized model output this row came from
	CreatedAt   time.Time       `json:"created_at"`
}
