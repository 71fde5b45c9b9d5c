package entity

import (
	"time"

	"github.com/google/uuid"
)

// TranslationJob is one ledger row.
type TranslationJob struct {
	ID           uuid.UUID  `json:"id"`
	Kind         string     `json:"kind"`
	SrcLang      string     `json:"src_lang"`
	TgtLang      string     `json:"tgt_lang"`
	Engine       string     `json:"engine"`
	Status       string     `json:"status"`
	LineCount    int        `json:"line_count"`
	InputSHA256  string     `json:"input_sha256"`
	ErrorKind    *string    `json:"error_kind,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// LineTranslation is a source/translation pair with its box, used by exports.
type LineTranslation struct {
	Index       int    `json:"index"`
	Source      string `json:"source"`
	Translation string `json:"translation"`
	Box         Box    `json:"box"`
}
