package server

import "github.com/joseph-ayodele/translation-backend/internal/entity"

type TranslateImageRequest struct {
	Image   []byte `json:"image"`
	SrcLang string `json:"src_lang,omitempty"`
	TgtLang string `json:"tgt_lang"`
	Engine  string `json:"engine,omitempty"`
}

type TranslateImageResponse struct {
	JobID      string                   `json:"job_id,omitempty"`
	SrcLang    string                   `json:"src_lang"`
	Edited     []byte                   `json:"edited"`
	Transcript []byte                   `json:"transcript"`
	Lines      []entity.LineTranslation `json:"lines"`
	Cached     bool                     `json:"cached"`
}

type TranslateTextRequest struct {
	Text    string `json:"text"`
	SrcLang string `json:"src_lang,omitempty"`
	TgtLang string `json:"tgt_lang"`
	Engine  string `json:"engine,omitempty"`
}

type TranslateTextResponse struct {
	JobID       string `json:"job_id,omitempty"`
	SrcLang     string `json:"src_lang"`
	Translation string `json:"translation"`
	Cached      bool   `json:"cached"`
}

type DetectLanguageRequest struct {
	Text string `json:"text"`
}

type DetectLanguageResponse struct {
	Language    string  `json:"language"`
	DisplayName string  `json:"display_name"`
	Confidence  float64 `json:"confidence"`
}

type ExportJobsRequest struct {
	Limit int `json:"limit"`
}

type ExportJobsResponse struct {
	XLSX []byte `json:"xlsx"`
}
