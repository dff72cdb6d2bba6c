package models

type UploadResponse struct {
	ID               string `json:"id"`
	OriginalFilename string `json:"original_filename"`
	FileURL          string `json:"file_url"`
	Status           string `json:"processing_status"`
}

type UploadStatusResponse struct {
	ID           string         `json:"id"`
	Status       string         `json:"processing_status"`
	Candidate    *CandidateData `json:"extracted_json,omitempty"`
	ErrorMessage *string        `json:"error_message,omitempty"`
}

// RangeQuery is bound from the candidates-by-range query string. The
// interval is half-open: From is included, To is not.
type RangeQuery struct {
	From   string `query:"from" validate:"required,datetime=2006-01-02"`
	To     string `query:"to" validate:"required,datetime=2006-01-02"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=500"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}

type DateQuery struct {
	Date   string `query:"date" validate:"required,datetime=2006-01-02"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=500"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}

type RangeResponse struct {
	Items  []CandidateRow `json:"items"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

type DateResponse struct {
	Candidates []CandidateRow `json:"candidates"`
	Total      int64          `json:"total"`
	Limit      int            `json:"limit"`
	Offset     int            `json:"offset"`
}

type SearchQuery struct {
	Q     string `query:"q" validate:"required,min=2"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=50"`
}

type SearchResponse struct {
	Items []CandidateRow `json:"items"`
}

// ScreenRequest asks for the completed candidates uploaded in [From, To)
// to be evaluated against a vertical, optionally narrowed by a preset.
type ScreenRequest struct {
	VerticalID string `json:"vertical" query:"vertical" validate:"required,vertical"`
	PresetID   string `json:"preset" query:"preset" validate:"preset"`
	From       string `json:"from" query:"from" validate:"required,datetime=2006-01-02"`
	To         string `json:"to" query:"to" validate:"required,datetime=2006-01-02"`
}

type ExportQuery struct {
	From       string `query:"from" validate:"required,datetime=2006-01-02"`
	To         string `query:"to" validate:"required,datetime=2006-01-02"`
	Format     string `query:"format" validate:"omitempty,oneof=csv xlsx"`
	VerticalID string `query:"vertical" validate:"vertical"`
	PresetID   string `query:"preset" validate:"preset"`
}

type ImportResponse struct {
	Source   string `json:"source"`
	Found    int    `json:"found"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
}

type RulesQuery struct {
	VerticalID string `query:"vertical" validate:"required,vertical"`
	PresetID   string `query:"preset" validate:"preset"`
}
