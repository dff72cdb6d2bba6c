package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusError      ProcessingStatus = "error"
)

// UploadSource records how a CV reached the system.
type UploadSource string

const (
	SourceUpload UploadSource = "upload"
	SourceGmail  UploadSource = "gmail"
	SourceDrive  UploadSource = "drive"
)

// CVUpload is a stored resume and its processing state. ExtractedJSON is
// only populated once ProcessingStatus is completed.
type CVUpload struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID           string           `gorm:"type:text;index" json:"user_id"`
	FileKey          string           `gorm:"type:text" json:"-"`
	FileURL          string           `gorm:"type:text" json:"file_url"`
	ExtractedJSON    datatypes.JSON   `gorm:"type:jsonb" json:"extracted_json,omitempty"`
	OriginalFilename string           `gorm:"type:text" json:"original_filename"`
	Source           UploadSource     `gorm:"type:text;not null;default:'upload'" json:"source"`
	SourceRef        string           `gorm:"type:text;index" json:"-"`
	ProcessingStatus ProcessingStatus `gorm:"type:text;not null;default:'pending';index" json:"processing_status"`
	ErrorMessage     *string          `gorm:"type:text" json:"error_message,omitempty"`
	UploadedAt       time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"uploaded_at"`
	ReceivedAt       *time.Time       `json:"received_at,omitempty"`
	UpdatedAt        time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (CVUpload) TableName() string {
	return "cv_uploads"
}

// Candidate decodes the extracted JSON. It returns nil without error when
// the upload has not completed.
func (u *CVUpload) Candidate() (*CandidateData, error) {
	if u.ProcessingStatus != StatusCompleted || len(u.ExtractedJSON) == 0 {
		return nil, nil
	}

	var c CandidateData
	if err := json.Unmarshal(u.ExtractedJSON, &c); err != nil {
		return nil, fmt.Errorf("failed to decode extracted json for upload %s: %w", u.ID, err)
	}
	return &c, nil
}

// Row converts the record into the list shape served by the query
// endpoints. Undecodable extracted JSON is dropped rather than failing the
// whole listing.
func (u *CVUpload) Row() CandidateRow {
	row := CandidateRow{
		ID:               u.ID.String(),
		UserID:           u.UserID,
		FileURL:          u.FileURL,
		OriginalFilename: u.OriginalFilename,
		Source:           string(u.Source),
		UploadedAt:       u.UploadedAt,
		ReceivedAt:       u.ReceivedAt,
		ProcessingStatus: string(u.ProcessingStatus),
	}
	if c, err := u.Candidate(); err == nil {
		row.Candidate = c
	}
	return row
}
