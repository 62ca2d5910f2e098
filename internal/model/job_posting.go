package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	JobStatusDraft  = "DRAFT"
	JobStatusActive = "ACTIVE"
	JobStatusPaused = "PAUSED"
	JobStatusClosed = "CLOSED"
)

// JobStatuses lists every accepted JobPosting status
var JobStatuses = []interface{}{JobStatusDraft, JobStatusActive, JobStatusPaused, JobStatusClosed}

// EditableJobPostingInfo holds the posting fields HR users may write
type EditableJobPostingInfo struct {
	Title        string  `gorm:"type:text;not null" json:"title"`
	Description  string  `gorm:"type:text" json:"description"`
	Requirements *string `gorm:"type:text" json:"requirements"`
	Location     string  `gorm:"type:text" json:"location"`
	JobType      string  `gorm:"type:text;not null" json:"job_type"`
	Department   string  `gorm:"type:text" json:"department"`
	Status       string  `gorm:"type:text;not null;default:'DRAFT'" json:"status"`
}

// Validate checks a full posting body
func (e EditableJobPostingInfo) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.Description, validation.Required),
		validation.Field(&e.Location, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.JobType, validation.Required, validation.Length(1, 50)),
		validation.Field(&e.Department, validation.Required, validation.Length(1, 100)),
		validation.Field(&e.Status, validation.In(JobStatuses...)),
	)
}

// JobPosting is an opening published by a company
type JobPosting struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PublicID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;<-:create" json:"public_id"`

	CompanyID uint    `gorm:"not null;index;<-:create" json:"company_id"`
	Company   Company `gorm:"foreignKey:CompanyID;references:ID;constraint:OnDelete:CASCADE" json:"company"`

	CreatedByID uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"created_by_id"`
	CreatedBy   User      `gorm:"foreignKey:CreatedByID;references:ID;constraint:OnDelete:CASCADE" json:"created_by"`

	EditableJobPostingInfo
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate gives every posting its opaque public identifier
func (j *JobPosting) BeforeCreate(tx *gorm.DB) error {
	if j.PublicID == uuid.Nil {
		j.PublicID = uuid.New()
	}
	return nil
}
