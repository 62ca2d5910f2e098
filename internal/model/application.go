package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ApplicationStatusApplied            = "APPLIED"
	ApplicationStatusUnderReview        = "UNDER_REVIEW"
	ApplicationStatusInterviewScheduled = "INTERVIEW_SCHEDULED"
	ApplicationStatusInterviewed        = "INTERVIEWED"
	ApplicationStatusRejected           = "REJECTED"
	ApplicationStatusAccepted           = "ACCEPTED"
)

// ApplicationStatuses lists every accepted JobApplication status.
// Any value may follow any other, there is no transition table.
var ApplicationStatuses = []interface{}{
	ApplicationStatusApplied,
	ApplicationStatusUnderReview,
	ApplicationStatusInterviewScheduled,
	ApplicationStatusInterviewed,
	ApplicationStatusRejected,
	ApplicationStatusAccepted,
}

// ReviewInfo holds the application fields only HR may write
type ReviewInfo struct {
	Status         string            `gorm:"type:text;not null;default:'APPLIED'" json:"status"`
	AIMatchScore   *float64          `gorm:"column:ai_match_score" json:"ai_match_score"`
	AIMatchDetails datatypes.JSONMap `gorm:"column:ai_match_details;type:jsonb;not null;default:'{}'" json:"ai_match_details" swaggertype:"object"`
	Notes          *string           `gorm:"type:text" json:"notes"`
}

// Validate checks an HR review body
func (r ReviewInfo) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.In(ApplicationStatuses...)),
		validation.Field(&r.AIMatchScore, validation.Min(0.0), validation.Max(1.0)),
	)
}

// JobApplication links a candidate and one of their résumés to a posting.
// A candidate applies to a posting at most once.
type JobApplication struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	JobPostingID uint       `gorm:"not null;uniqueIndex:idx_application_posting_candidate;<-:create" json:"job_posting_id"`
	JobPosting   JobPosting `gorm:"foreignKey:JobPostingID;references:ID;constraint:OnDelete:CASCADE" json:"job_posting"`

	CandidateID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_application_posting_candidate;index;<-:create" json:"candidate_id"`
	Candidate   User      `gorm:"foreignKey:CandidateID;references:ID;constraint:OnDelete:CASCADE" json:"candidate"`

	ResumeDataID uint       `gorm:"not null;index;<-:create" json:"resume_data_id"`
	ResumeData   ResumeData `gorm:"foreignKey:ResumeDataID;references:ID;constraint:OnDelete:CASCADE" json:"resume_data"`

	ReviewInfo
	CoverLetter *string `gorm:"type:text" json:"cover_letter"`

	AppliedAt time.Time `gorm:"autoCreateTime" json:"applied_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
