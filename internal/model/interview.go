package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

const (
	InterviewTypePhone     = "PHONE"
	InterviewTypeVideo     = "VIDEO"
	InterviewTypeOnsite    = "ONSITE"
	InterviewTypeTechnical = "TECHNICAL"

	InterviewStatusScheduled   = "SCHEDULED"
	InterviewStatusCompleted   = "COMPLETED"
	InterviewStatusCancelled   = "CANCELLED"
	InterviewStatusRescheduled = "RESCHEDULED"
)

var (
	// InterviewTypes lists every accepted Interview type
	InterviewTypes = []interface{}{InterviewTypePhone, InterviewTypeVideo, InterviewTypeOnsite, InterviewTypeTechnical}
	// InterviewStatuses lists every accepted Interview status
	InterviewStatuses = []interface{}{InterviewStatusScheduled, InterviewStatusCompleted, InterviewStatusCancelled, InterviewStatusRescheduled}
)

// DefaultInterviewMinutes is used when a new interview has no duration
const DefaultInterviewMinutes = 60

// EditableInterviewInfo holds the interview fields HR users may write
type EditableInterviewInfo struct {
	InterviewType   string    `gorm:"type:text;not null" json:"interview_type"`
	ScheduledTime   time.Time `gorm:"not null" json:"scheduled_time"`
	DurationMinutes uint      `gorm:"not null;default:60" json:"duration_minutes"`
	Location        *string   `gorm:"type:text" json:"location"`
	MeetingLink     *string   `gorm:"type:text" json:"meeting_link"`
	Status          string    `gorm:"type:text;not null;default:'SCHEDULED'" json:"status"`
	Notes           *string   `gorm:"type:text" json:"notes"`
	Feedback        *string   `gorm:"type:text" json:"feedback"`
}

// Validate checks a full interview body
func (e EditableInterviewInfo) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.InterviewType, validation.Required, validation.In(InterviewTypes...)),
		validation.Field(&e.ScheduledTime, validation.Required),
		validation.Field(&e.DurationMinutes, validation.Required, validation.Min(uint(1))),
		validation.Field(&e.Location, validation.Length(0, 200)),
		validation.Field(&e.MeetingLink, is.URL),
		validation.Field(&e.Status, validation.In(InterviewStatuses...)),
	)
}

// Interview is a meeting scheduled by HR for one application
type Interview struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	ApplicationID uint           `gorm:"not null;index;<-:create" json:"application_id"`
	Application   JobApplication `gorm:"foreignKey:ApplicationID;references:ID;constraint:OnDelete:CASCADE" json:"application"`

	InterviewerID uuid.UUID `gorm:"type:uuid;not null;index" json:"interviewer_id"`
	Interviewer   User      `gorm:"foreignKey:InterviewerID;references:ID;constraint:OnDelete:CASCADE" json:"interviewer"`

	EditableInterviewInfo
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
