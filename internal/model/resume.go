package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EditableResumeInfo holds the résumé fields a candidate may write.
// Experience, skills and education are free-form JSON lists produced by the extractor.
type EditableResumeInfo struct {
	FullName         string            `gorm:"type:text;not null" json:"full_name"`
	Email            string            `gorm:"type:text;not null" json:"email"`
	Phone            *string           `gorm:"type:text" json:"phone"`
	Location         *string           `gorm:"type:text" json:"location"`
	Summary          *string           `gorm:"type:text" json:"summary"`
	Experience       datatypes.JSON    `gorm:"type:jsonb;not null;default:'[]'" json:"experience" swaggertype:"array,object"`
	Skills           datatypes.JSON    `gorm:"type:jsonb;not null;default:'[]'" json:"skills" swaggertype:"array,object"`
	Education        datatypes.JSON    `gorm:"type:jsonb;not null;default:'[]'" json:"education" swaggertype:"array,object"`
	RawExtractedData datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"raw_extracted_data" swaggertype:"object"`
	OriginalFileName string            `gorm:"type:text;not null" json:"original_file_name"`
	FilePath         *string           `gorm:"type:text" json:"file_path"`
}

// Validate checks a full résumé body
func (e EditableResumeInfo) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.Email, validation.Required, is.EmailFormat),
		validation.Field(&e.Phone, validation.Length(0, 20)),
		validation.Field(&e.Location, validation.Length(0, 200)),
		validation.Field(&e.Experience, validation.By(isJSONList)),
		validation.Field(&e.Skills, validation.By(isJSONList)),
		validation.Field(&e.Education, validation.By(isJSONList)),
		validation.Field(&e.OriginalFileName, validation.Required, validation.Length(1, 255)),
		validation.Field(&e.FilePath, validation.Length(0, 500)),
	)
}

// FillDefaults replaces missing collections with empty ones
func (e *EditableResumeInfo) FillDefaults() {
	if len(e.Experience) == 0 {
		e.Experience = datatypes.JSON("[]")
	}
	if len(e.Education) == 0 {
		e.Education = datatypes.JSON("[]")
	}
	if len(e.Skills) == 0 {
		e.Skills = datatypes.JSON("[]")
	}
	if e.RawExtractedData == nil {
		e.RawExtractedData = datatypes.JSONMap{}
	}
}

// ResumeData is the structured content extracted from one uploaded résumé
type ResumeData struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CandidateID uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"candidate_id"`
	Candidate   User      `gorm:"foreignKey:CandidateID;references:ID;constraint:OnDelete:CASCADE" json:"candidate"`
	EditableResumeInfo
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the table name singular, "data" has no plural
func (ResumeData) TableName() string {
	return "resume_data"
}
