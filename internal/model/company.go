package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// EditableCompanyInfo holds the company fields a client may write
type EditableCompanyInfo struct {
	Name        string  `gorm:"type:text;not null" json:"name"`
	Website     *string `gorm:"type:text" json:"website"`
	Description *string `gorm:"type:text" json:"description"`
	Logo        *string `gorm:"type:text" json:"logo"`
}

// Validate checks a full company body
func (e EditableCompanyInfo) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.Website, is.URL),
		validation.Field(&e.Logo, validation.Length(0, 500)),
	)
}

// Company is a tenant. HR users join one by quoting its registration code.
type Company struct {
	ID               uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	RegistrationCode string `gorm:"type:text;uniqueIndex;not null;<-:create" json:"registration_code"`
	IsActive         bool   `gorm:"not null;default:true" json:"is_active"`
	EditableCompanyInfo
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
