package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// RoleHR is the user type of company staff
	RoleHR = "HR"
	// RoleCandidate is the user type of job seekers
	RoleCandidate = "CANDIDATE"
)

// UserTypes lists every accepted value of UserProfile.UserType
var UserTypes = []interface{}{RoleHR, RoleCandidate}

// User is the login account shared by HR staff and candidates.
// Its JSON form is the public projection, password and google id never leave the server.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Username   string    `gorm:"type:text;uniqueIndex;not null" json:"username"`
	Email      string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	FirstName  string    `gorm:"type:text" json:"first_name"`
	LastName   string    `gorm:"type:text" json:"last_name"`
	Password   string    `gorm:"type:text;not null" json:"-"`
	GoogleID   *string   `gorm:"type:text;uniqueIndex" json:"-"`
	IsActive   bool      `gorm:"not null;default:true" json:"-"`
	DateJoined time.Time `gorm:"autoCreateTime" json:"date_joined"`
	UpdatedAt  time.Time `json:"-"`
}

// BeforeCreate assigns the id on the client side so it is known before the insert returns
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserProfile attaches a role, and for HR users a company, to a User
type UserProfile struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;<-:create" json:"-"`
	User      User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	UserType  string    `gorm:"type:text;not null;<-:create" json:"user_type"`
	CompanyID *uint     `gorm:"index" json:"company_id"`
	Company   *Company  `gorm:"foreignKey:CompanyID;references:ID;constraint:OnDelete:CASCADE" json:"company,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Requester is the authenticated caller of a request.
// Profile is nil for accounts that were never given a role.
type Requester struct {
	User      User
	Profile   *UserProfile
	SessionID uuid.UUID
}

// Role returns the user type of the requester or an empty string when no profile exists
func (r Requester) Role() string {
	if r.Profile == nil {
		return ""
	}
	return r.Profile.UserType
}

// IsHR reports whether the requester is an HR user
func (r Requester) IsHR() bool {
	return r.Role() == RoleHR
}

// IsCandidate reports whether the requester is a candidate
func (r Requester) IsCandidate() bool {
	return r.Role() == RoleCandidate
}

// CompanyID returns the company of an HR requester
func (r Requester) CompanyID() (uint, bool) {
	if r.Profile == nil || r.Profile.CompanyID == nil {
		return 0, false
	}
	return *r.Profile.CompanyID, true
}
