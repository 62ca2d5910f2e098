package model

import (
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func fieldErrors(t *testing.T, err error) validation.Errors {
	t.Helper()
	require.Error(t, err)
	errs, ok := err.(validation.Errors)
	require.True(t, ok, "expected validation.Errors, got %T", err)
	return errs
}

func validPosting() EditableJobPostingInfo {
	return EditableJobPostingInfo{
		Title:       "Backend Engineer",
		Description: "Build APIs",
		Location:    "Bangkok",
		JobType:     "FULL_TIME",
		Department:  "Engineering",
	}
}

func TestEditableJobPostingInfo_Validate(t *testing.T) {
	assert.NoError(t, validPosting().Validate())

	p := validPosting()
	p.Status = JobStatusPaused
	assert.NoError(t, p.Validate())

	p.Status = "ARCHIVED"
	p.Title = ""
	errs := fieldErrors(t, p.Validate())
	assert.Contains(t, errs, "status")
	assert.Contains(t, errs, "title")
	assert.Len(t, errs, 2)
}

func TestJobPosting_BeforeCreateAssignsPublicID(t *testing.T) {
	p := JobPosting{}
	require.NoError(t, p.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, p.PublicID)

	fixed := uuid.New()
	p = JobPosting{PublicID: fixed}
	require.NoError(t, p.BeforeCreate(nil))
	assert.Equal(t, fixed, p.PublicID)
}

func TestEditableCompanyInfo_Validate(t *testing.T) {
	site := "https://example.com"
	assert.NoError(t, EditableCompanyInfo{Name: "Acme", Website: &site}.Validate())

	bad := "not a url"
	errs := fieldErrors(t, EditableCompanyInfo{Website: &bad}.Validate())
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "website")
}

func TestEditableResumeInfo_FillDefaultsAndValidate(t *testing.T) {
	r := EditableResumeInfo{
		FullName:         "Jane Doe",
		Email:            "jane@example.com",
		OriginalFileName: "jane.pdf",
	}
	r.FillDefaults()

	assert.Equal(t, datatypes.JSON("[]"), r.Experience)
	assert.Equal(t, datatypes.JSON("[]"), r.Education)
	assert.Equal(t, datatypes.JSON("[]"), r.Skills)
	assert.Equal(t, datatypes.JSONMap{}, r.RawExtractedData)
	assert.NoError(t, r.Validate())

	r.Skills = datatypes.JSON(`[{"name":"Go","level":"expert"}]`)
	assert.NoError(t, r.Validate())

	r.Skills = datatypes.JSON(`"go"`)
	r.Experience = datatypes.JSON(`{"company":"Acme"}`)
	r.Education = datatypes.JSON(`[{"school":"KU"`)
	r.Email = "jane"
	errs := fieldErrors(t, r.Validate())
	assert.Contains(t, errs, "skills")
	assert.Contains(t, errs, "experience")
	assert.Contains(t, errs, "education")
	assert.Contains(t, errs, "email")
}

func TestReviewInfo_Validate(t *testing.T) {
	score := 0.75
	assert.NoError(t, ReviewInfo{Status: ApplicationStatusInterviewed, AIMatchScore: &score}.Validate())
	assert.NoError(t, ReviewInfo{}.Validate())

	tooHigh := 1.5
	errs := fieldErrors(t, ReviewInfo{Status: "HIRED", AIMatchScore: &tooHigh}.Validate())
	assert.Contains(t, errs, "status")
	assert.Contains(t, errs, "ai_match_score")
}

func TestEditableInterviewInfo_Validate(t *testing.T) {
	valid := EditableInterviewInfo{
		InterviewType:   InterviewTypeTechnical,
		ScheduledTime:   time.Now().Add(time.Hour),
		DurationMinutes: DefaultInterviewMinutes,
		Status:          InterviewStatusScheduled,
	}
	assert.NoError(t, valid.Validate())

	link := "not a url"
	errs := fieldErrors(t, EditableInterviewInfo{InterviewType: "CHAT", MeetingLink: &link}.Validate())
	assert.Contains(t, errs, "interview_type")
	assert.Contains(t, errs, "scheduled_time")
	assert.Contains(t, errs, "duration_minutes")
	assert.Contains(t, errs, "meeting_link")
}

func TestRequesterRoles(t *testing.T) {
	companyID := uint(7)
	hr := Requester{Profile: &UserProfile{UserType: RoleHR, CompanyID: &companyID}}
	candidate := Requester{Profile: &UserProfile{UserType: RoleCandidate}}
	bare := Requester{}

	assert.True(t, hr.IsHR())
	assert.False(t, hr.IsCandidate())
	id, ok := hr.CompanyID()
	assert.True(t, ok)
	assert.Equal(t, companyID, id)

	assert.True(t, candidate.IsCandidate())
	_, ok = candidate.CompanyID()
	assert.False(t, ok)

	assert.Empty(t, bare.Role())
	assert.False(t, bare.IsHR())
	assert.False(t, bare.IsCandidate())
}
