// Package access decides which records a requester may see.
// Every read, update and delete of a scoped entity goes through one of the Scopes here,
// so a record outside the requester's scope is simply not found.
package access

import (
	"gorm.io/gorm"

	"github.com/Adham-Aroubite/hr-back/internal/model"
)

// Scope narrows a query on one entity to the rows visible to a requester
type Scope interface {
	Apply(r model.Requester) func(*gorm.DB) *gorm.DB
}

// One Scope per scoped entity
var (
	Companies    Scope = companyScope{}
	JobPostings  Scope = jobPostingScope{}
	Resumes      Scope = resumeScope{}
	Applications Scope = applicationScope{}
	Interviews   Scope = interviewScope{}
)

// none matches no row. Every scope falls back to it.
func none(db *gorm.DB) *gorm.DB {
	return db.Where("1 = 0")
}

func where(query string, args ...interface{}) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}

type companyScope struct{}

func (companyScope) Apply(r model.Requester) func(*gorm.DB) *gorm.DB {
	if companyID, ok := r.CompanyID(); ok && r.IsHR() {
		return where("companies.id = ?", companyID)
	}
	return none
}

type jobPostingScope struct{}

func (jobPostingScope) Apply(r model.Requester) func(*gorm.DB) *gorm.DB {
	switch {
	case r.IsHR():
		if companyID, ok := r.CompanyID(); ok {
			return where("job_postings.company_id = ?", companyID)
		}
	case r.IsCandidate():
		return where("job_postings.status = ?", model.JobStatusActive)
	}
	return none
}

type resumeScope struct{}

func (resumeScope) Apply(r model.Requester) func(*gorm.DB) *gorm.DB {
	if r.IsCandidate() {
		return where("resume_data.candidate_id = ?", r.User.ID)
	}
	return none
}

type applicationScope struct{}

func (applicationScope) Apply(r model.Requester) func(*gorm.DB) *gorm.DB {
	switch {
	case r.IsHR():
		if companyID, ok := r.CompanyID(); ok {
			return where("job_applications.job_posting_id IN (SELECT id FROM job_postings WHERE company_id = ?)", companyID)
		}
	case r.IsCandidate():
		return where("job_applications.candidate_id = ?", r.User.ID)
	}
	return none
}

type interviewScope struct{}

func (interviewScope) Apply(r model.Requester) func(*gorm.DB) *gorm.DB {
	switch {
	case r.IsHR():
		if companyID, ok := r.CompanyID(); ok {
			return where(`interviews.application_id IN (
				SELECT ja.id FROM job_applications ja
				JOIN job_postings jp ON jp.id = ja.job_posting_id
				WHERE jp.company_id = ?)`, companyID)
		}
	case r.IsCandidate():
		return where("interviews.application_id IN (SELECT id FROM job_applications WHERE candidate_id = ?)", r.User.ID)
	}
	return none
}
