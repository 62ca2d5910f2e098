package access

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Adham-Aroubite/hr-back/internal/model"
)

// dryRunDB builds statements without ever reaching a server
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=dry password=dry dbname=dry port=5432 sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

type builtQuery struct {
	sql  string
	vars []interface{}
}

func build(t *testing.T, scope Scope, r model.Requester, dest interface{}) builtQuery {
	t.Helper()
	stmt := dryRunDB(t).Scopes(scope.Apply(r)).Find(dest).Statement
	return builtQuery{sql: stmt.SQL.String(), vars: stmt.Vars}
}

func (q builtQuery) matchesNothing() bool {
	return strings.Contains(q.sql, "1 = 0")
}

func requester(role string, companyID *uint) model.Requester {
	r := model.Requester{User: model.User{ID: uuid.New()}}
	if role != "" {
		r.Profile = &model.UserProfile{UserType: role, CompanyID: companyID}
	}
	return r
}

func companyPtr(id uint) *uint { return &id }

var allScopes = map[string]struct {
	scope Scope
	dest  func() interface{}
}{
	"companies":    {Companies, func() interface{} { return &[]model.Company{} }},
	"job postings": {JobPostings, func() interface{} { return &[]model.JobPosting{} }},
	"resumes":      {Resumes, func() interface{} { return &[]model.ResumeData{} }},
	"applications": {Applications, func() interface{} { return &[]model.JobApplication{} }},
	"interviews":   {Interviews, func() interface{} { return &[]model.Interview{} }},
}

func TestScopesFailClosed(t *testing.T) {
	requesters := map[string]model.Requester{
		"no profile":   requester("", nil),
		"unknown role": requester("ADMIN", companyPtr(1)),
	}

	for who, r := range requesters {
		for name, s := range allScopes {
			t.Run(who+"/"+name, func(t *testing.T) {
				assert.True(t, build(t, s.scope, r, s.dest()).matchesNothing())
			})
		}
	}
}

func TestHRWithoutCompanySeesNothing(t *testing.T) {
	r := requester(model.RoleHR, nil)

	for name, s := range allScopes {
		t.Run(name, func(t *testing.T) {
			assert.True(t, build(t, s.scope, r, s.dest()).matchesNothing())
		})
	}
}

func TestHRScopes(t *testing.T) {
	r := requester(model.RoleHR, companyPtr(7))

	q := build(t, Companies, r, &[]model.Company{})
	assert.Contains(t, q.sql, "companies.id = $1")
	assert.Equal(t, []interface{}{uint(7)}, q.vars)

	q = build(t, JobPostings, r, &[]model.JobPosting{})
	assert.Contains(t, q.sql, "job_postings.company_id = $1")
	assert.Equal(t, []interface{}{uint(7)}, q.vars)
	assert.NotContains(t, q.sql, "status", "HR sees postings of every status")

	q = build(t, Applications, r, &[]model.JobApplication{})
	assert.Contains(t, q.sql, "SELECT id FROM job_postings WHERE company_id = $1")
	assert.Equal(t, []interface{}{uint(7)}, q.vars)

	q = build(t, Interviews, r, &[]model.Interview{})
	assert.Contains(t, q.sql, "jp.company_id = $1")
	assert.Equal(t, []interface{}{uint(7)}, q.vars)

	assert.True(t, build(t, Resumes, r, &[]model.ResumeData{}).matchesNothing(), "HR never sees résumés directly")
}

func TestCandidateScopes(t *testing.T) {
	// a company reference on a candidate profile is ignored
	for _, companyID := range []*uint{nil, companyPtr(3)} {
		r := requester(model.RoleCandidate, companyID)

		assert.True(t, build(t, Companies, r, &[]model.Company{}).matchesNothing())

		q := build(t, JobPostings, r, &[]model.JobPosting{})
		assert.Contains(t, q.sql, "job_postings.status = $1")
		assert.Equal(t, []interface{}{model.JobStatusActive}, q.vars)

		q = build(t, Resumes, r, &[]model.ResumeData{})
		assert.Contains(t, q.sql, "resume_data.candidate_id = $1")
		assert.Equal(t, []interface{}{r.User.ID}, q.vars)

		q = build(t, Applications, r, &[]model.JobApplication{})
		assert.Contains(t, q.sql, "job_applications.candidate_id = $1")
		assert.Equal(t, []interface{}{r.User.ID}, q.vars)

		q = build(t, Interviews, r, &[]model.Interview{})
		assert.Contains(t, q.sql, "SELECT id FROM job_applications WHERE candidate_id = $1")
		assert.Equal(t, []interface{}{r.User.ID}, q.vars)
	}
}
