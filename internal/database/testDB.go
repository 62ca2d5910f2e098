package database

import (
	"context"
	"time"

	"gorm.io/datatypes"

	m "github.com/Adham-Aroubite/hr-back/internal/model"
	"github.com/Adham-Aroubite/hr-back/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context) error

// Exported seeded fixtures shared by every integration test package
var (
	// Add exported plain password
	TestSeedPassword = "SeedPass123!"

	TestCompany1        m.Company
	TestCompany2        m.Company
	TestInactiveCompany m.Company

	TestHR1           m.User
	TestHR2           m.User
	TestHRNoCompany   m.User
	TestCandidate1    m.User
	TestCandidate2    m.User
	TestNoProfileUser m.User

	TestHR1Profile         m.UserProfile
	TestHR2Profile         m.UserProfile
	TestHRNoCompanyProfile m.UserProfile
	TestCandidate1Profile  m.UserProfile
	TestCandidate2Profile  m.UserProfile

	// Company 1 owns an active and a draft posting, company 2 an active and a closed one
	TestPostingActive1 m.JobPosting
	TestPostingDraft1  m.JobPosting
	TestPostingActive2 m.JobPosting
	TestPostingClosed2 m.JobPosting

	TestResume1 m.ResumeData
	TestResume2 m.ResumeData

	// Candidate 1 applied to TestPostingActive1, candidate 2 to TestPostingActive2
	TestApplication1 m.JobApplication
	TestApplication2 m.JobApplication

	TestInterview1 m.Interview
	TestInterview2 m.Interview
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
// The container is started once per test binary and seeded with the Test* fixtures.
func GetTestDB() (func(context.Context) error, *DBinstanceStruct, error) {
	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	ctx := context.Background()
	dbContainer, dsn, err := startPostgres(ctx)
	if err != nil {
		if dbContainer != nil {
			return dbContainer.Terminate, nil, err
		}
		return nil, nil, err
	}

	if err := prepareDatabase(ctx, dsn); err != nil {
		return dbContainer.Terminate, nil, err
	}

	db, err := NewDBInstance(&DBConfig{UseConstr: true, Constr: dsn, DBName: testDBName})
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(ctx)
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// TestRequester builds the requester RequireAuth would resolve for a seeded user
func TestRequester(user m.User, profile *m.UserProfile) m.Requester {
	return m.Requester{User: user, Profile: profile}
}

func seedTestData(db *DBinstanceStruct) error {
	var err error

	if TestCompany1, err = db.CreateCompany("TechNova", "TECHNOVA-2024"); err != nil {
		return err
	}
	if TestCompany2, err = db.CreateCompany("DataForge", "DATAFORGE-2024"); err != nil {
		return err
	}
	if TestInactiveCompany, err = db.CreateCompany("Dormant Labs", "DORMANT-2020"); err != nil {
		return err
	}
	// is_active defaults to true, so the inactive flag needs its own update
	if err := db.Model(&TestInactiveCompany).Update("is_active", false).Error; err != nil {
		return err
	}
	TestInactiveCompany.IsActive = false

	hashedPwd, err := utilities.HashPassword(TestSeedPassword)
	if err != nil {
		return err
	}

	userSpecs := []struct {
		user     *m.User
		username string
		email    string
		first    string
		last     string
	}{
		{&TestHR1, "hr_technova", "hr1@technova.example", "Hana", "Rojas"},
		{&TestHR2, "hr_dataforge", "hr2@dataforge.example", "Ivan", "Petrov"},
		{&TestHRNoCompany, "hr_orphan", "hr.orphan@example.com", "Olga", "Fern"},
		{&TestCandidate1, "candidate_alice", "alice@example.com", "Alice", "Nguyen"},
		{&TestCandidate2, "candidate_bob", "bob@example.com", "Bob", "Somsak"},
		{&TestNoProfileUser, "no_profile", "noprofile@example.com", "Nia", "Blank"},
	}
	for _, s := range userSpecs {
		*s.user = m.User{
			Username:  s.username,
			Email:     s.email,
			FirstName: s.first,
			LastName:  s.last,
			Password:  hashedPwd,
			IsActive:  true,
		}
		if err := db.Create(s.user).Error; err != nil {
			return err
		}
	}

	profileSpecs := []struct {
		profile  *m.UserProfile
		user     m.User
		userType string
		company  *uint
	}{
		{&TestHR1Profile, TestHR1, m.RoleHR, &TestCompany1.ID},
		{&TestHR2Profile, TestHR2, m.RoleHR, &TestCompany2.ID},
		{&TestHRNoCompanyProfile, TestHRNoCompany, m.RoleHR, nil},
		{&TestCandidate1Profile, TestCandidate1, m.RoleCandidate, nil},
		{&TestCandidate2Profile, TestCandidate2, m.RoleCandidate, nil},
	}
	for _, s := range profileSpecs {
		*s.profile = m.UserProfile{UserID: s.user.ID, UserType: s.userType, CompanyID: s.company}
		if err := db.Create(s.profile).Error; err != nil {
			return err
		}
	}
	TestHR1Profile.Company = &TestCompany1
	TestHR2Profile.Company = &TestCompany2

	postingSpecs := []struct {
		posting *m.JobPosting
		company m.Company
		creator m.User
		info    m.EditableJobPostingInfo
	}{
		{&TestPostingActive1, TestCompany1, TestHR1, m.EditableJobPostingInfo{
			Title:        "Backend Engineer",
			Description:  "Build Go services and database layers.",
			Requirements: ptr("Go, SQL"),
			Location:     "Bangkok (Hybrid)",
			JobType:      "FULL_TIME",
			Department:   "Engineering",
			Status:       m.JobStatusActive,
		}},
		{&TestPostingDraft1, TestCompany1, TestHR1, m.EditableJobPostingInfo{
			Title:       "Frontend Developer",
			Description: "Own the component library.",
			Location:    "Remote",
			JobType:     "CONTRACT",
			Department:  "Engineering",
			Status:      m.JobStatusDraft,
		}},
		{&TestPostingActive2, TestCompany2, TestHR2, m.EditableJobPostingInfo{
			Title:       "Data Analyst",
			Description: "Support data cleansing and dashboard creation.",
			Location:    "Chiang Mai (On-site)",
			JobType:     "INTERNSHIP",
			Department:  "Analytics",
			Status:      m.JobStatusActive,
		}},
		{&TestPostingClosed2, TestCompany2, TestHR2, m.EditableJobPostingInfo{
			Title:       "Data Engineer",
			Description: "Maintain ingestion pipelines.",
			Location:    "Remote",
			JobType:     "FULL_TIME",
			Department:  "Analytics",
			Status:      m.JobStatusClosed,
		}},
	}
	for _, s := range postingSpecs {
		*s.posting = m.JobPosting{
			CompanyID:              s.company.ID,
			CreatedByID:            s.creator.ID,
			EditableJobPostingInfo: s.info,
		}
		if err := db.Create(s.posting).Error; err != nil {
			return err
		}
	}

	resumeSpecs := []struct {
		resume    *m.ResumeData
		candidate m.User
		fileName  string
		skills    string
	}{
		{&TestResume1, TestCandidate1, "alice_cv.pdf", `["go","postgres"]`},
		{&TestResume2, TestCandidate2, "bob_cv.pdf", `["sql","python"]`},
	}
	for _, s := range resumeSpecs {
		*s.resume = m.ResumeData{
			CandidateID: s.candidate.ID,
			EditableResumeInfo: m.EditableResumeInfo{
				FullName:         s.candidate.FirstName + " " + s.candidate.LastName,
				Email:            s.candidate.Email,
				Experience:       datatypes.JSON(`[{"company":"Acme","years":2}]`),
				Skills:           datatypes.JSON(s.skills),
				Education:        datatypes.JSON(`[]`),
				RawExtractedData: datatypes.JSONMap{"source": "seed"},
				OriginalFileName: s.fileName,
			},
		}
		if err := db.Create(s.resume).Error; err != nil {
			return err
		}
	}

	applicationSpecs := []struct {
		application *m.JobApplication
		posting     m.JobPosting
		resume      m.ResumeData
	}{
		{&TestApplication1, TestPostingActive1, TestResume1},
		{&TestApplication2, TestPostingActive2, TestResume2},
	}
	for _, s := range applicationSpecs {
		*s.application = m.JobApplication{
			JobPostingID: s.posting.ID,
			CandidateID:  s.resume.CandidateID,
			ResumeDataID: s.resume.ID,
			ReviewInfo: m.ReviewInfo{
				Status:         m.ApplicationStatusApplied,
				AIMatchDetails: datatypes.JSONMap{},
			},
		}
		if err := db.Create(s.application).Error; err != nil {
			return err
		}
	}

	interviewSpecs := []struct {
		interview   *m.Interview
		application m.JobApplication
		interviewer m.User
	}{
		{&TestInterview1, TestApplication1, TestHR1},
		{&TestInterview2, TestApplication2, TestHR2},
	}
	for i, s := range interviewSpecs {
		*s.interview = m.Interview{
			ApplicationID: s.application.ID,
			InterviewerID: s.interviewer.ID,
			EditableInterviewInfo: m.EditableInterviewInfo{
				InterviewType:   m.InterviewTypeVideo,
				ScheduledTime:   time.Now().Add(time.Duration(i+1) * 24 * time.Hour).UTC().Truncate(time.Second),
				DurationMinutes: m.DefaultInterviewMinutes,
				MeetingLink:     ptr("https://meet.example.com/room"),
				Status:          m.InterviewStatusScheduled,
			},
		}
		if err := db.Create(s.interview).Error; err != nil {
			return err
		}
	}

	return nil
}

// ptr helper
func ptr[T any](v T) *T { return &v }
