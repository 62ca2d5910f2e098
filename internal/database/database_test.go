package database

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adham-Aroubite/hr-back/internal/config"
	"github.com/Adham-Aroubite/hr-back/internal/model"
)

var testDB *DBinstanceStruct

func TestMain(m *testing.M) {
	teardown, db, err := GetTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}
	testDB = db

	code := m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := teardown(ctx); err != nil {
		log.Printf("could not teardown postgres container: %v", err)
	}
	os.Exit(code)
}

func TestHealth(t *testing.T) {
	stats := testDB.Health()

	assert.Equal(t, "up", stats["status"])
	assert.NotContains(t, stats, "error")
	assert.Equal(t, "OK", stats["message"])
}

func TestClose(t *testing.T) {
	db, err := Open(testDB.Config)
	require.NoError(t, err)

	assert.NoError(t, db.Close())
	assert.Equal(t, "down", db.Health()["status"])
}

func TestDSNRequiresCompleteConfig(t *testing.T) {
	_, err := (&DBConfig{Host: "localhost"}).getDsn()
	assert.Error(t, err)

	_, err = (&DBConfig{UseConstr: true}).getDsn()
	assert.Error(t, err)

	dsn, err := (&DBConfig{Host: "h", Port: "5432", User: "u", Password: "p", DBName: "d"}).getDsn()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", dsn)
}

func TestBootstrapCompanyIsIdempotent(t *testing.T) {
	seed := config.CompanySeed{Name: "Bootstrap Co", Code: "BOOT-0001"}

	require.NoError(t, testDB.bootstrapCompany(seed))
	require.NoError(t, testDB.bootstrapCompany(seed))

	var companies []model.Company
	require.NoError(t, testDB.Where("registration_code = ?", seed.Code).Find(&companies).Error)
	require.Len(t, companies, 1)
	assert.True(t, companies[0].IsActive)

	assert.NoError(t, testDB.bootstrapCompany(config.CompanySeed{}))
}

func TestSeededFixtures(t *testing.T) {
	assert.False(t, TestInactiveCompany.IsActive)
	assert.NotEqual(t, TestPostingActive1.PublicID, TestPostingDraft1.PublicID)
	assert.Equal(t, model.JobStatusDraft, TestPostingDraft1.Status)

	var profile model.UserProfile
	require.NoError(t, testDB.Where("user_id = ?", TestHR1.ID).First(&profile).Error)
	require.NotNil(t, profile.CompanyID)
	assert.Equal(t, TestCompany1.ID, *profile.CompanyID)
}

func TestDuplicateApplicationIsRejectedByIndex(t *testing.T) {
	dup := model.JobApplication{
		JobPostingID: TestApplication1.JobPostingID,
		CandidateID:  TestApplication1.CandidateID,
		ResumeDataID: TestApplication1.ResumeDataID,
	}
	err := testDB.Create(&dup).Error
	require.Error(t, err)
}

func TestDeletingCompanyCascades(t *testing.T) {
	company, err := testDB.CreateCompany("Short Lived", "SHORT-LIVED")
	require.NoError(t, err)

	posting := model.JobPosting{
		CompanyID:   company.ID,
		CreatedByID: TestHR1.ID,
		EditableJobPostingInfo: model.EditableJobPostingInfo{
			Title: "Temp", Description: "d", Location: "l", JobType: "CONTRACT", Department: "x",
		},
	}
	require.NoError(t, testDB.Create(&posting).Error)
	assert.Equal(t, model.JobStatusDraft, posting.Status)

	require.NoError(t, testDB.Delete(&company).Error)

	var count int64
	require.NoError(t, testDB.Model(&model.JobPosting{}).Where("id = ?", posting.ID).Count(&count).Error)
	assert.Zero(t, count)
}
