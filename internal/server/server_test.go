package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adham-Aroubite/hr-back/internal/config"
	"github.com/Adham-Aroubite/hr-back/internal/database"
	"github.com/Adham-Aroubite/hr-back/internal/model"
	"github.com/Adham-Aroubite/hr-back/internal/testutil"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	var err error
	var teardown func(context.Context) error
	teardown, testDB, err = database.GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start test db: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if teardown != nil {
		_ = teardown(ctx)
	}
	cancel()
	os.Exit(code)
}

func testConfig(store string) config.Config {
	return config.Config{
		Port:         8080,
		AllowOrigins: []string{"http://localhost:3000"},
		RateLimit:    100,
		Auth: config.AuthConfig{
			SecretKey:    "server-secret",
			Issuer:       "hr-back-test",
			TokenTTL:     time.Hour,
			SessionStore: store,
		},
	}
}

func register(t *testing.T, r http.Handler, username string, userType string, companyCode string) string {
	t.Helper()
	rec, resp := testutil.MakeJSONRequest(gin.H{
		"username":         username,
		"email":            username + "@server.example",
		"first_name":       "Server",
		"last_name":        "Test",
		"password":         "Str0ngPassw0rd!",
		"password_confirm": "Str0ngPassw0rd!",
		"user_type":        userType,
		"company_code":     companyCode,
	}, "", r, "/api/v1/auth/register/", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, resp)
	return resp["token"].(string)
}

func TestNewMyServer_selectsSessionStore(t *testing.T) {
	s := NewMyServer(testConfig(config.SessionStoreMemory), testDB)
	assert.Equal(t, "*auth.InMemorySessionStore", fmt.Sprintf("%T", s.Auth.Sessions))

	s = NewMyServer(testConfig(config.SessionStoreDatabase), testDB)
	assert.Equal(t, "*auth.GormSessionStore", fmt.Sprintf("%T", s.Auth.Sessions))
}

func TestNewServer(t *testing.T) {
	srv := NewServer(testConfig(config.SessionStoreMemory), testDB)
	assert.Equal(t, ":8080", srv.Addr)
	assert.NotNil(t, srv.Handler)
}

func TestHealth(t *testing.T) {
	r := NewMyServer(testConfig(config.SessionStoreMemory), testDB).RegisterRoutes()

	rec, resp := testutil.MakeJSONRequest(nil, "", r, "/health", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "up", resp["status"])
}

func TestProtectedRoutesRequireCredential(t *testing.T) {
	r := NewMyServer(testConfig(config.SessionStoreMemory), testDB).RegisterRoutes()

	for _, path := range []string{
		"/api/v1/companies/",
		"/api/v1/jobs/",
		"/api/v1/resume-data/",
		"/api/v1/applications/",
		"/api/v1/interviews/",
		"/api/v1/auth/me/",
	} {
		rec, resp := testutil.MakeJSONRequest(nil, "", r, path, http.MethodGet)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.NotEmpty(t, resp["error"], path)
	}

	rec, _ := testutil.MakeJSONRequest(nil, "", r, "/api/v1/auth/logout/", http.MethodPost)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTrailingSlashRedirect(t *testing.T) {
	r := NewMyServer(testConfig(config.SessionStoreMemory), testDB).RegisterRoutes()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil))

	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/api/v1/jobs/", rec.Header().Get("Location"))
}

func TestRecruitmentFlow(t *testing.T) {
	r := NewMyServer(testConfig(config.SessionStoreDatabase), testDB).RegisterRoutes()

	hrToken := register(t, r, "flow_hr", model.RoleHR, database.TestCompany2.RegistrationCode)
	candidateToken := register(t, r, "flow_candidate", model.RoleCandidate, "")

	rec, me := testutil.MakeJSONRequest(nil, hrToken, r, "/api/v1/auth/me/", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := me["profile"].(map[string]interface{})
	assert.Equal(t, float64(database.TestCompany2.ID), profile["company_id"])

	rec, posting := testutil.MakeJSONRequest(gin.H{
		"title":       "Flow Tester",
		"description": "Walk the whole flow.",
		"location":    "Remote",
		"job_type":    "FULL_TIME",
		"department":  "QA",
	}, hrToken, r, "/api/v1/jobs/", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, posting)
	postingID := uint(posting["id"].(float64))
	postingURL := fmt.Sprintf("/api/v1/jobs/%d/", postingID)

	_, list := testutil.MakeJSONListRequest(candidateToken, r, "/api/v1/jobs/")
	assert.NotContains(t, testutil.IDs(list), postingID)

	rec, _ = testutil.MakeJSONRequest(gin.H{"status": model.JobStatusActive}, hrToken, r, postingURL, http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code)

	_, list = testutil.MakeJSONListRequest(candidateToken, r, "/api/v1/jobs/")
	assert.Contains(t, testutil.IDs(list), postingID)

	rec, resume := testutil.MakeJSONRequest(gin.H{
		"full_name":          "Flow Candidate",
		"email":              "flow_candidate@server.example",
		"original_file_name": "flow.pdf",
	}, candidateToken, r, "/api/v1/resume-data/", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, resume)

	rec, app := testutil.MakeJSONRequest(gin.H{
		"job_posting_id": postingID,
		"resume_data_id": resume["id"],
	}, candidateToken, r, "/api/v1/applications/", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, app)

	_, apps := testutil.MakeJSONListRequest(hrToken, r, postingURL+"applications/")
	assert.Equal(t, []uint{uint(app["id"].(float64))}, testutil.IDs(apps))

	rec, interview := testutil.MakeJSONRequest(gin.H{
		"application_id": app["id"],
		"interview_type": model.InterviewTypeVideo,
		"scheduled_time": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
	}, hrToken, r, "/api/v1/interviews/", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, interview)

	_, candidateInterviews := testutil.MakeJSONListRequest(candidateToken, r, "/api/v1/interviews/")
	assert.Contains(t, testutil.IDs(candidateInterviews), uint(interview["id"].(float64)))

	rec, resp := testutil.MakeJSONRequest(nil, candidateToken, r, "/api/v1/auth/logout/", http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code, resp)
	assert.Equal(t, "Successfully logged out", resp["message"])

	rec, _ = testutil.MakeJSONRequest(nil, candidateToken, r, "/api/v1/applications/", http.MethodGet)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
