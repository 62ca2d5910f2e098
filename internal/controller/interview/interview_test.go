package interview

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adham-Aroubite/hr-back/internal/database"
	"github.com/Adham-Aroubite/hr-back/internal/model"
	"github.com/Adham-Aroubite/hr-back/internal/testutil"
)

func interviewURL(id uint) string {
	return fmt.Sprintf("/interviews/%d/", id)
}

func nextWeek() string {
	return time.Now().Add(7 * 24 * time.Hour).UTC().Truncate(time.Second).Format(time.RFC3339)
}

func TestGetInterviews_scoped(t *testing.T) {
	r := setupRouter()

	cases := []struct {
		email   string
		want    uint
		notWant uint
	}{
		{database.TestHR1.Email, database.TestInterview1.ID, database.TestInterview2.ID},
		{database.TestHR2.Email, database.TestInterview2.ID, database.TestInterview1.ID},
		{database.TestCandidate1.Email, database.TestInterview1.ID, database.TestInterview2.ID},
		{database.TestCandidate2.Email, database.TestInterview2.ID, database.TestInterview1.ID},
	}
	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			rec, resp := testutil.MakeJSONListRequest(tokenFor(t, tc.email), r, "/interviews/")
			require.Equal(t, http.StatusOK, rec.Code)
			ids := testutil.IDs(resp)
			assert.Contains(t, ids, tc.want)
			assert.NotContains(t, ids, tc.notWant)
		})
	}

	rec, resp := testutil.MakeJSONListRequest(tokenFor(t, database.TestNoProfileUser.Email), r, "/interviews/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp)
}

func TestGetInterviews_filters(t *testing.T) {
	r := setupRouter()
	token := tokenFor(t, database.TestHR1.Email)

	url := fmt.Sprintf("/interviews/?application=%d&status=scheduled", database.TestApplication1.ID)
	rec, resp := testutil.MakeJSONListRequest(token, r, url)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, testutil.IDs(resp), database.TestInterview1.ID)

	rec, resp = testutil.MakeJSONListRequest(token, r, "/interviews/?status=CANCELLED&application="+fmt.Sprint(database.TestApplication1.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, testutil.IDs(resp), database.TestInterview1.ID)

	rec, _ = testutil.MakeJSONRequest(nil, token, r, "/interviews/?application=-1", http.MethodGet)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetInterviewByID(t *testing.T) {
	r := setupRouter()
	url := interviewURL(database.TestInterview1.ID)

	rec, resp := testutil.MakeJSONRequest(nil, tokenFor(t, database.TestCandidate1.Email), r, url, http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.InterviewTypeVideo, resp["interview_type"])
	assert.Equal(t, database.TestHR1.ID.String(), testutil.Nested(t, resp, "interviewer")["id"])
	assert.Equal(t, float64(database.TestApplication1.ID), testutil.Nested(t, resp, "application")["id"])
	assert.Equal(t, float64(database.TestCompany1.ID), testutil.Nested(t, resp, "application", "job_posting", "company")["id"])
	assert.Equal(t, database.TestHR1.ID.String(), testutil.Nested(t, resp, "application", "job_posting", "created_by")["id"])
	assert.Equal(t, float64(database.TestResume1.ID), testutil.Nested(t, resp, "application", "resume_data")["id"])
	assert.Equal(t, database.TestCandidate1.ID.String(), testutil.Nested(t, resp, "application", "resume_data", "candidate")["id"])

	rec, _ = testutil.MakeJSONRequest(nil, tokenFor(t, database.TestCandidate2.Email), r, url, http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateInterview(t *testing.T) {
	r := setupRouter()
	token := tokenFor(t, database.TestHR1.Email)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"application_id": database.TestApplication1.ID,
		"interview_type": model.InterviewTypeTechnical,
		"scheduled_time": nextWeek(),
		"meeting_link":   "https://meet.example.com/tech",
	}, token, r, "/interviews/", http.MethodPost)

	require.Equal(t, http.StatusCreated, rec.Code, resp)
	assert.Equal(t, database.TestHR1.ID.String(), resp["interviewer_id"])
	assert.Equal(t, float64(model.DefaultInterviewMinutes), resp["duration_minutes"])
	assert.Equal(t, model.InterviewStatusScheduled, resp["status"])

	id := uint(resp["id"].(float64))
	rec, _ = testutil.MakeJSONRequest(nil, tokenFor(t, database.TestCandidate1.Email), r, interviewURL(id), http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateInterview_rejected(t *testing.T) {
	r := setupRouter()
	token := tokenFor(t, database.TestHR1.Email)

	valid := func() gin.H {
		return gin.H{
			"application_id": database.TestApplication1.ID,
			"interview_type": model.InterviewTypePhone,
			"scheduled_time": nextWeek(),
		}
	}

	otherCompany := valid()
	otherCompany["application_id"] = database.TestApplication2.ID

	foreignInterviewer := valid()
	foreignInterviewer["interviewer_id"] = database.TestHR2.ID.String()

	candidateInterviewer := valid()
	candidateInterviewer["interviewer_id"] = database.TestCandidate1.ID.String()

	badFields := valid()
	badFields["interview_type"] = "CARRIER_PIGEON"
	badFields["meeting_link"] = "not a link"
	delete(badFields, "scheduled_time")

	cases := []struct {
		name   string
		body   gin.H
		fields []string
	}{
		{"application of another company", otherCompany, []string{"application_id"}},
		{"interviewer from another company", foreignInterviewer, []string{"interviewer_id"}},
		{"candidate as interviewer", candidateInterviewer, []string{"interviewer_id"}},
		{"invalid fields", badFields, []string{"interview_type", "meeting_link", "scheduled_time"}},
		{"no application", gin.H{"interview_type": model.InterviewTypePhone, "scheduled_time": nextWeek()}, []string{"application_id"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, resp := testutil.MakeJSONRequest(tc.body, token, r, "/interviews/", http.MethodPost)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			for _, f := range tc.fields {
				assert.Contains(t, resp, f)
			}
		})
	}

	rec, _ := testutil.MakeJSONRequest(valid(), tokenFor(t, database.TestCandidate1.Email), r, "/interviews/", http.MethodPost)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateInterview_colleagueAsInterviewer(t *testing.T) {
	colleague, _, err := testutil.NewAccount(testDB, "hr_technova_colleague", model.RoleHR, &database.TestCompany1.ID)
	require.NoError(t, err)
	r := setupRouter()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"application_id":   database.TestApplication1.ID,
		"interviewer_id":   colleague.ID.String(),
		"interview_type":   model.InterviewTypeOnsite,
		"scheduled_time":   nextWeek(),
		"duration_minutes": 90,
		"location":         "HQ room 4",
	}, tokenFor(t, database.TestHR1.Email), r, "/interviews/", http.MethodPost)

	require.Equal(t, http.StatusCreated, rec.Code, resp)
	assert.Equal(t, colleague.ID.String(), resp["interviewer_id"])
	assert.Equal(t, float64(90), resp["duration_minutes"])
}

func TestUpdateAndDeleteInterview(t *testing.T) {
	r := setupRouter()
	token := tokenFor(t, database.TestHR2.Email)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"application_id": database.TestApplication2.ID,
		"interview_type": model.InterviewTypePhone,
		"scheduled_time": nextWeek(),
	}, token, r, "/interviews/", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, resp)
	url := interviewURL(uint(resp["id"].(float64)))

	rec, resp = testutil.MakeJSONRequest(gin.H{"status": model.InterviewStatusCompleted, "feedback": "Great"}, token, r, url, http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code, resp)
	assert.Equal(t, model.InterviewStatusCompleted, resp["status"])
	assert.Equal(t, "Great", resp["feedback"])
	assert.Equal(t, model.InterviewTypePhone, resp["interview_type"])

	// a completed interview may go back to scheduled
	rec, resp = testutil.MakeJSONRequest(gin.H{
		"interview_type": model.InterviewTypeVideo,
		"scheduled_time": nextWeek(),
		"status":         model.InterviewStatusScheduled,
	}, token, r, url, http.MethodPut)
	require.Equal(t, http.StatusOK, rec.Code, resp)
	assert.Equal(t, model.InterviewStatusScheduled, resp["status"])
	assert.Nil(t, resp["feedback"])
	assert.Equal(t, float64(model.DefaultInterviewMinutes), resp["duration_minutes"])

	rec, _ = testutil.MakeJSONRequest(gin.H{"status": "LOST"}, token, r, url, http.MethodPatch)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = testutil.MakeJSONRequest(gin.H{"notes": "peek"}, tokenFor(t, database.TestCandidate2.Email), r, url, http.MethodPatch)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, tokenFor(t, database.TestHR1.Email), r, url, http.MethodDelete)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, token, r, url, http.MethodDelete)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
