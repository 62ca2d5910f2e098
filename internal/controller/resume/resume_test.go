package resume

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adham-Aroubite/hr-back/internal/database"
	"github.com/Adham-Aroubite/hr-back/internal/model"
	"github.com/Adham-Aroubite/hr-back/internal/testutil"
)

func resumeURL(id uint) string {
	return fmt.Sprintf("/resume-data/%d/", id)
}

func validResume() gin.H {
	return gin.H{
		"full_name":          "Cara Lee",
		"email":              "cara@example.com",
		"skills":             []string{"go", "kubernetes"},
		"experience":         []gin.H{{"company": "Initech", "role": "SRE"}},
		"original_file_name": "cara.pdf",
	}
}

func TestGetResumes_onlyOwn(t *testing.T) {
	r := setupRouter()

	rec, resp := testutil.MakeJSONListRequest(tokenFor(t, database.TestCandidate1.Email), r, "/resume-data/")
	require.Equal(t, http.StatusOK, rec.Code)
	ids := testutil.IDs(resp)
	assert.Contains(t, ids, database.TestResume1.ID)
	assert.NotContains(t, ids, database.TestResume2.ID)

	rec, resp = testutil.MakeJSONListRequest(tokenFor(t, database.TestHR1.Email), r, "/resume-data/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp)
}

func TestGetResumeByID(t *testing.T) {
	r := setupRouter()

	rec, resp := testutil.MakeJSONRequest(nil, tokenFor(t, database.TestCandidate1.Email), r, resumeURL(database.TestResume1.ID), http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{"go", "postgres"}, resp["skills"])
	assert.Equal(t, map[string]interface{}{"source": "seed"}, resp["raw_extracted_data"])

	rec, _ = testutil.MakeJSONRequest(nil, tokenFor(t, database.TestCandidate2.Email), r, resumeURL(database.TestResume1.ID), http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, tokenFor(t, database.TestHR1.Email), r, resumeURL(database.TestResume1.ID), http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateResume_forcesCandidate(t *testing.T) {
	r := setupRouter()

	body := validResume()
	body["candidate_id"] = database.TestCandidate2.ID.String()
	rec, resp := testutil.MakeJSONRequest(body, tokenFor(t, database.TestCandidate1.Email), r, "/resume-data/", http.MethodPost)

	require.Equal(t, http.StatusCreated, rec.Code, resp)
	assert.Equal(t, database.TestCandidate1.ID.String(), resp["candidate_id"])
	assert.Equal(t, []interface{}{"go", "kubernetes"}, resp["skills"])
	assert.Equal(t, []interface{}{}, resp["education"])
	assert.Equal(t, map[string]interface{}{}, resp["raw_extracted_data"])
}

func TestCreateResume_structuredSkills(t *testing.T) {
	r := setupRouter()
	token := tokenFor(t, database.TestCandidate1.Email)

	body := validResume()
	body["skills"] = []gin.H{{"name": "Go", "level": "expert"}, {"name": "SQL", "years": 3}}
	rec, resp := testutil.MakeJSONRequest(body, token, r, "/resume-data/", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, resp)
	id := uint(resp["id"].(float64))

	rec, resp = testutil.MakeJSONRequest(nil, token, r, resumeURL(id), http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{
		map[string]interface{}{"name": "Go", "level": "expert"},
		map[string]interface{}{"name": "SQL", "years": float64(3)},
	}, resp["skills"])

	body["skills"] = gin.H{"name": "Go"}
	rec, resp = testutil.MakeJSONRequest(body, token, r, "/resume-data/", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp, "skills")
}

func TestCreateResume_rejected(t *testing.T) {
	r := setupRouter()

	rec, _ := testutil.MakeJSONRequest(validResume(), tokenFor(t, database.TestHR1.Email), r, "/resume-data/", http.MethodPost)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	invalid := validResume()
	invalid["email"] = "not-an-email"
	invalid["experience"] = gin.H{"not": "a list"}
	delete(invalid, "original_file_name")
	rec, resp := testutil.MakeJSONRequest(invalid, tokenFor(t, database.TestCandidate1.Email), r, "/resume-data/", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp, "email")
	assert.Contains(t, resp, "experience")
	assert.Contains(t, resp, "original_file_name")

	huge := validResume()
	huge["summary"] = strings.Repeat("x", 2<<20)
	rec, _ = testutil.MakeJSONRequest(huge, tokenFor(t, database.TestCandidate1.Email), r, "/resume-data/", http.MethodPost)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestEditAndDeleteResume(t *testing.T) {
	candidate, _, err := testutil.NewAccount(testDB, "resume_owner", model.RoleCandidate, nil)
	require.NoError(t, err)
	r := setupRouter()
	token := tokenFor(t, candidate.Email)

	rec, resp := testutil.MakeJSONRequest(validResume(), token, r, "/resume-data/", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, resp)
	id := uint(resp["id"].(float64))

	rec, resp = testutil.MakeJSONRequest(gin.H{"summary": "Gopher", "skills": []string{"go"}}, token, r, resumeURL(id), http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code, resp)
	assert.Equal(t, "Gopher", resp["summary"])
	assert.Equal(t, []interface{}{"go"}, resp["skills"])
	assert.Equal(t, "Cara Lee", resp["full_name"])

	replacement := gin.H{"full_name": "Cara L.", "email": "cara@example.com", "original_file_name": "cara_v2.pdf"}
	rec, resp = testutil.MakeJSONRequest(replacement, token, r, resumeURL(id), http.MethodPut)
	require.Equal(t, http.StatusOK, rec.Code, resp)
	assert.Equal(t, []interface{}{}, resp["skills"])
	assert.Nil(t, resp["summary"])

	rec, _ = testutil.MakeJSONRequest(nil, tokenFor(t, database.TestCandidate2.Email), r, resumeURL(id), http.MethodDelete)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = testutil.MakeJSONRequest(nil, token, r, resumeURL(id), http.MethodDelete)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
