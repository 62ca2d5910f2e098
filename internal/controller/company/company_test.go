package company

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adham-Aroubite/hr-back/internal/database"
	"github.com/Adham-Aroubite/hr-back/internal/model"
	"github.com/Adham-Aroubite/hr-back/internal/testutil"
)

func companyURL(id uint) string {
	return fmt.Sprintf("/companies/%d/", id)
}

func TestGetCompanies_HRSeesOwnCompanyOnly(t *testing.T) {
	r := setupRouter()
	token := tokenFor(t, database.TestHR1.Email)

	rec, resp := testutil.MakeJSONListRequest(token, r, "/companies/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uint{database.TestCompany1.ID}, testutil.IDs(resp))
	assert.Equal(t, database.TestCompany1.RegistrationCode, resp[0]["registration_code"])
}

func TestGetCompanies_search(t *testing.T) {
	r := setupRouter()
	token := tokenFor(t, database.TestHR1.Email)

	rec, resp := testutil.MakeJSONListRequest(token, r, "/companies/?search=nova")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp, 1)

	rec, resp = testutil.MakeJSONListRequest(token, r, "/companies/?search=forge")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp)
}

func TestGetCompanies_emptyForOthers(t *testing.T) {
	r := setupRouter()

	for _, email := range []string{
		database.TestCandidate1.Email,
		database.TestHRNoCompany.Email,
		database.TestNoProfileUser.Email,
	} {
		rec, resp := testutil.MakeJSONListRequest(tokenFor(t, email), r, "/companies/")
		assert.Equal(t, http.StatusOK, rec.Code, email)
		assert.Empty(t, resp, email)
	}
}

func TestGetCompanyByID(t *testing.T) {
	r := setupRouter()
	token := tokenFor(t, database.TestHR1.Email)

	rec, resp := testutil.MakeJSONRequest(nil, token, r, companyURL(database.TestCompany1.ID), http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, database.TestCompany1.Name, resp["name"])

	rec, resp = testutil.MakeJSONRequest(nil, token, r, companyURL(database.TestCompany2.ID), http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Company not found", resp["error"])

	rec, _ = testutil.MakeJSONRequest(nil, token, r, "/companies/abc/", http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCompanyByID_candidateNotFound(t *testing.T) {
	r := setupRouter()
	token := tokenFor(t, database.TestCandidate1.Email)

	rec, _ := testutil.MakeJSONRequest(nil, token, r, companyURL(database.TestCompany1.ID), http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateCompany_generatesCode(t *testing.T) {
	r := setupRouter()
	token := tokenFor(t, database.TestCandidate1.Email)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"name":    "Orbit Works",
		"website": "https://orbit.example.com",
	}, token, r, "/companies/", http.MethodPost)

	require.Equal(t, http.StatusCreated, rec.Code, resp)
	assert.Equal(t, "Orbit Works", resp["name"])
	assert.Equal(t, true, resp["is_active"])
	assert.Regexp(t, `^[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`, resp["registration_code"])
}

func TestCreateCompany_duplicateCode(t *testing.T) {
	r := setupRouter()
	token := tokenFor(t, database.TestCandidate1.Email)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"name":              "Copycat",
		"registration_code": database.TestCompany1.RegistrationCode,
	}, token, r, "/companies/", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp, "registration_code")
}

func TestCreateCompany_validation(t *testing.T) {
	r := setupRouter()
	token := tokenFor(t, database.TestCandidate1.Email)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"name":    "",
		"website": "not a url",
	}, token, r, "/companies/", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp, "name")
	assert.Contains(t, resp, "website")
}

func TestEditCompany(t *testing.T) {
	company, hr, err := testutil.NewCompanyWithHR(testDB, "Patchable")
	require.NoError(t, err)
	r := setupRouter()
	token := tokenFor(t, hr.Email)

	rec, resp := testutil.MakeJSONRequest(gin.H{"description": "We patch things"}, token, r, companyURL(company.ID), http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code, resp)
	assert.Equal(t, "Patchable", resp["name"])
	assert.Equal(t, "We patch things", resp["description"])
	assert.Equal(t, company.RegistrationCode, resp["registration_code"])

	rec, resp = testutil.MakeJSONRequest(gin.H{"name": "Replaced"}, token, r, companyURL(company.ID), http.MethodPut)
	require.Equal(t, http.StatusOK, rec.Code, resp)
	assert.Equal(t, "Replaced", resp["name"])
	assert.Nil(t, resp["description"])

	rec, resp = testutil.MakeJSONRequest(gin.H{"description": "no name"}, token, r, companyURL(company.ID), http.MethodPut)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp, "name")
}

func TestEditCompany_otherCompanyNotFound(t *testing.T) {
	r := setupRouter()
	token := tokenFor(t, database.TestHR2.Email)

	rec, _ := testutil.MakeJSONRequest(gin.H{"name": "Hijacked"}, token, r, companyURL(database.TestCompany1.ID), http.MethodPatch)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var company model.Company
	require.NoError(t, testDB.First(&company, database.TestCompany1.ID).Error)
	assert.Equal(t, database.TestCompany1.Name, company.Name)
}

func TestDeleteCompany(t *testing.T) {
	company, hr, err := testutil.NewCompanyWithHR(testDB, "Doomed")
	require.NoError(t, err)
	r := setupRouter()
	token := tokenFor(t, hr.Email)

	rec, _ := testutil.MakeJSONRequest(nil, token, r, companyURL(company.ID), http.MethodDelete)
	require.Equal(t, http.StatusNoContent, rec.Code)

	var profiles int64
	require.NoError(t, testDB.Model(&model.UserProfile{}).Where("company_id = ?", company.ID).Count(&profiles).Error)
	assert.Zero(t, profiles)
}
