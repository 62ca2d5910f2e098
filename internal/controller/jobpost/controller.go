// Package jobpost provides HTTP handlers for job posting related operations.
package jobpost

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Adham-Aroubite/hr-back/internal/access"
	"github.com/Adham-Aroubite/hr-back/internal/database"
	"github.com/Adham-Aroubite/hr-back/internal/model"
	"github.com/Adham-Aroubite/hr-back/internal/utilities"
)

// JobPostingController handles job posting related endpoints
type JobPostingController struct {
	DB *database.DBinstanceStruct
}

// NewJobPostingController creates a new instance of JobPostingController
func NewJobPostingController(db *database.DBinstanceStruct) *JobPostingController {
	return &JobPostingController{
		DB: db,
	}
}

func (jc *JobPostingController) withRelations(r model.Requester) *gorm.DB {
	return jc.DB.Scopes(access.JobPostings.Apply(r)).
		Preload("Company").
		Preload("CreatedBy")
}

// CreateJobPosting handles the creation of a new job posting by an HR user.
// @Summary Create job posting based on given json structure
// @Description Company and creator are taken from the requester, values in the body are ignored
// @Tags Jobs
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Jobpost body model.EditableJobPostingInfo true "Input job posting information"
// @Success 201 {object} model.JobPosting "Successfully create job posting"
// @Failure 400 {object} utilities.FieldErrors "Invalid job posting"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR of a company"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/ [post]
func (jc *JobPostingController) CreateJobPosting(c *gin.Context) {
	requester, err := utilities.ExtractRequester(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	companyID, ok := requester.CompanyID()
	if !ok || !requester.IsHR() {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Only HR users of a company can create job postings",
		})
		return
	}

	posting := model.JobPosting{}
	if err := c.ShouldBindJSON(&posting.EditableJobPostingInfo); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if err := posting.EditableJobPostingInfo.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, utilities.NewFieldErrors(err))
		return
	}

	posting.CompanyID = companyID
	posting.CreatedByID = requester.User.ID
	if err := jc.DB.Omit(clause.Associations).Create(&posting).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to create job posting: ", err),
		})
		return
	}

	if err := jc.withRelations(requester).First(&posting, posting.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to load job posting: ", err),
		})
		return
	}

	c.JSON(http.StatusCreated, posting)
}

// GetJobPostings fetches the job postings visible to the requester that match the query
// @Summary Get job postings based on query
// @Description HR users see every posting of their company, candidates see active postings of every company.
// @Description Every query is optional.
// @Tags Jobs
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param search query string false "Search from job posting title with substring matching and case insensitive"
// @Param status query string false "Status, must exactly match"
// @Param department query string false "Department, must exactly match"
// @Param job_type query string false "Job type, must exactly match"
// @Param desc query boolean false "Sorting by creation time in descending if true, otherwise ascending"
// @Success 200 {array} model.JobPosting "Return visible job posting(s)"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/ [get]
func (jc *JobPostingController) GetJobPostings(c *gin.Context) {
	requester, err := utilities.ExtractRequester(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	result := jc.withRelations(requester)

	if rawSearch := c.Query("search"); rawSearch != "" {
		result = result.Where("job_postings.title ILIKE ?", "%"+rawSearch+"%")
	}
	if rawStatus := c.Query("status"); rawStatus != "" {
		result = result.Where("job_postings.status = ?", strings.ToUpper(rawStatus))
	}
	if rawDepartment := c.Query("department"); rawDepartment != "" {
		result = result.Where("job_postings.department = ?", rawDepartment)
	}
	if rawJobType := c.Query("job_type"); rawJobType != "" {
		result = result.Where("job_postings.job_type = ?", rawJobType)
	}

	postings := []model.JobPosting{}
	if err := result.Order(clause.OrderByColumn{
		Column: clause.Column{Table: "job_postings", Name: "created_at"},
		Desc:   strings.ToLower(c.Query("desc")) == "true",
	}).Order("job_postings.id").Find(&postings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to fetch job postings: ", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, postings)
}

// GetJobPostingByID fetches a visible job posting by its ID
// @Summary Get job posting by ID
// @Tags Jobs
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job posting"
// @Success 200 {object} model.JobPosting "Return the job posting with the specified ID"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id}/ [get]
func (jc *JobPostingController) GetJobPostingByID(c *gin.Context) {
	posting, _, ok := jc.findVisible(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, posting)
}

// ReplaceJobPosting overwrites every editable field of a job posting.
// A missing status keeps the current one.
// @Summary Replace job posting
// @Description Company, creator and public id can't be overwritten. Any status may follow any other.
// @Tags Jobs
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of job posting"
// @Param Jobpost body model.EditableJobPostingInfo true "Job posting information"
// @Success 200 {object} model.JobPosting "Updated job posting"
// @Failure 400 {object} utilities.FieldErrors "Invalid job posting"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id}/ [put]
func (jc *JobPostingController) ReplaceJobPosting(c *gin.Context) {
	jc.update(c, false)
}

// EditJobPosting merges the non-empty fields of the body into a job posting
// @Summary Edit job posting
// @Description Company, creator and public id can't be overwritten. Any status may follow any other.
// @Tags Jobs
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of job posting"
// @Param Jobpost body model.EditableJobPostingInfo true "Fields to change"
// @Success 200 {object} model.JobPosting "Updated job posting"
// @Failure 400 {object} utilities.FieldErrors "Invalid job posting"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id}/ [patch]
func (jc *JobPostingController) EditJobPosting(c *gin.Context) {
	jc.update(c, true)
}

// DeleteJobPosting removes a job posting together with its applications
// @Summary Delete job posting
// @Tags Jobs
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of job posting"
// @Success 204 "Deleted"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id}/ [delete]
func (jc *JobPostingController) DeleteJobPosting(c *gin.Context) {
	posting, _, ok := jc.findVisible(c)
	if !ok {
		return
	}

	if err := jc.DB.Delete(&posting).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to delete job posting: ", err.Error()),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetApplications lists every application of a job posting the requester can see
// @Summary Get applications of a job posting
// @Description Visibility is decided by the posting alone, the applications are not narrowed further
// @Tags Jobs
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of job posting"
// @Success 200 {array} model.JobApplication "Applications of the posting"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id}/applications/ [get]
func (jc *JobPostingController) GetApplications(c *gin.Context) {
	posting, _, ok := jc.findVisible(c)
	if !ok {
		return
	}

	applications := []model.JobApplication{}
	if err := jc.DB.
		Preload("JobPosting").
		Preload("JobPosting.Company").
		Preload("JobPosting.CreatedBy").
		Preload("Candidate").
		Preload("ResumeData").
		Preload("ResumeData.Candidate").
		Where("job_applications.job_posting_id = ?", posting.ID).
		Order("job_applications.applied_at DESC").
		Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to fetch applications: ", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, applications)
}

func (jc *JobPostingController) update(c *gin.Context, partial bool) {
	posting, _, ok := jc.findVisible(c)
	if !ok {
		return
	}

	edited := model.EditableJobPostingInfo{}
	if err := c.ShouldBindJSON(&edited); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if partial {
		utilities.MergeNonEmpty(&posting.EditableJobPostingInfo, &edited)
	} else {
		if edited.Status == "" {
			edited.Status = posting.Status
		}
		posting.EditableJobPostingInfo = edited
	}

	if err := posting.EditableJobPostingInfo.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, utilities.NewFieldErrors(err))
		return
	}

	if err := jc.DB.Omit(clause.Associations).Save(&posting).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update job posting: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, posting)
}

// findVisible loads the posting named by the id path parameter inside the requester's scope.
// It writes the error response itself and reports whether the caller may continue.
func (jc *JobPostingController) findVisible(c *gin.Context) (model.JobPosting, model.Requester, bool) {
	requester, err := utilities.ExtractRequester(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return model.JobPosting{}, requester, false
	}

	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job posting not found"})
		return model.JobPosting{}, requester, false
	}

	posting := model.JobPosting{}
	err = jc.withRelations(requester).First(&posting, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job posting not found"})
		return model.JobPosting{}, requester, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job posting: %s", err.Error()),
		})
		return model.JobPosting{}, requester, false
	}

	return posting, requester, true
}
