// Package application provides HTTP handlers for job applications
package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Adham-Aroubite/hr-back/internal/access"
	"github.com/Adham-Aroubite/hr-back/internal/database"
	"github.com/Adham-Aroubite/hr-back/internal/model"
	"github.com/Adham-Aroubite/hr-back/internal/utilities"
)

const uniqueApplicationIndex = "idx_application_posting_candidate"

// ApplicationController handles job application endpoints
type ApplicationController struct {
	DB *database.DBinstanceStruct
}

// NewApplicationController creates a new instance of ApplicationController
func NewApplicationController(db *database.DBinstanceStruct) *ApplicationController {
	return &ApplicationController{
		DB: db,
	}
}

type applyInfo struct {
	JobPostingID uint    `json:"job_posting_id"`
	ResumeDataID uint    `json:"resume_data_id"`
	CoverLetter  *string `json:"cover_letter"`
}

func (a applyInfo) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.JobPostingID, validation.Required),
		validation.Field(&a.ResumeDataID, validation.Required),
	)
}

// candidateEdit is the part of an application its candidate may change
type candidateEdit struct {
	CoverLetter *string `json:"cover_letter"`
}

func (ac *ApplicationController) withRelations(r model.Requester) *gorm.DB {
	return ac.DB.Scopes(access.Applications.Apply(r)).
		Preload("JobPosting").
		Preload("JobPosting.Company").
		Preload("JobPosting.CreatedBy").
		Preload("Candidate").
		Preload("ResumeData").
		Preload("ResumeData.Candidate")
}

// GetApplications lists the applications visible to the requester
// @Summary List job applications
// @Description HR users see applications to their company's postings, candidates see their own
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param status query string false "Application status, must exactly match"
// @Param job_posting query integer false "ID of the job posting"
// @Success 200 {array} model.JobApplication "Visible applications"
// @Failure 400 {object} utilities.ErrorResponse "Invalid query"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/ [get]
func (ac *ApplicationController) GetApplications(c *gin.Context) {
	requester, err := utilities.ExtractRequester(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	query := ac.withRelations(requester)
	if status := c.Query("status"); status != "" {
		query = query.Where("job_applications.status = ?", strings.ToUpper(status))
	}
	if c.Query("job_posting") != "" {
		postingID, err := utilities.ParseQueryID(c, "job_posting")
		if err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
			return
		}
		query = query.Where("job_applications.job_posting_id = ?", postingID)
	}

	applications := []model.JobApplication{}
	if err := query.Order("job_applications.applied_at DESC").Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch applications: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, applications)
}

// CreateApplication applies the requesting candidate to a job posting with one of their résumés
// @Summary Apply to a job posting
// @Description The posting must be visible to the candidate and the résumé must be their own.
// @Description A candidate applies to a posting at most once.
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Application body applyInfo true "Posting, résumé and optional cover letter"
// @Success 201 {object} model.JobApplication "Created application"
// @Failure 400 {object} utilities.FieldErrors "Invalid application or already applied"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as candidate"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/ [post]
func (ac *ApplicationController) CreateApplication(c *gin.Context) {
	requester, err := utilities.ExtractRequester(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	info := applyInfo{}
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}
	if err := info.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, utilities.NewFieldErrors(err))
		return
	}

	var count int64
	if err := ac.DB.Model(&model.JobPosting{}).
		Scopes(access.JobPostings.Apply(requester)).
		Where("job_postings.id = ?", info.JobPostingID).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job posting: %s", err.Error()),
		})
		return
	}
	if count == 0 {
		c.JSON(http.StatusBadRequest, utilities.FieldError("job_posting_id", "Job posting not found or not accepting applications"))
		return
	}

	if err := ac.DB.Model(&model.ResumeData{}).
		Scopes(access.Resumes.Apply(requester)).
		Where("resume_data.id = ?", info.ResumeDataID).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve resume data: %s", err.Error()),
		})
		return
	}
	if count == 0 {
		c.JSON(http.StatusBadRequest, utilities.FieldError("resume_data_id", "Resume data not found"))
		return
	}

	application := model.JobApplication{
		JobPostingID: info.JobPostingID,
		CandidateID:  requester.User.ID,
		ResumeDataID: info.ResumeDataID,
		ReviewInfo: model.ReviewInfo{
			Status:         model.ApplicationStatusApplied,
			AIMatchDetails: datatypes.JSONMap{},
		},
		CoverLetter: info.CoverLetter,
	}

	// the unique index settles concurrent attempts, there is no prior existence check
	if err := ac.DB.Omit(clause.Associations).Create(&application).Error; err != nil {
		if constraint, ok := utilities.UniqueViolation(err); ok && constraint == uniqueApplicationIndex {
			c.JSON(http.StatusBadRequest, utilities.FieldError(utilities.NonFieldErrors, "You have already applied to this job posting"))
			return
		}
		if utilities.ForeignKeyViolation(err) {
			c.JSON(http.StatusBadRequest, utilities.FieldError("job_posting_id", "Job posting not found or not accepting applications"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create application: %s", err.Error()),
		})
		return
	}

	if err := ac.withRelations(requester).First(&application, application.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to load application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, application)
}

// GetApplicationByID retrieves one visible application
// @Summary Get job application by ID
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of application"
// @Success 200 {object} model.JobApplication "Application"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id}/ [get]
func (ac *ApplicationController) GetApplicationByID(c *gin.Context) {
	application, _, ok := ac.findVisible(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, application)
}

// ReplaceApplication overwrites the fields the requester's role may write.
// HR users write the review (status, match score and details, notes), candidates the cover letter.
// @Summary Replace job application
// @Description Any status may follow any other. A missing status keeps the current one.
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of application"
// @Param Review body model.ReviewInfo true "Review for HR users, cover_letter for candidates"
// @Success 200 {object} model.JobApplication "Updated application"
// @Failure 400 {object} utilities.FieldErrors "Invalid review"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id}/ [put]
func (ac *ApplicationController) ReplaceApplication(c *gin.Context) {
	ac.update(c, false)
}

// EditApplication merges the non-empty fields the requester's role may write
// @Summary Edit job application
// @Description HR users write the review, candidates the cover letter. Any status may follow any other.
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of application"
// @Param Review body model.ReviewInfo true "Review for HR users, cover_letter for candidates"
// @Success 200 {object} model.JobApplication "Updated application"
// @Failure 400 {object} utilities.FieldErrors "Invalid review"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id}/ [patch]
func (ac *ApplicationController) EditApplication(c *gin.Context) {
	ac.update(c, true)
}

// DeleteApplication withdraws or discards a visible application with its interviews
// @Summary Delete job application
// @Tags Application
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of application"
// @Success 204 "Deleted"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id}/ [delete]
func (ac *ApplicationController) DeleteApplication(c *gin.Context) {
	application, _, ok := ac.findVisible(c)
	if !ok {
		return
	}

	if err := ac.DB.Delete(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete application: %s", err.Error()),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

func (ac *ApplicationController) update(c *gin.Context, partial bool) {
	application, requester, ok := ac.findVisible(c)
	if !ok {
		return
	}

	switch {
	case requester.IsHR():
		review := model.ReviewInfo{}
		if err := c.ShouldBindJSON(&review); err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
			})
			return
		}
		if partial {
			utilities.MergeNonEmpty(&application.ReviewInfo, &review)
		} else {
			if review.Status == "" {
				review.Status = application.Status
			}
			if review.AIMatchDetails == nil {
				review.AIMatchDetails = datatypes.JSONMap{}
			}
			application.ReviewInfo = review
		}
		if err := application.ReviewInfo.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, utilities.NewFieldErrors(err))
			return
		}

	case requester.IsCandidate():
		edit := candidateEdit{}
		if err := c.ShouldBindJSON(&edit); err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
			})
			return
		}
		if !partial || edit.CoverLetter != nil {
			application.CoverLetter = edit.CoverLetter
		}

	default:
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "User doesn't have permission to access"})
		return
	}

	if err := ac.DB.Omit(clause.Associations).Save(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, application)
}

// findVisible loads the application named by the id path parameter inside the requester's scope.
// It writes the error response itself and reports whether the caller may continue.
func (ac *ApplicationController) findVisible(c *gin.Context) (model.JobApplication, model.Requester, bool) {
	requester, err := utilities.ExtractRequester(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return model.JobApplication{}, requester, false
	}

	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
		return model.JobApplication{}, requester, false
	}

	application := model.JobApplication{}
	err = ac.withRelations(requester).First(&application, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
		return model.JobApplication{}, requester, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return model.JobApplication{}, requester, false
	}

	return application, requester, true
}
