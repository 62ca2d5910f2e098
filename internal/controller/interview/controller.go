// Package interview provides HTTP handlers for interviews HR schedules on applications
package interview

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Adham-Aroubite/hr-back/internal/access"
	"github.com/Adham-Aroubite/hr-back/internal/database"
	"github.com/Adham-Aroubite/hr-back/internal/model"
	"github.com/Adham-Aroubite/hr-back/internal/utilities"
)

// InterviewController handles interview endpoints
type InterviewController struct {
	DB *database.DBinstanceStruct
}

// NewInterviewController creates a new instance of InterviewController
func NewInterviewController(db *database.DBinstanceStruct) *InterviewController {
	return &InterviewController{
		DB: db,
	}
}

type scheduleInfo struct {
	ApplicationID uint `json:"application_id"`
	// InterviewerID defaults to the requester
	InterviewerID *uuid.UUID `json:"interviewer_id"`
	model.EditableInterviewInfo
}

func (s scheduleInfo) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.ApplicationID, validation.Required),
	)
}

type rescheduleInfo struct {
	InterviewerID *uuid.UUID `json:"interviewer_id"`
	model.EditableInterviewInfo
}

var errInterviewer = errors.New("Interviewer must be an HR user of the same company")

func (ic *InterviewController) withRelations(r model.Requester) *gorm.DB {
	return ic.DB.Scopes(access.Interviews.Apply(r)).
		Preload("Application").
		Preload("Application.JobPosting").
		Preload("Application.JobPosting.Company").
		Preload("Application.JobPosting.CreatedBy").
		Preload("Application.Candidate").
		Preload("Application.ResumeData").
		Preload("Application.ResumeData.Candidate").
		Preload("Interviewer")
}

// GetInterviews lists the interviews visible to the requester
// @Summary List interviews
// @Description HR users see interviews on their company's postings, candidates see interviews on their own applications
// @Tags Interview
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param status query string false "Interview status, must exactly match"
// @Param application query integer false "ID of the application"
// @Success 200 {array} model.Interview "Visible interviews, earliest first"
// @Failure 400 {object} utilities.ErrorResponse "Invalid query"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /interviews/ [get]
func (ic *InterviewController) GetInterviews(c *gin.Context) {
	requester, err := utilities.ExtractRequester(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	query := ic.withRelations(requester)
	if status := c.Query("status"); status != "" {
		query = query.Where("interviews.status = ?", strings.ToUpper(status))
	}
	if c.Query("application") != "" {
		applicationID, err := utilities.ParseQueryID(c, "application")
		if err != nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
			return
		}
		query = query.Where("interviews.application_id = ?", applicationID)
	}

	interviews := []model.Interview{}
	if err := query.Order("interviews.scheduled_time").Order("interviews.id").Find(&interviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch interviews: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, interviews)
}

// CreateInterview schedules an interview on an application of the requester's company
// @Summary Schedule interview
// @Description The application must belong to a posting of the requester's company.
// @Description The interviewer defaults to the requester and must be an HR user of the same company.
// @Tags Interview
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Interview body scheduleInfo true "Interview information"
// @Success 201 {object} model.Interview "Scheduled interview"
// @Failure 400 {object} utilities.FieldErrors "Invalid interview"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /interviews/ [post]
func (ic *InterviewController) CreateInterview(c *gin.Context) {
	requester, err := utilities.ExtractRequester(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	info := scheduleInfo{}
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}
	if info.DurationMinutes == 0 {
		info.DurationMinutes = model.DefaultInterviewMinutes
	}
	if info.Status == "" {
		info.Status = model.InterviewStatusScheduled
	}

	errs := validation.Errors{}
	mergeErrors(errs, info.Validate())
	mergeErrors(errs, info.EditableInterviewInfo.Validate())
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, utilities.NewFieldErrors(errs))
		return
	}

	var count int64
	if err := ic.DB.Model(&model.JobApplication{}).
		Scopes(access.Applications.Apply(requester)).
		Where("job_applications.id = ?", info.ApplicationID).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return
	}
	if count == 0 {
		c.JSON(http.StatusBadRequest, utilities.FieldError("application_id", "Application not found"))
		return
	}

	interviewerID, err := ic.resolveInterviewer(requester, info.InterviewerID)
	if errors.Is(err, errInterviewer) {
		c.JSON(http.StatusBadRequest, utilities.FieldError("interviewer_id", err.Error()))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve interviewer: %s", err.Error()),
		})
		return
	}

	interview := model.Interview{
		ApplicationID:         info.ApplicationID,
		InterviewerID:         interviewerID,
		EditableInterviewInfo: info.EditableInterviewInfo,
	}
	if err := ic.DB.Omit(clause.Associations).Create(&interview).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create interview: %s", err.Error()),
		})
		return
	}

	if err := ic.withRelations(requester).First(&interview, interview.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to load interview: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, interview)
}

// GetInterviewByID retrieves one visible interview
// @Summary Get interview by ID
// @Tags Interview
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of interview"
// @Success 200 {object} model.Interview "Interview"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Interview not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /interviews/{id}/ [get]
func (ic *InterviewController) GetInterviewByID(c *gin.Context) {
	interview, _, ok := ic.findVisible(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, interview)
}

// ReplaceInterview overwrites every editable field of an interview.
// A missing status or duration keeps the current one.
// @Summary Replace interview
// @Description The application can't be changed. Any status may follow any other.
// @Tags Interview
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of interview"
// @Param Interview body rescheduleInfo true "Interview information"
// @Success 200 {object} model.Interview "Updated interview"
// @Failure 400 {object} utilities.FieldErrors "Invalid interview"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 404 {object} utilities.ErrorResponse "Interview not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /interviews/{id}/ [put]
func (ic *InterviewController) ReplaceInterview(c *gin.Context) {
	ic.update(c, false)
}

// EditInterview merges the non-empty fields of the body into an interview
// @Summary Edit interview
// @Description The application can't be changed. Any status may follow any other.
// @Tags Interview
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of interview"
// @Param Interview body rescheduleInfo true "Fields to change"
// @Success 200 {object} model.Interview "Updated interview"
// @Failure 400 {object} utilities.FieldErrors "Invalid interview"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 404 {object} utilities.ErrorResponse "Interview not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /interviews/{id}/ [patch]
func (ic *InterviewController) EditInterview(c *gin.Context) {
	ic.update(c, true)
}

// DeleteInterview removes an interview of the requester's company
// @Summary Delete interview
// @Tags Interview
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of interview"
// @Success 204 "Deleted"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as HR"
// @Failure 404 {object} utilities.ErrorResponse "Interview not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /interviews/{id}/ [delete]
func (ic *InterviewController) DeleteInterview(c *gin.Context) {
	interview, _, ok := ic.findVisible(c)
	if !ok {
		return
	}

	if err := ic.DB.Delete(&interview).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete interview: %s", err.Error()),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

func (ic *InterviewController) update(c *gin.Context, partial bool) {
	interview, requester, ok := ic.findVisible(c)
	if !ok {
		return
	}

	edited := rescheduleInfo{}
	if err := c.ShouldBindJSON(&edited); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if partial {
		utilities.MergeNonEmpty(&interview.EditableInterviewInfo, &edited.EditableInterviewInfo)
	} else {
		if edited.Status == "" {
			edited.Status = interview.Status
		}
		if edited.DurationMinutes == 0 {
			edited.DurationMinutes = interview.DurationMinutes
		}
		interview.EditableInterviewInfo = edited.EditableInterviewInfo
	}

	if err := interview.EditableInterviewInfo.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, utilities.NewFieldErrors(err))
		return
	}

	if edited.InterviewerID != nil {
		interviewerID, err := ic.resolveInterviewer(requester, edited.InterviewerID)
		if errors.Is(err, errInterviewer) {
			c.JSON(http.StatusBadRequest, utilities.FieldError("interviewer_id", err.Error()))
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to retrieve interviewer: %s", err.Error()),
			})
			return
		}
		interview.InterviewerID = interviewerID
	}

	if err := ic.DB.Omit(clause.Associations).Save(&interview).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update interview: %s", err.Error()),
		})
		return
	}

	if err := ic.withRelations(requester).First(&interview, interview.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to load interview: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, interview)
}

// resolveInterviewer returns the requester when id is nil, otherwise checks that id is
// an active HR user of the requester's company
func (ic *InterviewController) resolveInterviewer(r model.Requester, id *uuid.UUID) (uuid.UUID, error) {
	if id == nil || *id == r.User.ID {
		return r.User.ID, nil
	}

	companyID, ok := r.CompanyID()
	if !ok {
		return uuid.Nil, errInterviewer
	}

	var count int64
	if err := ic.DB.Model(&model.UserProfile{}).
		Joins("JOIN users ON users.id = user_profiles.user_id").
		Where("user_profiles.user_id = ? AND user_profiles.user_type = ? AND user_profiles.company_id = ? AND users.is_active", *id, model.RoleHR, companyID).
		Count(&count).Error; err != nil {
		return uuid.Nil, err
	}
	if count == 0 {
		return uuid.Nil, errInterviewer
	}
	return *id, nil
}

// findVisible loads the interview named by the id path parameter inside the requester's scope.
// It writes the error response itself and reports whether the caller may continue.
func (ic *InterviewController) findVisible(c *gin.Context) (model.Interview, model.Requester, bool) {
	requester, err := utilities.ExtractRequester(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return model.Interview{}, requester, false
	}

	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Interview not found"})
		return model.Interview{}, requester, false
	}

	interview := model.Interview{}
	err = ic.withRelations(requester).First(&interview, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Interview not found"})
		return model.Interview{}, requester, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve interview: %s", err.Error()),
		})
		return model.Interview{}, requester, false
	}

	return interview, requester, true
}

// mergeErrors copies the field errors of err into errs
func mergeErrors(errs validation.Errors, err error) {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, e := range verrs {
			errs[field] = e
		}
	}
}
