// Package resume provides HTTP handlers for the résumé data candidates keep on file
package resume

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Adham-Aroubite/hr-back/internal/access"
	"github.com/Adham-Aroubite/hr-back/internal/database"
	"github.com/Adham-Aroubite/hr-back/internal/model"
	"github.com/Adham-Aroubite/hr-back/internal/utilities"
)

// ResumeController handles résumé data endpoints
type ResumeController struct {
	DB *database.DBinstanceStruct
}

// NewResumeController creates a new instance of ResumeController
func NewResumeController(db *database.DBinstanceStruct) *ResumeController {
	return &ResumeController{
		DB: db,
	}
}

// GetResumes lists the résumés of the requesting candidate
// @Summary List own résumé data
// @Tags Resume
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.ResumeData "Résumés authored by the requester"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /resume-data/ [get]
func (rc *ResumeController) GetResumes(c *gin.Context) {
	requester, err := utilities.ExtractRequester(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	resumes := []model.ResumeData{}
	if err := rc.DB.Scopes(access.Resumes.Apply(requester)).
		Preload("Candidate").
		Order("resume_data.created_at DESC").
		Find(&resumes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch resume data: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, resumes)
}

// CreateResume stores structured résumé data for the requesting candidate
// @Summary Create résumé data
// @Description The candidate is always the requester
// @Tags Resume
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Resume body model.EditableResumeInfo true "Résumé content"
// @Success 201 {object} model.ResumeData "Created résumé data"
// @Failure 400 {object} utilities.FieldErrors "Invalid résumé data"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as candidate"
// @Failure 413 {object} utilities.ErrorResponse "Request body too large"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /resume-data/ [post]
func (rc *ResumeController) CreateResume(c *gin.Context) {
	requester, err := utilities.ExtractRequester(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	resume := model.ResumeData{}
	if err := c.ShouldBindJSON(&resume.EditableResumeInfo); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	resume.FillDefaults()
	if err := resume.EditableResumeInfo.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, utilities.NewFieldErrors(err))
		return
	}

	resume.CandidateID = requester.User.ID
	if err := rc.DB.Omit(clause.Associations).Create(&resume).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create resume data: %s", err.Error()),
		})
		return
	}
	resume.Candidate = requester.User

	c.JSON(http.StatusCreated, resume)
}

// GetResumeByID retrieves one of the requester's résumés
// @Summary Get résumé data by ID
// @Tags Resume
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of résumé data"
// @Success 200 {object} model.ResumeData "Résumé data"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Resume data not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /resume-data/{id}/ [get]
func (rc *ResumeController) GetResumeByID(c *gin.Context) {
	resume, ok := rc.findVisible(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resume)
}

// ReplaceResume overwrites every editable field of one of the requester's résumés
// @Summary Replace résumé data
// @Tags Resume
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of résumé data"
// @Param Resume body model.EditableResumeInfo true "Résumé content"
// @Success 200 {object} model.ResumeData "Updated résumé data"
// @Failure 400 {object} utilities.FieldErrors "Invalid résumé data"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Resume data not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /resume-data/{id}/ [put]
func (rc *ResumeController) ReplaceResume(c *gin.Context) {
	rc.update(c, false)
}

// EditResume merges the non-empty fields of the body into one of the requester's résumés
// @Summary Edit résumé data
// @Tags Resume
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of résumé data"
// @Param Resume body model.EditableResumeInfo true "Fields to change"
// @Success 200 {object} model.ResumeData "Updated résumé data"
// @Failure 400 {object} utilities.FieldErrors "Invalid résumé data"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Resume data not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /resume-data/{id}/ [patch]
func (rc *ResumeController) EditResume(c *gin.Context) {
	rc.update(c, true)
}

// DeleteResume removes one of the requester's résumés and the applications made with it
// @Summary Delete résumé data
// @Tags Resume
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of résumé data"
// @Success 204 "Deleted"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Resume data not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /resume-data/{id}/ [delete]
func (rc *ResumeController) DeleteResume(c *gin.Context) {
	resume, ok := rc.findVisible(c)
	if !ok {
		return
	}

	if err := rc.DB.Delete(&resume).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete resume data: %s", err.Error()),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

func (rc *ResumeController) update(c *gin.Context, partial bool) {
	resume, ok := rc.findVisible(c)
	if !ok {
		return
	}

	edited := model.EditableResumeInfo{}
	if err := c.ShouldBindJSON(&edited); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if partial {
		utilities.MergeNonEmpty(&resume.EditableResumeInfo, &edited)
	} else {
		edited.FillDefaults()
		resume.EditableResumeInfo = edited
	}

	if err := resume.EditableResumeInfo.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, utilities.NewFieldErrors(err))
		return
	}

	if err := rc.DB.Omit(clause.Associations).Save(&resume).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update resume data: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, resume)
}

// findVisible loads the résumé named by the id path parameter inside the requester's scope.
// It writes the error response itself and reports whether the caller may continue.
func (rc *ResumeController) findVisible(c *gin.Context) (model.ResumeData, bool) {
	requester, err := utilities.ExtractRequester(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return model.ResumeData{}, false
	}

	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Resume data not found"})
		return model.ResumeData{}, false
	}

	resume := model.ResumeData{}
	err = rc.DB.Scopes(access.Resumes.Apply(requester)).Preload("Candidate").First(&resume, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Resume data not found"})
		return model.ResumeData{}, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve resume data: %s", err.Error()),
		})
		return model.ResumeData{}, false
	}

	return resume, true
}
