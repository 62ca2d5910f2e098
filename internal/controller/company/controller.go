// Package company provides HTTP handlers for company records
package company

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

// CompanyController handles company related endpoints
type CompanyController struct {
	DB *database.DBinstanceStruct
}

// NewCompanyController creates a new instance of CompanyController
func NewCompanyController(db *database.DBinstanceStruct) *CompanyController {
	return &CompanyController{
		DB: db,
	}
}

type createCompanyInfo struct {
	model.EditableCompanyInfo
	// RegistrationCode is generated when left empty
	RegistrationCode string `json:"registration_code"`
}

// GetCompanies lists the companies visible to the requester
// @Summary List companies
// @Description HR users see their own company, other users see nothing
// @Tags Company
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param search query string false "Case insensitive substring of the company name"
// @Success 200 {array} model.Company "Visible companies"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies/ [get]
func (cc *CompanyController) GetCompanies(c *gin.Context) {
	requester, err := utilities.ExtractRequester(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	query := cc.DB.Scopes(access.Companies.Apply(requester))
	if search := c.Query("search"); search != "" {
		query = query.Where("companies.name ILIKE ?", "%"+search+"%")
	}

	companies := []model.Company{}
	if err := query.Order("companies.id").Find(&companies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch companies: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, companies)
}

// CreateCompany registers a new active company
// @Summary Create company
// @Description Registration code is generated when not given, HR users join the company by quoting it
// @Tags Company
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Company body createCompanyInfo true "Company information"
// @Success 201 {object} model.Company "Created company"
// @Failure 400 {object} utilities.FieldErrors "Invalid company information or registration code already taken"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies/ [post]
func (cc *CompanyController) CreateCompany(c *gin.Context) {
	info := createCompanyInfo{}
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if err := info.EditableCompanyInfo.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, utilities.NewFieldErrors(err))
		return
	}

	if info.RegistrationCode == "" {
		code, err := utilities.RegistrationCode(3)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to generate registration code: %s", err.Error()),
			})
			return
		}
		info.RegistrationCode = code
	}

	company := model.Company{
		RegistrationCode:    info.RegistrationCode,
		IsActive:            true,
		EditableCompanyInfo: info.EditableCompanyInfo,
	}
	if err := cc.DB.Create(&company).Error; err != nil {
		if _, ok := utilities.UniqueViolation(err); ok {
			c.JSON(http.StatusBadRequest, utilities.FieldError("registration_code", "Company with this registration code already exists"))
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create company: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, company)
}

// GetCompanyByID retrieves one visible company
// @Summary Get company by ID
// @Tags Company
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of company"
// @Success 200 {object} model.Company "Company"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies/{id}/ [get]
func (cc *CompanyController) GetCompanyByID(c *gin.Context) {
	company, ok := cc.findVisible(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, company)
}

// ReplaceCompany overwrites every editable field of a visible company
// @Summary Replace company
// @Tags Company
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of company"
// @Param Company body model.EditableCompanyInfo true "Company information"
// @Success 200 {object} model.Company "Updated company"
// @Failure 400 {object} utilities.FieldErrors "Invalid company information"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies/{id}/ [put]
func (cc *CompanyController) ReplaceCompany(c *gin.Context) {
	cc.update(c, false)
}

// EditCompany merges the non-empty fields of the body into a visible company
// @Summary Edit company
// @Tags Company
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of company"
// @Param Company body model.EditableCompanyInfo true "Fields to change"
// @Success 200 {object} model.Company "Updated company"
// @Failure 400 {object} utilities.FieldErrors "Invalid company information"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies/{id}/ [patch]
func (cc *CompanyController) EditCompany(c *gin.Context) {
	cc.update(c, true)
}

// DeleteCompany removes a visible company with its profiles and postings
// @Summary Delete company
// @Tags Company
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of company"
// @Success 204 "Deleted"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies/{id}/ [delete]
func (cc *CompanyController) DeleteCompany(c *gin.Context) {
	company, ok := cc.findVisible(c)
	if !ok {
		return
	}

	if err := cc.DB.Delete(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete company: %s", err.Error()),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

func (cc *CompanyController) update(c *gin.Context, partial bool) {
	company, ok := cc.findVisible(c)
	if !ok {
		return
	}

	edited := model.EditableCompanyInfo{}
	if err := c.ShouldBindJSON(&edited); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if partial {
		utilities.MergeNonEmpty(&company.EditableCompanyInfo, &edited)
	} else {
		company.EditableCompanyInfo = edited
	}

	if err := company.EditableCompanyInfo.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, utilities.NewFieldErrors(err))
		return
	}

	if err := cc.DB.Omit(clause.Associations).Save(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update company: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, company)
}

// findVisible loads the company named by the id path parameter inside the requester's scope.
// It writes the error response itself and reports whether the caller may continue.
func (cc *CompanyController) findVisible(c *gin.Context) (model.Company, bool) {
	requester, err := utilities.ExtractRequester(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return model.Company{}, false
	}

	id, err := utilities.ParseID(c, "id")
	if err != nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Company not found"})
		return model.Company{}, false
	}

	company := model.Company{}
	err = cc.DB.Scopes(access.Companies.Apply(requester)).First(&company, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Company not found"})
		return model.Company{}, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve company: %s", err.Error()),
		})
		return model.Company{}, false
	}

	return company, true
}
