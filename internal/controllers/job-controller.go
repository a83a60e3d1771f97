package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"github.com/franciscosanchezn/thunder-road-api/internal/services"
	"github.com/gin-gonic/gin"
)

// JobController handles job applications, open positions and the extra
// fields shown on the application form
type JobController interface {
	ListApplications(c *gin.Context)
	CreateApplication(c *gin.Context)
	UpdateApplicationStatus(c *gin.Context)
	DeleteApplication(c *gin.Context)

	ListPositions(c *gin.Context)
	ListPublicPositions(c *gin.Context)
	CreatePosition(c *gin.Context)
	SetPositionActive(c *gin.Context)
	DeletePosition(c *gin.Context)

	ListFields(c *gin.Context)
	CreateField(c *gin.Context)
	DeleteField(c *gin.Context)
}

type jobController struct {
	service services.JobService
}

func NewJobController(service services.JobService) JobController {
	return &jobController{service: service}
}

// positionActiveInput toggles a position on or off
type positionActiveInput struct {
	IsActive *models.Flag `json:"is_active" binding:"required"`
}

// ListApplications godoc
// @Summary List job applications
// @Tags jobs
// @Produce json
// @Success 200 {array} models.JobApplication
// @Security BearerAuth
// @Router /api/jobs [get]
func (j *jobController) ListApplications(c *gin.Context) {
	applications, err := j.service.ListApplications(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Application not found")
		return
	}
	c.JSON(http.StatusOK, applications)
}

// CreateApplication godoc
// @Summary Apply for a job
// @Tags jobs
// @Accept json
// @Produce json
// @Param application body models.JobApplicationInput true "Application"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.APIError
// @Router /api/jobs [post]
func (j *jobController) CreateApplication(c *gin.Context) {
	var input models.JobApplicationInput
	if !bindJSON(c, &input) {
		return
	}
	id, err := j.service.CreateApplication(c.Request.Context(), input)
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Application not found")
		return
	}
	respondCreated(c, id, "Application submitted successfully")
}

// UpdateApplicationStatus godoc
// @Summary Change the status of an application
// @Tags jobs
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param status body models.StatusInput true "pending, reviewed, interview, hired or rejected"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/jobs/{id} [put]
func (j *jobController) UpdateApplicationStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input models.StatusInput
	if !bindJSON(c, &input) {
		return
	}
	if err := j.service.UpdateApplicationStatus(c.Request.Context(), id, input.Status); err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Application not found")
		return
	}
	respondMessage(c, http.StatusOK, "Application updated")
}

// DeleteApplication godoc
// @Summary Delete a job application
// @Tags jobs
// @Param id path int true "Application ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/jobs/{id} [delete]
func (j *jobController) DeleteApplication(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := j.service.DeleteApplication(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Application not found")
		return
	}
	respondMessage(c, http.StatusOK, "Application deleted")
}

// ListPositions godoc
// @Summary List all job positions
// @Tags jobs
// @Produce json
// @Success 200 {array} models.JobPosition
// @Security BearerAuth
// @Router /api/job-positions [get]
func (j *jobController) ListPositions(c *gin.Context) {
	positions, err := j.service.ListPositions(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Position not found")
		return
	}
	c.JSON(http.StatusOK, positions)
}

// ListPublicPositions godoc
// @Summary List open job positions
// @Tags jobs
// @Produce json
// @Success 200 {array} models.PublicJobPosition
// @Router /api/job-positions/public [get]
func (j *jobController) ListPublicPositions(c *gin.Context) {
	positions, err := j.service.ListPublicPositions(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Position not found")
		return
	}
	c.JSON(http.StatusOK, positions)
}

// CreatePosition godoc
// @Summary Create a job position
// @Tags jobs
// @Accept json
// @Produce json
// @Param position body models.JobPositionInput true "Position"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/job-positions [post]
func (j *jobController) CreatePosition(c *gin.Context) {
	var input models.JobPositionInput
	if !bindJSON(c, &input) {
		return
	}
	id, err := j.service.CreatePosition(c.Request.Context(), input)
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Position not found")
		return
	}
	respondCreated(c, id, "Position created")
}

// SetPositionActive godoc
// @Summary Open or close a job position
// @Tags jobs
// @Accept json
// @Produce json
// @Param id path int true "Position ID"
// @Param body body positionActiveInput true "Active flag"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/job-positions/{id} [put]
func (j *jobController) SetPositionActive(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input positionActiveInput
	if !bindJSON(c, &input) {
		return
	}
	if err := j.service.SetPositionActive(c.Request.Context(), id, input.IsActive.Bool()); err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Position not found")
		return
	}
	respondMessage(c, http.StatusOK, "Position updated")
}

// DeletePosition godoc
// @Summary Delete a job position
// @Tags jobs
// @Param id path int true "Position ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/job-positions/{id} [delete]
func (j *jobController) DeletePosition(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := j.service.DeletePosition(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Position not found")
		return
	}
	respondMessage(c, http.StatusOK, "Position deleted")
}

// ListFields godoc
// @Summary List application form fields
// @Tags jobs
// @Produce json
// @Success 200 {array} models.ApplicationField
// @Security BearerAuth
// @Router /api/application-fields [get]
func (j *jobController) ListFields(c *gin.Context) {
	fields, err := j.service.ListFields(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Field not found")
		return
	}
	c.JSON(http.StatusOK, fields)
}

// CreateField godoc
// @Summary Add a field to the application form
// @Tags jobs
// @Accept json
// @Produce json
// @Param field body models.ApplicationFieldInput true "Field"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.APIError
// @Security BearerAuth
// @Router /api/application-fields [post]
func (j *jobController) CreateField(c *gin.Context) {
	var input models.ApplicationFieldInput
	if !bindJSON(c, &input) {
		return
	}
	id, err := j.service.CreateField(c.Request.Context(), input)
	if err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Field not found")
		return
	}
	respondCreated(c, id, "Field created")
}

// DeleteField godoc
// @Summary Remove a field from the application form
// @Tags jobs
// @Param id path int true "Field ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/application-fields/{id} [delete]
func (j *jobController) DeleteField(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := j.service.DeleteField(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, models.ErrNotFound, "Field not found")
		return
	}
	respondMessage(c, http.StatusOK, "Field deleted")
}
