package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shiftops/roster-api/internal/middleware"
	"github.com/shiftops/roster-api/internal/models"
	"github.com/shiftops/roster-api/internal/service"
	appErrors "github.com/shiftops/roster-api/pkg/errors"
	"github.com/shiftops/roster-api/pkg/response"
)

// ShiftHandler exposes shift scheduling endpoints.
type ShiftHandler struct {
	shifts *service.ShiftService
	roster *service.RosterService
	export *service.ExportService
}

// NewShiftHandler constructs ShiftHandler.
func NewShiftHandler(shifts *service.ShiftService, roster *service.RosterService, export *service.ExportService) *ShiftHandler {
	return &ShiftHandler{shifts: shifts, roster: roster, export: export}
}

func currentClaims(c *gin.Context) *models.JWTClaims {
	claimsValue, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, _ := claimsValue.(*models.JWTClaims)
	return claims
}

// List godoc
// @Summary List shifts
// @Tags Shifts
// @Produce json
// @Param personId query string false "Filter by person"
// @Param kind query string false "Filter by shift kind"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /shifts [get]
func (h *ShiftHandler) List(c *gin.Context) {
	var filter models.ShiftFilter
	filter.PersonID = c.Query("personId")
	filter.Kind = c.Query("kind")
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filter.To = &t
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	shifts, pagination, err := h.shifts.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, shifts, pagination)
}

// Create godoc
// @Summary Create one shift
// @Tags Shifts
// @Accept json
// @Produce json
// @Param payload body service.CreateShiftRequest true "Shift payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /shifts [post]
func (h *ShiftHandler) Create(c *gin.Context) {
	var req service.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.AssignedBy == nil {
		if claims := currentClaims(c); claims != nil {
			req.AssignedBy = &claims.PersonID
		}
	}
	shift, err := h.shifts.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, shift)
}

// BulkCreate godoc
// @Summary Create multiple shifts, skipping drafts that fail
// @Tags Shifts
// @Accept json
// @Produce json
// @Param payload body service.BulkCreateShiftsRequest true "Shift drafts"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /shifts/bulk [post]
func (h *ShiftHandler) BulkCreate(c *gin.Context) {
	var req service.BulkCreateShiftsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	created, err := h.shifts.BulkCreate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := map[string]interface{}{
		"requested": len(req.Items),
		"created":   len(created),
		"skipped":   len(req.Items) - len(created),
	}
	response.JSON(c, http.StatusCreated, created, nil, meta)
}

// AssignWeek godoc
// @Summary Expand a pattern into a week of shifts for a roster
// @Tags Shifts
// @Accept json
// @Produce json
// @Param payload body service.AssignWeekRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /shifts/assign-week [post]
func (h *ShiftHandler) AssignWeek(c *gin.Context) {
	var req service.AssignWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if claims := currentClaims(c); claims != nil {
		req.AssignedBy = claims.PersonID
	}
	created, err := h.shifts.AssignWeek(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, created, nil)
}

// Eligible godoc
// @Summary List persons assignable to shifts
// @Tags Shifts
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /shifts/eligible [get]
func (h *ShiftHandler) Eligible(c *gin.Context) {
	persons, err := h.roster.EligiblePersons(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, persons, nil)
}

// Weekly godoc
// @Summary All shifts for one week across the roster
// @Tags Shifts
// @Produce json
// @Param start query string true "Week start date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /shifts/week [get]
func (h *ShiftHandler) Weekly(c *gin.Context) {
	shifts, err := h.shifts.WeeklyView(c.Request.Context(), c.Query("start"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, shifts, nil)
}

// Export godoc
// @Summary Download a weekly roster as CSV or PDF
// @Tags Shifts
// @Produce text/csv
// @Produce application/pdf
// @Param start query string true "Week start date (YYYY-MM-DD)"
// @Param format query string false "csv or pdf"
// @Success 200 {file} byte
// @Security BearerAuth
// @Router /shifts/export [get]
func (h *ShiftHandler) Export(c *gin.Context) {
	result, err := h.export.WeeklyRoster(c.Request.Context(), c.Query("start"), service.ExportFormat(c.DefaultQuery("format", "csv")))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+result.FileName)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

// PersonShifts godoc
// @Summary Every shift for one person
// @Tags Shifts
// @Produce json
// @Param personId path string true "Person ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /persons/{personId}/shifts [get]
func (h *ShiftHandler) PersonShifts(c *gin.Context) {
	shifts, err := h.shifts.ListByPerson(c.Request.Context(), c.Param("personId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, shifts, nil)
}

// ThreeWeeks godoc
// @Summary Prior, current and next week of shifts for one person
// @Tags Shifts
// @Produce json
// @Param personId path string true "Person ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /persons/{personId}/shifts/three-weeks [get]
func (h *ShiftHandler) ThreeWeeks(c *gin.Context) {
	view, err := h.shifts.ThreeWeekView(c.Request.Context(), c.Param("personId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Update godoc
// @Summary Update a shift
// @Tags Shifts
// @Accept json
// @Produce json
// @Param id path string true "Shift ID"
// @Param payload body service.UpdateShiftRequest true "Shift payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /shifts/{id} [put]
func (h *ShiftHandler) Update(c *gin.Context) {
	var req service.UpdateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	shift, err := h.shifts.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, shift, nil)
}

// Delete godoc
// @Summary Delete a shift
// @Tags Shifts
// @Produce json
// @Param id path string true "Shift ID"
// @Success 204
// @Security BearerAuth
// @Router /shifts/{id} [delete]
func (h *ShiftHandler) Delete(c *gin.Context) {
	if err := h.shifts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
