package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shiftops/roster-api/internal/service"
	appErrors "github.com/shiftops/roster-api/pkg/errors"
	"github.com/shiftops/roster-api/pkg/response"
)

// NotificationHandler exposes manual notification triggers. All sends are
// accepted as fire-and-forget; the response never reflects delivery outcome.
type NotificationHandler struct {
	notifications *service.NotificationService
}

// NewNotificationHandler constructs NotificationHandler.
func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// BulkNotifyRequest lists shift ids to notify about.
type BulkNotifyRequest struct {
	ShiftIDs []string `json:"shift_ids" binding:"required,min=1"`
}

// Notify godoc
// @Summary Send the scheduled-shift email for one shift
// @Tags Notifications
// @Produce json
// @Param id path string true "Shift ID"
// @Success 202 {object} response.Envelope
// @Security BearerAuth
// @Router /notifications/shifts/{id} [post]
func (h *NotificationHandler) Notify(c *gin.Context) {
	h.notifications.Notify(c.Request.Context(), c.Param("id"))
	response.JSON(c, http.StatusAccepted, gin.H{"status": "accepted"}, nil)
}

// Remind godoc
// @Summary Send the reminder email for one shift
// @Tags Notifications
// @Produce json
// @Param id path string true "Shift ID"
// @Success 202 {object} response.Envelope
// @Security BearerAuth
// @Router /notifications/shifts/{id}/remind [post]
func (h *NotificationHandler) Remind(c *gin.Context) {
	h.notifications.Remind(c.Request.Context(), c.Param("id"))
	response.JSON(c, http.StatusAccepted, gin.H{"status": "accepted"}, nil)
}

// NotifyBulk godoc
// @Summary Send scheduled-shift emails for a batch of shifts
// @Tags Notifications
// @Accept json
// @Produce json
// @Param payload body handler.BulkNotifyRequest true "Shift ids"
// @Success 202 {object} response.Envelope
// @Security BearerAuth
// @Router /notifications/bulk [post]
func (h *NotificationHandler) NotifyBulk(c *gin.Context) {
	var req BulkNotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	// Throttled batch runs in the background so the request returns at once.
	// The request context would cancel the batch on response, so it is not used.
	go h.notifications.NotifyBulk(context.Background(), req.ShiftIDs)
	response.JSON(c, http.StatusAccepted, gin.H{"status": "accepted", "count": len(req.ShiftIDs)}, nil)
}

// PendingToday godoc
// @Summary Shifts for one person falling on the current day
// @Tags Notifications
// @Produce json
// @Param personId path string true "Person ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /persons/{personId}/notifications/pending [get]
func (h *NotificationHandler) PendingToday(c *gin.Context) {
	shifts, err := h.notifications.PendingToday(c.Request.Context(), c.Param("personId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, shifts, nil)
}
