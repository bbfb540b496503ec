package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mindhaven/models"
	"mindhaven/services/booking"
	"mindhaven/services/catalog"
	"mindhaven/services/upstream"
	"mindhaven/utils"
)

// BookingHandler exposes the booking flow over HTTP. It is the only layer
// that decides user-facing messaging and retry eligibility; the services
// below it return typed errors and never talk to the viewer directly.
type BookingHandler struct {
	Flow    booking.FlowService
	Catalog catalog.Catalog
	Logger  *zap.Logger
}

func NewBookingHandler(flow booking.FlowService, cat catalog.Catalog, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Flow: flow, Catalog: cat, Logger: logger}
}

type startFlowRequest struct {
	PackageID string `json:"packageId" binding:"required"`
	Timezone  string `json:"timezone" binding:"required,iana_tz"`
}

// StartFlow opens a new booking flow.
func (h *BookingHandler) StartFlow(c *gin.Context) {
	var req startFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidInput", err.Error())
		return
	}

	draft, tpl, err := h.Flow.Start(c.Request.Context(), c.GetString("viewerID"), req.PackageID, req.Timezone)
	if err != nil {
		h.respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"flow":     draft,
		"template": tpl,
	})
}

type rescheduleRequest struct {
	Timezone string `json:"timezone,omitempty" binding:"omitempty,iana_tz"`
}

// StartReschedule opens a flow seeded from the viewer's existing booking.
func (h *BookingHandler) StartReschedule(c *gin.Context) {
	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidInput", err.Error())
		return
	}

	draft, tpl, err := h.Flow.StartReschedule(c.Request.Context(), c.GetString("viewerID"), req.Timezone)
	if err != nil {
		h.respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"flow":     draft,
		"template": tpl,
	})
}

// GetDays lists the clickable dates of one month ("month=2026-08"). An
// optional "tz" query previews the month in another timezone.
func (h *BookingHandler) GetDays(c *gin.Context) {
	monthParam := c.Query("month")
	anchor, err := time.Parse("2006-01", monthParam)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidInput", "month must look like 2006-01")
		return
	}

	days, err := h.Flow.EnabledDays(c.Request.Context(), c.Param("flowID"), anchor.Year(), anchor.Month(), c.Query("tz"))
	if err != nil {
		h.respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

type updateFlowRequest struct {
	Back     bool   `json:"back,omitempty"`
	Timezone string `json:"timezone,omitempty" binding:"omitempty,iana_tz"`
	Date     string `json:"date,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Time     string `json:"time,omitempty" binding:"omitempty,datetime=15:04:05"`
}

// UpdateFlow advances the selection. Fields apply in order back, timezone,
// date, time, so a timezone change in the same request invalidates any prior
// time before a new one is interpreted.
func (h *BookingHandler) UpdateFlow(c *gin.Context) {
	flowID := c.Param("flowID")
	var req updateFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidInput", err.Error())
		return
	}

	ctx := c.Request.Context()
	var draft *models.BookingDraft
	var err error

	if req.Back {
		if draft, err = h.Flow.Back(ctx, flowID); err != nil {
			h.respondFlowError(c, err)
			return
		}
	}

	if req.Timezone != "" {
		if draft, err = h.Flow.SetTimezone(ctx, flowID, req.Timezone); err != nil {
			h.respondFlowError(c, err)
			return
		}
	}
	if req.Date != "" {
		if draft, err = h.Flow.SelectDate(ctx, flowID, req.Date); err != nil {
			h.respondFlowError(c, err)
			return
		}
	}
	if req.Time != "" {
		if draft, err = h.Flow.SelectTime(ctx, flowID, req.Time); err != nil {
			h.respondFlowError(c, err)
			return
		}
	}

	if draft == nil {
		utils.JSONError(c, http.StatusBadRequest, "invalidInput", "nothing to update")
		return
	}
	c.JSON(http.StatusOK, gin.H{"flow": draft})
}

// ConfirmBooking submits the selection. On success the response carries the
// confirmed record plus the payment handoff data for paid packages; payment
// capture itself happens in the external payment service.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	rec, err := h.Flow.Submit(c.Request.Context(), c.Param("flowID"))
	if err != nil {
		h.respondFlowError(c, err)
		return
	}

	pkg, ok := h.Catalog.Get(rec.PackageID)
	if !ok {
		// A zero-value package would misreport paymentRequired for paid bookings.
		h.Logger.Error("confirmed booking references unknown package",
			zap.String("bookingID", rec.ID), zap.String("packageID", rec.PackageID))
		utils.JSONError(c, http.StatusInternalServerError, "unknownPackage", "booking references an unknown session package")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"booking":         rec,
		"paymentRequired": !pkg.FreeCall && pkg.Price > 0,
		"package":         pkg,
	})
}

// CancelFlow abandons the flow; the draft is discarded, nothing persists.
func (h *BookingHandler) CancelFlow(c *gin.Context) {
	if err := h.Flow.Cancel(c.Request.Context(), c.Param("flowID")); err != nil {
		h.respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// GetCurrentBooking returns the viewer's existing booking for the reschedule
// entry point.
func (h *BookingHandler) GetCurrentBooking(c *gin.Context) {
	rec, err := h.Flow.CurrentBooking(c.Request.Context(), c.GetString("viewerID"))
	if err != nil {
		h.respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": rec})
}

// GetSummary renders the flow's current selection as a calendar card.
func (h *BookingHandler) GetSummary(c *gin.Context) {
	card, err := h.Flow.Summary(c.Request.Context(), c.Param("flowID"))
	if err != nil {
		h.respondFlowError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": card})
}

// respondFlowError maps service errors onto HTTP statuses. Retryable
// conditions (availability outages, submit failures) come back as 5xx;
// conflicts that need a fresh selection come back as 409 with their code so
// the client can re-trigger resolution instead of blind-retrying.
func (h *BookingHandler) respondFlowError(c *gin.Context, err error) {
	var fe *booking.FlowError
	code := "internal"
	if errors.As(err, &fe) {
		code = fe.Code
	}

	switch {
	case errors.Is(err, booking.ErrFlowNotFound):
		utils.JSONError(c, http.StatusNotFound, code, "booking flow not found or expired")
	case errors.Is(err, upstream.ErrNoBooking):
		utils.JSONError(c, http.StatusNotFound, "noBooking", "no booking on record")
	case errors.Is(err, booking.ErrInvalidTimezone),
		errors.Is(err, booking.ErrInvalidDateTime),
		errors.Is(err, booking.ErrUnknownPackage),
		errors.Is(err, booking.ErrDateNotBookable),
		errors.Is(err, booking.ErrSlotNotOffered),
		errors.Is(err, booking.ErrNoSelection):
		utils.JSONError(c, http.StatusBadRequest, code, err.Error())
	case errors.Is(err, booking.ErrSubmitInFlight),
		errors.Is(err, booking.ErrSlotTaken):
		utils.JSONError(c, http.StatusConflict, code, err.Error())
	case errors.Is(err, booking.ErrAvailabilityUnavailable):
		utils.JSONError(c, http.StatusServiceUnavailable, code, "availability is temporarily unavailable")
	case errors.Is(err, booking.ErrSubmitFailed):
		utils.JSONError(c, http.StatusBadGateway, code, "booking submission failed; please retry")
	default:
		h.Logger.Error("unhandled booking flow error", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, code, "internal error")
	}
}
