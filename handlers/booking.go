package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"slotbook/config"
	memberRepo "slotbook/database/repository/member"
	reservationRepo "slotbook/database/repository/reservation"
	"slotbook/models"
	"slotbook/services/booking"
	"slotbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the public guest-facing booking surface: listing free
// slots, committing a reservation, and cancelling one.
type BookingHandler struct {
	Service booking.ReservationService
	Members memberRepo.MemberRepository
	Logger  *zap.Logger
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc booking.ReservationService, members memberRepo.MemberRepository, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Members: members, Logger: logger}
}

type slotGroup struct {
	Date  string        `json:"date"`
	Slots []models.Slot `json:"slots"`
}

// ListSlotsHandler returns the bookable slots for a member, grouped by date in
// the caller's timezone.
//
// Query parameters: member_id (required), from, until ("2006-01-02", default a
// booking window from today), duration (minutes), tz (IANA name, default UTC).
func (h *BookingHandler) ListSlotsHandler(c *gin.Context) {
	teamID := c.Param("teamID")
	memberID := c.Query("member_id")
	if memberID == "" {
		utils.JSONError(c, http.StatusBadRequest, "member_id is required", "")
		return
	}

	member, err := h.memberInTeam(c, teamID, memberID)
	if err != nil {
		return // response already written
	}

	callerTZ := c.DefaultQuery("tz", "UTC")
	loc, err := time.LoadLocation(callerTZ)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "unknown timezone", callerTZ)
		return
	}

	now := time.Now().In(loc)
	rangeStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	rangeEnd := rangeStart.AddDate(0, 0, config.AppConfig.BookingWindowDays)
	if from := c.Query("from"); from != "" {
		parsed, err := time.ParseInLocation(models.DateLayout, from, loc)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid from date", from)
			return
		}
		rangeStart = parsed
		rangeEnd = rangeStart.AddDate(0, 0, config.AppConfig.BookingWindowDays)
	}
	if until := c.Query("until"); until != "" {
		parsed, err := time.ParseInLocation(models.DateLayout, until, loc)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid until date", until)
			return
		}
		// The until date is inclusive for callers.
		rangeEnd = parsed.AddDate(0, 0, 1)
	}
	if !rangeStart.Before(rangeEnd) {
		utils.JSONError(c, http.StatusBadRequest, "from must precede until", "")
		return
	}

	duration := time.Duration(config.AppConfig.DefaultSlotMinutes) * time.Minute
	if raw := c.Query("duration"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "invalid duration", raw)
			return
		}
		duration = time.Duration(minutes) * time.Minute
	}

	result, err := h.Service.ListSlots(c.Request.Context(), member.ID, rangeStart, rangeEnd, duration, callerTZ)
	if err != nil {
		if booking.IsCode(err, booking.CodeInvalidInput) {
			utils.JSONError(c, http.StatusBadRequest, err.Error(), "")
			return
		}
		h.Logger.Error("failed to list slots", zap.String("memberID", member.ID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to list slots", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"member_id":       member.ID,
		"timezone":        callerTZ,
		"days":            groupSlotsByDate(result.Slots),
		"degraded":        result.Degraded,
		"degraded_reason": result.DegradedReason,
	})
}

// ReserveHandler commits a reservation for an offered slot.
//
// Responds 201 with the confirmation on success, 409 when the slot was taken
// first, and 422 when the interval no longer matches an offered slot.
func (h *BookingHandler) ReserveHandler(c *gin.Context) {
	teamID := c.Param("teamID")
	var input struct {
		MemberID       string    `json:"member_id" binding:"required"`
		Start          time.Time `json:"start" binding:"required"`
		End            time.Time `json:"end" binding:"required"`
		GuestName      string    `json:"guest_name" binding:"required"`
		GuestEmail     string    `json:"guest_email" binding:"required"`
		Notes          string    `json:"notes"`
		IdempotencyKey string    `json:"idempotency_key" binding:"required"`
		Timezone       string    `json:"tz"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if input.Timezone == "" {
		input.Timezone = "UTC"
	}

	member, err := h.memberInTeam(c, teamID, input.MemberID)
	if err != nil {
		return
	}

	confirmation, err := h.Service.BookSlot(
		c.Request.Context(),
		member.ID,
		models.Interval{Start: input.Start, End: input.End},
		models.GuestInfo{Name: input.GuestName, Email: input.GuestEmail, Notes: input.Notes},
		input.IdempotencyKey,
		input.Timezone,
	)
	if err != nil {
		switch {
		case booking.IsCode(err, booking.CodeConflict):
			utils.JSONError(c, http.StatusConflict, err.Error(), "")
		case booking.IsCode(err, booking.CodeInvalidSlot):
			utils.JSONError(c, http.StatusUnprocessableEntity, err.Error(), "")
		case booking.IsCode(err, booking.CodeInvalidInput):
			utils.JSONError(c, http.StatusBadRequest, err.Error(), "")
		default:
			h.Logger.Error("failed to book slot", zap.String("memberID", member.ID), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "failed to book slot", "")
		}
		return
	}
	c.JSON(http.StatusCreated, confirmation)
}

// CancelHandler cancels a confirmed reservation, freeing its slot.
func (h *BookingHandler) CancelHandler(c *gin.Context) {
	reservationID := c.Param("reservationID")
	if err := h.Service.CancelReservation(c.Request.Context(), reservationID); err != nil {
		if errors.Is(err, reservationRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "reservation not found", reservationID)
			return
		}
		h.Logger.Error("failed to cancel reservation", zap.String("reservationID", reservationID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to cancel reservation", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

// memberInTeam loads the member and confirms it belongs to the team in the
// URL. Writes the error response itself and returns a non-nil error when the
// caller should bail out.
func (h *BookingHandler) memberInTeam(c *gin.Context, teamID, memberID string) (*models.Member, error) {
	member, err := h.Members.GetMemberByID(c.Request.Context(), memberID)
	if err != nil {
		if errors.Is(err, memberRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "member not found", memberID)
			return nil, err
		}
		h.Logger.Error("failed to load member", zap.String("memberID", memberID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to load member", "")
		return nil, err
	}
	if member.TeamID != teamID {
		utils.JSONError(c, http.StatusNotFound, "member not found in team", memberID)
		return nil, memberRepo.ErrNotFound
	}
	return member, nil
}

func groupSlotsByDate(slots []models.Slot) []slotGroup {
	var groups []slotGroup
	for _, slot := range slots {
		if n := len(groups); n > 0 && groups[n-1].Date == slot.Date {
			groups[n-1].Slots = append(groups[n-1].Slots, slot)
			continue
		}
		groups = append(groups, slotGroup{Date: slot.Date, Slots: []models.Slot{slot}})
	}
	return groups
}
