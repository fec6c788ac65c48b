package handlers

import (
	"errors"
	"net/http"
	"time"

	availabilityRepo "slotbook/database/repository/availability"
	"slotbook/models"
	"slotbook/services/availability"
	"slotbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AvailabilityHandler serves rule and override administration for members.
type AvailabilityHandler struct {
	Availability availability.AvailabilityService
	Logger       *zap.Logger
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(svc availability.AvailabilityService, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Availability: svc, Logger: logger}
}

// AddRuleHandler defines a recurring weekly availability rule for a member.
func (h *AvailabilityHandler) AddRuleHandler(c *gin.Context) {
	memberID := c.Param("memberID")
	var input struct {
		DayOfWeek      int    `json:"day_of_week"`
		StartMinute    int    `json:"start_minute"`
		EndMinute      int    `json:"end_minute"`
		Timezone       string `json:"timezone" binding:"required"`
		EffectiveFrom  string `json:"effective_from"`
		EffectiveUntil string `json:"effective_until"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	rule := &models.AvailabilityRule{
		MemberID:       memberID,
		DayOfWeek:      time.Weekday(input.DayOfWeek),
		StartMinute:    input.StartMinute,
		EndMinute:      input.EndMinute,
		Timezone:       input.Timezone,
		EffectiveFrom:  input.EffectiveFrom,
		EffectiveUntil: input.EffectiveUntil,
	}
	if err := h.Availability.DefineRule(c.Request.Context(), rule); err != nil {
		if errors.Is(err, availability.ErrInvalidRule) {
			utils.JSONError(c, http.StatusBadRequest, "invalid rule", err.Error())
			return
		}
		h.Logger.Error("failed to define rule", zap.String("memberID", memberID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to define rule", "")
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// ListRulesHandler lists a member's availability rules.
func (h *AvailabilityHandler) ListRulesHandler(c *gin.Context) {
	memberID := c.Param("memberID")
	rules, err := h.Availability.ListRules(c.Request.Context(), memberID)
	if err != nil {
		h.Logger.Error("failed to list rules", zap.String("memberID", memberID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to list rules", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

// DeleteRuleHandler removes an availability rule.
func (h *AvailabilityHandler) DeleteRuleHandler(c *gin.Context) {
	memberID := c.Param("memberID")
	ruleID := c.Param("ruleID")
	if err := h.Availability.RemoveRule(c.Request.Context(), memberID, ruleID); err != nil {
		if errors.Is(err, availabilityRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "rule not found", ruleID)
			return
		}
		h.Logger.Error("failed to delete rule", zap.String("ruleID", ruleID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete rule", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// AddOverrideHandler defines a date-specific add or remove override.
func (h *AvailabilityHandler) AddOverrideHandler(c *gin.Context) {
	memberID := c.Param("memberID")
	var input struct {
		Date     string          `json:"date" binding:"required"`
		Kind     string          `json:"kind" binding:"required"`
		Interval models.Interval `json:"interval" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	override := &models.AvailabilityOverride{
		MemberID: memberID,
		Date:     input.Date,
		Kind:     models.OverrideKind(input.Kind),
		Interval: input.Interval,
	}
	if err := h.Availability.DefineOverride(c.Request.Context(), override); err != nil {
		if errors.Is(err, availability.ErrInvalidRule) {
			utils.JSONError(c, http.StatusBadRequest, "invalid override", err.Error())
			return
		}
		h.Logger.Error("failed to define override", zap.String("memberID", memberID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to define override", "")
		return
	}
	c.JSON(http.StatusCreated, override)
}

// DeleteOverrideHandler removes an override.
func (h *AvailabilityHandler) DeleteOverrideHandler(c *gin.Context) {
	memberID := c.Param("memberID")
	overrideID := c.Param("overrideID")
	if err := h.Availability.RemoveOverride(c.Request.Context(), memberID, overrideID); err != nil {
		if errors.Is(err, availabilityRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "override not found", overrideID)
			return
		}
		h.Logger.Error("failed to delete override", zap.String("overrideID", overrideID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete override", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
