package handlers

import (
	"errors"
	"net/http"
	"time"

	memberRepo "slotbook/database/repository/member"
	"slotbook/models"
	"slotbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TeamHandler serves team and member administration endpoints.
type TeamHandler struct {
	Members memberRepo.MemberRepository
	Logger  *zap.Logger
}

// NewTeamHandler constructs a TeamHandler.
func NewTeamHandler(members memberRepo.MemberRepository, logger *zap.Logger) *TeamHandler {
	return &TeamHandler{Members: members, Logger: logger}
}

// CreateTeamHandler creates a new team.
func (h *TeamHandler) CreateTeamHandler(c *gin.Context) {
	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	team := &models.Team{
		ID:        uuid.New().String(),
		Name:      input.Name,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Members.CreateTeam(c.Request.Context(), team); err != nil {
		h.Logger.Error("failed to create team", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to create team", "")
		return
	}
	c.JSON(http.StatusCreated, team)
}

// ListMembersHandler returns the members of a team.
func (h *TeamHandler) ListMembersHandler(c *gin.Context) {
	teamID := c.Param("teamID")
	members, err := h.Members.ListMembersByTeam(c.Request.Context(), teamID)
	if err != nil {
		h.Logger.Error("failed to list members", zap.String("teamID", teamID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to list members", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

// AddMemberHandler adds a bookable member to a team.
func (h *TeamHandler) AddMemberHandler(c *gin.Context) {
	teamID := c.Param("teamID")
	var input struct {
		Name         string `json:"name" binding:"required"`
		DisplayEmail string `json:"display_email"`
		Timezone     string `json:"timezone" binding:"required"`
		CalendarRef  string `json:"calendar_ref"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if _, err := time.LoadLocation(input.Timezone); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "unknown timezone", input.Timezone)
		return
	}

	if _, err := h.Members.GetTeamByID(c.Request.Context(), teamID); err != nil {
		if errors.Is(err, memberRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "team not found", teamID)
			return
		}
		h.Logger.Error("failed to load team", zap.String("teamID", teamID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to load team", "")
		return
	}

	member := &models.Member{
		ID:           uuid.New().String(),
		TeamID:       teamID,
		Name:         input.Name,
		DisplayEmail: input.DisplayEmail,
		Timezone:     input.Timezone,
		CalendarRef:  input.CalendarRef,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.Members.CreateMember(c.Request.Context(), member); err != nil {
		h.Logger.Error("failed to create member", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to create member", "")
		return
	}
	c.JSON(http.StatusCreated, member)
}

// DisableMemberHandler soft-disables a member. Members with reservations are
// never hard-deleted.
func (h *TeamHandler) DisableMemberHandler(c *gin.Context) {
	memberID := c.Param("memberID")
	if err := h.Members.SetMemberDisabled(c.Request.Context(), memberID, true); err != nil {
		if errors.Is(err, memberRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "member not found", memberID)
			return
		}
		h.Logger.Error("failed to disable member", zap.String("memberID", memberID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to disable member", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"disabled": true})
}
