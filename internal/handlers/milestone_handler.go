package handlers

import (
	"net/http"

	"artwala_backend/internal/services"
	"artwala_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type MilestoneHandler struct {
	*BaseHandler
	milestoneService services.MilestoneService
}

func NewMilestoneHandler(base *BaseHandler, milestoneService services.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{
		BaseHandler:      base,
		milestoneService: milestoneService,
	}
}

func (h *MilestoneHandler) RegisterRoutes(r *gin.RouterGroup) {
	plan := r.Group("/commissions/:id/milestones")
	plan.Use(h.RequireAuth())
	{
		plan.POST("", h.CreateMilestone)
		plan.GET("", h.ListMilestones)
	}

	milestones := r.Group("/milestones")
	milestones.Use(h.RequireAuth())
	{
		milestones.GET("/:milestoneId", h.GetMilestone)
		milestones.POST("/:milestoneId/advance", h.AdvanceMilestone)
	}
}

func (h *MilestoneHandler) CreateMilestone(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	commissionID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateMilestoneRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	milestone, err := h.milestoneService.CreateMilestone(c.Request.Context(), h.GetDB(c), actor, commissionID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, milestone)
}

func (h *MilestoneHandler) ListMilestones(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	commissionID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	milestones, err := h.milestoneService.ListMilestones(c.Request.Context(), h.GetDB(c), actor, commissionID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"milestones": milestones,
		"total":      len(milestones),
	})
}

func (h *MilestoneHandler) GetMilestone(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	milestoneID, ok := ParamUUID(c, "milestoneId")
	if !ok {
		return
	}

	milestone, err := h.milestoneService.GetMilestone(c.Request.Context(), h.GetDB(c), actor, milestoneID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, milestone)
}

func (h *MilestoneHandler) AdvanceMilestone(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	milestoneID, ok := ParamUUID(c, "milestoneId")
	if !ok {
		return
	}

	var req dto.AdvanceMilestoneRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	milestone, err := h.milestoneService.AdvanceMilestone(c.Request.Context(), h.GetDB(c), actor, milestoneID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, milestone)
}
