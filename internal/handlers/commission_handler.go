package handlers

import (
	"net/http"

	"artwala_backend/internal/middleware"
	"artwala_backend/internal/models"
	"artwala_backend/internal/services"
	"artwala_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CommissionHandler struct {
	*BaseHandler
	commissionService services.CommissionService
}

func NewCommissionHandler(base *BaseHandler, commissionService services.CommissionService) *CommissionHandler {
	return &CommissionHandler{
		BaseHandler:       base,
		commissionService: commissionService,
	}
}

func (h *CommissionHandler) RegisterRoutes(r *gin.RouterGroup) {
	commissions := r.Group("/commissions")
	commissions.Use(h.RequireAuth())
	{
		commissions.POST("", middleware.RequireRoles(models.UserRoleClient), h.CreateCommission)
		commissions.GET("", h.ListCommissions)
		commissions.GET("/:id", h.GetCommission)
		commissions.PUT("/:id", h.UpdateCommission)
		commissions.DELETE("/:id", h.DeleteCommission)
		commissions.POST("/:id/transition", h.TransitionCommission)
		commissions.GET("/:id/summary", h.GetCommissionSummary)
	}
}

// CreateCommission godoc
// @Summary Создать заявку на работу художника
// @Tags commissions
// @Accept json
// @Produce json
// @Param request body dto.CreateCommissionRequest true "Заявка"
// @Success 201 {object} models.CommissionRequest
// @Security BearerAuth
// @Router /commissions [post]
func (h *CommissionHandler) CreateCommission(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.CreateCommissionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	request, err := h.commissionService.CreateCommission(c.Request.Context(), h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *CommissionHandler) ListCommissions(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var query dto.ListCommissionsQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	query.Page, query.PageSize = ParsePagination(c)

	list, err := h.commissionService.ListCommissions(c.Request.Context(), h.GetDB(c), actor, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *CommissionHandler) GetCommission(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	commissionID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	request, err := h.commissionService.GetCommission(c.Request.Context(), h.GetDB(c), actor, commissionID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *CommissionHandler) UpdateCommission(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	commissionID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCommissionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	request, err := h.commissionService.UpdateCommission(c.Request.Context(), h.GetDB(c), actor, commissionID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *CommissionHandler) DeleteCommission(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	commissionID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.commissionService.DeleteCommission(c.Request.Context(), h.GetDB(c), actor, commissionID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Commission deleted successfully"})
}

// TransitionCommission godoc
// @Summary Сменить статус заявки
// @Tags commissions
// @Accept json
// @Produce json
// @Param id path string true "ID заявки"
// @Param request body dto.TransitionCommissionRequest true "Новый статус"
// @Success 200 {object} models.CommissionRequest
// @Failure 409 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /commissions/{id}/transition [post]
func (h *CommissionHandler) TransitionCommission(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	commissionID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.TransitionCommissionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	request, err := h.commissionService.TransitionCommission(c.Request.Context(), h.GetDB(c), actor, commissionID, models.CommissionStatus(req.Status))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *CommissionHandler) GetCommissionSummary(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	commissionID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	summary, err := h.commissionService.GetCommissionSummary(c.Request.Context(), h.GetDB(c), actor, commissionID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
