package handlers

import (
	"net/http"

	"artwala_backend/internal/services"
	"artwala_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ContractHandler struct {
	*BaseHandler
	contractService services.ContractService
}

func NewContractHandler(base *BaseHandler, contractService services.ContractService) *ContractHandler {
	return &ContractHandler{
		BaseHandler:     base,
		contractService: contractService,
	}
}

func (h *ContractHandler) RegisterRoutes(r *gin.RouterGroup) {
	contract := r.Group("/commissions/:id/contract")
	contract.Use(h.RequireAuth())
	{
		contract.POST("", h.CreateContract)
		contract.GET("", h.GetContract)
		contract.POST("/sign", h.SignContract)
	}
}

func (h *ContractHandler) CreateContract(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	commissionID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateContractRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	contract, err := h.contractService.CreateContract(c.Request.Context(), h.GetDB(c), actor, commissionID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contract)
}

func (h *ContractHandler) GetContract(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	commissionID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	contract, err := h.contractService.GetContract(c.Request.Context(), h.GetDB(c), actor, commissionID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, contract)
}

// SignContract подписывает договор от имени стороны, которой является пользователь
func (h *ContractHandler) SignContract(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	commissionID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	contract, err := h.contractService.SignContract(c.Request.Context(), h.GetDB(c), actor, commissionID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, contract)
}
