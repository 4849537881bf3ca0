package handlers

import (
	"net/http"

	"artwala_backend/internal/services"
	"artwala_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProposalHandler struct {
	*BaseHandler
	proposalService services.ProposalService
}

func NewProposalHandler(base *BaseHandler, proposalService services.ProposalService) *ProposalHandler {
	return &ProposalHandler{
		BaseHandler:     base,
		proposalService: proposalService,
	}
}

func (h *ProposalHandler) RegisterRoutes(r *gin.RouterGroup) {
	proposal := r.Group("/commissions/:id/proposal")
	proposal.Use(h.RequireAuth())
	{
		proposal.POST("", h.SubmitProposal)
		proposal.GET("", h.GetProposal)
		proposal.PUT("", h.ReplaceProposal)
	}
}

func (h *ProposalHandler) SubmitProposal(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	commissionID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.SubmitProposalRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	proposal, err := h.proposalService.SubmitProposal(c.Request.Context(), h.GetDB(c), actor, commissionID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, proposal)
}

func (h *ProposalHandler) GetProposal(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	commissionID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	proposal, err := h.proposalService.GetProposal(c.Request.Context(), h.GetDB(c), actor, commissionID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}

func (h *ProposalHandler) ReplaceProposal(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	commissionID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.SubmitProposalRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	proposal, err := h.proposalService.ReplaceProposal(c.Request.Context(), h.GetDB(c), actor, commissionID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}
