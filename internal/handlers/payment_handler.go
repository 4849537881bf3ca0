package handlers

import (
	"net/http"

	"artwala_backend/internal/services"
	"artwala_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	*BaseHandler
	paymentService services.PaymentService
}

func NewPaymentHandler(base *BaseHandler, paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    base,
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup) {
	ledger := r.Group("/commissions/:id/payments")
	ledger.Use(h.RequireAuth())
	{
		ledger.POST("", h.RecordPayment)
		ledger.GET("", h.ListPayments)
	}

	payments := r.Group("/payments")
	payments.Use(h.RequireAuth())
	{
		payments.GET("/:paymentId", h.GetPayment)
		payments.POST("/:paymentId/status", h.UpdatePaymentStatus)
	}
}

func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	commissionID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), h.GetDB(c), actor, commissionID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	commissionID, ok := ParamUUID(c, "id")
	if !ok {
		return
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), h.GetDB(c), actor, commissionID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"total":    len(payments),
	})
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	paymentID, ok := ParamUUID(c, "paymentId")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), h.GetDB(c), actor, paymentID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// UpdatePaymentStatus принимает результат платежного шлюза от участника заявки
func (h *PaymentHandler) UpdatePaymentStatus(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}
	paymentID, ok := ParamUUID(c, "paymentId")
	if !ok {
		return
	}

	var req dto.UpdatePaymentStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	payment, err := h.paymentService.UpdatePaymentStatus(c.Request.Context(), h.GetDB(c), actor, paymentID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}
