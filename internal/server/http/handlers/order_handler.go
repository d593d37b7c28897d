package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playvault/storefront/internal/server/http/dto"
	"github.com/playvault/storefront/internal/usecase"
)

// OrderHandler serves the customer-facing order surface.
type OrderHandler struct {
	facade CustomerFacade
}

// NewOrderHandler creates OrderHandler instance.
func NewOrderHandler(facade CustomerFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Checkout handles POST /api/orders.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "malformed request body")
		return
	}

	userID := CurrentUserID(c)
	in := usecase.CheckoutInput{FullName: req.FullName, Email: req.Email}
	if userID != 0 {
		in.UserID = &userID
	}

	order, err := h.facade.Checkout(c.Request.Context(), in)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponses(orders))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), c.Param("id"), CurrentUserID(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// SubmitProof handles POST /api/orders/:id/proofs.
func (h *OrderHandler) SubmitProof(c *gin.Context) {
	var req dto.ProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "malformed request body")
		return
	}

	orderID := c.Param("id")
	if _, err := h.facade.Order(c.Request.Context(), orderID, CurrentUserID(c)); err != nil {
		respondDomainError(c, err)
		return
	}

	proof, err := h.facade.SubmitProof(c.Request.Context(), orderID, req.ImageURL)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProofResponse(proof))
}

// PostMessage handles POST /api/orders/:id/messages.
func (h *OrderHandler) PostMessage(c *gin.Context) {
	var req dto.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "malformed request body")
		return
	}

	orderID := c.Param("id")
	userID := CurrentUserID(c)
	if _, err := h.facade.Order(c.Request.Context(), orderID, userID); err != nil {
		respondDomainError(c, err)
		return
	}

	msg, err := h.facade.PostMessage(c.Request.Context(), orderID, &userID, req.Content, false)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMessageResponse(msg))
}

// Messages handles GET /api/orders/:id/messages.
func (h *OrderHandler) Messages(c *gin.Context) {
	orderID := c.Param("id")
	if _, err := h.facade.Order(c.Request.Context(), orderID, CurrentUserID(c)); err != nil {
		respondDomainError(c, err)
		return
	}

	messages, err := h.facade.Messages(c.Request.Context(), orderID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	// The customer is reading the thread; admin messages are now seen.
	if err := h.facade.MarkMessagesRead(c.Request.Context(), orderID, true); err != nil {
		respondDomainError(c, err)
		return
	}

	result := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		result = append(result, dto.NewMessageResponse(&messages[i]))
	}
	c.JSON(http.StatusOK, result)
}
