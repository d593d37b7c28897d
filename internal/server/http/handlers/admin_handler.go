package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/playvault/storefront/internal/domain/model"
	"github.com/playvault/storefront/internal/server/http/dto"
)

// AdminHandler serves the moderation console.
type AdminHandler struct {
	facade StorefrontFacade
}

// NewAdminHandler creates AdminHandler instance.
func NewAdminHandler(facade StorefrontFacade) *AdminHandler {
	return &AdminHandler{facade: facade}
}

// Orders handles GET /api/admin/orders?status=pending.
func (h *AdminHandler) Orders(c *gin.Context) {
	status := model.OrderStatus(c.DefaultQuery("status", string(model.OrderStatusPending)))
	switch status {
	case model.OrderStatusPending, model.OrderStatusActive, model.OrderStatusRejected, model.OrderStatusDelivered:
	default:
		respondError(c, http.StatusBadRequest, "unknown status")
		return
	}

	orders, err := h.facade.OrdersByStatus(c.Request.Context(), status)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponses(orders))
}

// Approve handles POST /api/admin/orders/:id/approve.
func (h *AdminHandler) Approve(c *gin.Context) {
	if !confirmed(c) {
		respondError(c, http.StatusBadRequest, "verdict requires confirmation")
		return
	}
	order, err := h.facade.ApproveOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// Reject handles POST /api/admin/orders/:id/reject.
func (h *AdminHandler) Reject(c *gin.Context) {
	if !confirmed(c) {
		respondError(c, http.StatusBadRequest, "verdict requires confirmation")
		return
	}
	order, err := h.facade.RejectOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// Verdicts are destructive from the customer's point of view, so the request
// must carry an explicit confirmation.
func confirmed(c *gin.Context) bool {
	var req dto.ModerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return false
	}
	return req.Confirmed
}

// RecoverCredentials handles GET /api/admin/orders/:id/credentials, serving
// vault-parked credentials from degraded deliveries.
func (h *AdminHandler) RecoverCredentials(c *gin.Context) {
	creds, ok := h.facade.RecoverCredentials(c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "no recovered credentials for order")
		return
	}
	c.JSON(http.StatusOK, dto.CredentialsResponse{AccountID: creds.AccountID, Password: creds.Password})
}

// ReviewProof handles POST /api/admin/proofs/:id/review.
func (h *AdminHandler) ReviewProof(c *gin.Context) {
	proofID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "malformed proof id")
		return
	}
	var req dto.ProofReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "malformed request body")
		return
	}

	proof, err := h.facade.ReviewProof(c.Request.Context(), proofID, req.Approved)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProofResponse(proof))
}

// PostMessage handles POST /api/admin/orders/:id/messages.
func (h *AdminHandler) PostMessage(c *gin.Context) {
	var req dto.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "malformed request body")
		return
	}

	userID := CurrentUserID(c)
	msg, err := h.facade.PostMessage(c.Request.Context(), c.Param("id"), &userID, req.Content, true)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMessageResponse(msg))
}

// Grants handles GET /api/admin/grants.
func (h *AdminHandler) Grants(c *gin.Context) {
	grants, err := h.facade.Admins(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	result := make([]dto.GrantResponse, 0, len(grants))
	for i := range grants {
		result = append(result, dto.NewGrantResponse(&grants[i]))
	}
	c.JSON(http.StatusOK, result)
}

// Grant handles POST /api/admin/grants.
func (h *AdminHandler) Grant(c *gin.Context) {
	var req dto.GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == 0 {
		respondError(c, http.StatusBadRequest, "userId is required")
		return
	}

	grant, err := h.facade.GrantAdmin(c.Request.Context(), req.UserID, CurrentUserID(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewGrantResponse(grant))
}

// Revoke handles POST /api/admin/grants/revoke.
func (h *AdminHandler) Revoke(c *gin.Context) {
	var req dto.GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == 0 {
		respondError(c, http.StatusBadRequest, "userId is required")
		return
	}

	if err := h.facade.RevokeAdmin(c.Request.Context(), req.UserID, CurrentUserID(c)); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
