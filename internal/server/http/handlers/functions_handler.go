package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/playvault/storefront/internal/domain/errors"
	"github.com/playvault/storefront/internal/server/http/dto"
)

// FunctionsHandler exposes the POST JSON function endpoints that mirror the
// storefront's former serverless functions.
type FunctionsHandler struct {
	facade FunctionsFacade
}

// NewFunctionsHandler creates FunctionsHandler instance.
func NewFunctionsHandler(facade FunctionsFacade) *FunctionsHandler {
	return &FunctionsHandler{facade: facade}
}

// AdminCheck handles POST /api/functions/admin-check.
func (h *FunctionsHandler) AdminCheck(c *gin.Context) {
	var req dto.AdminCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == 0 {
		respondError(c, http.StatusBadRequest, "userId is required")
		return
	}

	isAdmin, err := h.facade.IsAdmin(c.Request.Context(), req.UserID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, dto.AdminCheckResponse{IsAdmin: isAdmin})
}

// DeliverAccount handles POST /api/functions/deliver-account.
func (h *FunctionsHandler) DeliverAccount(c *gin.Context) {
	var req dto.DeliverAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" {
		respondError(c, http.StatusBadRequest, "orderId is required")
		return
	}

	result, err := h.facade.DeliverAccount(c.Request.Context(), req.OrderID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeliverAccountResponse{
		Success:   true,
		AccountID: result.AccountID,
		Password:  result.Password,
		Method:    string(result.Method),
		Persisted: result.Persisted,
	})
}

// UserManager handles POST /api/functions/discord-user-manager.
func (h *FunctionsHandler) UserManager(c *gin.Context) {
	var req dto.UserManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DiscordID == "" {
		respondError(c, http.StatusBadRequest, "discordId is required")
		return
	}

	var err error
	switch req.Action {
	case "add_to_guild":
		err = h.facade.InviteToGuild(c.Request.Context(), req.DiscordID)
	case "send_dm":
		if req.Message == "" {
			respondError(c, http.StatusBadRequest, "message is required for send_dm")
			return
		}
		err = h.facade.SendDM(c.Request.Context(), req.DiscordID, req.Message)
	default:
		respondError(c, http.StatusBadRequest, "unknown action")
		return
	}
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotConfigured) {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// CreateChannel handles POST /api/functions/discord-create-channel.
func (h *FunctionsHandler) CreateChannel(c *gin.Context) {
	var req dto.CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" {
		respondError(c, http.StatusBadRequest, "orderId is required")
		return
	}

	binding, err := h.facade.BindOrderThread(c.Request.Context(), req.OrderID, req.CustomerName, req.PaymentProofURL)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotConfigured) {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CreateChannelResponse{
		ThreadID:   binding.ThreadID,
		ChannelID:  binding.ThreadID,
		WebhookURL: binding.WebhookURL,
	})
}

// Webhook handles POST /api/functions/discord-webhook.
func (h *FunctionsHandler) Webhook(c *gin.Context) {
	var req dto.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.WebhookURL == "" || req.Message == "" {
		respondError(c, http.StatusBadRequest, "webhookUrl and message are required")
		return
	}

	if err := h.facade.RelayWebhook(c.Request.Context(), req.WebhookURL, req.Message); err != nil {
		respondError(c, http.StatusInternalServerError, "webhook relay failed")
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// FixOrdersSchema handles POST /api/functions/fix-orders-schema.
func (h *FunctionsHandler) FixOrdersSchema(c *gin.Context) {
	if err := h.facade.FixOrdersSchema(c.Request.Context()); err != nil {
		respondError(c, http.StatusInternalServerError, "schema migration failed")
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
