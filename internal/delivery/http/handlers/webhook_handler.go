package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/workhive/payment-integrity-service/internal/delivery/http/dto/payment/response"
	"github.com/workhive/payment-integrity-service/internal/domain"
	usecase "github.com/workhive/payment-integrity-service/internal/usecase/payment"
)

type WebhookHandler struct {
	Usecase usecase.PaymentUsecase
}

func NewWebhookHandler(uc usecase.PaymentUsecase) *WebhookHandler {
	return &WebhookHandler{Usecase: uc}
}

// Handle receives gateway callbacks. The raw body goes to the usecase
// untouched; the verifier parses it and checks the checksum over the
// callback's canonical fields.
func (h *WebhookHandler) Handle(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "unreadable body"})
		return
	}

	if err := h.Usecase.HandleGatewayCallback(c.Request.Context(), c.ClientIP(), payload); err != nil {
		h.writeWebhookError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *WebhookHandler) writeWebhookError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorizedOrigin):
		c.JSON(http.StatusForbidden, response.ErrorResponse{Error: "origin not allowed"})
	case errors.Is(err, domain.ErrBadSignature),
		errors.Is(err, domain.ErrMalformedCallback),
		errors.Is(err, domain.ErrStale):
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrReplay):
		c.JSON(http.StatusConflict, response.ErrorResponse{Error: "event already processed"})
	case errors.Is(err, domain.ErrActivationConflict):
		c.JSON(http.StatusConflict, response.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, response.ErrorResponse{Error: "storage temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
	}
}
