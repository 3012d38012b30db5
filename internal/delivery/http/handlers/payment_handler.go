package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/workhive/payment-integrity-service/internal/delivery/http/dto/payment/request"
	"github.com/workhive/payment-integrity-service/internal/delivery/http/dto/payment/response"
	"github.com/workhive/payment-integrity-service/internal/domain"
	paymentdto "github.com/workhive/payment-integrity-service/internal/usecase/dto/payment"
	usecase "github.com/workhive/payment-integrity-service/internal/usecase/payment"
)

type PaymentHandler struct {
	Usecase usecase.PaymentUsecase
}

func NewPaymentHandler(uc usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{Usecase: uc}
}

func (h *PaymentHandler) Initiate(c *gin.Context) {
	var req request.InitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}

	output, err := h.Usecase.InitiatePayment(c.Request.Context(), &paymentdto.InitiatePaymentInput{
		PayerID:       req.PayerID,
		EntitlementID: req.EntitlementID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		ParentOrderID: req.ParentOrderID,
		ClientParams: paymentdto.ClientParams{
			ClientIP: c.ClientIP(),
			DeviceID: req.DeviceID,
		},
	})
	if err != nil {
		h.writeInitiateError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.InitiateResponse{
		OrderID:     output.OrderID,
		RedirectURL: output.RedirectURL,
		ExpiresAt:   output.ExpiresAt,
	})
}

func (h *PaymentHandler) GetAttempt(c *gin.Context) {
	attempt, err := h.Usecase.GetAttemptByOrderID(c.Request.Context(), c.Param("orderID"))
	if err != nil {
		if errors.Is(err, domain.ErrAttemptNotFound) {
			c.JSON(http.StatusNotFound, response.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.AttemptResponse{
		OrderID:          attempt.OrderID,
		PayerID:          attempt.PayerID,
		EntitlementID:    attempt.EntitlementID,
		Amount:           attempt.Amount,
		Currency:         attempt.Currency,
		Status:           string(attempt.Status),
		ParentOrderID:    attempt.ParentOrderID,
		GatewayTxnID:     attempt.GatewayTxnID,
		FlaggedForReview: attempt.FlaggedForReview,
		ExpiresAt:        attempt.ExpiresAt,
		CreatedAt:        attempt.CreatedAt,
		CompletedAt:      attempt.CompletedAt,
	})
}

func (h *PaymentHandler) writeInitiateError(c *gin.Context, err error) {
	var duplicate *domain.DuplicateAttemptError
	if errors.As(err, &duplicate) {
		c.JSON(http.StatusConflict, response.ErrorResponse{
			Error:           "payment attempt already exists",
			ExistingOrderID: duplicate.OrderID,
		})
		return
	}

	var mismatch *domain.AmountMismatchError
	if errors.As(err, &mismatch) {
		c.JSON(http.StatusUnprocessableEntity, response.ErrorResponse{
			Error:          "amount does not match the plan price",
			ExpectedAmount: mismatch.Expected,
			ReceivedAmount: mismatch.Received,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrLockBusy):
		c.JSON(http.StatusConflict, response.ErrorResponse{Error: "another payment for this entitlement is in progress"})
	case errors.Is(err, domain.ErrParentNotTerminal):
		c.JSON(http.StatusConflict, response.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrEntitlementNotFound),
		errors.Is(err, domain.ErrPlanNotFound),
		errors.Is(err, domain.ErrAttemptNotFound):
		c.JSON(http.StatusNotFound, response.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, response.ErrorResponse{Error: "storage temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()})
	}
}
