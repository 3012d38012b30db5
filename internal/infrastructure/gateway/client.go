package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

type createOrderRequest struct {
	OrderID  string  `json:"order_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	PayerRef string  `json:"payer_ref"`
	Checksum string  `json:"checksum"`
}

type createOrderResponse struct {
	RedirectURL string `json:"redirect_url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HTTPGatewayClient talks to the payment gateway's order API. Outbound
// requests carry the same HMAC checksum scheme the gateway uses on its
// callbacks.
type HTTPGatewayClient struct {
	BaseURL string
	secret  []byte
	client  *http.Client
}

func NewHTTPGatewayClient(baseURL, secret string) *HTTPGatewayClient {
	return &HTTPGatewayClient{
		BaseURL: baseURL,
		secret:  []byte(secret),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPGatewayClient) CreateOrder(ctx context.Context, orderID string, amount float64, currency, payerRef string) (string, error) {
	requestBody := createOrderRequest{
		OrderID:  orderID,
		Amount:   amount,
		Currency: currency,
		PayerRef: payerRef,
	}
	requestBody.Checksum = c.checksum(orderID, amount, currency, payerRef)

	requestBodyBytes, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/orders", c.BaseURL), bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return "", err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.client.Do(request)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return "", err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		var orderResponse createOrderResponse
		if err := json.Unmarshal(responseBodyBytes, &orderResponse); err != nil {
			return "", err
		}
		return orderResponse.RedirectURL, nil
	} else {
		var errResponse errorResponse
		if err := json.Unmarshal(responseBodyBytes, &errResponse); err != nil {
			return "", fmt.Errorf("gateway returned status %d", response.StatusCode)
		}
		return "", errors.New(errResponse.Error)
	}
}

func (c *HTTPGatewayClient) checksum(orderID string, amount float64, currency, payerRef string) string {
	mac := hmac.New(sha256.New, c.secret)
	fmt.Fprintf(mac, "%s|%.2f|%s|%s", orderID, amount, currency, payerRef)
	return hex.EncodeToString(mac.Sum(nil))
}
