package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/batchstock/internal/adapter/httpapi"
	"github.com/example/batchstock/internal/core/domain"
)

// InventoryHTTPClient talks to the inventory service over its HTTP/JSON
// API. Network failures surface as domain.ErrCommunicationFailure; error
// responses are mapped back to their domain error kinds via the wire code.
type InventoryHTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewInventoryHTTPClient(baseURL string, timeout time.Duration, logger *zap.Logger) *InventoryHTTPClient {
	return &InventoryHTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// CheckAvailability fetches the product's batch list and only cares whether
// the call succeeds; the body is discarded.
func (c *InventoryHTTPClient) CheckAvailability(ctx context.Context, productID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/inventory/"+productID, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", domain.ErrCommunicationFailure, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCommunicationFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return errorFromResponse(resp)
}

// DeductInventory posts an order-reduction update: the inventory service
// picks batches by expiry and deducts quantity across them.
func (c *InventoryHTTPClient) DeductInventory(ctx context.Context, productID string, quantity int64) error {
	body, err := json.Marshal(httpapi.UpdateInventoryRequest{
		ProductID: productID,
		BatchID:   domain.OrderReductionBatchRef,
		Quantity:  quantity,
	})
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", domain.ErrCommunicationFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/inventory/update", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", domain.ErrCommunicationFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCommunicationFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusCreated {
		io.Copy(io.Discard, resp.Body)
		c.logger.Debug("inventory deducted",
			zap.String("product_id", productID), zap.Int64("quantity", quantity))
		return nil
	}
	return errorFromResponse(resp)
}

func errorFromResponse(resp *http.Response) error {
	var er httpapi.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil || er.Code == "" {
		return fmt.Errorf("%w: unexpected status %d", domain.ErrCommunicationFailure, resp.StatusCode)
	}
	return fmt.Errorf("%w: %s", httpapi.ErrorForCode(er.Code), er.Message)
}
