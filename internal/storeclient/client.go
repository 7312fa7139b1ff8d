// Package storeclient talks to a record store over HTTP.
package storeclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"asset-qr/internal/config"
	"asset-qr/internal/domain"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds store calls when no positive timeout is configured.
const DefaultTimeout = 15 * time.Second

// Client is a resty-backed record store. It satisfies service.RecordStore.
// Calls are never retried; the caller decides what to do with a failure.
type Client struct {
	httpClient *resty.Client
}

// NewClient builds a client for the store at cfg.URL (e.g. "http://localhost:8080").
func NewClient(cfg config.StoreClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.URL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	if cfg.APIKey != "" {
		restyClient.
			SetAuthToken(cfg.APIKey).
			SetHeader("apikey", cfg.APIKey)
	}

	return &Client{httpClient: restyClient}
}

type createResponse struct {
	ID string `json:"id"`
}

// apiError is the error body the store returns.
type apiError struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

func (e *apiError) message(resp *resty.Response) error {
	if e != nil && e.Error != "" {
		return errors.New(e.Error)
	}
	return fmt.Errorf("unexpected response %q", resp.Status())
}

// Create posts record to /assets and returns the assigned id.
// Anything but a 201 carrying a non-empty id is a *domain.StoreError.
func (c *Client) Create(ctx context.Context, record *domain.AssetRecord) (string, error) {
	result := new(createResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(record).
		ForceContentType("application/json").
		SetResult(result).
		SetError(apiErr).
		Post("/assets")
	if err != nil {
		return "", &domain.StoreError{Op: "create", StatusCode: statusOf(resp), Err: err}
	}

	if resp.StatusCode() != http.StatusCreated {
		return "", &domain.StoreError{Op: "create", StatusCode: resp.StatusCode(), Err: apiErr.message(resp)}
	}

	id := strings.TrimSpace(result.ID)
	if id == "" {
		return "", &domain.StoreError{Op: "create", StatusCode: resp.StatusCode(), Err: errors.New("response carried no id")}
	}

	return id, nil
}

// Get fetches /assets/{id}.
//
// An unknown id is a *domain.NotFoundError, a transport failure or an
// unreadable body a *domain.StoreError, and a record missing any field a
// *domain.ValidationError.
func (c *Client) Get(ctx context.Context, id string) (*domain.AssetRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &domain.NotFoundError{ID: id}
	}

	record := new(domain.AssetRecord)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", id).
		ForceContentType("application/json").
		SetResult(record).
		SetError(apiErr).
		Get("/assets/{id}")

	// checked before err: a 404 with a non-JSON body still means not found
	if resp != nil && resp.StatusCode() == http.StatusNotFound {
		return nil, &domain.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, &domain.StoreError{Op: "get", StatusCode: statusOf(resp), Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &domain.StoreError{Op: "get", StatusCode: resp.StatusCode(), Err: apiErr.message(resp)}
	}

	if err := record.CheckRequired(); err != nil {
		return nil, err
	}

	return record, nil
}

func statusOf(resp *resty.Response) int {
	if resp == nil || resp.RawResponse == nil {
		return 0
	}
	return resp.StatusCode()
}
