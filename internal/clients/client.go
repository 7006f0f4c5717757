package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/config"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/middleware"
)

const upstreamService = "orders-api"

// restClient is the shared HTTP plumbing for one REST resource of the
// remote API (e.g. /orders).
type restClient struct {
	baseURL    string
	resource   string
	httpClient *http.Client
	apiKey     string
	logger     *logrus.Entry
	metrics    *metrics.Metrics
}

func newRESTClient(cfg config.ServiceConfig, resource string, logger *logrus.Entry, m *metrics.Metrics) restClient {
	return restClient{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		resource: resource,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiKey:  cfg.APIKey,
		logger:  logger.WithField("resource", resource),
		metrics: m,
	}
}

// do sends one request and decodes the JSON response into out when out is
// non-nil. A 404 maps to apperrors.ErrNotFound; any other non-2xx status to
// an *apperrors.UpstreamError.
func (c *restClient) do(ctx context.Context, operation, method, path string, query url.Values, body, out any) (err error) {
	started := time.Now()
	defer func() { c.metrics.ObserveUpstream(c.resource, operation, started, err) }()

	endpoint := c.baseURL + "/" + c.resource
	if path != "" {
		endpoint += "/" + url.PathEscape(path)
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	c.setHeaders(ctx, req)

	c.logger.WithFields(logrus.Fields{
		"method": method,
		"url":    endpoint,
	}).Debug("Calling orders API")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"url":    endpoint,
			"error":  err.Error(),
		}).Error("Orders API request failed")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", c.resource, path, apperrors.ErrNotFound)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.WithFields(logrus.Fields{
			"method":      method,
			"url":         endpoint,
			"status_code": resp.StatusCode,
		}).Error("Orders API returned error")
		return &apperrors.UpstreamError{Service: upstreamService, StatusCode: resp.StatusCode}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", c.resource, err)
	}
	return nil
}

func (c *restClient) setHeaders(ctx context.Context, req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	if requestID := middleware.RequestIDFrom(ctx); requestID != "" {
		req.Header.Set(middleware.HeaderRequestID, requestID)
	}
}
