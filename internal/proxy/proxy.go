// Package proxy forwards API calls to the upstream service.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"glossa/internal/domain"

	"go.uber.org/zap"
)

// Request is one call to forward
type Request struct {
	Method        string
	Path          string
	Query         url.Values
	Body          []byte
	Authorization string
}

// Response is the upstream answer, passed through untouched
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Client forwards requests to a fixed base URL
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a proxy client for baseURL
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// Forward sends req upstream once. Any upstream status is returned as is;
// only transport failures become an UpstreamError.
func (c *Client) Forward(ctx context.Context, req Request) (*Response, error) {
	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, domain.NewValidationError("path", err.Error())
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Authorization != "" {
		httpReq.Header.Set("Authorization", req.Authorization)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Error("Upstream request failed",
			zap.String("method", method),
			zap.String("path", req.Path),
			zap.Error(err),
		)
		return nil, domain.NewUpstreamError(http.StatusInternalServerError, "upstream request failed", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewUpstreamError(http.StatusInternalServerError, "read upstream response", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn("Upstream returned an error",
			zap.String("method", method),
			zap.String("path", req.Path),
			zap.Int("status", resp.StatusCode),
		)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        payload,
	}, nil
}

// Handler serves every request under prefix by forwarding it upstream
func (c *Client) Handler(prefix string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable body")
			return
		}

		resp, err := c.Forward(r.Context(), Request{
			Method:        r.Method,
			Path:          strings.TrimPrefix(r.URL.Path, prefix),
			Query:         r.URL.Query(),
			Body:          body,
			Authorization: r.Header.Get("Authorization"),
		})
		if err != nil {
			writeError(w, domain.HTTPStatus(err), err.Error())
			return
		}

		if resp.ContentType != "" {
			w.Header().Set("Content-Type", resp.ContentType)
		}
		w.WriteHeader(resp.StatusCode)
		w.Write(resp.Body)
	})
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
