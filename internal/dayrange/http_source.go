package dayrange

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HTTPSource talks to the candidates-by-range and candidates-by-date
// endpoints of a running intake API.
type HTTPSource struct {
	baseURL string
	token   string
	timeout time.Duration
}

func NewHTTPSource(baseURL, token string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		timeout: timeout,
	}
}

func (s *HTTPSource) CandidatesByRange(ctx context.Context, from, to string) ([]byte, error) {
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)
	return s.get(ctx, "/api/v1/candidates-by-range", q)
}

func (s *HTTPSource) CandidatesByDate(ctx context.Context, date string) ([]byte, error) {
	q := url.Values{}
	q.Set("date", date)
	return s.get(ctx, "/api/v1/candidates-by-date", q)
}

func (s *HTTPSource) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	agent := fiber.Get(s.baseURL + path)
	agent.QueryString(q.Encode())
	agent.Timeout(s.timeout)
	if s.token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+s.token)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("request %s failed: %w", path, errors.Join(errs...))
	}
	if code < 200 || code >= 300 {
		return nil, &StatusError{Path: path, Code: code, Body: truncate(string(body), 200)}
	}
	return body, nil
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Path, e.Code, e.Body)
}

// Unauthorized reports a 401 or 403.
func (e *StatusError) Unauthorized() bool {
	return e.Code == fiber.StatusUnauthorized || e.Code == fiber.StatusForbidden
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
