package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// El exchange no documenta límites; 10 req/s es holgado para dos timers.
	listRatePerSec = 10
	listBurst      = 5

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Client es el HTTP client del exchange con rate limiting y retries.
type Client struct {
	http     *http.Client
	exBase   string
	nodeBase string
	limiter  *rate.Limiter
	retry    time.Duration
}

// Option ajusta el Client.
type Option func(*Client)

// WithHTTPClient sustituye el http.Client (timeouts, transport de tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetryWait cambia la espera base del backoff.
func WithRetryWait(d time.Duration) Option {
	return func(c *Client) { c.retry = d }
}

// NewClient crea un Client contra el RPC del exchange (exBase) y el nodo
// (nodeBase, "host:port").
func NewClient(exBase, nodeBase string, opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: 10 * time.Second},
		exBase:   strings.TrimRight(exBase, "/"),
		nodeBase: strings.TrimRight(nodeBase, "/"),
		limiter:  rate.NewLimiter(listRatePerSec, listBurst),
		retry:    baseRetryWait,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NodeURL devuelve el endpoint del nodo de la cadena.
func (c *Client) NodeURL() string {
	return c.nodeBase
}

// get hace un GET con rate limiting y retries.
func (c *Client) get(ctx context.Context, url string, out any) error {
	return c.doWithRetry(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return c.http.Do(req)
	}, out)
}

// doWithRetry ejecuta la función con backoff exponencial.
// 5xx, 429 y errores de red se reintentan; 4xx no.
func (c *Client) doWithRetry(ctx context.Context, fn func() (*http.Response, error), out any) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		resp, err := fn()
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return fmt.Errorf("request: %w", err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("server status %d", resp.StatusCode)
			slog.Warn("exchange request failed, retrying", "status", resp.StatusCode, "attempt", attempt+1)
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}

		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries: %w", maxRetries, lastErr)
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * c.retry
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
