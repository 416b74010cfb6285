package kalshi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// ProdBase es el API de producción (dinero real).
	ProdBase = "https://api.elections.kalshi.com/trade-api/v2"
	// DemoBase es el API de demo (paper trading).
	DemoBase = "https://demo-api.kalshi.co/trade-api/v2"

	// Rate limits por debajo de los límites del tier básico.
	readRatePerSec  = 8
	writeRatePerSec = 4

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Client es el HTTP client de Kalshi con firma de requests, rate
// limiting y retries. Implementa MarketProvider, AccountProvider y
// OrderExecutor.
type Client struct {
	http         *http.Client
	base         string
	creds        *Credentials
	readLimiter  *rate.Limiter
	writeLimiter *rate.Limiter
}

// NewClient crea un Client contra el base URL dado.
// Si base está vacío, usa el API de producción.
func NewClient(base string, creds *Credentials) *Client {
	if base == "" {
		base = ProdBase
	}
	return &Client{
		http:         &http.Client{Timeout: 10 * time.Second},
		base:         strings.TrimSuffix(base, "/"),
		creds:        creds,
		readLimiter:  rate.NewLimiter(readRatePerSec, 10),
		writeLimiter: rate.NewLimiter(writeRatePerSec, 5),
	}
}

// apiError es un error 4xx del API, preservando el status code para
// que los llamadores puedan distinguir 404/409 (cancel idempotente).
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("kalshi: api error %d: %s", e.Status, e.Body)
}

// get hace un GET firmado con rate limiting de lectura.
// path incluye el query string si corresponde.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, c.readLimiter, http.MethodGet, path, nil, out)
}

// post hace un POST JSON firmado con rate limiting de escritura.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, c.writeLimiter, http.MethodPost, path, body, out)
}

// del hace un DELETE firmado con rate limiting de escritura.
func (c *Client) del(ctx context.Context, path string, out any) error {
	return c.do(ctx, c.writeLimiter, http.MethodDelete, path, nil, out)
}

// do ejecuta el request con firma, backoff exponencial y jitter.
// Reintenta en errores de red, 429 y 5xx; los 4xx fallan inmediato
// como *apiError.
func (c *Client) do(ctx context.Context, limiter *rate.Limiter, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("kalshi: marshal body: %w", err)
		}
		payload = b
	}

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("kalshi: rate limiter: %w", err)
		}

		req, err := c.newSignedRequest(ctx, method, path, payload)
		if err != nil {
			return err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("kalshi: request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			slog.Warn("kalshi: rate limited by API", "attempt", attempt+1)
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("kalshi: server error %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 400 {
			b, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return &apiError{Status: resp.StatusCode, Body: string(b)}
		}

		defer resp.Body.Close()
		if out == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("kalshi: decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("kalshi: exhausted %d retries", maxRetries)
}

// newSignedRequest construye el request con los headers de firma.
// La firma cubre el path sin query string.
func (c *Client) newSignedRequest(ctx context.Context, method, path string, payload []byte) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("kalshi: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.creds != nil {
		ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
		signPath, _, _ := strings.Cut(path, "?")
		sig, err := c.creds.Sign(ts, method, signPath)
		if err != nil {
			return nil, err
		}
		req.Header.Set("KALSHI-ACCESS-KEY", c.creds.APIKeyID)
		req.Header.Set("KALSHI-ACCESS-SIGNATURE", sig)
		req.Header.Set("KALSHI-ACCESS-TIMESTAMP", ts)
	}
	return req, nil
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
