package opinion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultAPIBase = "https://proxy.opinion.trade:8443/api/bsc/api"

	// DefaultChainID es BSC mainnet, la única chain donde opera el exchange.
	DefaultChainID int64 = 56

	// El proxy no documenta límites; 10 req/s con burst corto va bien por
	// debajo de lo que tolera en producción.
	requestsPerSec = 10

	requestTimeout = 10 * time.Second
	maxRetries     = 3
	baseRetryWait  = 500 * time.Millisecond
)

// Client es el HTTP client del proxy de opinion.trade con rate limiting
// y retries. Todos los endpoints devuelven el envelope {errno, errmsg,
// result}; errno != 0 se trata como error del API.
type Client struct {
	http    *http.Client
	base    string
	chainID int64
	limiter *rate.Limiter
}

// NewClient crea un Client con el base URL dado. Si base está vacío usa
// el proxy de producción; si chainID es 0 usa BSC.
func NewClient(base string, chainID int64) *Client {
	if base == "" {
		base = defaultAPIBase
	}
	if chainID == 0 {
		chainID = DefaultChainID
	}
	return &Client{
		http:    &http.Client{Timeout: requestTimeout},
		base:    base,
		chainID: chainID,
		limiter: rate.NewLimiter(requestsPerSec, 5),
	}
}

// ChainID devuelve la chain configurada (para requests de cancelación).
func (c *Client) ChainID() int64 { return c.chainID }

// envelope es el wrapper común de todas las respuestas del proxy.
type envelope struct {
	Errno  int             `json:"errno"`
	Errmsg string          `json:"errmsg"`
	Result json.RawMessage `json:"result"`
}

// get hace un GET con rate limiting y retries, y desempaqueta el envelope.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doWithRetry(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return c.http.Do(req)
	}, out)
}

// post hace un POST JSON con rate limiting y retries.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.doWithRetry(ctx, func() (*http.Response, error) {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		return c.http.Do(req)
	}, out)
}

// doWithRetry ejecuta la request con backoff exponencial. Respuestas 429
// y 5xx se reintentan; 4xx y errno != 0 son errores del caller.
func (c *Client) doWithRetry(ctx context.Context, fn func() (*http.Response, error), out any) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		resp, err := fn()
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			slog.Warn("rate limited by API", "attempt", attempt+1)
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("server error %d after %d retries", resp.StatusCode, maxRetries)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		}

		var env envelope
		err = json.NewDecoder(resp.Body).Decode(&env)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode envelope: %w", err)
		}
		if env.Errno != 0 {
			return fmt.Errorf("api errno %d: %s", env.Errno, env.Errmsg)
		}
		if out != nil {
			if err := json.Unmarshal(env.Result, out); err != nil {
				return fmt.Errorf("decode result: %w", err)
			}
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

// sleep espera con backoff exponencial, respetando el contexto.
func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
