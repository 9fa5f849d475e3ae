package ecommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// maxProxyResponseSize limits the response body size to prevent memory exhaustion
	maxProxyResponseSize = 10 * 1024 * 1024
	// maxProxyMessageLen bounds error text copied from the proxy
	maxProxyMessageLen = 512
)

// ProxyConfig configures the catalog proxy client
type ProxyConfig struct {
	URL               string
	Timeout           time.Duration
	RequestsPerSecond float64 // <= 0 disables pacing
	Burst             int
}

// Validate checks that the proxy URL is absolute
func (c ProxyConfig) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("ecommerce: proxy url %q must be absolute", c.URL)
	}
	return nil
}

// ProxyClient fetches remote catalog pages through an HTTP JSON proxy
type ProxyClient struct {
	config     ProxyConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// ProxyClientOption configures a ProxyClient
type ProxyClientOption func(*ProxyClient)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(c *http.Client) ProxyClientOption {
	return func(p *ProxyClient) {
		if c != nil {
			p.httpClient = c
		}
	}
}

// WithProxyLogger sets the logger
func WithProxyLogger(logger *zap.Logger) ProxyClientOption {
	return func(p *ProxyClient) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProxyClient creates a new proxy client
func NewProxyClient(cfg ProxyConfig, opts ...ProxyClientOption) (*ProxyClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	limit := rate.Inf
	burst := cfg.Burst
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
	}

	p := &ProxyClient{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, burst),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Fetch requests one page of products. Every failure is reported through
// FetchResult.Message.
func (p *ProxyClient) Fetch(ctx context.Context, req integration.FetchRequest) integration.FetchResult {
	ctx, span := telemetry.StartClientSpan(ctx, "remote.fetch",
		telemetry.AttrEndpoint.String(req.Credentials.Endpoint),
		telemetry.AttrPageSize.Int(req.Limit),
	)
	defer span.End()

	if err := req.Credentials.Validate(); err != nil {
		telemetry.RecordError(span, err)
		return integration.FetchFailed(err.Error())
	}

	records, err := p.fetch(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		p.logger.Warn("Remote catalog fetch failed",
			zap.String("endpoint", req.Credentials.Endpoint),
			zap.Int("limit", req.Limit),
			zap.Int("page", req.Page),
			zap.Error(err),
		)
		return integration.FetchFailed(err.Error())
	}

	telemetry.AddEvent(span, "fetch_completed", telemetry.AttrRecords.Int(len(records)))
	p.logger.Debug("Remote catalog page fetched",
		zap.String("endpoint", req.Credentials.Endpoint),
		zap.Int("records", len(records)),
	)
	return integration.FetchResult{Success: true, Records: records}
}

func (p *ProxyClient) fetch(ctx context.Context, req integration.FetchRequest) ([]integration.RemoteProductRecord, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrSourceRequestFailed, err)
	}

	body, err := json.Marshal(proxyRequest{
		Action:      proxyAction,
		Credentials: toProxyCredentials(req.Credentials),
		Limit:       req.Limit,
		Page:        req.Page,
	})
	if err != nil {
		return nil, fmt.Errorf("ecommerce: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ecommerce: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrSourceRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxProxyResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", integration.ErrSourceBadResponse, err)
	}

	var parsed proxyResponse
	parseErr := json.Unmarshal(raw, &parsed)

	if resp.StatusCode >= 400 {
		msg := parsed.Message
		if parseErr != nil || msg == "" {
			msg = string(raw)
		}
		return nil, fmt.Errorf("%w: HTTP %d: %s", integration.ErrSourceRequestFailed, resp.StatusCode, truncateMessage(msg, maxProxyMessageLen))
	}
	if parseErr != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(parseErr, &syntaxErr) && int64(len(raw)) >= maxProxyResponseSize {
			return nil, fmt.Errorf("%w: response exceeds %d bytes", integration.ErrSourceBadResponse, maxProxyResponseSize)
		}
		return nil, fmt.Errorf("%w: %v", integration.ErrSourceBadResponse, parseErr)
	}
	if !parsed.Success {
		msg := parsed.Message
		if msg == "" {
			msg = "proxy reported failure"
		}
		return nil, fmt.Errorf("%w: %s", integration.ErrSourceRequestFailed, truncateMessage(msg, maxProxyMessageLen))
	}

	records := make([]integration.RemoteProductRecord, 0, len(parsed.Products))
	for _, product := range parsed.Products {
		records = append(records, product.toRecord())
	}
	return records, nil
}

var _ integration.CatalogSource = (*ProxyClient)(nil)
