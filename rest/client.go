// Package rest implements the minimal REST collaborator a Manager needs: discovering the
// gateway WebSocket URL. It intentionally does not grow into a general Discord REST client —
// that is explicitly out of scope for the protocol core this module centers on.
package rest

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	"github.com/danlionis/discord-api/manager"
)

const (
	defaultBaseURL = "https://discord.com/api/v10"
	defaultTimeout = 10 * time.Second

	// discordGlobalRateLimit is Discord's documented default global rate limit for bot
	// requests: 50 requests per second. A single gateway-bot lookup per connect/reconnect
	// never approaches it, but the gate is cheap ambient insurance against a misbehaving
	// caller hammering DiscoverGateway in a retry loop.
	discordGlobalRateLimit = 50
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// Logger is the package-wide zerolog.Logger used when no logger is supplied via ClientOption.
var Logger = zerolog.New(os.Stdout).Level(zerolog.Disabled)

// Log field keys, consistent with the manager package's flat key-per-concept convention.
const (
	LogCtxCorrelation = "xid"
	LogCtxEndpoint    = "endpoint"
	LogCtxStatus      = "status"
)

// Client is a minimal REST collaborator backed by fasthttp.
type Client struct {
	http    *fasthttp.Client
	token   string
	baseURL string
	timeout time.Duration
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// ClientOption customizes a Client constructed by NewClient.
type ClientOption func(*Client)

// WithBaseURL overrides the Discord API base URL, primarily for pointing at a test double.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.baseURL = url }
}

// WithLogger overrides the zerolog.Logger used for request/response logging.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// NewClient constructs a Client authenticated with a bot token.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		http:    &fasthttp.Client{},
		token:   token,
		baseURL: defaultBaseURL,
		timeout: defaultTimeout,
		limiter: rate.NewLimiter(rate.Limit(discordGlobalRateLimit), discordGlobalRateLimit),
		logger:  Logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type sessionStartLimit struct {
	Total          int `json:"total"`
	Remaining      int `json:"remaining"`
	ResetAfter     int `json:"reset_after"`
	MaxConcurrency int `json:"max_concurrency"`
}

type getGatewayBotResponse struct {
	URL               string            `json:"url"`
	Shards            int               `json:"shards"`
	SessionStartLimit sessionStartLimit `json:"session_start_limit"`
}

// DiscoverGateway calls GET /gateway/bot and returns the WebSocket URL a Manager should dial,
// along with the shard count and session start limit Discord recommends. It is the only REST
// endpoint Manager consumes.
func (c *Client) DiscoverGateway(ctx context.Context) (manager.GatewayInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return manager.GatewayInfo{}, fmt.Errorf("rest: rate limiter: %w", err)
	}

	correlation := xid.New()
	endpoint := c.baseURL + "/gateway/bot"

	request := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(request)
	response := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(response)

	request.Header.SetMethod(fasthttp.MethodGet)
	request.Header.Set("Authorization", "Bot "+c.token)
	request.Header.Set("Content-Type", "application/json")
	request.SetRequestURI(endpoint)

	c.logger.Debug().
		Str(LogCtxCorrelation, correlation.String()).
		Str(LogCtxEndpoint, endpoint).
		Msg("requesting gateway bot endpoint")

	if err := c.http.DoTimeout(request, response, c.timeout); err != nil {
		return manager.GatewayInfo{}, fmt.Errorf("rest: GET /gateway/bot: %w", err)
	}

	c.logger.Debug().
		Str(LogCtxCorrelation, correlation.String()).
		Int(LogCtxStatus, response.StatusCode()).
		Msg("received gateway bot response")

	if response.StatusCode() != fasthttp.StatusOK {
		return manager.GatewayInfo{}, fmt.Errorf("rest: GET /gateway/bot: unexpected status %d", response.StatusCode())
	}

	var body getGatewayBotResponse
	if err := json.Unmarshal(response.Body(), &body); err != nil {
		return manager.GatewayInfo{}, fmt.Errorf("rest: decoding /gateway/bot response: %w", err)
	}

	return manager.GatewayInfo{
		URL:    body.URL,
		Shards: body.Shards,
		SessionStartLimit: manager.SessionStartLimit{
			Total:          body.SessionStartLimit.Total,
			Remaining:      body.SessionStartLimit.Remaining,
			ResetAfter:     time.Duration(body.SessionStartLimit.ResetAfter) * time.Millisecond,
			MaxConcurrency: body.SessionStartLimit.MaxConcurrency,
		},
	}, nil
}
