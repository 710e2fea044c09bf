package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Sternrassler/vimeo-client/pkg/logging"
	"github.com/Sternrassler/vimeo-client/pkg/ratelimit"
	"github.com/Sternrassler/vimeo-client/pkg/request"
)

// Defaults for Config.
const (
	DefaultBaseURL    = "https://api.vimeo.com"
	DefaultAPIVersion = "3.4"
	DefaultUserAgent  = "vimeo-client/1.0"
	DefaultTimeout    = 30 * time.Second
)

// Config holds the HTTP transport configuration.
type Config struct {
	// BaseURL is prepended to every call path.
	BaseURL string

	// AccessToken is sent as a bearer token when set.
	AccessToken string

	// UserAgent header value.
	UserAgent string

	// APIVersion selects the API version through the Accept header.
	APIVersion string

	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration

	// RateLimit caps outgoing requests per second. Zero disables the limit.
	RateLimit float64

	// MaxRetries retries server, rate limit and network failures.
	// Zero disables retries.
	MaxRetries int

	// RetryWaitTime and RetryMaxWaitTime bound the backoff between retries.
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration

	// Tracker gates calls on the API quota. Nil disables quota tracking.
	Tracker *ratelimit.Tracker

	// Logger overrides the component logger.
	Logger *zerolog.Logger
}

// DefaultConfig returns a configuration for the public Vimeo API.
func DefaultConfig(accessToken string) Config {
	return Config{
		BaseURL:          DefaultBaseURL,
		AccessToken:      accessToken,
		UserAgent:        DefaultUserAgent,
		APIVersion:       DefaultAPIVersion,
		Timeout:          DefaultTimeout,
		RetryWaitTime:    500 * time.Millisecond,
		RetryMaxWaitTime: 10 * time.Second,
	}
}

// HTTP is a Transport backed by resty.
type HTTP struct {
	resty   *resty.Client
	limiter *rate.Limiter
	tracker *ratelimit.Tracker
	logger  zerolog.Logger
}

// NewHTTP creates an HTTP transport.
func NewHTTP(cfg Config) (*HTTP, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", cfg.BaseURL, err)
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("max_retries must be >= 0 (got %d)", cfg.MaxRetries)
	}
	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("rate_limit must be >= 0 (got %v)", cfg.RateLimit)
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	logger := logging.NewLogger("vimeo-transport")
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/vnd.vimeo.*+json;version="+cfg.APIVersion).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		SetLogger(restyLogger{logger: logger})

	if cfg.AccessToken != "" {
		client.SetAuthToken(cfg.AccessToken)
	}

	if cfg.MaxRetries > 0 {
		client.
			SetRetryCount(cfg.MaxRetries).
			SetRetryWaitTime(cfg.RetryWaitTime).
			SetRetryMaxWaitTime(cfg.RetryMaxWaitTime).
			AddRetryCondition(func(resp *resty.Response, err error) bool {
				return shouldRetry(classify(statusCode(resp), err))
			}).
			AddRetryHook(func(resp *resty.Response, err error) {
				class := classify(statusCode(resp), err)
				vimeoRetriesTotal.WithLabelValues(string(class)).Inc()
				logger.Warn().
					Int("status_code", statusCode(resp)).
					Str("error_class", string(class)).
					Msg("Retrying Vimeo request")
			})
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &HTTP{
		resty:   client,
		limiter: limiter,
		tracker: cfg.Tracker,
		logger:  logger,
	}, nil
}

// Perform implements Transport.
//
// GET and DELETE send the parameters as query string; other methods send
// them as a JSON body. A query string in the call path is merged with the
// parameters and wins on conflicting keys.
func (h *HTTP) Perform(ctx context.Context, call Call) (*Payload, error) {
	path, rawQuery, _ := strings.Cut(call.Path, "?")
	endpoint := endpointLabel(path)

	startTime := time.Now()
	defer func() {
		vimeoRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	if h.tracker != nil {
		allowed, err := h.tracker.ShouldAllowRequest(ctx)
		if err != nil {
			h.logger.Error().Err(err).Msg("Rate limit check failed")
			return nil, h.fail(&Error{
				ErrorClass: ErrorClassNetwork,
				Message:    "rate limit check",
				Err:        err,
			})
		}
		if !allowed {
			h.logger.Warn().Str("endpoint", path).Msg("Request blocked by rate limiter")
			vimeoRequestsTotal.WithLabelValues(endpoint, "rate_limited").Inc()
			return nil, h.fail(&Error{
				StatusCode: http.StatusTooManyRequests,
				ErrorClass: ErrorClassRateLimit,
				Message:    "request blocked",
				Err:        ErrRateLimited,
			})
		}
	}

	if err := h.limiter.Wait(ctx); err != nil {
		return nil, h.fail(&Error{
			ErrorClass: ErrorClassNetwork,
			Message:    "rate limiter wait",
			Err:        err,
		})
	}

	pathQuery, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, h.fail(&Error{
			ErrorClass: ErrorClassClient,
			Message:    fmt.Sprintf("invalid query in path %q", call.Path),
			Err:        err,
		})
	}

	requestID, ok := RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
	}

	req := h.resty.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", requestID)

	switch call.Method {
	case request.GET, request.DELETE:
		values := call.Parameters.Values()
		for key, vals := range pathQuery {
			values[key] = vals
		}
		req.SetQueryParamsFromValues(values)
	default:
		req.SetQueryParamsFromValues(pathQuery)
		if call.Parameters.Len() > 0 {
			req.SetHeader("Content-Type", "application/json").
				SetBody(call.Parameters.Map())
		}
	}

	h.logger.Debug().
		Str("endpoint", path).
		Str("method", string(call.Method)).
		Str("request_id", requestID).
		Msg("Executing Vimeo request")

	resp, err := req.Execute(string(call.Method), path)
	if err != nil {
		h.logger.Error().Err(err).Str("endpoint", path).Msg("HTTP request failed")
		vimeoRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, h.fail(&Error{
			StatusCode: statusCode(resp),
			ErrorClass: ErrorClassNetwork,
			Message:    "request failed",
			Err:        err,
		})
	}

	if h.tracker != nil {
		if err := h.tracker.UpdateFromHeaders(ctx, resp.Header()); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to update rate limit from headers")
		}
	}

	vimeoRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode())).Inc()

	if resp.StatusCode() >= 400 {
		class := classify(resp.StatusCode(), nil)
		h.logger.Warn().
			Str("endpoint", path).
			Int("status_code", resp.StatusCode()).
			Str("error_class", string(class)).
			Msg("Vimeo request error")

		return nil, h.fail(&Error{
			StatusCode: resp.StatusCode(),
			ErrorClass: class,
			Message:    errorMessage(resp),
		})
	}

	return &Payload{
		Body:       resp.Body(),
		Header:     resp.Header(),
		StatusCode: resp.StatusCode(),
	}, nil
}

func (h *HTTP) fail(err *Error) error {
	vimeoTransportErrorsTotal.WithLabelValues(string(err.ErrorClass)).Inc()
	return err
}

// apiError is the error body returned by the API.
type apiError struct {
	Error            string `json:"error"`
	DeveloperMessage string `json:"developer_message"`
	ErrorCode        int    `json:"error_code"`
}

// errorMessage extracts the API error message, falling back to the status.
func errorMessage(resp *resty.Response) string {
	var body apiError
	if err := sonic.Unmarshal(resp.Body(), &body); err == nil && body.Error != "" {
		if body.ErrorCode != 0 {
			return fmt.Sprintf("%s (code %d)", body.Error, body.ErrorCode)
		}
		return body.Error
	}
	return resp.Status()
}

func statusCode(resp *resty.Response) int {
	if resp == nil || resp.RawResponse == nil {
		return 0
	}
	return resp.StatusCode()
}

// endpointLabel collapses numeric path segments so metric labels stay bounded.
func endpointLabel(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		if _, err := strconv.ParseUint(segment, 10, 64); err == nil {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

// restyLogger routes resty's internal logging to zerolog.
type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error().Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn().Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), v...)
}

var (
	_ Transport    = (*HTTP)(nil)
	_ resty.Logger = restyLogger{}
)
