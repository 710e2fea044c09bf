package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/vimeo-client/pkg/client"
	"github.com/Sternrassler/vimeo-client/pkg/metrics"
	"github.com/Sternrassler/vimeo-client/pkg/models"
	"github.com/Sternrassler/vimeo-client/pkg/request"
)

const requestTimeout = 30 * time.Second

// envelope is the JSON body of a successful proxy response.
type envelope struct {
	Source   client.Source `json:"source"`
	Data     any           `json:"data"`
	NextPage string        `json:"next_page,omitempty"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newServer(c *client.Client, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.Handle("GET /metrics", metrics.Handler(nil))
	mux.HandleFunc("GET /me", meHandler(c, logger))
	mux.HandleFunc("GET /me/following", followingHandler(c, logger))
	mux.HandleFunc("GET /videos", videosHandler(c, logger))
	mux.HandleFunc("GET /configs", configsHandler(c, logger))
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

func meHandler(c *client.Client, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serve(w, r, c, logger, models.MeRequest())
	}
}

func followingHandler(c *client.Client, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := pageOf(models.MeFollowingRequest(), r)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		serve(w, r, c, logger, req)
	}
}

// videosHandler serves /videos?source=me|staffpicks. A page_url taken from
// a previous next_page continues the list.
func videosHandler(c *client.Client, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req request.Request[[]models.Video]
		switch source := r.URL.Query().Get("source"); source {
		case "me":
			req = models.MyVideosRequest()
		case "", "staffpicks":
			req = models.StaffPicksRequest()
		default:
			writeError(w, logger, http.StatusBadRequest, "bad_request",
				fmt.Sprintf("unknown source %q, expected me or staffpicks", source))
			return
		}

		req, err := pageOf(req, r)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		serve(w, r, c, logger, req)
	}
}

func configsHandler(c *client.Client, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fromCache := false
		if v := r.URL.Query().Get("from_cache"); v != "" {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				writeError(w, logger, http.StatusBadRequest, "bad_request", "from_cache must be a boolean")
				return
			}
			fromCache = parsed
		}
		serve(w, r, c, logger, models.ConfigsRequest(fromCache))
	}
}

// pageOf applies the page_url and per_page query parameters to req.
func pageOf[T any](req request.Request[T], r *http.Request) (request.Request[T], error) {
	query := r.URL.Query()

	if pageURL := query.Get("page_url"); pageURL != "" {
		if !strings.HasPrefix(pageURL, req.Path()) {
			return req, fmt.Errorf("page_url must continue %s", req.Path())
		}
		req = req.WithPath(pageURL)
	}

	if perPage := query.Get("per_page"); perPage != "" {
		n, err := strconv.Atoi(perPage)
		if err != nil || n < 1 {
			return req, errors.New("per_page must be a positive integer")
		}
		req = req.With(request.WithParameter("per_page", n))
	}

	return req, nil
}

func serve[T any](w http.ResponseWriter, r *http.Request, c *client.Client, logger zerolog.Logger, req request.Request[T]) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result := client.Fetch(c, ctx, req)
	resp, ok := result.Response()
	if !ok {
		status, kind := statusFor(result.Err())
		writeError(w, logger, status, kind, result.Err().Error())
		return
	}

	body := envelope{Source: resp.Source, Data: resp.Model}
	if resp.NextPageRequest != nil {
		body.NextPage = resp.NextPageRequest.Path()
	}
	writeJSON(w, logger, http.StatusOK, body)
}

// statusFor maps a dispatch failure to the proxy response status.
func statusFor(err *client.ClientError) (int, string) {
	switch err.Kind {
	case client.KindTransport:
		switch {
		case err.StatusCode == http.StatusUnauthorized, err.StatusCode == http.StatusForbidden,
			err.StatusCode == http.StatusNotFound, err.StatusCode == http.StatusTooManyRequests:
			return err.StatusCode, string(err.Kind)
		case errors.Is(err, context.DeadlineExceeded):
			return http.StatusGatewayTimeout, string(err.Kind)
		default:
			return http.StatusBadGateway, string(err.Kind)
		}
	case client.KindMalformedResponse:
		return http.StatusBadGateway, string(err.Kind)
	default:
		return http.StatusInternalServerError, string(err.Kind)
	}
}

func writeError(w http.ResponseWriter, logger zerolog.Logger, status int, kind, message string) {
	writeJSON(w, logger, status, errorBody{Error: kind, Message: message})
}

func writeJSON(w http.ResponseWriter, logger zerolog.Logger, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to encode response")
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logger.Warn().Err(err).Msg("Failed to write response")
	}
}
