package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/kenread/kenread/internal/logger"
)

// catalogProxy forwards read-only catalog requests to the upstream API so
// that browser clients never talk to it directly (and never need to carry the
// identifying User-Agent themselves). The path after /api/catalog/ and the
// whole query string are passed through untouched.
func (h *Handler) catalogProxy(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	upstreamPath := strings.TrimPrefix(r.URL.Path, "/api/catalog")
	if upstreamPath == "" || upstreamPath == "/" {
		http.Error(w, "missing catalog path", http.StatusBadRequest)
		return
	}

	resp, err := h.proxy.R().
		SetContext(r.Context()).
		SetQueryParamsFromValues(r.URL.Query()).
		SetDoNotParseResponse(true).
		Get(upstreamPath)
	if err != nil {
		log.Err(err).Str("path", upstreamPath).Msg("catalog request failed")
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	body := resp.RawBody()
	defer body.Close()

	if ct := resp.Header().Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode())

	if _, err = io.Copy(w, body); err != nil {
		log.Err(err).Str("path", upstreamPath).Msg("error streaming catalog response")
	}
}
