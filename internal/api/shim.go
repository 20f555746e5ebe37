// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package api implements the HTTP endpoints the browser front end calls:
// fetching the question input, forwarding debug messages, submitting the
// result and reporting that the window was closed.
package api

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"interactive-choice/internal/logger"
	"interactive-choice/internal/question"

	"github.com/gorilla/mux"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// TokenHeader carries the per-process session token on every API call.
const TokenHeader = "X-Choice-Token"

// maxBodyBytes bounds request bodies; results are small JSON documents.
const maxBodyBytes = 1 << 20

// Shim is the application side of the page's calls.
type Shim interface {
	Input() string
	LogDebug(msg string)
	OnResultSubmitted(payload string)
	OnCloseRequested()
}

// Host is the window side: it can be closed and it tracks page liveness.
// Leave reports that the page is being unloaded; the host decides whether
// that is a reload or the tab going away.
type Host interface {
	Close() error
	Touch()
	Leave()
}

// InputResponse is returned by GET /api/input.
type InputResponse struct {
	Input string `json:"input"`
}

// LogRequest is the body of POST /api/log.
type LogRequest struct {
	Msg string `json:"msg"`
}

// SubmitRequest is the body of POST /api/submit.
type SubmitRequest struct {
	Result string `json:"result"`
}

type shimHandlers struct {
	shim     Shim
	host     Host
	markdown goldmark.Markdown
}

// RegisterShimRoutes registers the front-end API under /api on router. Every
// route requires token, passed in TokenHeader or, for beacons that cannot set
// headers, in the token query parameter.
func RegisterShimRoutes(router *mux.Router, shim Shim, host Host, token string) {
	h := &shimHandlers{
		shim:     shim,
		host:     host,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(requireToken(token))
	apiRouter.Use(touchHost(host))

	apiRouter.HandleFunc("/input", h.getInput).Methods("GET")
	apiRouter.HandleFunc("/body", h.getBody).Methods("GET")
	apiRouter.HandleFunc("/log", h.postLog).Methods("POST")
	apiRouter.HandleFunc("/submit", h.postSubmit).Methods("POST")
	apiRouter.HandleFunc("/close", h.postClose).Methods("POST")
	apiRouter.HandleFunc("/ping", h.postPing).Methods("POST")
	apiRouter.HandleFunc("/leave", h.postLeave).Methods("POST")
}

func requireToken(token string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(TokenHeader)
			if got == "" {
				got = r.URL.Query().Get("token")
			}
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func touchHost(host Host) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host.Touch()
			next.ServeHTTP(w, r)
		})
	}
}

// writeJSONResponse writes data as a JSON response.
func writeJSONResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("failed to write JSON response", "error", err)
	}
}

// decodeBody reads a bounded JSON body into v.
func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("error reading request body: %w", err)
	}
	defer r.Body.Close()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (h *shimHandlers) getInput(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, InputResponse{Input: h.shim.Input()})
}

// getBody renders the question body from Markdown to HTML. Raw HTML in the
// Markdown is not passed through.
func (h *shimHandlers) getBody(w http.ResponseWriter, r *http.Request) {
	in, err := question.ParseInput(h.shim.Input())
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(in.Body), &buf); err != nil {
		http.Error(w, fmt.Sprintf("failed to render body: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (h *shimHandlers) postLog(w http.ResponseWriter, r *http.Request) {
	var req LogRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.shim.LogDebug(req.Msg)
	w.WriteHeader(http.StatusNoContent)
}

func (h *shimHandlers) postSubmit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// Closing the window only signals the host; the server drains this
	// request before shutting down.
	h.shim.OnResultSubmitted(req.Result)
	w.WriteHeader(http.StatusNoContent)
}

func (h *shimHandlers) postClose(w http.ResponseWriter, r *http.Request) {
	h.shim.OnCloseRequested()
	if err := h.host.Close(); err != nil {
		logger.Warn("failed to close window", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *shimHandlers) postPing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *shimHandlers) postLeave(w http.ResponseWriter, r *http.Request) {
	h.host.Leave()
	w.WriteHeader(http.StatusNoContent)
}
