package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/gridcrew/mapathon/pkg/proto"
	"github.com/gridcrew/mapathon/pkg/task"
)

// errorResponse is the body of every failed API call.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func renderStatus(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
		io.WriteString(w, fmt.Sprintf("%d %s", code, http.StatusText(code))) //nolint:errcheck,gosec
	}
}

func renderNotFound(w http.ResponseWriter, _ *http.Request) {
	renderJSON(w, http.StatusNotFound, errorResponse{
		Error:   "not_found",
		Message: "no such endpoint",
	})
}

func renderMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusMethodNotAllowed, errorResponse{
		Error:   "method_not_allowed",
		Message: fmt.Sprintf("method %s not allowed", r.Method),
	})
}

// renderJSON renders v as JSON with the given status code.
func renderJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("error encoding json", "err", err)
	}
}

// statusOf maps an engine error to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, proto.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, proto.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, proto.ErrPrecondition), errors.Is(err, task.ErrAlreadyRunning):
		return http.StatusConflict
	case errors.Is(err, proto.ErrIsolation):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// renderError renders err with its kind. Internal errors are logged and
// their text is not sent to the client.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err)
	kind := proto.Kind(err)
	msg := err.Error()
	switch {
	case errors.Is(err, task.ErrAlreadyRunning):
		kind = "precondition"
	case code == http.StatusInternalServerError:
		log.FromContext(r.Context()).Error("request failed", "err", err)
		msg = http.StatusText(code)
	}
	renderJSON(w, code, errorResponse{Error: kind, Message: msg})
}

// decodeJSON decodes the request body into v. An empty body leaves v as is.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return &proto.ValidationError{Field: "body", Value: "", Reason: err.Error()}
	}
	return nil
}

// int64Var parses the named route variable.
func int64Var(r *http.Request, name string) (int64, error) {
	v := mux.Vars(r)[name]
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, &proto.ValidationError{Field: name, Value: v, Reason: "must be a positive integer"}
	}
	return id, nil
}

// intQuery parses the named query parameter, returning def when it is unset.
func intQuery(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &proto.ValidationError{Field: name, Value: v, Reason: "must be an integer"}
	}
	return n, nil
}
