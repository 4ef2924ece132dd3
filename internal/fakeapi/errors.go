package fakeapi

import (
	"encoding/json"
	"net/http"
)

type apiError struct {
	Name      string   `json:"name"`
	Message   string   `json:"message"`
	Code      int      `json:"code"`
	ClassName string   `json:"className"`
	Errors    []string `json:"errors,omitempty"`
}

func notFound(msg string) apiError {
	return apiError{Name: "NotFound", Message: msg, Code: http.StatusNotFound, ClassName: "not-found"}
}

func badRequest(msg string, errs []string) apiError {
	return apiError{Name: "BadRequest", Message: msg, Code: http.StatusBadRequest, ClassName: "bad-request", Errors: errs}
}

func writeError(w http.ResponseWriter, e apiError) {
	if len(e.Errors) == 0 {
		// the API sends an empty object when there are no details
		writeJSON(w, e.Code, map[string]any{
			"name":      e.Name,
			"message":   e.Message,
			"code":      e.Code,
			"className": e.ClassName,
			"errors":    map[string]any{},
		})
		return
	}
	writeJSON(w, e.Code, e)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
