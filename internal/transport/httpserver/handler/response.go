package handler

import (
	"encoding/json"
	"net/http"
)

type errorEnvelope struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// listEnvelope is the shared shape of every paginated collection response.
type listEnvelope struct {
	Data     interface{} `json:"data"`
	Limit    int         `json:"limit"`
	Offset   int         `json:"offset"`
	Total    int64       `json:"total"`
	Returned int         `json:"returned"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Error: message})
}

func writeErrorDetails(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorEnvelope{Error: message, Details: details})
}

func writeList(w http.ResponseWriter, data interface{}, returned int, page pageParams, total int64) {
	writeJSON(w, http.StatusOK, listEnvelope{
		Data:     data,
		Limit:    page.Limit,
		Offset:   page.Offset,
		Total:    total,
		Returned: returned,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
