package server

import (
	"encoding/json"
	"net/http"
)

// unauthorizedMessage is the exact body clients see on a 401. Both
// missing and invalid credentials produce the same response; the
// distinction is internal.
const unauthorizedMessage = "Unauthorized"

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeUnauthorized(w http.ResponseWriter) {
	writeMessage(w, http.StatusUnauthorized, unauthorizedMessage)
}
