package adminapi

import (
	"encoding/json"
	"net/http"

	"paysieve/pkg/stores"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// storeFrom returns the store bound by the auth middleware.
func storeFrom(r *http.Request) stores.Store {
	st, _ := stores.FromContext(r.Context())
	return st
}
