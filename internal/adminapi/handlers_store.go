package adminapi

import (
	"net/http"

	"paysieve/pkg/middleware"
)

func (a *App) getStoreSelf(w http.ResponseWriter, r *http.Request) {
	st := storeFrom(r)
	resp := map[string]any{
		"id":   st.ID,
		"slug": st.Slug,
		"host": st.Host,
		"name": st.Name,
	}
	if p, ok := middleware.PrincipalFrom(r.Context()); ok {
		resp["role"] = p.Role
	}
	writeJSON(w, resp, http.StatusOK)
}
