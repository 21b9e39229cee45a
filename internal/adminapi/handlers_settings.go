package adminapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"paysieve/internal/settings"
	"paysieve/pkg/problems"
)

const maxBody = 1 << 20

func (a *App) listContainers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"containers": a.fields.Containers()}, http.StatusOK)
}

// listOptions returns the saved value of every registered field; fields never saved are null.
func (a *App) listOptions(w http.ResponseWriter, r *http.Request) {
	st := storeFrom(r)
	out := map[string]json.RawMessage{}
	for _, c := range a.fields.Containers() {
		for _, f := range c.Fields {
			raw, err := a.options.Get(r.Context(), st.ID, f.Name)
			switch {
			case err == nil:
				out[f.Name] = raw
			case errors.Is(err, settings.ErrNotFound):
				out[f.Name] = json.RawMessage("null")
			default:
				a.log.Errorw("option read failed", "store", st.ID, "name", f.Name, "err", err)
				problems.Write(w, http.StatusInternalServerError, "settings-store", "Settings store unavailable", "")
				return
			}
		}
	}
	writeJSON(w, map[string]any{"store_id": st.ID, "options": out}, http.StatusOK)
}

func (a *App) putOption(w http.ResponseWriter, r *http.Request) {
	st := storeFrom(r)
	name := chi.URLParam(r, "name")
	f, ok := a.fields.Field(name)
	if !ok {
		problems.Write(w, http.StatusNotFound, "unknown-field", "Unknown field", name)
		return
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		problems.Write(w, http.StatusBadRequest, "bad-request", "Unreadable body", "")
		return
	}
	val, err := f.Normalize(raw)
	if err != nil {
		problems.Write(w, http.StatusUnprocessableEntity, "invalid-value", "Invalid field value", err.Error())
		return
	}
	if err := a.options.Put(r.Context(), st.ID, name, val); err != nil {
		a.log.Errorw("option write failed", "store", st.ID, "name", name, "err", err)
		problems.Write(w, http.StatusInternalServerError, "settings-store", "Settings store unavailable", "")
		return
	}
	a.log.Infow("option saved", "store", st.ID, "name", name)
	writeJSON(w, map[string]any{"name": name, "value": json.RawMessage(val)}, http.StatusOK)
}

// putContainer validates every supplied field of the container before saving any of them.
func (a *App) putContainer(w http.ResponseWriter, r *http.Request) {
	st := storeFrom(r)
	key := chi.URLParam(r, "key")
	c, ok := a.fields.Container(key)
	if !ok {
		problems.Write(w, http.StatusNotFound, "unknown-container", "Unknown container", key)
		return
	}
	var body map[string]json.RawMessage
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&body); err != nil {
		problems.Write(w, http.StatusBadRequest, "bad-request", "Invalid JSON body", err.Error())
		return
	}
	byName := map[string]settings.Field{}
	for _, f := range c.Fields {
		byName[f.Name] = f
	}
	normalized := map[string]json.RawMessage{}
	for name, raw := range body {
		f, ok := byName[name]
		if !ok {
			problems.Write(w, http.StatusUnprocessableEntity, "unknown-field", "Unknown field", name+" is not part of "+key)
			return
		}
		val, err := f.Normalize(raw)
		if err != nil {
			problems.Write(w, http.StatusUnprocessableEntity, "invalid-value", "Invalid field value", err.Error())
			return
		}
		normalized[name] = val
	}
	for _, f := range c.Fields {
		val, ok := normalized[f.Name]
		if !ok {
			continue
		}
		if err := a.options.Put(r.Context(), st.ID, f.Name, val); err != nil {
			a.log.Errorw("option write failed", "store", st.ID, "name", f.Name, "err", err)
			problems.Write(w, http.StatusInternalServerError, "settings-store", "Settings store unavailable", "")
			return
		}
	}
	a.log.Infow("container saved", "store", st.ID, "container", key, "fields", len(normalized))
	writeJSON(w, map[string]any{"container": key, "options": normalized}, http.StatusOK)
}

type previewRequest struct {
	ProductIDs []int64 `json:"product_ids"`
}

// previewGateways reports the payment methods a cart holding the given products would be offered.
func (a *App) previewGateways(w http.ResponseWriter, r *http.Request) {
	if a.preview == nil {
		problems.Write(w, http.StatusNotImplemented, "preview-unavailable", "Preview unavailable", "")
		return
	}
	var in previewRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&in); err != nil {
		problems.Write(w, http.StatusBadRequest, "bad-request", "Invalid JSON body", err.Error())
		return
	}
	st := storeFrom(r)
	writeJSON(w, map[string]any{"payment_methods": a.preview.Preview(r.Context(), st.ID, in.ProductIDs)}, http.StatusOK)
}
