package checkout

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"paysieve/internal/cart"
	"paysieve/internal/gateways"
	"paysieve/pkg/problems"
	"paysieve/pkg/stores"
)

const (
	HeaderCartSession = "X-Cart-Session"
	CookieCartSession = "cart_session"
)

type addItemRequest struct {
	ProductID   int64 `json:"product_id"`
	VariationID int64 `json:"variation_id"`
	Quantity    int   `json:"quantity"`
}

type paymentMethodsResponse struct {
	CartID         string             `json:"cart_id,omitempty"`
	PaymentMethods []gateways.Gateway `json:"payment_methods"`
}

func RegisterRoutes(r chi.Router, svc *Service, log *zap.SugaredLogger) {
	h := &handler{svc: svc, log: log}
	r.Post("/v1/cart", h.createCart)
	r.Get("/v1/cart/{id}", h.getCart)
	r.Post("/v1/cart/{id}/items", h.addItem)
	r.Delete("/v1/cart/{id}/items/{key}", h.removeItem)
	r.Get("/v1/checkout/payment-methods", h.paymentMethods)
}

type handler struct {
	svc *Service
	log *zap.SugaredLogger
}

func (h *handler) createCart(w http.ResponseWriter, r *http.Request) {
	st, ok := stores.FromContext(r.Context())
	if !ok {
		problems.Write(w, http.StatusNotFound, "unknown-store", "Unknown store", "")
		return
	}
	c, err := h.svc.CreateCart(r.Context(), st.ID)
	if err != nil {
		h.fail(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: CookieCartSession, Value: c.ID, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	writeJSON(w, c, http.StatusCreated)
}

func (h *handler) getCart(w http.ResponseWriter, r *http.Request) {
	st, ok := stores.FromContext(r.Context())
	if !ok {
		problems.Write(w, http.StatusNotFound, "unknown-store", "Unknown store", "")
		return
	}
	c, err := h.svc.Cart(r.Context(), st.ID, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, c, http.StatusOK)
}

func (h *handler) addItem(w http.ResponseWriter, r *http.Request) {
	st, ok := stores.FromContext(r.Context())
	if !ok {
		problems.Write(w, http.StatusNotFound, "unknown-store", "Unknown store", "")
		return
	}
	var in addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		problems.Write(w, http.StatusBadRequest, "bad-request", "Invalid JSON body", err.Error())
		return
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	c, err := h.svc.AddItem(r.Context(), st.ID, chi.URLParam(r, "id"), in.ProductID, in.VariationID, in.Quantity)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, c, http.StatusOK)
}

func (h *handler) removeItem(w http.ResponseWriter, r *http.Request) {
	st, ok := stores.FromContext(r.Context())
	if !ok {
		problems.Write(w, http.StatusNotFound, "unknown-store", "Unknown store", "")
		return
	}
	c, err := h.svc.RemoveItem(r.Context(), st.ID, chi.URLParam(r, "id"), chi.URLParam(r, "key"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, c, http.StatusOK)
}

func (h *handler) paymentMethods(w http.ResponseWriter, r *http.Request) {
	st, ok := stores.FromContext(r.Context())
	if !ok {
		problems.Write(w, http.StatusNotFound, "unknown-store", "Unknown store", "")
		return
	}
	cartID := cartSession(r)
	list, err := h.svc.PaymentMethods(r.Context(), st.ID, cartID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, paymentMethodsResponse{CartID: cartID, PaymentMethods: list}, http.StatusOK)
}

// cartSession reads the cart id from the header, then the cookie, then the query string.
func cartSession(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(HeaderCartSession)); v != "" {
		return v
	}
	if ck, err := r.Cookie(CookieCartSession); err == nil && ck.Value != "" {
		return ck.Value
	}
	return strings.TrimSpace(r.URL.Query().Get("cart"))
}

func (h *handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrNotFound):
		problems.Write(w, http.StatusNotFound, "cart-not-found", "Cart not found", "")
	case errors.Is(err, ErrItemNotFound):
		problems.Write(w, http.StatusNotFound, "item-not-found", "Line item not found", "")
	case errors.Is(err, cart.ErrInvalidProduct), errors.Is(err, cart.ErrInvalidQuantity):
		problems.Write(w, http.StatusUnprocessableEntity, "invalid-item", "Invalid line item", err.Error())
	default:
		h.log.Errorw("checkout request failed", "err", err)
		problems.Write(w, http.StatusInternalServerError, "internal", "Internal error", "")
	}
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
