package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"paysieve/pkg/stores"
)

var ErrNoStore = errors.New("no store bound to context")

// Reader looks up option values for the store bound to the request context.
type Reader struct {
	store Store
}

func NewReader(s Store) *Reader { return &Reader{store: s} }

// ThemeOption returns the decoded JSON value of a theme option, or nil when it was never saved.
func (r *Reader) ThemeOption(ctx context.Context, name string) (any, error) {
	st, ok := stores.FromContext(ctx)
	if !ok {
		return nil, ErrNoStore
	}
	raw, err := r.store.Get(ctx, st.ID, name)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// Numbers stay json.Number so int64 ids above 2^53 survive.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode option %s: %w", name, err)
	}
	return v, nil
}
