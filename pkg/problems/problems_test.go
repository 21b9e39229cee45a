package problems

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasePrecedence(t *testing.T) {
	t.Setenv("PROBLEM_BASE_URL", "")
	t.Setenv("BASE_PUBLIC_URL", "")
	assert.Equal(t, "https://example.com/problems", Base())

	t.Setenv("BASE_PUBLIC_URL", "https://shop.example/")
	assert.Equal(t, "https://shop.example/problems", Base())

	t.Setenv("PROBLEM_BASE_URL", "https://errors.example/p/")
	assert.Equal(t, "https://errors.example/p", Base())
	assert.Equal(t, "https://errors.example/p/cart-not-found", Type("cart-not-found"))
}

func TestWrite(t *testing.T) {
	t.Setenv("PROBLEM_BASE_URL", "https://errors.example")
	rec := httptest.NewRecorder()

	Write(rec, http.StatusNotFound, "cart-not-found", "Cart not found", "no cart abc")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var p Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, Problem{Type: "https://errors.example/cart-not-found", Title: "Cart not found", Status: 404, Detail: "no cart abc"}, p)
}
