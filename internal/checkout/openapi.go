package checkout

import "paysieve/pkg/openapi"

var (
	cartSchema = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":       map[string]any{"type": "string"},
			"store_id": map[string]any{"type": "string"},
			"items": map[string]any{"type": "array", "items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"key":          map[string]any{"type": "string"},
					"product_id":   map[string]any{"type": "integer"},
					"variation_id": map[string]any{"type": "integer"},
					"quantity":     map[string]any{"type": "integer"},
				},
			}},
			"updated_at": map[string]any{"type": "string", "format": "date-time"},
		},
	}
	gatewayListSchema = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cart_id": map[string]any{"type": "string"},
			"payment_methods": map[string]any{"type": "array", "items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":          map[string]any{"type": "string"},
					"title":       map[string]any{"type": "string"},
					"description": map[string]any{"type": "string"},
					"order":       map[string]any{"type": "integer"},
				},
			}},
		},
	}
	cartIDParam = openapi.Parameter{Name: "id", In: "path", Required: true, Schema: map[string]any{"type": "string"}}
)

// Document describes the checkout routes registered by RegisterRoutes.
func Document() *openapi.Registry {
	r := openapi.NewRegistry()
	r.Register(openapi.Operation{
		Method: "POST", Path: "/v1/cart", OperationID: "createCart", Summary: "Start a cart session", Tags: []string{"cart"},
		Responses: map[string]any{"201": openapi.JSONResponse("Created cart", cartSchema)},
	})
	r.Register(openapi.Operation{
		Method: "GET", Path: "/v1/cart/{id}", OperationID: "getCart", Summary: "Read a cart", Tags: []string{"cart"},
		Parameters: []openapi.Parameter{cartIDParam},
		Responses: map[string]any{
			"200": openapi.JSONResponse("Cart", cartSchema),
			"404": openapi.ProblemResponse("Unknown cart"),
		},
	})
	r.Register(openapi.Operation{
		Method: "POST", Path: "/v1/cart/{id}/items", OperationID: "addCartItem", Summary: "Add a line item", Tags: []string{"cart"},
		Parameters: []openapi.Parameter{cartIDParam},
		RequestBody: openapi.JSONBody(map[string]any{
			"type":     "object",
			"required": []string{"product_id"},
			"properties": map[string]any{
				"product_id":   map[string]any{"type": "integer"},
				"variation_id": map[string]any{"type": "integer"},
				"quantity":     map[string]any{"type": "integer", "minimum": 1},
			},
		}),
		Responses: map[string]any{
			"200": openapi.JSONResponse("Updated cart", cartSchema),
			"404": openapi.ProblemResponse("Unknown cart"),
			"422": openapi.ProblemResponse("Invalid line item"),
		},
	})
	r.Register(openapi.Operation{
		Method: "DELETE", Path: "/v1/cart/{id}/items/{key}", OperationID: "removeCartItem", Summary: "Remove a line item", Tags: []string{"cart"},
		Parameters: []openapi.Parameter{cartIDParam, {Name: "key", In: "path", Required: true, Schema: map[string]any{"type": "string"}}},
		Responses: map[string]any{
			"200": openapi.JSONResponse("Updated cart", cartSchema),
			"404": openapi.ProblemResponse("Unknown cart or line item"),
		},
	})
	r.Register(openapi.Operation{
		Method: "GET", Path: "/v1/checkout/payment-methods", OperationID: "listPaymentMethods",
		Summary:     "Payment methods offered for a cart",
		Description: "The cart session is read from the X-Cart-Session header, the cart_session cookie or the cart query parameter.",
		Tags:        []string{"checkout"},
		Parameters: []openapi.Parameter{
			{Name: HeaderCartSession, In: "header", Schema: map[string]any{"type": "string"}},
			{Name: "cart", In: "query", Schema: map[string]any{"type": "string"}},
		},
		Responses: map[string]any{"200": openapi.JSONResponse("Offered payment methods", gatewayListSchema)},
	})
	return r
}
