package openapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"sync"
)

// Operation represents a single HTTP operation to surface in OpenAPI.
type Operation struct {
	Method      string         `json:"method"`
	Path        string         `json:"path"`
	OperationID string         `json:"operationId,omitempty"`
	Summary     string         `json:"summary,omitempty"`
	Description string         `json:"description,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Parameters  []Parameter    `json:"parameters,omitempty"`
	RequestBody any            `json:"requestBody,omitempty"`
	Responses   map[string]any `json:"responses"`
}

type Parameter struct {
	Name        string         `json:"name"`
	In          string         `json:"in"`
	Required    bool           `json:"required,omitempty"`
	Description string         `json:"description,omitempty"`
	Schema      map[string]any `json:"schema,omitempty"`
}

// Registry holds the operations a service exposes.
type Registry struct {
	mu  sync.RWMutex
	Ops []Operation
}

func NewRegistry() *Registry { return &Registry{Ops: []Operation{}} }

func (r *Registry) Register(op Operation) {
	op.Method = strings.ToLower(op.Method)
	r.mu.Lock()
	r.Ops = append(r.Ops, op)
	r.mu.Unlock()
}

// Build produces a minimal OpenAPI 3.1 document for the registered
// operations. Schemas are kept inline.
func (r *Registry) Build(serviceName, version string) map[string]any {
	r.mu.RLock()
	ops := append([]Operation(nil), r.Ops...)
	r.mu.RUnlock()
	sort.SliceStable(ops, func(i, j int) bool { return ops[i].Path < ops[j].Path })

	paths := map[string]any{}
	for _, op := range ops {
		if _, ok := paths[op.Path]; !ok {
			paths[op.Path] = map[string]any{}
		}
		m := map[string]any{
			"summary":   op.Summary,
			"tags":      op.Tags,
			"responses": op.Responses,
		}
		if op.OperationID != "" {
			m["operationId"] = op.OperationID
		}
		if op.Description != "" {
			m["description"] = op.Description
		}
		if len(op.Parameters) > 0 {
			m["parameters"] = op.Parameters
		}
		if op.RequestBody != nil {
			m["requestBody"] = op.RequestBody
		}
		paths[op.Path].(map[string]any)[op.Method] = m
	}
	return map[string]any{
		"openapi": "3.1.0",
		"info":    map[string]any{"title": serviceName, "version": version},
		"paths":   paths,
	}
}

// ServeHandler returns an HTTP handler that serves the built OpenAPI JSON.
func (r *Registry) ServeHandler(serviceName, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(r.Build(serviceName, version))
	}
}

// JSONBody is a required application/json request body with the given schema.
func JSONBody(schema map[string]any) map[string]any {
	return map[string]any{
		"required": true,
		"content":  map[string]any{"application/json": map[string]any{"schema": schema}},
	}
}

// JSONResponse describes a response with an application/json body.
func JSONResponse(description string, schema map[string]any) map[string]any {
	return map[string]any{
		"description": description,
		"content":     map[string]any{"application/json": map[string]any{"schema": schema}},
	}
}

// ProblemResponse describes an application/problem+json error response.
func ProblemResponse(description string) map[string]any {
	return map[string]any{
		"description": description,
		"content": map[string]any{"application/problem+json": map[string]any{"schema": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"type":   map[string]any{"type": "string"},
				"title":  map[string]any{"type": "string"},
				"status": map[string]any{"type": "integer"},
				"detail": map[string]any{"type": "string"},
			},
		}}},
	}
}
