// Package settings declares admin-editable fields and stores their values per store.
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	ContainerThemeOptions = "theme_options"

	FieldAssociation = "association"
	FieldMultiselect = "multiselect"
)

var ErrInvalidValue = errors.New("invalid field value")

// Container groups fields under one key on one settings page.
type Container struct {
	Kind   string  `json:"kind"`
	Key    string  `json:"key"`
	Fields []Field `json:"fields"`
}

func NewContainer(kind, key string) Container {
	return Container{Kind: kind, Key: key}
}

func (c Container) AddFields(fs ...Field) Container {
	c.Fields = append(append([]Field(nil), c.Fields...), fs...)
	return c
}

// EntityType scopes an association field, e.g. post/product.
type EntityType struct {
	Type    string `json:"type"`
	Subtype string `json:"post_type,omitempty"`
}

func PostType(postType string) EntityType { return EntityType{Type: "post", Subtype: postType} }

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Field struct {
	Type    string       `json:"type"`
	Name    string       `json:"name"`
	Label   string       `json:"label"`
	Types   []EntityType `json:"types,omitempty"`
	Options []Option     `json:"options"`
}

func Association(name, label string) Field {
	return Field{Type: FieldAssociation, Name: name, Label: label}
}

func Multiselect(name, label string) Field {
	return Field{Type: FieldMultiselect, Name: name, Label: label, Options: []Option{}}
}

func (f Field) SetTypes(ts ...EntityType) Field {
	f.Types = append([]EntityType(nil), ts...)
	return f
}

func (f Field) SetOptions(opts []Option) Field {
	f.Options = append([]Option{}, opts...)
	return f
}

// AssociationValue is one selected entity as persisted for association fields.
type AssociationValue struct {
	Value   string `json:"value"`
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
	ID      int64  `json:"id"`
}

// Normalize validates raw JSON against the field and returns the canonical
// encoding that gets persisted. Duplicates are dropped, first occurrence wins.
func (f Field) Normalize(raw []byte) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("[]")
	}
	switch f.Type {
	case FieldAssociation:
		vals, err := f.normalizeAssociation(raw)
		if err != nil {
			return nil, err
		}
		return json.Marshal(vals)
	case FieldMultiselect:
		vals, err := f.normalizeMultiselect(raw)
		if err != nil {
			return nil, err
		}
		return json.Marshal(vals)
	default:
		return nil, fmt.Errorf("%w: unsupported field type %q", ErrInvalidValue, f.Type)
	}
}

func (f Field) normalizeAssociation(raw []byte) ([]AssociationValue, error) {
	var in []struct {
		Type    string          `json:"type"`
		Subtype string          `json:"subtype"`
		ID      json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("%w: %s expects a list of {type,subtype,id}", ErrInvalidValue, f.Name)
	}
	out := make([]AssociationValue, 0, len(in))
	seen := map[string]bool{}
	for i, e := range in {
		id, err := parseID(e.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s[%d].id: %v", ErrInvalidValue, f.Name, i, err)
		}
		et := EntityType{Type: e.Type, Subtype: e.Subtype}
		if et.Type == "" && len(f.Types) > 0 {
			et = f.Types[0]
		}
		if !f.allowsType(et) {
			return nil, fmt.Errorf("%w: %s[%d] has disallowed type %s/%s", ErrInvalidValue, f.Name, i, et.Type, et.Subtype)
		}
		v := AssociationValue{Type: et.Type, Subtype: et.Subtype, ID: id}
		v.Value = v.Type + ":" + v.Subtype + ":" + strconv.FormatInt(id, 10)
		if seen[v.Value] {
			continue
		}
		seen[v.Value] = true
		out = append(out, v)
	}
	return out, nil
}

func (f Field) allowsType(et EntityType) bool {
	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if t == et {
			return true
		}
	}
	return false
}

func (f Field) normalizeMultiselect(raw []byte) ([]string, error) {
	var in []string
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("%w: %s expects a list of strings", ErrInvalidValue, f.Name)
	}
	allowed := map[string]bool{}
	for _, o := range f.Options {
		allowed[o.Value] = true
	}
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		if len(allowed) > 0 && !allowed[v] {
			return nil, fmt.Errorf("%w: %s has unknown option %q", ErrInvalidValue, f.Name, v)
		}
		seen[v] = true
		out = append(out, v)
	}
	return out, nil
}

// parseID accepts a positive JSON number or a numeric string.
func parseID(raw json.RawMessage) (int64, error) {
	s := strings.TrimSpace(string(raw))
	if uq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(uq)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("not a positive integer: %s", string(raw))
	}
	return id, nil
}
