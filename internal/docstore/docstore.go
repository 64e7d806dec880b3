package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPath   = errors.New("invalid collection path")
	ErrUnknownDriver = errors.New("unknown document store driver")
)

// Document is one schema-less record of a collection.
type Document struct {
	ID     string
	Fields map[string]any
}

// Store is the read side of a document database. Collection paths are
// slash separated, e.g. "users" or "users/{id}/orders".
type Store interface {
	ListCollection(ctx context.Context, path string) ([]Document, error)
}

// Number returns the numeric value of key. Missing and non-numeric values
// are reported as 0.
func (d Document) Number(key string) float64 {
	switch v := d.Fields[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// String returns the string value of key and whether it was a string.
func (d Document) String(key string) (string, bool) {
	s, ok := d.Fields[key].(string)
	return s, ok
}

// CollectionPath joins collection and document ids into a path.
//
//	CollectionPath("users", "42", "orders") // "users/42/orders"
func CollectionPath(segments ...string) string {
	return strings.Join(segments, "/")
}

// SplitPath validates a collection path and splits it into the parent
// document path ("" for top-level collections) and the collection name.
func SplitPath(path string) (parent, collection string, err error) {
	segments := strings.Split(path, "/")
	if len(segments)%2 == 0 {
		return "", "", fmt.Errorf("%w: %q points at a document", ErrInvalidPath, path)
	}
	for _, s := range segments {
		if strings.TrimSpace(s) == "" {
			return "", "", fmt.Errorf("%w: %q has an empty segment", ErrInvalidPath, path)
		}
	}

	collection = segments[len(segments)-1]
	parent = strings.Join(segments[:len(segments)-1], "/")
	return parent, collection, nil
}
