package spatial

import (
	"github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/geom"
)

// Kind distinguishes the element variants an index can hold.
type Kind uint8

const (
	// KindNode is a node body.
	KindNode Kind = iota
	// KindPort is a connection port attached to a node.
	KindPort
	// KindConnection is one straight segment of a connection path.
	KindConnection
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindPort:
		return "port"
	case KindConnection:
		return "connection"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool { return k <= KindConnection }

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a kind name produced by MarshalText.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "node":
		*k = KindNode
	case "port":
		*k = KindPort
	case "connection":
		*k = KindConnection
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown element kind %q", b)
	}
	return nil
}

// Element is the index's view of a diagram element: a stable ID, its kind,
// and its world-space bounding rect as last reported by the caller.
type Element struct {
	ID     string         `json:"id"`
	Kind   Kind           `json:"kind"`
	Bounds geom.WorldRect `json:"bounds"`
}
