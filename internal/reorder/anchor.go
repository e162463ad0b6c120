package reorder

import (
	"github.com/google/uuid"
)

// EndMarker is the after-id value that drops an item at the end of a container.
const EndMarker = "end"

type anchorKind int

const (
	anchorStart anchorKind = iota
	anchorEnd
	anchorAfter
)

// Anchor is the drop point inside the target container.
type Anchor struct {
	kind  anchorKind
	after uuid.UUID
}

func Start() Anchor { return Anchor{kind: anchorStart} }

func End() Anchor { return Anchor{kind: anchorEnd} }

func After(id uuid.UUID) Anchor { return Anchor{kind: anchorAfter, after: id} }

// ParseAnchor reads the after-id sent by clients: nil or "" drops at the
// start, EndMarker at the end, anything else must be a sibling id.
func ParseAnchor(afterID *string) (Anchor, error) {
	if afterID == nil || *afterID == "" {
		return Start(), nil
	}
	if *afterID == EndMarker {
		return End(), nil
	}
	id, err := uuid.Parse(*afterID)
	if err != nil {
		return Anchor{}, ErrInvalidAnchor
	}
	return After(id), nil
}

func (a Anchor) String() string {
	switch a.kind {
	case anchorStart:
		return "start"
	case anchorEnd:
		return EndMarker
	default:
		return "after:" + a.after.String()
	}
}
