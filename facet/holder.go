package facet

import (
	"github.com/pkg/errors"
)

// ErrFrozen is returned when a published holder is modified
var ErrFrozen = errors.New("facet holder is frozen")

type (
	// Reader represents read only holder view
	Reader interface {
		ID() string
		Feature() Feature
		Facet(kind Kind) (Facet, bool)
		Contains(kind Kind) bool
		Facets() []Facet
	}

	// Holder owns winning facet per kind for one introspected element.
	// It is populated by a single builder, frozen and then shared for lock free reads.
	Holder struct {
		id      string
		feature Feature
		parent  *Holder
		facets  map[Kind]Facet
		frozen  bool
	}
)

// ID returns holder identifier
func (h *Holder) ID() string {
	return h.id
}

// Feature returns holder feature type
func (h *Holder) Feature() Feature {
	return h.feature
}

// Parent returns supertype holder
func (h *Holder) Parent() *Holder {
	return h.parent
}

// IsFrozen returns true once published
func (h *Holder) IsFrozen() bool {
	return h.frozen
}

// AddFacet adds candidate facet if wins with currently installed facet of the same kind
func (h *Holder) AddFacet(candidate Facet) (bool, error) {
	if isNil(candidate) {
		return false, nil
	}
	if h.frozen {
		return false, errors.Wrapf(ErrFrozen, "failed to add %v to %v", candidate.Kind(), h.id)
	}
	kind := candidate.Kind()
	if !Resolve(h.facets[kind], candidate) {
		return false, nil
	}
	h.facets[kind] = candidate
	return true, nil
}

// AddFacetIfPresent adds facet when candidate is not nil
func (h *Holder) AddFacetIfPresent(candidate Facet) (bool, error) {
	if isNil(candidate) {
		return false, nil
	}
	return h.AddFacet(candidate)
}

// Local returns facet installed on this holder only
func (h *Holder) Local(kind Kind) (Facet, bool) {
	ret, ok := h.facets[kind]
	return ret, ok
}

// Facet returns effective facet: local concrete, supertype concrete, local derived, supertype derived
func (h *Holder) Facet(kind Kind) (Facet, bool) {
	local, ok := h.facets[kind]
	if ok && !local.Origin().Derived {
		return local, true
	}
	if h.parent != nil {
		if inherited, has := h.parent.Facet(kind); has {
			if !inherited.Origin().Derived || !ok {
				return inherited, true
			}
		}
	}
	return local, ok
}

// Contains returns true if effective facet exists
func (h *Holder) Contains(kind Kind) bool {
	_, ok := h.Facet(kind)
	return ok
}

// Facets returns effective facets ordered by kind
func (h *Holder) Facets() []Facet {
	effective := map[Kind]Facet{}
	for holder := h; holder != nil; holder = holder.parent {
		for kind := range holder.facets {
			if _, ok := effective[kind]; ok {
				continue
			}
			if f, ok := h.Facet(kind); ok {
				effective[kind] = f
			}
		}
	}
	return Sorted(effective)
}

// Len returns number of local facets
func (h *Holder) Len() int {
	return len(h.facets)
}

// Freeze makes holder read only
func (h *Holder) Freeze() {
	h.frozen = true
}

// NewHolder creates an empty holder
func NewHolder(id string, feature Feature, parent *Holder) *Holder {
	return &Holder{id: id, feature: feature, parent: parent, facets: map[Kind]Facet{}}
}

// Lookup returns typed effective facet
func Lookup[T Facet](holder Reader, kind Kind) (T, bool) {
	var zero T
	if holder == nil {
		return zero, false
	}
	f, ok := holder.Facet(kind)
	if !ok {
		return zero, false
	}
	ret, ok := f.(T)
	return ret, ok
}
