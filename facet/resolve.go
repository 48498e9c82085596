package facet

import "sort"

// Resolve decides whether candidate replaces existing facet of the same kind.
// Concrete facets beat derived ones regardless of order, within the same
// derivedness only a strictly higher precedence replaces, so ties keep the
// earlier contribution.
func Resolve(existing, candidate Facet) bool {
	if isNil(candidate) {
		return false
	}
	if isNil(existing) {
		return true
	}
	existingOrigin, candidateOrigin := existing.Origin(), candidate.Origin()
	switch {
	case existingOrigin.Derived && !candidateOrigin.Derived:
		return true
	case !existingOrigin.Derived && candidateOrigin.Derived:
		return false
	}
	return candidateOrigin.Precedence > existingOrigin.Precedence
}

// Reduce folds candidates into one winning facet per kind
func Reduce(candidates []Facet) map[Kind]Facet {
	ret := make(map[Kind]Facet, len(candidates))
	for _, candidate := range candidates {
		if isNil(candidate) {
			continue
		}
		kind := candidate.Kind()
		if Resolve(ret[kind], candidate) {
			ret[kind] = candidate
		}
	}
	return ret
}

// Sorted returns facets ordered by kind ordinal
func Sorted(facets map[Kind]Facet) []Facet {
	ret := make([]Facet, 0, len(facets))
	for _, f := range facets {
		ret = append(ret, f)
	}
	sort.SliceStable(ret, func(i, j int) bool {
		return ret[i].Kind().Ordinal() < ret[j].Kind().Ordinal()
	})
	return ret
}
