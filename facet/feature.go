package facet

import "fmt"

// Feature represents the feature type of an introspected holder
type Feature string

const (
	FeatureObject                Feature = "object"
	FeatureProperty              Feature = "property"
	FeatureCollection            Feature = "collection"
	FeatureAction                Feature = "action"
	FeatureActionParameter       Feature = "actionParameter"
	FeatureCollectionsAndActions Feature = "collectionsAndActions"
)

// Validate checks if feature is valid
func (f Feature) Validate() error {
	switch f {
	case FeatureObject, FeatureProperty, FeatureCollection, FeatureAction, FeatureActionParameter, FeatureCollectionsAndActions:
		return nil
	}
	return fmt.Errorf("unsupported feature type %v", f)
}

// Matches returns true if declared (factory) feature applies to a holder feature
func (f Feature) Matches(holder Feature) bool {
	if f == holder {
		return true
	}
	if f == FeatureCollectionsAndActions {
		return holder == FeatureCollection || holder == FeatureAction
	}
	return false
}

// IsMember returns true for member level features
func (f Feature) IsMember() bool {
	return f == FeatureProperty || f == FeatureCollection || f == FeatureAction
}

// MemberFeatures returns property, collection and action features
func MemberFeatures() []Feature {
	return []Feature{FeatureProperty, FeatureCollection, FeatureAction}
}
