package interaction

import (
	"fmt"
)

// Kind represents the question a consent evaluation answers
type Kind string

const (
	//Visibility is X visible to the actor in the placement
	Visibility Kind = "visibility"
	//Usability can the actor use (edit/invoke) X
	Usability Kind = "usability"
	//Validity is the proposed value/arguments acceptable
	Validity Kind = "validity"
)

// Validate checks if Kind is valid.
func (k Kind) Validate() error {
	switch k {
	case Visibility, Usability, Validity:
		return nil
	}
	return fmt.Errorf("unsupported interaction kind %v", k)
}

// Exhaustive returns true if every veto has to be collected rather than the first one
func (k Kind) Exhaustive() bool {
	return k == Validity
}
