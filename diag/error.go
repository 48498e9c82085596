package diag

import (
	"fmt"
	"github.com/pkg/errors"
)

// StructuralError prevents specification from being published
type StructuralError struct {
	Type   string
	Member string
	Reason string
}

func (e *StructuralError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("invalid metamodel %v: %v", e.Type, e.Reason)
	}
	return fmt.Sprintf("invalid metamodel %v.%v: %v", e.Type, e.Member, e.Reason)
}

// NewStructuralError creates structural error
func NewStructuralError(typeName, member, format string, args ...interface{}) *StructuralError {
	return &StructuralError{Type: typeName, Member: member, Reason: fmt.Sprintf(format, args...)}
}

// IsStructural returns true if err chain contains structural error
func IsStructural(err error) bool {
	var target *StructuralError
	return errors.As(err, &target)
}
