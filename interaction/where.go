package interaction

import (
	"fmt"
	"strings"
)

// Where represents a placement a member is rendered or used in
type Where string

const (
	Anywhere         Where = "anywhere"
	Everywhere       Where = "everywhere" //alias of Anywhere
	Nowhere          Where = "nowhere"
	ObjectForms      Where = "objectForms"
	AllTables        Where = "allTables"
	ParentedTables   Where = "parentedTables"
	StandaloneTables Where = "standaloneTables"
)

// ParseWhere parses placement name, the lookup is case-insensitive
func ParseWhere(text string) (Where, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "anywhere", "everywhere":
		return Anywhere, nil
	case "nowhere":
		return Nowhere, nil
	case "objectforms", "forms":
		return ObjectForms, nil
	case "alltables", "tables":
		return AllTables, nil
	case "parentedtables":
		return ParentedTables, nil
	case "standalonetables":
		return StandaloneTables, nil
	}
	return "", fmt.Errorf("unsupported where: '%s'", text)
}

// Covers returns true if receiver placement includes supplied placement
func (w Where) Covers(placement Where) bool {
	switch w {
	case Anywhere, Everywhere:
		return true
	case Nowhere:
		return false
	case AllTables:
		return placement == AllTables || placement == ParentedTables || placement == StandaloneTables
	case "":
		return false
	}
	if placement == "" {
		return false
	}
	return w == placement
}

// IsTable returns true for table placements
func (w Where) IsTable() bool {
	return w == AllTables || w == ParentedTables || w == StandaloneTables
}
