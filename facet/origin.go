package facet

import "fmt"

// Precedence represents contribution tier, higher tier replaces lower one
type Precedence int

const (
	PrecedenceDefault Precedence = iota
	PrecedenceInferred
	PrecedenceType
	PrecedenceMeta
	PrecedenceExplicit
	PrecedenceOverride
)

// Origin sources
const (
	SourceExplicit    = "explicit annotation"
	SourceMeta        = "meta annotation"
	SourceType        = "type annotation"
	SourceGenerics    = "inferred from generics"
	SourceSignature   = "inferred from signature"
	SourceName        = "inferred from name"
	SourceValidateTag = "inferred from validate tag"
	SourceSupporting  = "supporting method"
	SourceDefault     = "default"
)

// Origin describes who contributed a facet
type Origin struct {
	Factory    string
	Source     string
	Precedence Precedence
	Derived    bool
}

func (o Origin) String() string {
	derived := ""
	if o.Derived {
		derived = ",derived"
	}
	return fmt.Sprintf("%v(%v%v)", o.Factory, o.Source, derived)
}

// Explicit creates explicit annotation origin
func Explicit(factory string) Origin {
	return Origin{Factory: factory, Source: SourceExplicit, Precedence: PrecedenceExplicit}
}

// Meta creates meta annotation origin
func Meta(factory string) Origin {
	return Origin{Factory: factory, Source: SourceMeta, Precedence: PrecedenceMeta}
}

// TypeLevel creates type annotation origin
func TypeLevel(factory string) Origin {
	return Origin{Factory: factory, Source: SourceType, Precedence: PrecedenceType}
}

// Inferred creates derived origin
func Inferred(factory, source string) Origin {
	return Origin{Factory: factory, Source: source, Precedence: PrecedenceInferred, Derived: true}
}

// Supporting creates supporting method origin
func Supporting(factory, method string) Origin {
	return Origin{Factory: factory, Source: SourceSupporting + " " + method, Precedence: PrecedenceExplicit}
}

// Override creates programmatic override origin
func Override(factory string) Origin {
	return Origin{Factory: factory, Source: "override", Precedence: PrecedenceOverride}
}
