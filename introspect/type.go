package introspect

import (
	"github.com/pkg/errors"
	"github.com/viant/metamodel/diag"
	"github.com/viant/metamodel/facet"
	"reflect"
	"strings"
)

var mainMethodNames = []string{"Act", "Coll", "Prop", "Exec"}

var frameworkMethods = map[string]bool{
	"MemberTags": true,
	"Title":      true,
	"String":     true,
	"Error":      true,
	"Validate":   true,
}

type (
	// Type represents introspected domain type
	Type struct {
		Type       reflect.Type
		Name       string
		Tag        reflect.StructTag
		Super      reflect.Type
		Members    []*Member
		Supporting map[Support]*reflect.Method
		Title      *reflect.Method
		Warnings   []*Warning
		superIndex int
	}

	Option  func(o *options)
	options struct {
		mixins []reflect.Type
	}
)

// WithMixins registers mixin types contributing members
func WithMixins(mixins ...reflect.Type) Option {
	return func(o *options) {
		o.mixins = append(o.mixins, mixins...)
	}
}

// Member returns member by id
func (t *Type) Member(id string) *Member {
	for _, member := range t.Members {
		if member.ID == id {
			return member
		}
	}
	return nil
}

// TypeName returns type name used for holder identity
func TypeName(rType reflect.Type) string {
	return Normalize(rType).String()
}

// Normalize removes pointers
func Normalize(rType reflect.Type) reflect.Type {
	for rType != nil && rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	return rType
}

// Introspect enumerates members by reflective shape and fixes their intent
func Introspect(rType reflect.Type, opts ...Option) (*Type, error) {
	rType = Normalize(rType)
	if rType == nil || rType.Kind() != reflect.Struct {
		return nil, errors.Errorf("unsupported domain type %v, expected struct", rType)
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	ret := &Type{Type: rType, Name: TypeName(rType), Tag: markerTag(rType), Supporting: map[Support]*reflect.Method{}, superIndex: -1}
	ret.Super, ret.superIndex = supertype(rType)
	tags, err := memberTags(rType)
	if err != nil {
		return nil, diag.NewStructuralError(ret.Name, "", err.Error())
	}
	var superTags map[string]string
	if ret.Super != nil {
		superTags, _ = memberTags(ret.Super)
		if len(tags) > 0 && reflect.DeepEqual(tags, superTags) {
			tags = nil //promoted from supertype
		}
	}
	ret.addFields(tags, superTags)
	if err = ret.addMixins(o.mixins); err != nil {
		return nil, err
	}
	ret.addMethods(tags, superTags)
	for _, member := range ret.Members {
		if err = ret.inferIntent(member); err != nil {
			return nil, err
		}
		ret.addParams(member, tags)
	}
	return ret, nil
}

func supertype(rType reflect.Type) (reflect.Type, int) {
	for i := 0; i < rType.NumField(); i++ {
		field := rType.Field(i)
		if !field.Anonymous {
			continue
		}
		candidate := Normalize(field.Type)
		if candidate.Kind() != reflect.Struct || isStandard(candidate) {
			continue
		}
		if isExcluded(field.Tag) {
			continue
		}
		return candidate, i
	}
	return nil, -1
}

func isStandard(rType reflect.Type) bool {
	pkg := rType.PkgPath()
	if pkg == "" {
		return true
	}
	first := pkg
	if index := strings.Index(pkg, "/"); index != -1 {
		first = pkg[:index]
	}
	return !strings.Contains(first, ".") && !strings.HasPrefix(pkg, "main")
}

func (t *Type) addFields(tags, superTags map[string]string) {
	for _, field := range reflect.VisibleFields(t.Type) {
		if !field.IsExported() || field.Anonymous || field.Name == "_" {
			continue
		}
		inherited := len(field.Index) > 1 && field.Index[0] == t.superIndex
		tag := field.Tag
		var superTag reflect.StructTag
		if inherited {
			superTag = joinTags(superTags[field.Name], string(field.Tag))
			tag = ""
		}
		if override, ok := tags[field.Name]; ok {
			tag = joinTags(override, string(tag))
		}
		if isExcluded(tag) || isExcluded(superTag) {
			continue
		}
		aField := field
		t.Members = append(t.Members, &Member{
			ID:         MemberID(field.Name),
			Name:       field.Name,
			Source:     SourceField,
			Field:      &aField,
			Tag:        tag,
			SuperTag:   superTag,
			Promoted:   inherited,
			Supporting: map[Support]*reflect.Method{},
		})
	}
}

func (t *Type) addMethods(tags, superTags map[string]string) {
	ptrType := reflect.PtrTo(t.Type)
	var superPtr reflect.Type
	if t.Super != nil {
		superPtr = reflect.PtrTo(t.Super)
	}
	names := map[string]bool{}
	for _, member := range t.Members {
		names[member.Name] = true
	}
	var methods []reflect.Method
	for i := 0; i < ptrType.NumMethod(); i++ {
		method := ptrType.Method(i)
		if t.isFrameworkMethod(method) {
			continue
		}
		methods = append(methods, method)
		names[method.Name] = true
	}
	var supporting []reflect.Method
	for _, method := range methods {
		if _, target := supportTarget(method.Name, names); target != "" {
			supporting = append(supporting, method)
			continue
		}
		tag := reflect.StructTag(tags[method.Name])
		promoted := false
		if superPtr != nil {
			_, promoted = superPtr.MethodByName(method.Name)
		}
		var superTag reflect.StructTag
		if promoted {
			superTag = reflect.StructTag(superTags[method.Name])
		}
		if isExcluded(tag) || isExcluded(superTag) {
			continue
		}
		aMethod := method
		t.Members = append(t.Members, &Member{
			ID:         MemberID(method.Name),
			Name:       method.Name,
			Source:     SourceMethod,
			Method:     &aMethod,
			Tag:        tag,
			SuperTag:   superTag,
			Promoted:   promoted,
			Supporting: map[Support]*reflect.Method{},
		})
	}
	for _, method := range supporting {
		support, target := supportTarget(method.Name, names)
		aMethod := method
		for _, member := range t.Members {
			if member.Name == target {
				member.Supporting[support] = &aMethod
			}
		}
	}
}

func (t *Type) isFrameworkMethod(method reflect.Method) bool {
	if !frameworkMethods[method.Name] {
		return false
	}
	signature := method.Type
	switch method.Name {
	case "Title":
		if signature.NumIn() == 1 && signature.NumOut() == 1 && signature.Out(0).Kind() == reflect.String {
			aMethod := method
			t.Title = &aMethod
			return true
		}
		return false
	case "Validate":
		if signature.NumIn() == 1 && signature.NumOut() == 1 && signature.Out(0).Kind() == reflect.String {
			aMethod := method
			t.Supporting[SupportValidate] = &aMethod
			return true
		}
		return false
	}
	return true
}

func supportTarget(name string, names map[string]bool) (Support, string) {
	for _, support := range supports {
		prefix := string(support)
		if !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
			continue
		}
		target := name[len(prefix):]
		if names[target] {
			return support, target
		}
	}
	return "", ""
}

func (t *Type) addMixins(mixins []reflect.Type) error {
	for _, mixinType := range mixins {
		mixin, err := t.newMixin(mixinType)
		if err != nil {
			return err
		}
		mixinTags, err := memberTags(mixin.Type)
		if err != nil {
			return diag.NewStructuralError(t.Name, MemberID(mixin.Name), err.Error())
		}
		t.Members = append(t.Members, &Member{
			ID:         MemberID(mixin.Name),
			Name:       mixin.Name,
			Source:     SourceMixin,
			Mixin:      mixin,
			Tag:        reflect.StructTag(mixinTags[mixin.Main.Name]),
			MixinTag:   markerTag(mixin.Type),
			Supporting: map[Support]*reflect.Method{},
		})
	}
	return nil
}

func (t *Type) newMixin(mixinType reflect.Type) (*Mixin, error) {
	mixinType = Normalize(mixinType)
	if mixinType.Kind() != reflect.Struct {
		return nil, diag.NewStructuralError(t.Name, "", "mixin %v has to be a struct", mixinType.String())
	}
	name := strings.TrimPrefix(mixinType.Name(), t.Type.Name())
	if name == "" {
		name = mixinType.Name()
	}
	ret := &Mixin{Target: t.Type, Type: mixinType, Name: name}
	ptrType := reflect.PtrTo(mixinType)
	var candidates []reflect.Method
	for i := 0; i < ptrType.NumMethod(); i++ {
		method := ptrType.Method(i)
		if method.Name == "MemberTags" {
			continue
		}
		candidates = append(candidates, method)
	}
	for _, preferred := range mainMethodNames {
		for i := range candidates {
			if candidates[i].Name == preferred {
				ret.Main = &candidates[i]
				return ret, nil
			}
		}
	}
	if len(candidates) != 1 {
		return nil, diag.NewStructuralError(t.Name, MemberID(name), "mixin %v has to define exactly one main method, found %v", mixinType.String(), len(candidates))
	}
	ret.Main = &candidates[0]
	return ret, nil
}

func (t *Type) addParams(member *Member, tags map[string]string) {
	signature := member.Signature()
	if signature == nil || member.Feature != facet.FeatureAction {
		return
	}
	if member.Source == SourceMixin {
		tags, _ = memberTags(member.Mixin.Type)
	}
	goName := member.Name
	if member.Source == SourceMixin {
		goName = member.Mixin.Main.Name
	}
	for i := 1; i < signature.NumIn(); i++ {
		index := i - 1
		member.Params = append(member.Params, &Param{
			ID:    ParamID(member.ID, index),
			Index: index,
			Type:  signature.In(i),
			Tag:   reflect.StructTag(tags[ParamKey(goName, index)]),
		})
	}
}
