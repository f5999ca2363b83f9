package parley

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/zoobzio/sentinel"
)

func init() {
	sentinel.Tag("validate")
}

// Validator is a custom check run after a successful decode.
// It returns one Violation per rejected field, or nil.
type Validator[T any] func(v *T) []Violation

// validationPlan describes the rules for a single field.
type validationPlan struct {
	path      []fieldStep
	name      string // wire name for violations
	omitEmpty bool
	rules     []fieldRule
}

// fieldStep is one struct field hop; deref follows a pointer to a nested struct.
type fieldStep struct {
	index int
	deref bool
}

type fieldRule struct {
	name    string
	arg     string
	num     float64
	options []string
}

// taggedField is the part of a struct field the plan builder needs.
type taggedField struct {
	index []int
	rules string
	typ   reflect.Type
}

// buildValidationPlans scans T's struct tags for validate rules.
func buildValidationPlans[T any]() ([]validationPlan, string, error) {
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return nil, rt.String(), nil
	}

	meta := sentinel.Scan[T]()
	fields := make([]taggedField, 0, len(meta.Fields))
	for _, fm := range meta.Fields {
		fields = append(fields, taggedField{index: fm.Index, rules: fm.Tags["validate"], typ: fm.ReflectType})
	}

	b := planBuilder{seen: map[reflect.Type]bool{rt: true}}
	if err := b.walk(rt, fields, nil, ""); err != nil {
		return nil, meta.TypeName, err
	}
	return b.plans, meta.TypeName, nil
}

type planBuilder struct {
	plans []validationPlan
	seen  map[reflect.Type]bool
}

// walk adds plans for fields of rt and descends into nested structs,
// directly or through a pointer. Recursive types are visited once per path.
func (b *planBuilder) walk(rt reflect.Type, fields []taggedField, parent []fieldStep, prefix string) error {
	for _, f := range fields {
		sf := rt.FieldByIndex(f.index)
		name := wireName(sf)
		if name == "" {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}

		path := slices.Clone(parent)
		for _, i := range f.index {
			path = append(path, fieldStep{index: i})
		}

		if f.rules != "" && f.rules != "-" {
			plan, err := parseRules(f.rules, f.typ)
			if err != nil {
				return newConfigError(ErrInvalidTag, 0, name, err.Error())
			}
			plan.path = path
			plan.name = name
			b.plans = append(b.plans, plan)
		}

		nested, deref := f.typ, f.typ.Kind() == reflect.Pointer
		if deref {
			nested = nested.Elem()
		}
		if nested.Kind() != reflect.Struct || b.seen[nested] {
			continue
		}
		if deref {
			path = slices.Clone(path)
			path[len(path)-1].deref = true
		}
		b.seen[nested] = true
		err := b.walk(nested, structFields(nested), path, name)
		delete(b.seen, nested)
		if err != nil {
			return err
		}
	}
	return nil
}

// structFields lists the exported fields of a nested struct type.
func structFields(rt reflect.Type) []taggedField {
	fields := make([]taggedField, 0, rt.NumField())
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		fields = append(fields, taggedField{index: sf.Index, rules: sf.Tag.Get("validate"), typ: sf.Type})
	}
	return fields
}

// wireName returns the json name of a field, its Go name when untagged, or
// "" when the field is excluded from the wire.
func wireName(sf reflect.StructField) string {
	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		return sf.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	switch name {
	case "-":
		return ""
	case "":
		return sf.Name
	default:
		return name
	}
}

// parseRules parses a validate tag such as "required,min=1,max=100".
func parseRules(tag string, typ reflect.Type) (validationPlan, error) {
	var plan validationPlan
	base := typ
	if base.Kind() == reflect.Ptr {
		base = base.Elem()
	}

	for raw := range strings.SplitSeq(tag, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		name, arg, _ := strings.Cut(raw, "=")
		r := fieldRule{name: name, arg: arg}

		switch name {
		case "omitempty":
			plan.omitEmpty = true
			continue
		case "required":
		case "min", "max", "len":
			n, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return plan, fmt.Errorf("rule %s: argument %q is not a number", name, arg)
			}
			if !measurable(base.Kind()) {
				return plan, fmt.Errorf("rule %s: unsupported kind %s", name, base.Kind())
			}
			if name == "len" && !hasLength(base.Kind()) {
				return plan, fmt.Errorf("rule len: unsupported kind %s", base.Kind())
			}
			r.num = n
		case "oneof":
			r.options = strings.Fields(arg)
			if len(r.options) == 0 {
				return plan, fmt.Errorf("rule oneof: no options")
			}
			if base.Kind() != reflect.String && !isInt(base.Kind()) && !isUint(base.Kind()) {
				return plan, fmt.Errorf("rule oneof: unsupported kind %s", base.Kind())
			}
		default:
			return plan, fmt.Errorf("unknown rule %q", name)
		}

		plan.rules = append(plan.rules, r)
	}
	return plan, nil
}

// validateFields runs the plans against rv and returns at most one
// violation per field, for its first failing rule.
func validateFields(plans []validationPlan, rv reflect.Value) []Violation {
	var out []Violation
	for _, plan := range plans {
		fv, ok := fieldAt(rv, plan.path)
		if !ok {
			// A nil parent pointer; rules on the parent decide.
			continue
		}
		if plan.omitEmpty && isEmpty(fv) {
			continue
		}
		for _, r := range plan.rules {
			if msg, ok := checkRule(r, fv); !ok {
				out = append(out, Violation{Field: plan.name, Rule: r.name, Message: msg})
				break
			}
		}
	}
	return out
}

func checkRule(r fieldRule, fv reflect.Value) (string, bool) {
	if r.name == "required" {
		return "is required", !isEmpty(fv)
	}

	if fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			// Absent optional values only fail required.
			return "", true
		}
		fv = fv.Elem()
	}

	switch r.name {
	case "min":
		if hasLength(fv.Kind()) {
			return fmt.Sprintf("length must be at least %s", r.arg), float64(length(fv)) >= r.num
		}
		return fmt.Sprintf("must be at least %s", r.arg), number(fv) >= r.num
	case "max":
		if hasLength(fv.Kind()) {
			return fmt.Sprintf("length must be at most %s", r.arg), float64(length(fv)) <= r.num
		}
		return fmt.Sprintf("must be at most %s", r.arg), number(fv) <= r.num
	case "len":
		return fmt.Sprintf("length must be %s", r.arg), float64(length(fv)) == r.num
	case "oneof":
		var s string
		switch {
		case fv.Kind() == reflect.String:
			s = fv.String()
		case isInt(fv.Kind()):
			s = strconv.FormatInt(fv.Int(), 10)
		default:
			s = strconv.FormatUint(fv.Uint(), 10)
		}
		for _, opt := range r.options {
			if s == opt {
				return "", true
			}
		}
		return fmt.Sprintf("must be one of [%s]", strings.Join(r.options, " ")), false
	}
	return "", true
}

// fieldAt follows path from rv. It reports false when a pointer on the way
// is nil.
func fieldAt(rv reflect.Value, path []fieldStep) (reflect.Value, bool) {
	for _, step := range path {
		rv = rv.Field(step.index)
		if step.deref {
			if rv.IsNil() {
				return reflect.Value{}, false
			}
			rv = rv.Elem()
		}
	}
	return rv, true
}

func isEmpty(fv reflect.Value) bool {
	switch fv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return fv.Len() == 0
	default:
		return fv.IsZero()
	}
}

func length(fv reflect.Value) int {
	if fv.Kind() == reflect.String {
		return utf8.RuneCountInString(fv.String())
	}
	return fv.Len()
}

func number(fv reflect.Value) float64 {
	switch {
	case isInt(fv.Kind()):
		return float64(fv.Int())
	case isUint(fv.Kind()):
		return float64(fv.Uint())
	default:
		return fv.Float()
	}
}

func hasLength(k reflect.Kind) bool {
	return k == reflect.String || k == reflect.Slice || k == reflect.Map || k == reflect.Array
}

func measurable(k reflect.Kind) bool {
	return hasLength(k) || isInt(k) || isUint(k) || k == reflect.Float32 || k == reflect.Float64
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}
