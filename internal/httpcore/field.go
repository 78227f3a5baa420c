package httpcore

import "strings"

// Comment is one RFC 9110 §5.6.5 comment. Comments may nest; Children
// preserves that tree even though most fields never inspect it.
type Comment struct {
	Text     string
	Children []Comment
}

// Parameter is either {Name, Value} (from "name=token" or "name=\"quoted\"")
// or a bare {Name} attribute with no '=', per spec.md §3. HasValue
// distinguishes the two.
type Parameter struct {
	Name     string
	Value    string
	HasValue bool
}

// Element is one structured item within a field value, spec.md §3/§GLOSSARY.
type Element struct {
	Value    string // optional: token or the unquoted, escape-resolved interior of a quoted-string
	HasValue bool
	Params   []Parameter
	Comments []Comment
}

// Param looks up the first parameter named name (case-insensitive), the way
// callers usually want to read a single "charset=" or "q=" parameter.
func (e Element) Param(name string) (Parameter, bool) {
	for _, p := range e.Params {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Parameter{}, false
}

// Field is the parse tree of one header (or trailer) name, potentially
// received multiple times. unvalidated holds every value exactly as
// received; raw and elements are computed together, lazily, and memoized
// on first observation — spec.md §3's Field invariant.
type Field struct {
	unvalidated []string
	raw         []string
	elements    []Element
	parsed      bool
}

func (f *Field) addValue(v string) { f.unvalidated = append(f.unvalidated, v) }

// Unvalidated returns every value exactly as received, in arrival order.
func (f *Field) Unvalidated() []string { return f.unvalidated }

func (f *Field) ensureParsed(cfg Config) {
	if f.parsed {
		return
	}
	f.parsed = true
	for _, v := range f.unvalidated {
		elems, ok := ParseFieldValue(v, cfg)
		if !ok {
			continue // lexer rejection: drop this value from both raw and elements
		}
		f.raw = append(f.raw, v)
		f.elements = append(f.elements, elems...)
	}
}

// Raw returns the values that passed lexer validation, in arrival order.
func (f *Field) Raw(cfg Config) []string {
	f.ensureParsed(cfg)
	return f.raw
}

// Elements returns the elements aggregated, in arrival order, across every
// accepted value — spec.md invariant I3.
func (f *Field) Elements(cfg Config) []Element {
	f.ensureParsed(cfg)
	return f.elements
}

// Concat joins Raw with sep, the field store's most forgiving accessor.
func (f *Field) Concat(sep string, cfg Config) string {
	return strings.Join(f.Raw(cfg), sep)
}

// ContainsValue reports whether any element's Value equals v.
func (f *Field) ContainsValue(v string, cfg Config) bool {
	for _, e := range f.Elements(cfg) {
		if e.HasValue && e.Value == v {
			return true
		}
	}
	return false
}

// FindElements returns every element whose Value equals v.
func (f *Field) FindElements(v string, cfg Config) []Element {
	var out []Element
	for _, e := range f.Elements(cfg) {
		if e.HasValue && e.Value == v {
			out = append(out, e)
		}
	}
	return out
}

// FieldStore is a case-insensitive map of field name -> Field, used for
// both Request.headers and Request.trailers (spec.md §3).
type FieldStore struct {
	byName map[string]*Field
	order  []string // first-seen lowercase names, for deterministic iteration
}

// NewFieldStore returns an empty store.
func NewFieldStore() *FieldStore {
	return &FieldStore{byName: make(map[string]*Field)}
}

// Add appends value to the field named name, creating the Field on first
// use. name is lowercased for storage, per spec.md §9 ("Storage key is
// lowercased").
func (s *FieldStore) Add(name, value string) {
	key := strings.ToLower(name)
	f, ok := s.byName[key]
	if !ok {
		f = &Field{}
		s.byName[key] = f
		s.order = append(s.order, key)
	}
	f.addValue(value)
}

// Get looks up a field by name, case-insensitively.
func (s *FieldStore) Get(name string) (*Field, bool) {
	f, ok := s.byName[strings.ToLower(name)]
	return f, ok
}

// Names returns every field name in first-seen order.
func (s *FieldStore) Names() []string { return s.order }

// Has reports whether name was received at all.
func (s *FieldStore) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}
