package decode

import "strings"

// AttrDescriptor describes one attribute declared for an object kind in
// the SCD (semantic schema) file.
type AttrDescriptor struct {
	Name string
	Type string // raw SCD type tag, e.g. "A" (ascii), "R" (real), "I" (integer)
}

// Schema is the set of object kinds and their attribute descriptors
// declared by one sheet's SCD file (spec §4.3).
type Schema struct {
	Kinds map[string][]AttrDescriptor
}

// ParseSCD builds a Schema from an SCD file's token stream. Each "OBJ"
// record opens a kind (value = kind name); subsequent "ATT" records
// (value = "NAME:TYPE") describe its attributes until the next "OBJ".
func ParseSCD(tokens []Token) *Schema {
	schema := &Schema{Kinds: make(map[string][]AttrDescriptor)}

	var currentKind string
	for _, tok := range tokens {
		switch tok.Tag {
		case "OBJ":
			currentKind = strings.TrimSpace(string(tok.Value))
			if _, ok := schema.Kinds[currentKind]; !ok {
				schema.Kinds[currentKind] = nil
			}
		case "ATT":
			if currentKind == "" {
				continue
			}
			name, typ, ok := strings.Cut(strings.TrimSpace(string(tok.Value)), ":")
			if !ok {
				continue
			}
			schema.Kinds[currentKind] = append(schema.Kinds[currentKind], AttrDescriptor{Name: name, Type: typ})
		}
	}

	return schema
}

// HasKind reports whether the schema declares the given object kind.
func (s *Schema) HasKind(kind string) bool {
	_, ok := s.Kinds[kind]
	return ok
}
