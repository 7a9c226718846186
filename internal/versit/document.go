package versit

import (
	"sort"
	"strings"

	"github.com/emersion/go-vcard"
)

// Extension vocabulary layered on top of the base vCard properties.
const (
	PropertyClientPIDMap   = vcard.FieldClientPIDMap
	PropertyTag            = "TAG"
	PropertyExtendedDetail = "X-EXTENDED-DETAIL"

	ParamPID         = vcard.ParamPID
	ParamPreferred   = vcard.ParamPreferred
	ParamReadOnly    = "READ-ONLY"
	ParamIrremovable = "IRREMOVABLE"
	ParamValue       = vcard.ParamValue
	ParamType        = vcard.ParamType
	ParamServiceType = "X-SERVICE-TYPE"
)

// Supported document versions.
const (
	Version30 = "3.0"
	Version40 = "4.0"
)

// ValidVersion reports whether v can be written.
func ValidVersion(v string) bool {
	return v == Version30 || v == Version40
}

// Property is one line of a record. Params is a multimap: keys may carry
// several values.
type Property struct {
	Name   string
	Group  string
	Value  string
	Params vcard.Params
}

// NewProperty creates a property with an empty parameter set.
func NewProperty(name, value string) Property {
	return Property{Name: name, Value: value, Params: make(vcard.Params)}
}

// Param returns the first value of k, or "".
func (p Property) Param(k string) string {
	if p.Params == nil {
		return ""
	}
	return p.Params.Get(k)
}

// ParamOr returns the first value of k, or fallback when k is absent.
func (p Property) ParamOr(k, fallback string) string {
	if !p.HasParam(k) {
		return fallback
	}
	return p.Param(k)
}

// HasParam reports whether k is present, whatever its value.
func (p Property) HasParam(k string) bool {
	if p.Params == nil {
		return false
	}
	_, ok := p.Params[k]
	return ok
}

// AddParam inserts v under k, keeping existing values.
func (p *Property) AddParam(k, v string) {
	if p.Params == nil {
		p.Params = make(vcard.Params)
	}
	p.Params.Add(k, v)
}

// SetParam replaces all values of k with v.
func (p *Property) SetParam(k, v string) {
	if p.Params == nil {
		p.Params = make(vcard.Params)
	}
	p.Params.Set(k, v)
}

// Document is one record: an ordered list of properties.
type Document struct {
	Version    string
	Properties []Property
}

// Add appends p.
func (d *Document) Add(p Property) {
	d.Properties = append(d.Properties, p)
}

// PropertiesNamed returns the properties called name in document order.
func (d Document) PropertiesNamed(name string) []Property {
	var out []Property
	for _, p := range d.Properties {
		if p.Name == name {
			out = append(out, p)
		}
	}
	return out
}

// RemoveProperties drops every property called name and returns the count.
func (d *Document) RemoveProperties(name string) int {
	kept := d.Properties[:0]
	removed := 0
	for _, p := range d.Properties {
		if p.Name == name {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	d.Properties = kept
	return removed
}

func (d Document) card(version string) vcard.Card {
	card := make(vcard.Card)
	card.SetValue(vcard.FieldVersion, version)
	for _, p := range d.Properties {
		card.Add(p.Name, &vcard.Field{
			Value:  p.Value,
			Params: writeParams(p.Params),
			Group:  p.Group,
		})
	}
	return card
}

// documentFromCard flattens a decoded card. go-vcard keys cards by name, so
// order carries the property names in stream order; properties it does not
// account for follow in lexical name order.
func documentFromCard(card vcard.Card, order []string) Document {
	doc := Document{Version: card.Value(vcard.FieldVersion)}
	used := make(map[string]int, len(card))
	add := func(name string, f *vcard.Field) {
		if f == nil {
			return
		}
		doc.Properties = append(doc.Properties, Property{
			Name:   strings.ToUpper(name),
			Group:  f.Group,
			Value:  f.Value,
			Params: readParams(f.Params),
		})
	}

	for _, name := range order {
		fields := card[name]
		if name == vcard.FieldVersion || used[name] >= len(fields) {
			continue
		}
		add(name, fields[used[name]])
		used[name]++
	}

	names := make([]string, 0, len(card))
	for name := range card {
		if name == vcard.FieldVersion || used[name] >= len(card[name]) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, f := range card[name][used[name]:] {
			add(name, f)
		}
	}
	return doc
}

func cloneParams(in map[string][]string) vcard.Params {
	if len(in) == 0 {
		return nil
	}
	out := make(vcard.Params, len(in))
	for k, vs := range in {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// go-vcard escapes ',' as "\," even inside quotes, where its decoder rejects
// the sequence, and splits every parameter value on ','. PID values are
// opaque, so the bytes it cannot carry are percent-escaped.
var (
	pidEscaper = strings.NewReplacer(
		"%", "%25",
		",", "%2C",
		"\"", "%22",
		"\\", "%5C",
		"\r", "%0D",
		"\n", "%0A",
	)
	pidUnescaper = strings.NewReplacer(
		"%25", "%",
		"%2C", ",", "%2c", ",",
		"%22", "\"",
		"%5C", "\\", "%5c", "\\",
		"%0D", "\r", "%0d", "\r",
		"%0A", "\n", "%0a", "\n",
	)
)

// writeParams prepares params for the go-vcard encoder. Values holding ':' or
// ';' are quoted so they do not end the parameter list.
func writeParams(in vcard.Params) vcard.Params {
	out := cloneParams(in)
	for k, vs := range out {
		for i, v := range vs {
			if k == ParamPID {
				v = pidEscaper.Replace(v)
			}
			vs[i] = quoteParam(v)
		}
	}
	return out
}

func quoteParam(v string) string {
	if !strings.ContainsAny(v, ":;") || strings.ContainsAny(v, ",\"\\\r\n") {
		return v
	}
	return `"` + v + `"`
}

// readParams reverses writeParams. A PID split on ',' by the decoder is
// joined back into one value.
func readParams(in vcard.Params) vcard.Params {
	out := cloneParams(in)
	if vs, ok := out[ParamPID]; ok && len(vs) > 0 {
		out[ParamPID] = []string{pidUnescaper.Replace(strings.Join(vs, ","))}
	}
	return out
}
