package versit

import (
	"fmt"
	"strings"

	"github.com/danmuck/vcardcodec/internal/contact"
	"github.com/emersion/go-vcard"
)

// ImportHandler is invoked while documents are imported. PropertyProcessed
// runs once per property after the generic mapping; consumed reports whether
// a field was already produced and updated holds the fields about to be
// attached. DocumentProcessed runs once the contact is complete.
type ImportHandler interface {
	PropertyProcessed(doc *Document, p *Property, c *contact.Contact, consumed *bool, updated *[]*contact.Field)
	DocumentProcessed(doc *Document, c *contact.Contact)
}

// Importer maps documents onto contacts. Fields follow the property order of
// their document.
type Importer struct {
	handler ImportHandler
}

// NewImporter creates an importer. h may be nil.
func NewImporter(h ImportHandler) *Importer {
	return &Importer{handler: h}
}

// Import maps every document. An empty document aborts the batch.
func (im *Importer) Import(docs []Document) ([]*contact.Contact, error) {
	out := make([]*contact.Contact, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		if len(doc.Properties) == 0 {
			return nil, fmt.Errorf("%w: document %d has no properties", ErrMalformed, i)
		}
		out = append(out, im.importDocument(doc))
	}
	return out, nil
}

func (im *Importer) importDocument(doc *Document) *contact.Contact {
	c := contact.New()
	for i := range doc.Properties {
		p := &doc.Properties[i]
		var updated []*contact.Field
		if f := importProperty(*p); f != nil {
			updated = append(updated, f)
		}
		consumed := len(updated) > 0
		if im.handler != nil {
			im.handler.PropertyProcessed(doc, p, c, &consumed, &updated)
		}
		if !consumed {
			updated = append(updated, contact.NewField(passthrough(*p)))
		}
		for _, f := range updated {
			c.AddField(f)
		}
	}
	if im.handler != nil {
		im.handler.DocumentProcessed(doc, c)
	}
	return c
}

func importProperty(p Property) *contact.Field {
	var v contact.Value
	switch p.Name {
	case vcard.FieldName:
		parts := splitStructured(p.Value, 5)
		v = contact.Name{Family: parts[0], Given: parts[1], Middle: parts[2], Prefix: parts[3], Suffix: parts[4]}
	case vcard.FieldFormattedName:
		v = contact.DisplayLabel{Label: p.Value}
	case vcard.FieldTelephone:
		subtypes, contexts := splitTypes(p)
		v = contact.PhoneNumber{Number: p.Value, Subtypes: subtypes, Contexts: contexts}
	case vcard.FieldEmail:
		_, contexts := splitTypes(p)
		v = contact.EmailAddress{Address: p.Value, Contexts: contexts}
	case vcard.FieldAddress:
		parts := splitStructured(p.Value, 7)
		_, contexts := splitTypes(p)
		v = contact.Address{
			POBox:      parts[0],
			Extended:   parts[1],
			Street:     parts[2],
			Locality:   parts[3],
			Region:     parts[4],
			PostalCode: parts[5],
			Country:    parts[6],
			Contexts:   contexts,
		}
	case vcard.FieldOrganization:
		parts := strings.Split(p.Value, ";")
		org := contact.Organization{Name: parts[0]}
		if len(parts) > 1 {
			org.Units = parts[1:]
		}
		v = org
	case vcard.FieldNote:
		v = contact.Note{Text: p.Value}
	case vcard.FieldIMPP:
		v = contact.OnlineAccount{URI: p.Value, Protocol: p.Param(ParamServiceType)}
	case vcard.FieldURL:
		v = contact.URL{URL: p.Value}
	case vcard.FieldPhoto:
		v = contact.Avatar{ImageURL: p.Value}
	default:
		return nil
	}
	return contact.NewField(v)
}

func passthrough(p Property) contact.Extended {
	return contact.Extended{
		Name:   p.Name,
		Group:  p.Group,
		Value:  p.Value,
		Params: cloneParams(p.Params),
	}
}

var contextTypes = map[string]bool{
	"home": true,
	"work": true,
}

// splitTypes separates TYPE values into subtypes and contexts. The vCard 3.0
// "pref" type is dropped; preference travels in the PREF parameter. Subtypes
// is never nil so callers can tell "no subtype" apart from "not mapped".
func splitTypes(p Property) (subtypes, contexts []string) {
	subtypes = []string{}
	if p.Params == nil {
		return subtypes, nil
	}
	for _, raw := range p.Params[ParamType] {
		for _, t := range strings.Split(raw, ",") {
			t = strings.ToLower(strings.TrimSpace(t))
			switch {
			case t == "" || t == "pref":
			case contextTypes[t]:
				contexts = append(contexts, t)
			default:
				subtypes = append(subtypes, t)
			}
		}
	}
	return subtypes, contexts
}

func splitStructured(value string, n int) []string {
	parts := strings.SplitN(value, ";", n)
	for len(parts) < n {
		parts = append(parts, "")
	}
	return parts
}
