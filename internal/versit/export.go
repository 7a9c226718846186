package versit

import (
	"fmt"
	"strings"

	"github.com/danmuck/vcardcodec/internal/contact"
	"github.com/emersion/go-vcard"
)

// ExportHandler is invoked while a contact is exported. FieldProcessed sees
// the properties generated for one field and may append to or decorate them.
// ContactProcessed runs once the whole document has been assembled.
type ExportHandler interface {
	FieldProcessed(c *contact.Contact, f *contact.Field, doc *Document, pending *[]Property)
	ContactProcessed(c *contact.Contact, doc *Document)
}

// Exporter maps contacts onto documents.
type Exporter struct {
	handler ExportHandler
}

// NewExporter creates an exporter. h may be nil.
func NewExporter(h ExportHandler) *Exporter {
	return &Exporter{handler: h}
}

// Export maps every contact. The first failing contact aborts the batch.
func (e *Exporter) Export(contacts []*contact.Contact) ([]Document, error) {
	docs := make([]Document, 0, len(contacts))
	for i, c := range contacts {
		doc, err := e.exportContact(i, c)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (e *Exporter) exportContact(index int, c *contact.Contact) (Document, error) {
	if c == nil {
		return Document{}, fmt.Errorf("%w: document %d", ErrNilContact, index)
	}
	if len(c.Fields) == 0 {
		return Document{}, fmt.Errorf("%w: document %d", ErrEmptyContact, index)
	}

	var doc Document
	for _, f := range c.Fields {
		if f == nil || f.Value == nil {
			return Document{}, PropertyError{Index: index, Reason: "field has no value"}
		}
		pending := exportValue(f.Value)
		if e.handler != nil {
			e.handler.FieldProcessed(c, f, &doc, &pending)
		}
		doc.Properties = append(doc.Properties, pending...)
	}
	if e.handler != nil {
		e.handler.ContactProcessed(c, &doc)
	}
	return doc, nil
}

func exportValue(v contact.Value) []Property {
	switch v := v.(type) {
	case contact.Name:
		return one(NewProperty(vcard.FieldName, joinStructured(v.Family, v.Given, v.Middle, v.Prefix, v.Suffix)))
	case contact.DisplayLabel:
		return one(NewProperty(vcard.FieldFormattedName, v.Label))
	case contact.PhoneNumber:
		p := NewProperty(vcard.FieldTelephone, v.Number)
		addTypes(&p, v.Subtypes)
		addTypes(&p, v.Contexts)
		return one(p)
	case contact.EmailAddress:
		p := NewProperty(vcard.FieldEmail, v.Address)
		addTypes(&p, v.Contexts)
		return one(p)
	case contact.Address:
		p := NewProperty(vcard.FieldAddress, joinStructured(
			v.POBox, v.Extended, v.Street, v.Locality, v.Region, v.PostalCode, v.Country,
		))
		addTypes(&p, v.Contexts)
		return one(p)
	case contact.Organization:
		return one(NewProperty(vcard.FieldOrganization, joinStructured(append([]string{v.Name}, v.Units...)...)))
	case contact.Note:
		return one(NewProperty(vcard.FieldNote, v.Text))
	case contact.OnlineAccount:
		p := NewProperty(vcard.FieldIMPP, v.URI)
		if v.Protocol != "" {
			p.AddParam(ParamServiceType, v.Protocol)
		}
		return one(p)
	case contact.URL:
		return one(NewProperty(vcard.FieldURL, v.URL))
	case contact.Avatar:
		return one(NewProperty(vcard.FieldPhoto, v.ImageURL))
	case contact.SyncTarget:
		return one(NewProperty(PropertyExtendedDetail, joinStructured("SyncTarget", v.Value)))
	case contact.Tag:
		return one(NewProperty(PropertyExtendedDetail, joinStructured("Tag", v.Value)))
	case contact.Extended:
		name := strings.ToUpper(strings.TrimSpace(v.Name))
		if name == "" {
			return nil
		}
		return one(Property{Name: name, Group: v.Group, Value: v.Value, Params: cloneParams(v.Params)})
	default:
		return nil
	}
}

func one(p Property) []Property {
	return []Property{p}
}

func addTypes(p *Property, types []string) {
	for _, t := range types {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		p.AddParam(ParamType, strings.ToUpper(t))
	}
}

// joinStructured joins the components of a structured value. Trailing empty
// components are kept so component positions survive a round trip.
func joinStructured(parts ...string) string {
	return strings.Join(parts, ";")
}
