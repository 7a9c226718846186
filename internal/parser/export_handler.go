package parser

import (
	"net/url"

	"github.com/danmuck/vcardcodec/internal/contact"
	"github.com/danmuck/vcardcodec/internal/versit"
)

const (
	flagYes       = "YES"
	flagNo        = "NO"
	preferredMark = "1"
	valueURL      = "URL"
)

// ExportHandler attaches extension properties and parameters while contacts
// are exported.
type ExportHandler struct {
	actions *contact.ActionTable
}

// NewExportHandler uses DefaultActions when actions is nil.
func NewExportHandler(actions *contact.ActionTable) *ExportHandler {
	if actions == nil {
		actions = contact.DefaultActions()
	}
	return &ExportHandler{actions: actions}
}

// FieldProcessed appends the extension property for f and attaches its
// metadata.
func (h *ExportHandler) FieldProcessed(c *contact.Contact, f *contact.Field, _ *versit.Document, pending *[]versit.Property) {
	target := appendExtension(f, pending)
	if target < 0 {
		return
	}
	prop := &(*pending)[target]

	if f.DetailURI != "" {
		prop.AddParam(versit.ParamPID, f.DetailURI)
	}
	if f.Access.Has(contact.ReadOnly) {
		prop.AddParam(versit.ParamReadOnly, flagYes)
	}
	if f.Access.Has(contact.Irremovable) {
		prop.AddParam(versit.ParamIrremovable, flagYes)
	}

	switch v := f.Value.(type) {
	case contact.Avatar:
		prop.SetParam(versit.ParamValue, valueURL)
		prop.Value = stripUserInfo(v.ImageURL)
	case contact.PhoneNumber:
		if c.PreferredFor(h.actions, contact.KindPhoneNumber) == f {
			prop.AddParam(versit.ParamPreferred, preferredMark)
		}
	}
}

// ContactProcessed drops the extended-detail lines the generic mapping emits
// for kinds that already travel as CLIENTPIDMAP or TAG.
func (h *ExportHandler) ContactProcessed(_ *contact.Contact, doc *versit.Document) {
	doc.RemoveProperties(versit.PropertyExtendedDetail)
}

// appendExtension appends the extension property for f, if it has one, and
// returns the index of the property metadata attaches to. -1 means the field
// produced no property at all.
func appendExtension(f *contact.Field, pending *[]versit.Property) int {
	switch v := f.Value.(type) {
	case contact.SyncTarget:
		*pending = append(*pending, versit.NewProperty(versit.PropertyClientPIDMap, v.Value))
	case contact.Tag:
		*pending = append(*pending, versit.NewProperty(versit.PropertyTag, v.Value))
	}
	return len(*pending) - 1
}

func stripUserInfo(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = nil
	return u.String()
}
