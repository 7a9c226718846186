package parser

import (
	"github.com/danmuck/vcardcodec/internal/contact"
	"github.com/danmuck/vcardcodec/internal/versit"
)

// ImportHandler rebuilds extension fields and metadata while documents are
// imported. It holds per-document state and must not be shared between
// concurrent imports.
type ImportHandler struct {
	actions *contact.ActionTable
	// last phone seen with PREF in the current document
	pendingPhone *contact.Field
}

// NewImportHandler uses DefaultActions when actions is nil.
func NewImportHandler(actions *contact.ActionTable) *ImportHandler {
	if actions == nil {
		actions = contact.DefaultActions()
	}
	return &ImportHandler{actions: actions}
}

// PropertyProcessed rebuilds extension fields and copies metadata onto the
// field produced for p.
func (h *ImportHandler) PropertyProcessed(_ *versit.Document, p *versit.Property, _ *contact.Contact, consumed *bool, updated *[]*contact.Field) {
	if !*consumed && p.Name == versit.PropertyClientPIDMap {
		*updated = append(*updated, contact.NewField(contact.SyncTarget{Value: p.Value}))
		*consumed = true
	}
	if !*consumed && p.Name == versit.PropertyTag {
		*updated = append(*updated, contact.NewField(contact.Tag{Value: p.Value}))
		*consumed = true
	}
	if !*consumed || len(*updated) == 0 {
		return
	}

	f := (*updated)[len(*updated)-1]
	if pid := p.Param(versit.ParamPID); pid != "" {
		f.DetailURI = pid
	}
	f.Access = accessFromParams(*p)

	switch v := f.Value.(type) {
	case contact.PhoneNumber:
		if len(v.Subtypes) == 0 {
			v.Subtypes = nil
			f.Value = v
		}
		if p.HasParam(versit.ParamPreferred) {
			h.pendingPhone = f
		}
	case contact.Avatar:
		if p.Param(versit.ParamValue) == valueURL {
			v.ImageURL = p.Value
			f.Value = v
		}
	}
}

// DocumentProcessed installs the pending preferred phone and resets state for
// the next document.
func (h *ImportHandler) DocumentProcessed(_ *versit.Document, c *contact.Contact) {
	if h.pendingPhone == nil {
		return
	}
	c.SetPreferredFor(h.actions, contact.KindPhoneNumber, h.pendingPhone)
	h.pendingPhone = nil
}

func accessFromParams(p versit.Property) contact.Access {
	readOnly := p.ParamOr(versit.ParamReadOnly, flagNo) == flagYes
	irremovable := p.ParamOr(versit.ParamIrremovable, flagNo) == flagYes
	switch {
	case readOnly && irremovable:
		return contact.ReadOnly | contact.Irremovable
	case readOnly:
		return contact.ReadOnly
	case irremovable:
		return contact.Irremovable
	default:
		return 0
	}
}
