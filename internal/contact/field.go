package contact

import "strings"

// Kind identifies the variant carried by a Field.
type Kind int

const (
	KindUnknown Kind = iota
	KindName
	KindDisplayLabel
	KindPhoneNumber
	KindEmailAddress
	KindAddress
	KindOrganization
	KindNote
	KindOnlineAccount
	KindURL
	KindAvatar
	KindSyncTarget
	KindTag
	KindExtended
)

var kindNames = map[Kind]string{
	KindName:          "name",
	KindDisplayLabel:  "display_label",
	KindPhoneNumber:   "phone_number",
	KindEmailAddress:  "email_address",
	KindAddress:       "address",
	KindOrganization:  "organization",
	KindNote:          "note",
	KindOnlineAccount: "online_account",
	KindURL:           "url",
	KindAvatar:        "avatar",
	KindSyncTarget:    "sync_target",
	KindTag:           "tag",
	KindExtended:      "extended",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Access is the set of access constraints carried by a field.
type Access uint8

const (
	ReadOnly Access = 1 << iota
	Irremovable
)

// Has reports whether every flag in want is set.
func (a Access) Has(want Access) bool {
	return a&want == want
}

func (a Access) String() string {
	var parts []string
	if a.Has(ReadOnly) {
		parts = append(parts, "read_only")
	}
	if a.Has(Irremovable) {
		parts = append(parts, "irremovable")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Value is the kind-specific payload of a Field. The set of implementations is
// closed to this package.
type Value interface {
	Kind() Kind
	isValue()
}

type Name struct {
	Family string
	Given  string
	Middle string
	Prefix string
	Suffix string
}

type DisplayLabel struct {
	Label string
}

// PhoneNumber carries subtypes (cell, fax, voice, ...) and contexts
// (home, work) separately. A nil Subtypes slice means no subtype attribute.
type PhoneNumber struct {
	Number   string
	Subtypes []string
	Contexts []string
}

type EmailAddress struct {
	Address  string
	Contexts []string
}

type Address struct {
	POBox      string
	Extended   string
	Street     string
	Locality   string
	Region     string
	PostalCode string
	Country    string
	Contexts   []string
}

type Organization struct {
	Name  string
	Units []string
}

type Note struct {
	Text string
}

type OnlineAccount struct {
	URI      string
	Protocol string
}

type URL struct {
	URL string
}

type Avatar struct {
	ImageURL string
}

// SyncTarget is the provenance tag naming the source a contact came from.
type SyncTarget struct {
	Value string
}

type Tag struct {
	Value string
}

// Extended holds a property with no structured mapping so it survives a
// decode/encode cycle untouched.
type Extended struct {
	Name   string
	Group  string
	Value  string
	Params map[string][]string
}

func (Name) Kind() Kind          { return KindName }
func (DisplayLabel) Kind() Kind  { return KindDisplayLabel }
func (PhoneNumber) Kind() Kind   { return KindPhoneNumber }
func (EmailAddress) Kind() Kind  { return KindEmailAddress }
func (Address) Kind() Kind       { return KindAddress }
func (Organization) Kind() Kind  { return KindOrganization }
func (Note) Kind() Kind          { return KindNote }
func (OnlineAccount) Kind() Kind { return KindOnlineAccount }
func (URL) Kind() Kind           { return KindURL }
func (Avatar) Kind() Kind        { return KindAvatar }
func (SyncTarget) Kind() Kind    { return KindSyncTarget }
func (Tag) Kind() Kind           { return KindTag }
func (Extended) Kind() Kind      { return KindExtended }

func (Name) isValue()          {}
func (DisplayLabel) isValue()  {}
func (PhoneNumber) isValue()   {}
func (EmailAddress) isValue()  {}
func (Address) isValue()       {}
func (Organization) isValue()  {}
func (Note) isValue()          {}
func (OnlineAccount) isValue() {}
func (URL) isValue()           {}
func (Avatar) isValue()        {}
func (SyncTarget) isValue()    {}
func (Tag) isValue()           {}
func (Extended) isValue()      {}

// Field is one structured attribute of a contact.
type Field struct {
	DetailURI string
	Access    Access
	Value     Value
}

// NewField wraps v in a Field with no metadata.
func NewField(v Value) *Field {
	return &Field{Value: v}
}

// Kind returns the kind of the field value, or KindUnknown for an empty field.
func (f *Field) Kind() Kind {
	if f == nil || f.Value == nil {
		return KindUnknown
	}
	return f.Value.Kind()
}
