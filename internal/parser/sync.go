package parser

import "github.com/danmuck/vcardcodec/internal/contact"

// DecodeSync decodes records on a throwaway parser with DefaultConfig.
func DecodeSync(records []string) ([]*contact.Contact, error) {
	p := New(DefaultConfig())
	defer p.Close()
	return p.DecodeSync(records)
}

// DecodeOne decodes a single record. It returns nil when the record holds no
// contact.
func DecodeOne(record string) (*contact.Contact, error) {
	contacts, err := DecodeSync([]string{record})
	if err != nil || len(contacts) == 0 {
		return nil, err
	}
	return contacts[0], nil
}

// EncodeSync encodes contacts on a throwaway parser with DefaultConfig.
func EncodeSync(contacts []*contact.Contact) ([]string, error) {
	p := New(DefaultConfig())
	defer p.Close()
	return p.EncodeSync(contacts)
}

// EncodeOne encodes a single contact. It returns "" when nothing was written.
func EncodeOne(c *contact.Contact) (string, error) {
	records, err := EncodeSync([]*contact.Contact{c})
	if err != nil || len(records) == 0 {
		return "", err
	}
	return records[0], nil
}
