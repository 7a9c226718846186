package versit

import (
	"fmt"
	"io"

	"github.com/emersion/go-vcard"
)

// WriteDocuments writes docs to w as one concatenated stream.
func WriteDocuments(w io.Writer, docs []Document, version string) error {
	if !ValidVersion(version) {
		return fmt.Errorf("%w: %q", ErrVersion, version)
	}
	enc := vcard.NewEncoder(w)
	for i, doc := range docs {
		if err := enc.Encode(doc.card(version)); err != nil {
			return fmt.Errorf("versit: write document %d: %w", i, err)
		}
	}
	return nil
}
