package versit

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-vcard"
)

// JoinRecords concatenates text records into one CRLF separated stream.
// Surrounding blank lines are trimmed so the stream carries none between
// records.
func JoinRecords(records []string) []byte {
	var buf bytes.Buffer
	for _, rec := range records {
		rec = strings.Trim(rec, "\r\n\t ")
		if rec == "" {
			continue
		}
		buf.WriteString(rec)
		buf.WriteString("\r\n")
	}
	return buf.Bytes()
}

// ReadDocuments reads every record in data. Any malformed record fails the
// whole read. Properties keep the order they have in the stream.
func ReadDocuments(data []byte) ([]Document, error) {
	var docs []Document
	for i, chunk := range Split(data) {
		card, err := vcard.NewDecoder(bytes.NewReader(chunk)).Decode()
		if errors.Is(err, io.EOF) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: document %d: %v", ErrMalformed, i, err)
		}
		docs = append(docs, documentFromCard(card, propertyOrder(chunk)))
	}
	return docs, nil
}

// propertyOrder lists the property names of one record in stream order,
// resolving names the way the go-vcard decoder does. Folded continuation
// lines belong to the line before them.
func propertyOrder(record []byte) []string {
	var names []string
	for _, line := range strings.Split(string(record), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || line[0] == ' ' || line[0] == '\t' {
			continue
		}
		if i := strings.IndexAny(line, ".;:"); i >= 0 && line[i] == '.' {
			line = line[i+1:]
		}
		i := strings.IndexAny(line, ";:")
		if i < 0 {
			continue
		}
		names = append(names, strings.ToUpper(line[:i]))
	}
	return names
}
