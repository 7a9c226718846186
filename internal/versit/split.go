package versit

import "bytes"

// BeginMarker starts every record in a stream.
const BeginMarker = "BEGIN:VCARD"

var beginMarker = []byte(BeginMarker)

// Split segments a concatenated stream into one chunk per BeginMarker. Chunk
// i runs from marker i up to marker i+1 or the end of blob. Bytes ahead of the
// first marker belong to no chunk. A blob with no marker is returned whole.
func Split(blob []byte) [][]byte {
	if len(blob) == 0 {
		return nil
	}
	start := bytes.Index(blob, beginMarker)
	if start < 0 {
		return [][]byte{blob}
	}

	var out [][]byte
	for start < len(blob) {
		end := len(blob)
		if pos := bytes.Index(blob[start+1:], beginMarker); pos >= 0 {
			end = start + 1 + pos
		}
		out = append(out, blob[start:end])
		start = end
	}
	return out
}

// SplitString is Split over text records.
func SplitString(blob string) []string {
	chunks := Split([]byte(blob))
	if len(chunks) == 0 {
		return nil
	}
	out := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		out = append(out, string(chunk))
	}
	return out
}
