package semantics

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Triple is one (subject, predicate, object) fact record representing a
// unit of extracted user knowledge. All three fields are plain text and
// non-empty after decoding.
type Triple struct {
	Subject   string
	Predicate string
	Object    string
}

// SerializeTriples encodes triples as JSON Lines: one JSON array
// ["subject","predicate","object"] per line.
//
// The newline-delimited layout keeps the stored object streamable and
// append-friendly even though saves here replace the object wholesale.
func SerializeTriples(triples []Triple) ([]byte, error) {
	var buf bytes.Buffer
	for i, t := range triples {
		line, err := json.Marshal([3]string{t.Subject, t.Predicate, t.Object})
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(line)
	}
	return buf.Bytes(), nil
}

// ParseTriples decodes JSON Lines bytes into triples.
//
// Blank lines are ignored. A line that does not decode into exactly three
// non-empty text fields is skipped rather than failing the whole payload,
// so one corrupted line cannot lose the rest of the dataset. The second
// return value is the number of skipped malformed lines, for callers that
// want to surface the loss diagnostically.
func ParseTriples(raw []byte) ([]Triple, int) {
	triples := []Triple{}
	skipped := 0

	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var fields []string
		if err := json.Unmarshal([]byte(line), &fields); err != nil {
			skipped++
			continue
		}
		if len(fields) != 3 || fields[0] == "" || fields[1] == "" || fields[2] == "" {
			skipped++
			continue
		}
		triples = append(triples, Triple{
			Subject:   fields[0],
			Predicate: fields[1],
			Object:    fields[2],
		})
	}
	return triples, skipped
}
