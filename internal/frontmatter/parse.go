package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
)

const delimiter = "---"

var errRecordTarget = errors.New("frontmatter: unmarshal target must be *Record")

var headerFormat = frontmatter.NewFormat(delimiter, delimiter, unmarshalHeader)

// Parse splits a markdown document into its header record and body. Documents
// without a closed `---` header yield an empty record and the full source as
// body.
func Parse(source []byte) (Record, []byte, error) {
	normalized := bytes.ReplaceAll(source, []byte("\r\n"), []byte("\n"))
	if !hasHeader(normalized) {
		return Record{}, normalized, nil
	}

	record := Record{}
	body, err := frontmatter.Parse(bytes.NewReader(normalized), &record, headerFormat)
	if err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return record, body, nil
}

// ParseHeader runs the header state machine over the lines between the
// delimiters.
func ParseHeader(header string) Record {
	m := newMachine()
	for _, line := range strings.Split(header, "\n") {
		m.feed(strings.TrimRight(line, "\r"))
	}
	return m.finish()
}

func unmarshalHeader(data []byte, v any) error {
	target, ok := v.(*Record)
	if !ok || target == nil {
		return errRecordTarget
	}
	if *target == nil {
		*target = Record{}
	}
	for key, value := range ParseHeader(string(data)) {
		(*target)[key] = value
	}
	return nil
}

func hasHeader(source []byte) bool {
	if !bytes.HasPrefix(source, []byte(delimiter+"\n")) {
		return false
	}
	rest := source[len(delimiter)+1:]
	for _, line := range bytes.Split(rest, []byte("\n")) {
		if string(bytes.TrimRight(line, " \t")) == delimiter {
			return true
		}
	}
	return false
}
