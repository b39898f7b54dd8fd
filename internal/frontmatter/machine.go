package frontmatter

import (
	"regexp"
	"strings"
)

type state int

const (
	stateScalar state = iota
	stateArray
	stateBlock
)

func (s state) String() string {
	switch s {
	case stateArray:
		return "array"
	case stateBlock:
		return "block"
	default:
		return "scalar"
	}
}

var (
	keyValuePattern = regexp.MustCompile(`^(\w+)\s*:\s*(.*)$`)
	listItemPattern = regexp.MustCompile(`^\s*-\s+(.*)$`)
	blockIndent     = regexp.MustCompile(`^\s{2}`)
)

// machine consumes header lines one at a time. Every state change goes through
// feed or finish so that accumulated lists and blocks are always flushed.
type machine struct {
	state  state
	key    string
	items  []string
	lines  []string
	record Record
}

func newMachine() *machine {
	return &machine{record: Record{}}
}

func (m *machine) feed(line string) {
	switch m.state {
	case stateBlock:
		if blockIndent.MatchString(line) || strings.TrimSpace(line) == "" {
			m.lines = append(m.lines, strings.TrimPrefix(line, "  "))
			return
		}
		m.flush()
	case stateArray:
		if match := listItemPattern.FindStringSubmatch(line); match != nil {
			m.items = append(m.items, unquote(strings.TrimSpace(match[1])))
			return
		}
		m.flush()
	}
	m.scalar(line)
}

// finish is the end-of-header transition.
func (m *machine) finish() Record {
	m.flush()
	return m.record
}

func (m *machine) scalar(line string) {
	match := keyValuePattern.FindStringSubmatch(line)
	if match == nil {
		return
	}
	key, raw := match[1], strings.TrimSpace(match[2])

	switch {
	case raw == "|" || raw == ">":
		m.state = stateBlock
		m.key = key
		m.lines = nil
	case raw == "":
		m.state = stateArray
		m.key = key
		m.items = []string{}
	default:
		value := unquote(raw)
		if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
			m.record[key] = Value{Kind: KindList, Items: splitInline(value[1 : len(value)-1])}
			return
		}
		m.record[key] = Value{Kind: KindScalar, Text: value}
	}
}

func (m *machine) flush() {
	switch m.state {
	case stateBlock:
		m.record[m.key] = Value{Kind: KindBlock, Text: strings.TrimSpace(strings.Join(m.lines, "\n"))}
	case stateArray:
		items := m.items
		if items == nil {
			items = []string{}
		}
		m.record[m.key] = Value{Kind: KindList, Items: items}
	}
	m.state = stateScalar
	m.key = ""
	m.items = nil
	m.lines = nil
}

func splitInline(inner string) []string {
	parts := strings.Split(inner, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := unquote(strings.TrimSpace(part))
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	first, last := value[0], value[len(value)-1]
	if (first == '"' || first == '\'') && first == last {
		return value[1 : len(value)-1]
	}
	return value
}
