package template

import (
	"bytes"
	"html"
)

// tokenState is where the markup builder is in the HTML token grammar after
// the last byte written.
type tokenState uint8

const (
	stText tokenState = iota
	stTagOpen
	stTagName
	stEndTag
	stBeforeAttr
	stAttrName
	stAfterAttrName
	stBeforeValue
	stValueDouble
	stValueSingle
	stValueUnquoted
	stDecl
	stComment
)

// markup accumulates the generated HTML and tracks the tokenizer state as it
// goes, so the compiler knows whether a value lands in attribute-value
// position and which attribute it belongs to without re-reading the output.
type markup struct {
	buf   bytes.Buffer
	state tokenState

	// attrStart and attrEnd delimit the name of the attribute being read.
	attrStart, attrEnd int

	// dashes counts '-' runs for comment open and close detection.
	dashes int
	// declLen counts bytes seen since "<!".
	declLen int
}

// write appends markup text and advances the tokenizer over it.
func (m *markup) write(s string) {
	base := m.buf.Len()
	m.buf.WriteString(s)
	for i := 0; i < len(s); i++ {
		m.step(s[i], base+i)
	}
}

// writeElement appends a complete element. It does not change the state.
func (m *markup) writeElement(s string) {
	m.buf.WriteString(s)
}

// inAttrValue reports whether the next byte would start an attribute value,
// i.e. the text so far ends with `name=`.
func (m *markup) inAttrValue() bool {
	return m.state == stBeforeValue
}

// attrName returns the name of the attribute whose value comes next.
func (m *markup) attrName() string {
	return string(m.buf.Bytes()[m.attrStart:m.attrEnd])
}

// replaceAttr drops the pending `name=` and writes a complete attribute in
// its place.
func (m *markup) replaceAttr(key, val string) {
	m.buf.Truncate(m.attrStart)
	m.appendAttr(key, val)
}

// appendValue closes the pending `name=` with a quoted value followed by a
// boolean marker attribute.
func (m *markup) appendValue(val, marker string) {
	m.buf.WriteString(`"` + html.EscapeString(val) + `" ` + marker)
	m.state = stBeforeAttr
}

func (m *markup) appendAttr(key, val string) {
	m.buf.WriteString(key + `="` + html.EscapeString(val) + `"`)
	m.state = stBeforeAttr
}

func (m *markup) String() string {
	return m.buf.String()
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// step advances the state machine by one byte at offset pos.
func (m *markup) step(c byte, pos int) {
	switch m.state {
	case stText:
		if c == '<' {
			m.state = stTagOpen
		}
	case stTagOpen:
		switch {
		case isLetter(c):
			m.state = stTagName
		case c == '/':
			m.state = stEndTag
		case c == '!':
			m.state = stDecl
			m.dashes, m.declLen = 0, 0
		case c == '<':
		default:
			m.state = stText
		}
	case stTagName:
		switch {
		case isSpace(c), c == '/':
			m.state = stBeforeAttr
		case c == '>':
			m.state = stText
		}
	case stEndTag:
		if c == '>' {
			m.state = stText
		}
	case stBeforeAttr:
		switch {
		case isSpace(c), c == '/':
		case c == '>':
			m.state = stText
		default:
			m.state = stAttrName
			m.attrStart, m.attrEnd = pos, pos+1
		}
	case stAttrName:
		switch {
		case isSpace(c):
			m.state = stAfterAttrName
		case c == '/':
			m.state = stBeforeAttr
		case c == '>':
			m.state = stText
		case c == '=':
			m.state = stBeforeValue
		default:
			m.attrEnd = pos + 1
		}
	case stAfterAttrName:
		switch {
		case isSpace(c):
		case c == '/':
			m.state = stBeforeAttr
		case c == '=':
			m.state = stBeforeValue
		case c == '>':
			m.state = stText
		default:
			m.state = stAttrName
			m.attrStart, m.attrEnd = pos, pos+1
		}
	case stBeforeValue:
		switch {
		case isSpace(c):
		case c == '"':
			m.state = stValueDouble
		case c == '\'':
			m.state = stValueSingle
		case c == '>':
			m.state = stText
		default:
			m.state = stValueUnquoted
		}
	case stValueDouble:
		if c == '"' {
			m.state = stBeforeAttr
		}
	case stValueSingle:
		if c == '\'' {
			m.state = stBeforeAttr
		}
	case stValueUnquoted:
		switch {
		case isSpace(c):
			m.state = stBeforeAttr
		case c == '>':
			m.state = stText
		}
	case stDecl:
		m.declLen++
		if c == '-' && m.declLen <= 2 {
			m.dashes++
			if m.dashes == 2 {
				m.state = stComment
				m.dashes = 0
			}
			return
		}
		if c == '>' {
			m.state = stText
		}
	case stComment:
		switch {
		case c == '-':
			m.dashes++
		case c == '>' && m.dashes >= 2:
			m.state = stText
			m.dashes = 0
		default:
			m.dashes = 0
		}
	}
}
