package kdl

import (
	"strconv"
	"strings"

	"github.com/matzehuels/panemux/pkg/errors"
)

// Parse turns src into a document tree. On malformed input it returns a
// positioned *errors.Error with code DOCUMENT_SYNTAX.
func Parse(src string) (*Document, error) {
	s := &scanner{src: src}
	nodes, err := s.parseNodes(false)
	if err != nil {
		return nil, err
	}
	return &Document{Nodes: nodes, Span: Span{Offset: 0, Len: len(src)}}, nil
}

type scanner struct {
	src string
	pos int
}

func (s *scanner) errorf(offset, length int, format string, args ...any) error {
	if length <= 0 {
		length = 1
	}
	return errors.New(errors.ErrCodeDocumentSyntax, format, args...).At(offset, length)
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

// skipTrivia consumes whitespace and comments. When inline is true it
// stops at newlines and semicolons so they can act as node terminators.
func (s *scanner) skipTrivia(inline bool) error {
	for !s.eof() {
		c := s.src[s.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			s.pos++
		case c == '\n' || c == ';':
			if inline {
				return nil
			}
			s.pos++
		case c == '\\' && !s.eofAt(s.pos+1) && s.lineBreakAfterBackslash():
			// line continuation
		case strings.HasPrefix(s.src[s.pos:], "//"):
			for !s.eof() && s.src[s.pos] != '\n' {
				s.pos++
			}
		case strings.HasPrefix(s.src[s.pos:], "/*"):
			end := strings.Index(s.src[s.pos+2:], "*/")
			if end < 0 {
				return s.errorf(s.pos, 2, "unterminated block comment")
			}
			s.pos += 2 + end + 2
		default:
			return nil
		}
	}
	return nil
}

func (s *scanner) eofAt(pos int) bool { return pos >= len(s.src) }

// lineBreakAfterBackslash consumes a backslash line continuation,
// reporting whether one was present at the current position.
func (s *scanner) lineBreakAfterBackslash() bool {
	i := s.pos + 1
	for i < len(s.src) && (s.src[i] == ' ' || s.src[i] == '\t' || s.src[i] == '\r') {
		i++
	}
	if i < len(s.src) && s.src[i] == '\n' {
		s.pos = i + 1
		return true
	}
	return false
}

// parseNodes parses a sequence of sibling nodes until EOF or, when
// inBlock is true, the enclosing '}'.
func (s *scanner) parseNodes(inBlock bool) ([]*Node, error) {
	var nodes []*Node
	for {
		if err := s.skipTrivia(false); err != nil {
			return nil, err
		}
		if s.eof() {
			if inBlock {
				return nil, s.errorf(s.pos, 1, "expected '}' before end of input")
			}
			return nodes, nil
		}
		if s.peek() == '}' {
			if !inBlock {
				return nil, s.errorf(s.pos, 1, "unexpected '}'")
			}
			return nodes, nil
		}
		node, err := s.parseNode()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
}

func (s *scanner) parseNode() (*Node, error) {
	start := s.pos
	name, nameSpan, err := s.parseNodeName()
	if err != nil {
		return nil, err
	}
	node := &Node{Name: name, NameSpan: nameSpan}
	end := s.pos

	for {
		if err := s.skipTrivia(true); err != nil {
			return nil, err
		}
		if s.eof() {
			break
		}
		switch c := s.peek(); {
		case c == '\n' || c == ';':
			s.pos++
			node.Span = Span{Offset: start, Len: end - start}
			return node, nil
		case c == '}':
			node.Span = Span{Offset: start, Len: end - start}
			return node, nil
		case c == '{':
			s.pos++
			children, err := s.parseNodes(true)
			if err != nil {
				return nil, err
			}
			// parseNodes stops on '}'
			s.pos++
			node.Children = children
			node.HasBlock = true
			end = s.pos
			node.Span = Span{Offset: start, Len: end - start}
			return node, nil
		default:
			entry, err := s.parseEntry()
			if err != nil {
				return nil, err
			}
			node.Entries = append(node.Entries, entry)
			end = s.pos
		}
	}
	node.Span = Span{Offset: start, Len: end - start}
	return node, nil
}

func (s *scanner) parseNodeName() (string, Span, error) {
	if s.peek() == '"' {
		v, err := s.parseString()
		if err != nil {
			return "", Span{}, err
		}
		return v.Str, v.Span, nil
	}
	start := s.pos
	name := s.scanIdent()
	if name == "" {
		return "", Span{}, s.errorf(start, 1, "expected node name")
	}
	return name, Span{Offset: start, Len: s.pos - start}, nil
}

func (s *scanner) parseEntry() (Entry, error) {
	start := s.pos
	c := s.peek()

	if c == '"' || c == '-' || c == '+' || (c >= '0' && c <= '9') {
		val, err := s.parseValue()
		if err != nil {
			return Entry{}, err
		}
		return Entry{Val: val, Span: Span{Offset: start, Len: s.pos - start}}, nil
	}

	ident := s.scanIdent()
	if ident == "" {
		return Entry{}, s.errorf(start, 1, "unexpected character %q", string(s.peek()))
	}
	if s.peek() == '=' {
		s.pos++
		val, err := s.parseValue()
		if err != nil {
			return Entry{}, err
		}
		return Entry{Name: ident, Val: val, Span: Span{Offset: start, Len: s.pos - start}}, nil
	}
	span := Span{Offset: start, Len: s.pos - start}
	switch ident {
	case "true", "false":
		return Entry{Val: Value{Kind: ValueBool, Bool: ident == "true", Span: span}, Span: span}, nil
	case "null":
		return Entry{Val: Value{Kind: ValueNull, Span: span}, Span: span}, nil
	}
	return Entry{}, s.errorf(start, s.pos-start, "bare word %q is not a value; string values must be quoted", ident)
}

func (s *scanner) parseValue() (Value, error) {
	c := s.peek()
	switch {
	case c == '"':
		return s.parseString()
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return s.parseNumber()
	}
	start := s.pos
	ident := s.scanIdent()
	span := Span{Offset: start, Len: s.pos - start}
	switch ident {
	case "true", "false":
		return Value{Kind: ValueBool, Bool: ident == "true", Span: span}, nil
	case "null":
		return Value{Kind: ValueNull, Span: span}, nil
	}
	return Value{}, s.errorf(start, 1, "expected a value")
}

func (s *scanner) parseString() (Value, error) {
	start := s.pos
	s.pos++ // opening quote
	var b strings.Builder
	for {
		if s.eof() || s.src[s.pos] == '\n' {
			return Value{}, s.errorf(start, s.pos-start, "unterminated string")
		}
		c := s.src[s.pos]
		if c == '"' {
			s.pos++
			return Value{Kind: ValueString, Str: b.String(), Span: Span{Offset: start, Len: s.pos - start}}, nil
		}
		if c != '\\' {
			b.WriteByte(c)
			s.pos++
			continue
		}
		if s.eofAt(s.pos + 1) {
			return Value{}, s.errorf(s.pos, 1, "unterminated escape sequence")
		}
		esc := s.src[s.pos+1]
		switch esc {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '"', '\\', '/':
			b.WriteByte(esc)
		default:
			return Value{}, s.errorf(s.pos, 2, "unknown escape sequence \\%s", string(esc))
		}
		s.pos += 2
	}
}

func (s *scanner) parseNumber() (Value, error) {
	start := s.pos
	if c := s.peek(); c == '-' || c == '+' {
		s.pos++
	}
	for !s.eof() && s.src[s.pos] >= '0' && s.src[s.pos] <= '9' {
		s.pos++
	}
	text := s.src[start:s.pos]
	n, err := strconv.Atoi(text)
	if err != nil {
		return Value{}, s.errorf(start, s.pos-start, "invalid number %q", text)
	}
	return Value{Kind: ValueInt, Int: n, Span: Span{Offset: start, Len: s.pos - start}}, nil
}

// scanIdent consumes a bare identifier: letters, digits, '_' and '-',
// not starting with a digit. Returns "" if none is present.
func (s *scanner) scanIdent() string {
	start := s.pos
	for !s.eof() {
		c := s.src[s.pos]
		isIdent := c == '_' || c == '-' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9' && s.pos > start)
		if !isIdent {
			break
		}
		s.pos++
	}
	return s.src[start:s.pos]
}
