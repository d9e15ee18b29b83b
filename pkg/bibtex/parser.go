package bibtex

import (
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/bibmerge/pkg/constants"
	"github.com/agentstation/bibmerge/pkg/errors"
	"github.com/agentstation/bibmerge/pkg/records"
)

// Bytes with meaning in the record grammar.
const (
	AT      byte = '@'
	LBRACE  byte = '{'
	RBRACE  byte = '}'
	COMMA   byte = ','
	PERCENT byte = '%'
	NEWLINE byte = '\n'
)

const bom = "\uFEFF"

// directives are entry types that carry no citation record.
var directives = map[string]bool{
	"comment":  true,
	"preamble": true,
	"string":   true,
}

// IsDirective reports whether typ names a non-record directive.
func IsDirective(typ string) bool {
	return directives[strings.ToLower(typ)]
}

// Parser turns file text into the ordered records it contains.
// A Parser holds no per-file state and is safe for concurrent use.
type Parser struct {
	keys           *KeyExtractor
	keepDirectives bool
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithKeyExtractor sets the extractor run over each captured body.
func WithKeyExtractor(k *KeyExtractor) ParserOption {
	return func(p *Parser) {
		p.keys = k
	}
}

// WithDirectives makes the parser return @comment, @preamble and @string
// entries as records instead of dropping them. Their first field must then
// satisfy the key grammar like any other record.
func WithDirectives(keep bool) ParserOption {
	return func(p *Parser) {
		p.keepDirectives = keep
	}
}

// NewParser creates a Parser.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{keys: NewKeyExtractor()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses text read from source. An empty text yields an empty set.
// Grammar violations return *errors.ParseError and records without a usable
// key return *errors.MalformedRecordError, both naming source.
func (p *Parser) Parse(source string, text []byte) (records.Set, error) {
	set := records.Set{Source: source}
	s := newScanner(strings.TrimPrefix(string(text), bom))

	for {
		s.skipSpaceAndComments()
		if s.eof() {
			return set, nil
		}

		if s.peek() != AT {
			return set, p.parseError(source, s.line, s.column(), fmt.Sprintf("unexpected text outside record: %q", s.excerpt()))
		}
		line, col := s.line, s.column()
		s.next()

		s.skipSpace()
		typ := s.readWhile(isTypeChar)
		if typ == "" {
			return set, p.parseError(source, line, col, "missing entry type after '@'")
		}

		// A directive without a group runs to the end of its line.
		if IsDirective(typ) && !s.braceFollows() {
			s.skipLine()
			continue
		}

		s.skipSpace()
		if s.eof() || s.peek() != LBRACE {
			return set, p.parseError(source, line, col, fmt.Sprintf("expected '{' after @%s", typ))
		}

		body, depth := s.readBraced()
		if depth > 0 {
			return set, p.parseError(source, line, col,
				fmt.Sprintf("unterminated @%s record: end of file with %d unclosed brace(s)", typ, depth))
		}

		if IsDirective(typ) && !p.keepDirectives {
			continue
		}

		key, err := p.keys.Extract(body)
		if err != nil {
			mre := errors.NewMalformedRecordError(source, typ, err.Error())
			mre.Line, mre.Column = line, col
			var inner *errors.MalformedRecordError
			if errors.As(err, &inner) {
				mre.Message = inner.Message
			}
			return set, mre
		}

		set.Records = append(set.Records, records.Record{
			Type:   typ,
			Key:    key,
			Body:   body,
			Source: source,
			Line:   line,
		})
	}
}

// ParseReader reads r to the end and parses its contents.
func (p *Parser) ParseReader(source string, r io.Reader) (records.Set, error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return records.Set{Source: source}, errors.WrapIO("read", source, err)
	}
	return p.Parse(source, text)
}

func (p *Parser) parseError(source string, line, col int, msg string) *errors.ParseError {
	pe := errors.NewParseError(constants.FormatBibTeX, source, msg, nil)
	pe.Line, pe.Column = line, col
	return pe
}

// scanner walks the source text byte by byte tracking line and column.
type scanner struct {
	src       string
	pos       int
	line      int // 1-based line of pos
	lineStart int // offset of the first byte of line
}

func newScanner(src string) *scanner {
	return &scanner{src: src, line: 1}
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) peek() byte {
	return s.src[s.pos]
}

func (s *scanner) next() byte {
	c := s.src[s.pos]
	s.pos++
	if c == NEWLINE {
		s.line++
		s.lineStart = s.pos
	}
	return c
}

// column returns the 1-based byte column of pos.
func (s *scanner) column() int {
	return s.pos - s.lineStart + 1
}

func (s *scanner) skipSpace() {
	for !s.eof() && isSpace(s.peek()) {
		s.next()
	}
}

// skipSpaceAndComments skips whitespace and '%' comments up to end of line.
func (s *scanner) skipSpaceAndComments() {
	for !s.eof() {
		switch c := s.peek(); {
		case isSpace(c):
			s.next()
		case c == PERCENT:
			s.skipLine()
		default:
			return
		}
	}
}

// skipLine consumes bytes up to, but not including, the next newline.
func (s *scanner) skipLine() {
	for !s.eof() && s.peek() != NEWLINE {
		s.next()
	}
}

// braceFollows reports whether the next non-space byte opens a group.
func (s *scanner) braceFollows() bool {
	for i := s.pos; i < len(s.src); i++ {
		if !isSpace(s.src[i]) {
			return s.src[i] == LBRACE
		}
	}
	return false
}

func (s *scanner) readWhile(pred func(byte) bool) string {
	start := s.pos
	for !s.eof() && pred(s.peek()) {
		s.next()
	}
	return s.src[start:s.pos]
}

// readBraced consumes a brace-balanced group starting at '{' and returns it
// verbatim. A positive depth means the input ended inside the group.
func (s *scanner) readBraced() (string, int) {
	start := s.pos
	depth := 0
	for !s.eof() {
		switch s.next() {
		case LBRACE:
			depth++
		case RBRACE:
			depth--
			if depth == 0 {
				return s.src[start:s.pos], 0
			}
		}
	}
	return s.src[start:], depth
}

// excerpt returns the rest of the current line, shortened for messages.
func (s *scanner) excerpt() string {
	rest := s.src[s.pos:]
	if i := strings.IndexByte(rest, NEWLINE); i >= 0 {
		rest = rest[:i]
	}
	rest = strings.TrimRight(rest, "\r")
	if len(rest) > 32 {
		rest = rest[:32] + "..."
	}
	return rest
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isTypeChar(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}
