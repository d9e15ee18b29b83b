package bibtex

import (
	"fmt"
	"strings"

	"github.com/agentstation/bibmerge/pkg/errors"
)

// keyForbidden lists bytes that may not appear in a citation key.
const keyForbidden = " \t\r\n\f\v,={}\"#%'()"

// KeyExtractor reads the citation key of a captured record body. It knows
// nothing of brace matching beyond the body's own outer braces, so it can be
// run over any text shaped like "{key, field = value, ...}".
type KeyExtractor struct{}

// NewKeyExtractor creates a KeyExtractor.
func NewKeyExtractor() *KeyExtractor {
	return &KeyExtractor{}
}

// Extract returns the first comma-separated field of body's interior.
// Failures are *errors.MalformedRecordError without file or location; the
// caller knows where the body came from.
func (k *KeyExtractor) Extract(body string) (string, error) {
	if len(body) < 2 || body[0] != LBRACE || body[len(body)-1] != RBRACE {
		return "", malformed("record body is not enclosed in braces")
	}

	key := strings.TrimSpace(firstField(body[1 : len(body)-1]))
	if key == "" {
		return "", malformed("missing citation key: first field is empty")
	}
	if i := strings.IndexAny(key, keyForbidden); i >= 0 {
		return "", malformed(fmt.Sprintf("invalid citation key %q: unexpected %q", key, key[i]))
	}
	return key, nil
}

// Fields splits body's interior into its top-level comma-separated fields,
// trimmed of surrounding whitespace. Commas nested in braces or double quotes
// do not split.
func (k *KeyExtractor) Fields(body string) []string {
	if len(body) >= 2 && body[0] == LBRACE && body[len(body)-1] == RBRACE {
		body = body[1 : len(body)-1]
	}
	var fields []string
	for {
		field := firstField(body)
		fields = append(fields, strings.TrimSpace(field))
		if len(field) == len(body) {
			return fields
		}
		body = body[len(field)+1:]
	}
}

// firstField returns the text before the first top-level comma.
func firstField(interior string) string {
	depth := 0
	quoted := false
	for i := 0; i < len(interior); i++ {
		switch interior[i] {
		case LBRACE:
			depth++
		case RBRACE:
			if depth > 0 {
				depth--
			}
		case '"':
			if depth == 0 {
				quoted = !quoted
			}
		case COMMA:
			if depth == 0 && !quoted {
				return interior[:i]
			}
		}
	}
	return interior
}

func malformed(msg string) *errors.MalformedRecordError {
	return errors.NewMalformedRecordError("", "", msg)
}
