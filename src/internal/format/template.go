// FILE: bistrolog/src/internal/format/template.go
package format

import (
	"bytes"
	"fmt"
	"strings"

	"bistrolog/src/internal/core"

	"github.com/lixenwraith/log"
)

// TemplateFormatter renders entries through a user-supplied template with
// `{field}` placeholders. The template is parsed once at construction into
// a token list; Format only walks the tokens. Placeholders resolve against
// entry metadata first (timestamp, level, channel, message, session), then
// the entry's fields; unknown placeholders render empty.
type TemplateFormatter struct {
	name   string
	raw    string
	tokens []token
	logger *log.Logger
}

type token struct {
	literal string
	field   string // non-empty for placeholder tokens
}

// NewTemplateFormatter parses a template string. An unterminated placeholder
// is a construction error; rendering itself cannot fail.
func NewTemplateFormatter(name, tmpl string, logger *log.Logger) (*TemplateFormatter, error) {
	if name == "" {
		name = "custom"
	}

	tokens, err := parseTemplate(tmpl)
	if err != nil {
		return nil, fmt.Errorf("invalid template for %q: %w", name, err)
	}

	return &TemplateFormatter{
		name:   name,
		raw:    tmpl,
		tokens: tokens,
		logger: logger,
	}, nil
}

func parseTemplate(tmpl string) ([]token, error) {
	var tokens []token
	rest := tmpl

	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if rest != "" {
				tokens = append(tokens, token{literal: rest})
			}
			return tokens, nil
		}

		if open > 0 {
			tokens = append(tokens, token{literal: rest[:open]})
		}
		rest = rest[open+1:]

		closing := strings.IndexByte(rest, '}')
		if closing < 0 {
			return nil, fmt.Errorf("unterminated placeholder at %q", rest)
		}

		tokens = append(tokens, token{field: rest[:closing]})
		rest = rest[closing+1:]
	}
}

func (f *TemplateFormatter) Format(entry core.LogEntry) ([]byte, error) {
	var buf bytes.Buffer

	for _, tok := range f.tokens {
		if tok.field == "" {
			buf.WriteString(tok.literal)
			continue
		}
		buf.WriteString(f.resolve(entry, tok.field))
	}

	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func (f *TemplateFormatter) resolve(entry core.LogEntry, field string) string {
	switch field {
	case "timestamp":
		return core.FormatTimestamp(entry.Time)
	case "level":
		return entry.Level.String()
	case "channel":
		return string(entry.Channel)
	case "message":
		return entry.Message
	case "session", "session_id":
		return entry.SessionID
	}

	if v, ok := entry.Fields[field]; ok {
		return fmt.Sprint(v)
	}
	return ""
}

func (f *TemplateFormatter) Name() string {
	return f.name
}

func (f *TemplateFormatter) FileExtension() string {
	return ".log"
}

func (f *TemplateFormatter) SupportsChannel(core.Channel) bool {
	return true
}
