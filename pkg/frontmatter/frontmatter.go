// Package frontmatter parses and formats the YAML frontmatter blocks used
// by rule files (Cursor .mdc, Copilot .instructions.md).
//
// Frontmatter is delimited by lines containing only "---" at the start and
// end of the block. Frontmatter is optional in every format polyrc reads:
// a file without a leading delimiter parses as an empty struct plus the
// full content as body. Both LF and CRLF line endings are handled.
package frontmatter

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse extracts YAML frontmatter and body content. If no frontmatter is
// present, matter is left untouched and the full content is returned as
// the body.
func Parse[T any](content []byte, matter *T) (body []byte, err error) {
	fm, body, ok := Split(content)
	if !ok {
		return body, nil
	}
	if err := yaml.Unmarshal(fm, matter); err != nil {
		return nil, err
	}
	return body, nil
}

// Split separates a raw frontmatter block from the body without decoding
// it. ok is false when content carries no frontmatter, in which case body
// is the full content.
func Split(content []byte) (matter, body []byte, ok bool) {
	if !bytes.HasPrefix(content, []byte("---\n")) && !bytes.HasPrefix(content, []byte("---\r\n")) {
		return nil, content, false
	}

	// Skip the opening delimiter line.
	start := 3
	if content[start] == '\r' {
		start++
	}
	start++ // the newline itself

	rest := content[start:]

	// The closing delimiter is a line that is exactly "---": either
	// mid-file followed by a newline, or the final line of the file.
	// Lines that merely start with "---" (e.g. a "----" horizontal rule)
	// are content, and a block with no close is not frontmatter at all.
	offset := 0
	for {
		line := rest[offset:]
		nl := bytes.IndexByte(line, '\n')
		cur := line
		if nl >= 0 {
			cur = line[:nl]
		}
		if bytes.Equal(bytes.TrimSuffix(cur, []byte("\r")), []byte("---")) {
			matter = bytes.TrimSuffix(rest[:offset], []byte("\n"))
			matter = bytes.TrimSuffix(matter, []byte("\r"))
			if nl >= 0 {
				body = line[nl+1:]
			}
			break
		}
		if nl < 0 {
			return nil, content, false
		}
		offset += nl + 1
	}

	// Trim the single blank separator line Format emits before the body.
	switch {
	case bytes.HasPrefix(body, []byte("\r\n")):
		body = body[2:]
	case len(body) > 0 && body[0] == '\n':
		body = body[1:]
	}
	return matter, body, true
}

// Format renders matter as a YAML frontmatter block followed by body.
// The body always ends with exactly one trailing newline.
func Format(matter any, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(matter); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}
