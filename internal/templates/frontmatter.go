package templates

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

var frontMatterDelim = []byte("---")

// isDelimiterLine reports whether a line is exactly "---", allowing trailing
// whitespace. Lines that merely start with "---" (a "----" rule, a "---foo"
// key) are not delimiters.
func isDelimiterLine(line []byte) bool {
	return bytes.Equal(bytes.TrimRight(line, " \t\r"), frontMatterDelim)
}

// SplitFrontMatter separates an optional leading YAML front matter block from
// the page body. A front matter block starts with "---" on the first line and
// ends at the next line holding only "---". Pages without front matter return
// a nil map and the content unchanged.
func SplitFrontMatter(content []byte) (map[string]any, []byte, error) {
	trimmed := bytes.TrimLeft(content, "\r\n")
	if !bytes.HasPrefix(trimmed, frontMatterDelim) {
		return nil, content, nil
	}

	// The opening delimiter must be alone on its line.
	nl := bytes.IndexByte(trimmed, '\n')
	if nl < 0 || !isDelimiterLine(trimmed[:nl]) {
		return nil, content, nil
	}
	rest := trimmed[nl+1:]

	var block, body []byte
	closed := false
	for offset := 0; offset <= len(rest); {
		lineEnd := bytes.IndexByte(rest[offset:], '\n')
		var line []byte
		if lineEnd < 0 {
			line = rest[offset:]
		} else {
			line = rest[offset : offset+lineEnd]
		}

		if isDelimiterLine(line) {
			block = rest[:offset]
			if lineEnd >= 0 {
				body = rest[offset+lineEnd+1:]
			}
			closed = true
			break
		}
		if lineEnd < 0 {
			break
		}
		offset += lineEnd + 1
	}
	if !closed {
		return nil, nil, fmt.Errorf("unterminated front matter block")
	}

	vars := map[string]any{}
	if len(bytes.TrimSpace(block)) > 0 {
		if err := yaml.Unmarshal(block, &vars); err != nil {
			return nil, nil, fmt.Errorf("parse front matter: %w", err)
		}
	}
	return vars, body, nil
}
