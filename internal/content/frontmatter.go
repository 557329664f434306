package content

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

var errUnterminatedFrontmatter = errors.New("frontmatter opened but never closed")

// splitFrontmatter separates a leading `---` delimited YAML block from the
// Markdown body. had is false when the document does not open with a
// delimiter line; the whole input is then the body.
func splitFrontmatter(doc []byte) (meta, body []byte, had bool, err error) {
	lines := bytes.SplitAfter(doc, []byte("\n"))
	if len(lines) == 0 || !isDelimiterLine(lines[0]) {
		return nil, doc, false, nil
	}
	for i := 1; i < len(lines); i++ {
		if isDelimiterLine(lines[i]) {
			return bytes.Join(lines[1:i], nil), bytes.Join(lines[i+1:], nil), true, nil
		}
	}
	return nil, nil, true, errUnterminatedFrontmatter
}

func isDelimiterLine(line []byte) bool {
	return string(bytes.TrimRight(line, "\r\n")) == "---"
}

// parseMeta decodes raw frontmatter YAML (delimiters already stripped) into a
// field map. Empty or null frontmatter decodes to an empty map.
func parseMeta(meta []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(meta)) == 0 {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := yaml.Unmarshal(meta, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}
