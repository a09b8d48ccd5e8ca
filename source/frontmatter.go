package source

import (
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/teranos/bspecgen/errors"
)

const frontmatterDelimiter = "---"

// ParseFrontmatter splits a leading YAML block from content.
// Expected format:
//
//	---
//	status: accepted
//	owner: strategy-team
//	---
//	# Document body
//
// ok is false when content has no front-matter. On a YAML error ok is false
// and err describes the problem; callers keep the raw content.
func ParseFrontmatter(content string) (meta map[string]interface{}, body string, ok bool, err error) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, frontmatterDelimiter+"\n") {
		return nil, "", false, nil
	}

	rest := normalized[len(frontmatterDelimiter)+1:]
	var block string
	switch {
	case strings.HasPrefix(rest, frontmatterDelimiter+"\n"):
		// Empty block
		body = rest[len(frontmatterDelimiter)+1:]
	case rest == frontmatterDelimiter:
		body = ""
	default:
		end := strings.Index(rest, "\n"+frontmatterDelimiter+"\n")
		switch {
		case end >= 0:
			block = rest[:end]
			body = rest[end+len(frontmatterDelimiter)+2:]
		case strings.HasSuffix(rest, "\n"+frontmatterDelimiter):
			block = strings.TrimSuffix(rest, "\n"+frontmatterDelimiter)
		default:
			return nil, "", false, errors.New("front-matter block is not closed")
		}
	}

	meta = map[string]interface{}{}
	if strings.TrimSpace(block) != "" {
		if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
			return nil, "", false, errors.Wrap(err, "failed to parse front-matter YAML")
		}
	}
	for k, v := range meta {
		meta[k] = normalizeYAML(v)
	}
	return meta, strings.TrimLeft(body, "\n"), true, nil
}

// normalizeYAML converts decoded YAML into JSON-friendly values: timestamps
// become dates or RFC 3339 strings, and map keys become strings.
func normalizeYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format(time.RFC3339)
	case map[string]interface{}:
		for k, inner := range val {
			val[k] = normalizeYAML(inner)
		}
		return val
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, inner := range val {
			out[toString(k)] = normalizeYAML(inner)
		}
		return out
	case []interface{}:
		for i, inner := range val {
			val[i] = normalizeYAML(inner)
		}
		return val
	default:
		return v
	}
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	out, err := yaml.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
