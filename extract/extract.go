// Package extract pulls labeled facts out of one specification document.
//
// Extraction is tolerant: nothing here returns an error. Missing fields are
// reported through Facts.Found and callers decide what to do with them.
package extract

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"unicode"
)

// Example is one illustrative item listed under a document's examples section.
type Example struct {
	ID          string
	Title       string
	Description string
}

// Presence records which fields were found in the text rather than derived.
type Presence struct {
	Code     bool
	Name     bool
	Domain   bool
	Purpose  bool
	Examples bool
}

// Facts is the partial record extracted from one document.
type Facts struct {
	Code       string
	Name       string
	Domain     string
	Purpose    string
	SourcePath string
	Examples   []Example

	Found Presence
}

// Keep reports whether the document carries a code and belongs in the model.
func (f Facts) Keep() bool {
	return f.Found.Code && f.Code != ""
}

// Extractor applies a Vocabulary to document text.
type Extractor struct {
	vocab Vocabulary
}

// New returns an Extractor for vocab. Zero-valued optional entries fall back
// to DefaultVocabulary.
func New(vocab Vocabulary) *Extractor {
	def := DefaultVocabulary
	if vocab.PurposeWindow <= 0 {
		vocab.PurposeWindow = def.PurposeWindow
	}
	if vocab.PurposeFallback == "" {
		vocab.PurposeFallback = def.PurposeFallback
	}
	if vocab.NameFallback == "" {
		vocab.NameFallback = def.NameFallback
	}
	if vocab.UnknownDomain == "" {
		vocab.UnknownDomain = def.UnknownDomain
	}
	return &Extractor{vocab: vocab}
}

// Vocabulary returns the label table in use.
func (e *Extractor) Vocabulary() Vocabulary { return e.vocab }

// Extract scans text for the labeled fields. relPath is the document's path
// relative to the source root; either separator style is accepted.
func (e *Extractor) Extract(text, relPath string) Facts {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	facts := Facts{SourcePath: strings.ReplaceAll(filepath.ToSlash(relPath), `\`, "/")}

	if v, ok := labeledValue(lines, e.vocab.CodeLabel); ok {
		// Codes are identifiers: keep the first token only
		if fields := strings.Fields(v); len(fields) > 0 {
			facts.Code = strings.TrimRight(fields[0], ".,;:")
			facts.Found.Code = facts.Code != ""
		}
	}

	if v, ok := labeledValue(lines, e.vocab.NameLabel); ok {
		facts.Name, facts.Found.Name = v, true
	} else if title, ok := headingTitle(lines); ok {
		facts.Name = title
	} else if facts.Code != "" {
		facts.Name = fmt.Sprintf(e.vocab.NameFallback, facts.Code)
	}

	if v, ok := labeledValue(lines, e.vocab.DomainLabel); ok {
		facts.Domain, facts.Found.Domain = v, true
	} else {
		facts.Domain = e.domainFromPath(facts.SourcePath)
	}

	if v, ok := e.purpose(lines); ok {
		facts.Purpose, facts.Found.Purpose = v, true
	} else {
		subject := facts.Name
		if subject == "" {
			subject = facts.Code
		}
		facts.Purpose = fmt.Sprintf(e.vocab.PurposeFallback, subject)
	}

	facts.Examples = e.examples(lines)
	facts.Found.Examples = len(facts.Examples) > 0

	return facts
}

// Extract runs DefaultVocabulary over text.
func Extract(text, relPath string) Facts {
	return New(DefaultVocabulary).Extract(text, relPath)
}

// labeledValue returns the trimmed value after the first line starting with
// label. Matching is exact and case-sensitive.
func labeledValue(lines []string, label string) (string, bool) {
	if label == "" {
		return "", false
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, label) {
			continue
		}
		value := strings.TrimSpace(strings.TrimPrefix(trimmed, label))
		if value == "" {
			continue
		}
		return value, true
	}
	return "", false
}

// headingTitle returns the text of the first level-one heading, cut at the
// first colon ("# Mission Statement: Purpose" -> "Mission Statement").
func headingTitle(lines []string) (string, bool) {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "# ") {
			continue
		}
		title := strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
		if i := strings.Index(title, ":"); i >= 0 {
			title = strings.TrimSpace(title[:i])
		}
		if title != "" {
			return title, true
		}
	}
	return "", false
}

func (e *Extractor) purpose(lines []string) (string, bool) {
	if e.vocab.PurposeHeading == "" {
		return "", false
	}
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") || !strings.Contains(trimmed, e.vocab.PurposeHeading) {
			continue
		}
		end := i + 1 + e.vocab.PurposeWindow
		if end > len(lines) {
			end = len(lines)
		}
		for _, next := range lines[i+1 : end] {
			candidate := strings.TrimSpace(next)
			if candidate != "" && !strings.HasPrefix(candidate, "#") {
				return candidate, true
			}
		}
		// Only the first matching heading counts
		return "", false
	}
	return "", false
}

// examples collects "- **Title**: description" or "- Title" bullets from the
// first section whose heading contains ExamplesHeading.
func (e *Extractor) examples(lines []string) []Example {
	if e.vocab.ExamplesHeading == "" {
		return nil
	}

	var out []Example
	inSection := false
	level := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			l := headingLevel(trimmed)
			if inSection && l <= level {
				break
			}
			if !inSection && strings.Contains(trimmed, e.vocab.ExamplesHeading) {
				inSection, level = true, l
			}
			continue
		}
		if !inSection {
			continue
		}
		item, ok := bulletText(trimmed)
		if !ok {
			continue
		}
		title, desc := splitExample(item)
		if title == "" {
			continue
		}
		out = append(out, Example{
			ID:          Slug(title),
			Title:       title,
			Description: desc,
		})
	}
	return out
}

func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	return n
}

func bulletText(line string) (string, bool) {
	for _, marker := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(line[len(marker):]), true
		}
	}
	return "", false
}

func splitExample(item string) (string, string) {
	if strings.HasPrefix(item, "**") {
		rest := item[2:]
		if end := strings.Index(rest, "**"); end >= 0 {
			title := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest[:end]), ":"))
			desc := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest[end+2:]), ":"))
			return title, desc
		}
	}
	if i := strings.Index(item, ": "); i >= 0 {
		return strings.TrimSpace(item[:i]), strings.TrimSpace(item[i+2:])
	}
	return item, ""
}

func (e *Extractor) domainFromPath(relPath string) string {
	dir := path.Dir(relPath)
	if dir == "." || dir == "/" || dir == "" {
		return e.vocab.UnknownDomain
	}
	// The top-level directory under the source root names the domain
	top := strings.SplitN(strings.TrimPrefix(dir, "/"), "/", 2)[0]
	if h := Humanize(top); h != "" {
		return h
	}
	return e.vocab.UnknownDomain
}

// Humanize turns a directory name into a display name:
// "strategic-foundation" -> "Strategic Foundation".
func Humanize(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Slug turns a display name into a lowercase, hyphen-separated path segment:
// "Strategic Foundation" -> "strategic-foundation".
func Slug(name string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}
	return b.String()
}
