package model

import (
	"fmt"
	"sort"

	"github.com/teranos/bspecgen/errors"
)

// Check re-verifies the model's invariants. A document keyed under a code
// other than its own is a fatal builder defect and returns an error marked
// ErrInvariant. Every other violation is returned as a warning.
func (m *CanonicalModel) Check() ([]Warning, error) {
	codes := make([]string, 0, len(m.Documents))
	for key, doc := range m.Documents {
		if key != doc.Code {
			return nil, errors.NewInvariantError("document keyed %q carries code %q", key, doc.Code)
		}
		codes = append(codes, key)
	}
	sort.Strings(codes)

	var warnings []Warning

	for _, name := range m.domainNames() {
		d := m.Domains[name]
		if d.DocumentCount != len(d.DocumentCodes) {
			warnings = append(warnings, Warning{
				Kind:    KindDomainCount,
				Message: fmt.Sprintf("domain %s counts %d documents but lists %d", name, d.DocumentCount, len(d.DocumentCodes)),
			})
		}
		for _, code := range d.DocumentCodes {
			doc, ok := m.Documents[code]
			if !ok {
				warnings = append(warnings, Warning{
					Kind:    KindUnknownDomainCode,
					Code:    code,
					Message: fmt.Sprintf("domain %s lists unknown code %s", name, code),
					Hint:    suggest(code, codes),
				})
				continue
			}
			if doc.Domain != name {
				warnings = append(warnings, Warning{
					Kind:    KindDomainMismatch,
					Code:    code,
					Path:    doc.SourcePath,
					Message: fmt.Sprintf("domain %s lists %s, which belongs to %s", name, code, doc.Domain),
				})
			}
		}
	}

	for i, level := range m.ConformanceLevels {
		for _, code := range level.RequiredCodes {
			if _, ok := m.Documents[code]; !ok {
				warnings = append(warnings, Warning{
					Kind:    KindUnknownConformanceCode,
					Code:    code,
					Message: fmt.Sprintf("conformance level %s requires unknown code %s", level.Name, code),
					Hint:    suggest(code, codes),
				})
			}
		}
		if i > 0 && level.MinimumDocumentCount <= m.ConformanceLevels[i-1].MinimumDocumentCount {
			warnings = append(warnings, Warning{
				Kind: KindConformanceOrder,
				Message: fmt.Sprintf("conformance level %s (minimum %d) does not exceed %s (minimum %d)",
					level.Name, level.MinimumDocumentCount,
					m.ConformanceLevels[i-1].Name, m.ConformanceLevels[i-1].MinimumDocumentCount),
			})
		}
	}

	for _, p := range m.IndustryProfiles {
		for _, code := range p.AdditionalDocuments {
			if _, ok := m.Documents[code]; !ok {
				warnings = append(warnings, Warning{
					Kind:    KindUnknownProfileCode,
					Code:    code,
					Message: fmt.Sprintf("industry profile %s lists unknown code %s", p.Name, code),
					Hint:    suggest(code, codes),
				})
			}
		}
	}

	return warnings, nil
}

// domainNames returns DomainOrder followed by any domains missing from it
func (m *CanonicalModel) domainNames() []string {
	seen := make(map[string]bool, len(m.Domains))
	names := make([]string, 0, len(m.Domains))
	for _, n := range m.DomainOrder {
		if _, ok := m.Domains[n]; ok && !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	var rest []string
	for n := range m.Domains {
		if !seen[n] {
			rest = append(rest, n)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}
