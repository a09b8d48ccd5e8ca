package model

import (
	"fmt"
	"sort"

	"github.com/agext/levenshtein"
)

// WarningKind names a class of non-fatal problem
type WarningKind string

const (
	KindMissingCode            WarningKind = "missing-code"
	KindInvalidCode            WarningKind = "invalid-code"
	KindDuplicateCode          WarningKind = "duplicate-code"
	KindUnknownDomainCode      WarningKind = "unknown-domain-code"
	KindDomainMismatch         WarningKind = "domain-mismatch"
	KindDomainCount            WarningKind = "domain-count"
	KindUnknownConformanceCode WarningKind = "unknown-conformance-code"
	KindConformanceOrder       WarningKind = "conformance-order"
	KindUnknownProfileCode     WarningKind = "unknown-profile-code"
	KindDuplicateSchemaField   WarningKind = "duplicate-schema-field"
	KindMalformedFile          WarningKind = "malformed-file"
)

// Warning is a malformed-input finding. The model still ships.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Code    string      `json:"code,omitempty"`
	Path    string      `json:"path,omitempty"`
	Message string      `json:"message"`
	Hint    string      `json:"hint,omitempty"`
}

func (w Warning) String() string {
	s := string(w.Kind) + ": " + w.Message
	if w.Path != "" {
		s += " (" + w.Path + ")"
	}
	if w.Hint != "" {
		s += "; " + w.Hint
	}
	return s
}

// FileWarning wraps a problem found while reading the input tree
func FileWarning(path, message string) Warning {
	return Warning{Kind: KindMalformedFile, Path: path, Message: message}
}

// maxSuggestionDistance bounds "did you mean" hints; codes are short so
// anything further apart is noise.
const maxSuggestionDistance = 2

// suggest returns a hint naming the known code closest to unknown, or "".
func suggest(unknown string, known []string) string {
	best, bestDist := "", maxSuggestionDistance+1
	candidates := append([]string(nil), known...)
	sort.Strings(candidates)
	for _, k := range candidates {
		if d := levenshtein.Distance(unknown, k, nil); d < bestDist {
			best, bestDist = k, d
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf("did you mean %s?", best)
}
