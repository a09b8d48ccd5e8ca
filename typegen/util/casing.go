package util

import (
	"strings"
	"unicode"
)

// Words splits s into identifier words. Any rune that is not a letter or
// digit separates words, and so do camelCase boundaries
// ("HTTPSConnection" -> ["HTTPS", "Connection"]).
func Words(s string) []string {
	var words []string
	for _, chunk := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words = append(words, splitCamel(chunk)...)
	}
	return words
}

func splitCamel(s string) []string {
	runes := []rune(s)
	var out []string
	start := 0
	for i := 1; i < len(runes); i++ {
		r := runes[i]
		if !unicode.IsUpper(r) {
			continue
		}
		// Break before an upper that follows a lower, or before the last
		// upper of an acronym that is followed by a lower
		prevUpper := unicode.IsUpper(runes[i-1])
		nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if !prevUpper || nextLower {
			out = append(out, string(runes[start:i]))
			start = i
		}
	}
	return append(out, string(runes[start:]))
}

// ToSnakeCase converts any identifier-ish string to snake_case
// ("HTTPSConnection" -> "https_connection", "Review Cycle" -> "review_cycle").
func ToSnakeCase(s string) string {
	return strings.ToLower(strings.Join(Words(s), "_"))
}

// ToScreamingSnake converts s to SCREAMING_SNAKE_CASE
func ToScreamingSnake(s string) string {
	return strings.ToUpper(strings.Join(Words(s), "_"))
}

// ToPascalCase converts snake_case, kebab-case or spaced words to PascalCase.
// Each word keeps its tail as-is, so acronyms survive ("api_key" -> "ApiKey",
// "MSN" -> "MSN").
func ToPascalCase(s string) string {
	var result strings.Builder
	for _, w := range Words(s) {
		runes := []rune(w)
		result.WriteRune(unicode.ToUpper(runes[0]))
		result.WriteString(string(runes[1:]))
	}
	return result.String()
}

// ToCamelCase converts snake_case or kebab-case to camelCase
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if len(pascal) == 0 {
		return pascal
	}
	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// ConstName is the language-independent constant name for a value:
// SCREAMING_SNAKE_CASE, with an N prefix when the value starts with a digit
// ("Strategic Foundation" -> "STRATEGIC_FOUNDATION", "90-day" -> "N90_DAY").
// An empty result becomes "UNNAMED".
func ConstName(value string) string {
	name := ToScreamingSnake(value)
	if name == "" {
		return "UNNAMED"
	}
	if unicode.IsDigit([]rune(name)[0]) {
		name = "N" + name
	}
	return name
}

// PascalFromConst turns a canonical constant name back into PascalCase
// ("STRATEGIC_FOUNDATION" -> "StrategicFoundation", "N90_DAY" -> "N90Day").
func PascalFromConst(name string) string {
	var result strings.Builder
	for _, w := range strings.Split(strings.ToLower(name), "_") {
		if w == "" {
			continue
		}
		runes := []rune(w)
		result.WriteRune(unicode.ToUpper(runes[0]))
		result.WriteString(string(runes[1:]))
	}
	return result.String()
}
