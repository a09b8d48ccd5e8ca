package versionsync

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/teranos/bspecgen/errors"
)

// format reads and rewrites the version field of one manifest kind.
// Rewrites touch only the version string; the rest of the file is kept
// byte for byte.
type format struct {
	read  func(data []byte) (string, error)
	write func(data []byte, version string) ([]byte, error)
}

// formats is keyed by manifest base name
var formats = map[string]format{
	"package.json":   {read: readPackageJSON, write: writeFirst(packageJSONVersion)},
	"pyproject.toml": {read: readTOML("project"), write: writeTOML("project")},
	"Cargo.toml":     {read: readTOML("package"), write: writeTOML("package")},
	"version.go":     {read: readGoConst, write: writeFirst(goVersionConst)},
	"version.txt":    {read: readPlain, write: writePlain},
}

// Supported reports whether manifests with this base name can be checked
func Supported(name string) bool {
	_, ok := formats[name]
	return ok
}

var (
	packageJSONVersion = regexp.MustCompile(`("version"\s*:\s*)"[^"]*"`)
	goVersionConst     = regexp.MustCompile(`(\bVersion\s*=\s*)"[^"]*"`)
	tomlVersion        = regexp.MustCompile(`(?m)^(version\s*=\s*)(?:"[^"]*"|'[^']*')`)
	tomlTable          = regexp.MustCompile(`(?m)^\s*\[`)
)

func readPackageJSON(data []byte) (string, error) {
	var pkg struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return "", errors.Wrap(err, "decode package.json")
	}
	if pkg.Version == "" {
		return "", errors.New("package.json has no version")
	}
	return pkg.Version, nil
}

func readTOML(table string) func([]byte) (string, error) {
	return func(data []byte) (string, error) {
		var doc map[string]interface{}
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return "", errors.Wrap(err, "decode TOML")
		}
		section, ok := doc[table].(map[string]interface{})
		if !ok {
			return "", errors.Newf("no [%s] table", table)
		}
		v, ok := section["version"].(string)
		if !ok || v == "" {
			return "", errors.Newf("[%s] has no version", table)
		}
		return v, nil
	}
}

// writeTOML replaces the version key inside [table], leaving other tables alone
func writeTOML(table string) func([]byte, string) ([]byte, error) {
	header := regexp.MustCompile(`(?m)^\s*\[` + regexp.QuoteMeta(table) + `\]\s*$`)
	return func(data []byte, version string) ([]byte, error) {
		loc := header.FindIndex(data)
		if loc == nil {
			return nil, errors.Newf("no [%s] table", table)
		}
		start := loc[1]
		end := len(data)
		if next := tomlTable.FindIndex(data[start:]); next != nil {
			end = start + next[0]
		}
		body, err := writeFirst(tomlVersion)(data[start:end], version)
		if err != nil {
			return nil, errors.Wrapf(err, "[%s]", table)
		}
		out := append([]byte{}, data[:start]...)
		out = append(out, body...)
		return append(out, data[end:]...), nil
	}
}

func readGoConst(data []byte) (string, error) {
	m := goVersionConst.FindSubmatch(data)
	if m == nil {
		return "", errors.New("no Version constant")
	}
	return strings.Trim(string(m[0][len(m[1]):]), `"`), nil
}

// writeFirst replaces the quoted value of the first match of re, keeping its
// quote character. re's first group is the prefix in front of the value.
func writeFirst(re *regexp.Regexp) func([]byte, string) ([]byte, error) {
	return func(data []byte, version string) ([]byte, error) {
		loc := re.FindSubmatchIndex(data)
		if loc == nil {
			return nil, errors.New("no version field")
		}
		quote := data[loc[3]]
		out := append([]byte{}, data[:loc[3]]...)
		out = append(out, quote)
		out = append(out, version...)
		out = append(out, quote)
		return append(out, data[loc[1]:]...), nil
	}
}

func readPlain(data []byte) (string, error) {
	v := strings.TrimSpace(string(data))
	if v == "" {
		return "", errors.New("empty version marker")
	}
	return v, nil
}

func writePlain(_ []byte, version string) ([]byte, error) {
	return []byte(version + "\n"), nil
}
