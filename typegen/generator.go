package typegen

// Generator renders an IR into one target language's source tree.
// Each target (TypeScript, Python, Go, Rust) implements this interface.
type Generator interface {
	// Language returns the target name used in config and CLI flags
	// (e.g., "typescript", "go")
	Language() string

	// DataPath is where the bundled canonical JSON lives, relative to the
	// output root. ReadBack loads it from there.
	DataPath(opts Options) string

	// ManifestPath is the package manifest holding the version string
	ManifestPath() string

	// Generate returns every file of the output tree
	Generate(ir *IR, opts Options) ([]File, error)
}

// Options carries per-target package identity
type Options struct {
	// Package is the npm package, Python distribution, Go module path or
	// crate name
	Package string
}

// File is one generated file, Path relative to the output root
type File struct {
	Path string
	Data []byte
}

// Header is the first comment block of every generated source file,
// without comment markers.
func Header(ir *IR) []string {
	lines := []string{
		"Code generated by " + ir.Generator + " from BSpec v" + ir.Version + ". DO NOT EDIT.",
		"Regenerate with: bspecgen generate",
		"Generated at: " + ir.GeneratedAt,
	}
	if ir.SourceRevision != "" {
		lines = append(lines, "Source revision: "+ir.SourceRevision)
	}
	return lines
}
