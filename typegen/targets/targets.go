// Package targets wires every language generator into one registry.
package targets

import (
	"github.com/teranos/bspecgen/typegen"
	"github.com/teranos/bspecgen/typegen/golang"
	"github.com/teranos/bspecgen/typegen/python"
	"github.com/teranos/bspecgen/typegen/rust"
	"github.com/teranos/bspecgen/typegen/typescript"
)

// Default returns a registry holding the TypeScript, Python, Go and Rust
// generators
func Default() *typegen.Registry {
	return typegen.NewRegistry(
		typescript.NewGenerator(),
		python.NewGenerator(),
		golang.NewGenerator(),
		rust.NewGenerator(),
	)
}
