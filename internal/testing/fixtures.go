// Package testing holds fixtures shared by package tests: a small
// specification tree and the model built from it.
package testing

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/teranos/bspecgen/extract"
	"github.com/teranos/bspecgen/model"
	"github.com/teranos/bspecgen/source"
)

// FixedTime is the generation time stamped into SampleModel
var FixedTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// SourceOptions matches the default source.* configuration
var SourceOptions = source.Options{
	VersionFile:     "version.txt",
	Extensions:      []string{".md"},
	IndexExtensions: []string{".md", ".txt", ".yaml", ".yml"},
}

// SpecFiles is a specification tree with three document types in two
// domains, one front-matter block, one README without a code and one YAML file.
var SpecFiles = map[string]string{
	"version.txt": "1.0.0\n",
	"README.md":   "# BSpec\n\nThe business specification standard.\n",
	"strategic-foundation/MSN-mission.md": `---
id: MSN-acme
title: Mission
status: Accepted
---
# Title: Mission Statement

**Document Type Code:** MSN
**Document Type Name:** Mission Statement

## Purpose and Scope

Defines why the organization exists and whom it serves.

## Examples

- MSN-001: Software company - Make developer tools delightful
`,
	"strategic-foundation/VSN-vision.md": `# Vision

**Document Type Code:** VSN
**Document Type Name:** Vision Statement
**Domain:** Strategic Foundation

## Purpose and Scope

Describes the future the organization is building toward.
`,
	"financial-investment/BUD-budget.md": `# Budget

**Document Type Code:** BUD
**Document Type Name:** Budget Plan

## Purpose and Scope
Allocates money across initiatives for the planning period.
`,
	"schema/fields.yaml": "status: string\n",
}

// WriteSpecTree writes SpecFiles under dir
func WriteSpecTree(t *testing.T, dir string) {
	t.Helper()
	for name, content := range SpecFiles {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", filepath.Dir(p), err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", p, err)
		}
	}
}

// SampleModel reads SpecFiles from memory and builds the model with the
// built-in tables and FixedTime.
func SampleModel(t *testing.T) *model.CanonicalModel {
	t.Helper()

	fs := memfs.New()
	for name, content := range SpecFiles {
		if err := util.WriteFile(fs, name, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	tree, err := source.NewReader(fs, SourceOptions, "", nil).Read(context.Background())
	if err != nil {
		t.Fatalf("Failed to read fixture tree: %v", err)
	}
	in := tree.Input(extract.New(extract.DefaultVocabulary))

	m, _, err := model.NewBuilder(model.WithClock(func() time.Time { return FixedTime })).Build(in)
	if err != nil {
		t.Fatalf("Failed to build fixture model: %v", err)
	}
	return m
}
