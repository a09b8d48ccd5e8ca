package pack

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/bspecgen/errors"
	"github.com/teranos/bspecgen/extract"
	"github.com/teranos/bspecgen/model"
)

var fixedTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type srcDoc struct {
	dir, code, name, purpose string
}

// testModel builds a model from documents laid out under directories
func testModel(t *testing.T, tables model.Tables, docs ...srcDoc) *model.CanonicalModel {
	t.Helper()
	m, _ := testModelWarnings(t, tables, docs...)
	return m
}

func testModelWarnings(t *testing.T, tables model.Tables, docs ...srcDoc) (*model.CanonicalModel, []model.Warning) {
	t.Helper()
	var facts []extract.Facts
	var files []model.FileEntry
	for _, d := range docs {
		text := "# " + d.name + "\n\n" +
			"**Document Type Code:** " + d.code + "\n" +
			"**Document Type Name:** " + d.name + "\n\n" +
			"## Purpose and Scope\n\n" + d.purpose + "\n"
		rel := d.dir + "/" + d.code + "-spec.md"
		facts = append(facts, extract.Extract(text, rel))
		files = append(files, model.FileEntry{
			Path:          rel,
			Name:          d.code + "-spec.md",
			Type:          "markdown",
			Extension:     ".md",
			Size:          int64(len(text)),
			Content:       text,
			ParsedContent: text,
		})
	}
	files = append(files, model.FileEntry{
		Path:      "version.txt",
		Name:      "version.txt",
		Type:      "text",
		Extension: ".txt",
		Size:      5,
		Content:   "1.0.0",
	})

	m, warnings, err := model.NewBuilder(
		model.WithClock(func() time.Time { return fixedTime }),
		model.WithTables(tables),
	).Build(model.Input{Version: "1.0.0", VocabularyVersion: "1", Facts: facts, Files: files})
	require.NoError(t, err)
	return m, warnings
}

func threeDocs(t *testing.T) *model.CanonicalModel {
	return testModel(t, model.Tables{},
		srcDoc{"strategic-foundation", "MSN", "Mission", "Why the organization exists."},
		srcDoc{"strategic-foundation", "VSN", "Vision", "Where the organization is going."},
		srcDoc{"financial-investment", "BUD", "Budget", "How money is allocated."},
	)
}

func TestArchiveName(t *testing.T) {
	tests := []struct {
		prefix, version, want string
	}{
		{"bspec", "1.0.0", "bspec-v1-0-0.tgz"},
		{"bspec", "2.1.0-rc.1", "bspec-v2-1-0-rc-1.tgz"},
		{"acme", "1.0.0+build.7", "acme-v1-0-0-build-7.tgz"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ArchiveName(tt.prefix, tt.version))
	}
}

func TestPack_ThreeDocumentsTwoDomains(t *testing.T) {
	m := threeDocs(t)
	out := t.TempDir()

	res, err := New(Options{Name: "bspec"}, nil).Pack(context.Background(), m, out)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(out, "bspec-v1-0-0.tgz"), res.Path)
	assert.Equal(t, []string{
		"financial-investment/BUD.json",
		"manifest.json",
		"model.json",
		"strategic-foundation/MSN.json",
		"strategic-foundation/VSN.json",
	}, res.Members)
	assert.Empty(t, res.TreeDir)

	// The archive stores members in the same order
	f, err := os.Open(res.Path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	tr := tar.NewReader(gz)
	var names []string
	for {
		hdr, err := tr.Next()
		if err != nil {
			break
		}
		names = append(names, hdr.Name)
	}
	assert.Equal(t, res.Members, names)

	assert.Equal(t, 3, res.Manifest.DocumentCount)
	assert.Equal(t, 2, res.Manifest.DomainCount)
	assert.Equal(t, 4, res.Manifest.MemberCount, "manifest does not list itself")

	info, err := os.Stat(res.Path)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), res.Size)

	// The staging tree never survives without KeepTree
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bspec-v1-0-0.tgz", entries[0].Name())
}

func TestPack_IncludeDocs(t *testing.T) {
	res, err := New(Options{IncludeDocs: true}, nil).Pack(context.Background(), threeDocs(t), t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, res.Members, ReadmeMember)
	assert.Contains(t, res.Members, VersionMember)
	assert.Len(t, res.Members, 7)
}

func TestPack_KeepTree(t *testing.T) {
	out := t.TempDir()
	p := New(Options{KeepTree: true}, nil)

	res, err := p.Pack(context.Background(), threeDocs(t), out)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(out, "bspec-v1-0-0"), res.TreeDir)
	assert.FileExists(t, filepath.Join(res.TreeDir, "strategic-foundation", "MSN.json"))

	// A second run replaces the tree rather than merging into it
	stale := filepath.Join(res.TreeDir, "stale.json")
	require.NoError(t, os.WriteFile(stale, []byte("{}"), 0644))
	_, err = p.Pack(context.Background(), threeDocs(t), out)
	require.NoError(t, err)
	assert.NoFileExists(t, stale)
}

func TestPack_ByteIdentical(t *testing.T) {
	m := threeDocs(t)
	p := New(Options{IncludeDocs: true}, nil)

	first, err := p.Pack(context.Background(), m, t.TempDir())
	require.NoError(t, err)
	second, err := p.Pack(context.Background(), m, t.TempDir())
	require.NoError(t, err)

	a, err := os.ReadFile(first.Path)
	require.NoError(t, err)
	b, err := os.ReadFile(second.Path)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b), "two packs of one model must be byte-identical")
}

func TestPack_UnknownConformanceCodeStillPacks(t *testing.T) {
	tables := model.Tables{ConformanceLevels: []model.ConformanceLevel{
		{Name: "bronze", DisplayName: "Bronze", MinimumDocumentCount: 2, RequiredCodes: []string{"MSN", "VSN", "ZZZ"}},
	}}
	m := testModel(t, tables,
		srcDoc{"strategic-foundation", "MSN", "Mission", "Why."},
		srcDoc{"strategic-foundation", "VSN", "Vision", "Where."},
	)

	res, err := New(Options{}, nil).Pack(context.Background(), m, t.TempDir())
	require.NoError(t, err)
	assert.FileExists(t, res.Path)
}

func TestPack_BrokenInvariantWritesNothing(t *testing.T) {
	m := threeDocs(t)
	rec := m.Documents["MSN"]
	rec.Code = "XXX"
	m.Documents["MSN"] = rec

	out := t.TempDir()
	_, err := New(Options{}, nil).Pack(context.Background(), m, out)
	require.Error(t, err)
	assert.True(t, errors.IsInvariantError(err))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// renameCode rewrites a document code everywhere the model references it
func renameCode(m *model.CanonicalModel, from, to string) {
	rec := m.Documents[from]
	delete(m.Documents, from)
	rec.Code = to
	m.Documents[to] = rec
	for i, c := range m.DocumentOrder {
		if c == from {
			m.DocumentOrder[i] = to
		}
	}
	for name, d := range m.Domains {
		for i, c := range d.DocumentCodes {
			if c == from {
				d.DocumentCodes[i] = to
			}
		}
		m.Domains[name] = d
	}
}

func TestPack_MalformedCodesAreSkipped(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"path separator", "A/B"},
		{"parent traversal", "../../../ESC"},
		{"dot", "M.S"},
		{"punctuation", "X!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			out := filepath.Join(root, "out")
			require.NoError(t, os.Mkdir(out, 0755))

			m, warnings := testModelWarnings(t, model.Tables{},
				srcDoc{"strategic-foundation", "MSN", "Mission", "Why the organization exists."},
				srcDoc{"strategic-foundation", tt.code, "Broken", "Should never be packed."},
				srcDoc{"financial-investment", "BUD", "Budget", "How money is allocated."},
			)
			require.Len(t, warnings, 1)
			assert.Equal(t, model.KindInvalidCode, warnings[0].Kind)
			assert.Equal(t, tt.code, warnings[0].Code)

			res, err := New(Options{KeepTree: true}, nil).Pack(context.Background(), m, out)
			require.NoError(t, err)
			assert.Equal(t, []string{
				"financial-investment/BUD.json",
				"manifest.json",
				"model.json",
				"strategic-foundation/MSN.json",
			}, res.Members)

			art, err := Open(context.Background(), res.Path, t.TempDir())
			require.NoError(t, err)
			assert.Equal(t, []string{"BUD", "MSN"}, art.Model.Codes())

			// Nothing lands beside the output directory
			entries, err := os.ReadDir(root)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, "out", entries[0].Name())
		})
	}
}

func TestPack_UnsafeCodeInModelWritesNothing(t *testing.T) {
	m := threeDocs(t)
	renameCode(m, "MSN", "../ESC")

	root := t.TempDir()
	out := filepath.Join(root, "out")
	require.NoError(t, os.Mkdir(out, 0755))

	_, err := New(Options{KeepTree: true}, nil).Pack(context.Background(), m, out)
	require.Error(t, err)
	assert.True(t, errors.IsInvariantError(err))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoFileExists(t, filepath.Join(root, "ESC.json"))
}

func TestWriteTree_RejectsUnsafePaths(t *testing.T) {
	for _, p := range []string{"../x.json", "a/../../x.json", "/abs/x.json", "."} {
		t.Run(p, func(t *testing.T) {
			root := t.TempDir()
			dir := filepath.Join(root, "tree")
			require.NoError(t, os.Mkdir(dir, 0755))

			err := WriteTree(dir, []Member{
				{Path: "model.json", Data: []byte("{}")},
				{Path: p, Data: []byte("{}")},
			})
			require.Error(t, err)
			assert.True(t, errors.IsArtifactError(err))

			// Validation happens before any member is written
			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)
			assert.NoFileExists(t, filepath.Join(root, "x.json"))
		})
	}
}

func TestWriteTree_CleansPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteTree(dir, []Member{{Path: "./a/./b.json", Data: []byte("{}")}}))
	assert.FileExists(t, filepath.Join(dir, "a", "b.json"))
}

func TestPack_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := t.TempDir()
	_, err := New(Options{}, nil).Pack(ctx, threeDocs(t), out)
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(out, "bspec-v1-0-0.tgz"))
}

func TestOpen_RoundTrip(t *testing.T) {
	m := testModel(t, model.DefaultTables(),
		srcDoc{"strategic-foundation", "MSN", "Mission", "Why the organization exists."},
		srcDoc{"financial-investment", "BUD", "Budget", "How money is allocated."},
		srcDoc{"strategic-foundation", "VSN", "Vision", "Where the organization is going."},
	)
	res, err := New(Options{}, nil).Pack(context.Background(), m, t.TempDir())
	require.NoError(t, err)

	art, err := Open(context.Background(), res.Path, t.TempDir())
	require.NoError(t, err)
	got := art.Model

	assert.Equal(t, m.Version, got.Version)
	assert.True(t, m.GeneratedAt.Equal(got.GeneratedAt))
	assert.Equal(t, m.Generator, got.Generator)
	assert.Equal(t, m.VocabularyVersion, got.VocabularyVersion)
	assert.Equal(t, m.DocumentOrder, got.DocumentOrder)
	assert.Equal(t, m.Documents, got.Documents)
	assert.Equal(t, m.DomainOrder, got.DomainOrder)
	assert.Equal(t, m.Domains, got.Domains)
	assert.Equal(t, m.Schema, got.Schema)
	assert.Equal(t, m.ConformanceLevels, got.ConformanceLevels)
	assert.Equal(t, m.IndustryProfiles, got.IndustryProfiles)
	assert.Equal(t, m.FileIndex, got.FileIndex)
	assert.Equal(t, res.Manifest, art.Manifest)
}

func TestLoad_MissingMembers(t *testing.T) {
	members, err := BuildMembers(threeDocs(t), "bspec-v1-0-0.tgz", false)
	require.NoError(t, err)

	for _, drop := range []string{ModelMember, ManifestMember, "strategic-foundation/MSN.json"} {
		t.Run(drop, func(t *testing.T) {
			var kept []Member
			for _, m := range members {
				if m.Path != drop {
					kept = append(kept, m)
				}
			}
			dir := t.TempDir()
			require.NoError(t, WriteTree(dir, kept))

			_, err := Load(dir)
			require.Error(t, err)
			assert.True(t, errors.IsArtifactError(err), "got %v", err)
		})
	}
}

func TestLoad_SizeMismatch(t *testing.T) {
	members, err := BuildMembers(threeDocs(t), "bspec-v1-0-0.tgz", false)
	require.NoError(t, err)
	for i := range members {
		if members[i].Path == "financial-investment/BUD.json" {
			members[i].Data = append(members[i].Data, ' ')
		}
	}
	dir := t.TempDir()
	require.NoError(t, WriteTree(dir, members))

	_, err = Load(dir)
	require.Error(t, err)
	assert.True(t, errors.IsArtifactError(err))
	assert.Contains(t, err.Error(), "financial-investment/BUD.json")
}

func TestReadTarGz_Rejects(t *testing.T) {
	tarball := func(entries ...string) []byte {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		tw := tar.NewWriter(gz)
		for _, name := range entries {
			require.NoError(t, tw.WriteHeader(&tar.Header{Typeflag: tar.TypeReg, Name: name, Mode: 0644, Size: 2}))
			_, err := tw.Write([]byte("{}"))
			require.NoError(t, err)
		}
		require.NoError(t, tw.Close())
		require.NoError(t, gz.Close())
		return buf.Bytes()
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"not gzip", []byte("plain text, not an archive")},
		{"truncated", tarball("model.json")[:20]},
		{"parent escape", tarball("../evil.json")},
		{"absolute", tarball("/etc/evil.json")},
		{"duplicate", tarball("model.json", "./model.json")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTarGz(bytes.NewReader(tt.data))
			require.Error(t, err)
			assert.True(t, errors.IsArtifactError(err), "got %v", err)
		})
	}
}

func TestWriteTarGz_SortsAndStampsMembers(t *testing.T) {
	var buf bytes.Buffer
	stamp := time.Date(2025, 3, 1, 12, 0, 0, 999, time.UTC)
	require.NoError(t, WriteTarGz(&buf, []Member{
		{Path: "b.json", Data: []byte("b")},
		{Path: "a/c.json", Data: []byte("c")},
	}, stamp))

	members, err := ReadTarGz(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/c.json", "b.json"}, MemberPaths(members))
	assert.Equal(t, []byte("c"), members[0].Data)
}
