package source

import (
	"github.com/teranos/bspecgen/extract"
	"github.com/teranos/bspecgen/model"
)

// Input turns the tree into builder input: every document through ex in
// path order, every file into the index, every problem into a
// malformed-file warning.
func (t *Tree) Input(ex *extract.Extractor) model.Input {
	in := model.Input{
		Version:           t.Version,
		Revision:          t.Revision,
		VocabularyVersion: ex.Vocabulary().Version,
	}
	for _, f := range t.Files {
		if f.Document {
			text := f.Content
			if f.HasFrontmatter {
				text = f.ParsedContent
			}
			in.Facts = append(in.Facts, ex.Extract(text, f.Path))
		}
		in.Files = append(in.Files, model.FileEntry{
			Path:           f.Path,
			Name:           f.Name,
			Type:           string(f.Type),
			Extension:      f.Extension,
			Size:           f.Size,
			HasFrontmatter: f.HasFrontmatter,
			Frontmatter:    f.Frontmatter,
			Content:        f.Content,
			ParsedContent:  f.ParsedContent,
		})
	}
	for _, p := range t.Problems {
		in.Warnings = append(in.Warnings, model.FileWarning(p.Path, p.Message))
	}
	return in
}
