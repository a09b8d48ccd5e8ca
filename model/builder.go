package model

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/bspecgen/errors"
	"github.com/teranos/bspecgen/extract"
	"github.com/teranos/bspecgen/logger"
)

// Input is everything the Builder needs for one run
type Input struct {
	Version           string
	Revision          string
	VocabularyVersion string
	// Facts in traversal order; the first of two equal codes wins
	Facts []extract.Facts
	Files []FileEntry
	// Warnings found before building, such as unreadable files
	Warnings []Warning
}

// Builder assembles a CanonicalModel from extracted facts. It holds no state
// between runs; Build is a pure function of its Input and the Builder options.
type Builder struct {
	tables    Tables
	clock     func() time.Time
	generator string
	logger    *zap.SugaredLogger
}

// Option configures a Builder
type Option func(*Builder)

// WithTables replaces the built-in schema, conformance and profile tables
func WithTables(t Tables) Option {
	return func(b *Builder) { b.tables = t }
}

// WithClock sets the time source for GeneratedAt
func WithClock(clock func() time.Time) Option {
	return func(b *Builder) { b.clock = clock }
}

// WithGenerator sets the generator identity stamped into the model
func WithGenerator(name string) Option {
	return func(b *Builder) { b.generator = name }
}

// WithLogger sets the builder's logger
func WithLogger(l *zap.SugaredLogger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a Builder with DefaultTables and the wall clock
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		tables:    DefaultTables(),
		clock:     time.Now,
		generator: "bspecgen",
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = logger.OrNop(b.logger)
	return b
}

// Build returns one complete model plus every warning found, or a fatal
// error. It never returns a partially built model.
func (b *Builder) Build(in Input) (*CanonicalModel, []Warning, error) {
	warnings := append([]Warning(nil), in.Warnings...)

	m := &CanonicalModel{
		Version:           in.Version,
		Generator:         b.generator,
		SourceRevision:    in.Revision,
		VocabularyVersion: in.VocabularyVersion,
		Documents:         make(map[string]DocumentRecord),
		Schema:            make(map[string]SchemaField),
		FileIndex:         make(map[string]FileEntry, len(in.Files)),
	}

	// Index by code, first wins
	firstPath := make(map[string]string)
	for _, f := range in.Facts {
		if !f.Keep() {
			b.logger.Infow("Skipping document without a code", logger.FieldPath, f.SourcePath)
			warnings = append(warnings, Warning{
				Kind:    KindMissingCode,
				Path:    f.SourcePath,
				Message: "document has no document type code and was skipped",
			})
			continue
		}
		if !ValidCode(f.Code) {
			b.logger.Warnw("Skipping document with an invalid code", logger.FieldCode, f.Code, logger.FieldPath, f.SourcePath)
			warnings = append(warnings, Warning{
				Kind:    KindInvalidCode,
				Code:    f.Code,
				Path:    f.SourcePath,
				Message: fmt.Sprintf("document type code %q is not an identifier; the document was skipped", f.Code),
				Hint:    "codes are letters and digits, such as MSN",
			})
			continue
		}
		if first, dup := firstPath[f.Code]; dup {
			b.logger.Warnw("Duplicate document code",
				logger.FieldCode, f.Code,
				logger.FieldPath, f.SourcePath,
				logger.FieldFirstAt, first)
			warnings = append(warnings, Warning{
				Kind:    KindDuplicateCode,
				Code:    f.Code,
				Path:    f.SourcePath,
				Message: fmt.Sprintf("code %s is already defined; this document was dropped", f.Code),
				Hint:    "first defined in " + first,
			})
			continue
		}
		firstPath[f.Code] = f.SourcePath
		m.Documents[f.Code] = recordFromFacts(f)
		m.DocumentOrder = append(m.DocumentOrder, f.Code)
	}

	if len(m.Documents) == 0 {
		return nil, warnings, errors.WithHint(
			errors.Mark(errors.New("no documents with a document type code were found"), errors.ErrNoDocuments),
			"check source.dir and that documents carry a **Document Type Code:** line",
		)
	}

	m.Domains, m.DomainOrder = GroupDomains(m.OrderedDocuments())

	// Built-in tables
	for _, f := range b.tables.Schema {
		if _, dup := m.Schema[f.Name]; dup {
			warnings = append(warnings, Warning{
				Kind:    KindDuplicateSchemaField,
				Message: fmt.Sprintf("schema field %s is defined twice; the first definition is kept", f.Name),
			})
			continue
		}
		f.AllowedValues = cloneStrings(f.AllowedValues)
		m.Schema[f.Name] = f
	}
	for _, l := range b.tables.ConformanceLevels {
		l.RequiredCodes = cloneStrings(l.RequiredCodes)
		l.AdditionalRequirements = cloneStrings(l.AdditionalRequirements)
		m.ConformanceLevels = append(m.ConformanceLevels, l)
	}
	for _, p := range b.tables.IndustryProfiles {
		p.AdditionalDocuments = cloneStrings(p.AdditionalDocuments)
		p.SpecializedMetrics = cloneStrings(p.SpecializedMetrics)
		m.IndustryProfiles = append(m.IndustryProfiles, p)
	}

	for _, f := range in.Files {
		m.FileIndex[f.Path] = f
	}

	checked, err := m.Check()
	if err != nil {
		return nil, warnings, err
	}
	warnings = append(warnings, checked...)

	// Whole seconds so the stamp survives a text round trip unchanged
	m.GeneratedAt = b.clock().UTC().Truncate(time.Second)

	b.logger.Infow("Built canonical model",
		logger.FieldVersion, m.Version,
		logger.FieldCount, len(m.Documents),
		"domains", len(m.Domains),
		"warnings", len(warnings))
	return m, warnings, nil
}

func recordFromFacts(f extract.Facts) DocumentRecord {
	examples := make([]Example, 0, len(f.Examples))
	for _, e := range f.Examples {
		examples = append(examples, Example{ID: e.ID, Title: e.Title, Description: e.Description})
	}
	return DocumentRecord{
		Code:       f.Code,
		Name:       f.Name,
		Domain:     f.Domain,
		Purpose:    f.Purpose,
		SourcePath: f.SourcePath,
		Examples:   examples,
	}
}

// GroupDomains groups documents by domain, preserving first-seen order both
// for the domains and for each domain's codes.
func GroupDomains(docs []DocumentRecord) (map[string]DomainRecord, []string) {
	domains := make(map[string]DomainRecord)
	var order []string
	for _, doc := range docs {
		d, ok := domains[doc.Domain]
		if !ok {
			d = newDomain(doc.Domain)
			order = append(order, doc.Domain)
		}
		d.DocumentCodes = append(d.DocumentCodes, doc.Code)
		d.DocumentCount = len(d.DocumentCodes)
		domains[doc.Domain] = d
	}
	return domains, order
}

func newDomain(name string) DomainRecord {
	return DomainRecord{
		Name:        name,
		DisplayName: name,
		Slug:        extract.Slug(name),
		Description: "Business domain for " + strings.ToLower(name),
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
