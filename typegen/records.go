package typegen

// Record names
const (
	RecordExample          = "Example"
	RecordDocumentType     = "DocumentType"
	RecordDomain           = "Domain"
	RecordSchemaField      = "SchemaField"
	RecordConformanceLevel = "ConformanceLevel"
	RecordIndustryProfile  = "IndustryProfile"
	RecordFileEntry        = "FileEntry"
	RecordMetadata         = "DocumentMetadata"
	RecordDocument         = "Document"
	RecordData             = "BSpecData"
	RecordDomainSummary    = "DomainSummary"
	RecordSummary          = "Summary"
)

func str(name, doc string) Field {
	return Field{Name: name, Type: FieldType{Kind: KindString}, Doc: doc}
}

func optStr(name, doc string) Field {
	return withOptional(str(name, doc))
}

func integer(name, doc string) Field {
	return Field{Name: name, Type: FieldType{Kind: KindInt}, Doc: doc}
}

func boolean(name, doc string) Field {
	return Field{Name: name, Type: FieldType{Kind: KindBool}, Doc: doc}
}

func strList(name, doc string) Field {
	return Field{Name: name, Type: FieldType{Kind: KindStringList}, Doc: doc}
}

func anyMap(name, doc string) Field {
	return Field{Name: name, Type: FieldType{Kind: KindAnyMap}, Doc: doc, Optional: true}
}

func ref(name, rec, doc string) Field {
	return Field{Name: name, Type: FieldType{Kind: KindRecord, Ref: rec}, Doc: doc}
}

func refList(name, rec, doc string) Field {
	return Field{Name: name, Type: FieldType{Kind: KindRecordList, Ref: rec}, Doc: doc}
}

func refMap(name, rec, doc string) Field {
	return Field{Name: name, Type: FieldType{Kind: KindRecordMap, Ref: rec}, Doc: doc}
}

// Records returns the record definitions every target emits, dependencies
// first. Field names match the JSON keys of the canonical form.
func Records() []Record {
	return []Record{
		{
			Name: RecordExample,
			Doc:  "An illustrative instance listed by a document type",
			Fields: []Field{
				str("id", "Example identifier"),
				str("title", "Short title"),
				str("description", "What the example shows"),
			},
		},
		{
			Name: RecordDocumentType,
			Doc:  "One document type of the specification",
			Fields: []Field{
				str("code", "Unique document type code, e.g. MSN"),
				str("name", "Display name"),
				str("domain", "Name of the domain this type belongs to"),
				str("purpose", "One-line purpose"),
				str("source_path", "Specification file the type was read from"),
				refList("examples", RecordExample, "Illustrative instances"),
			},
		},
		{
			Name: RecordDomain,
			Doc:  "A business domain grouping document types",
			Fields: []Field{
				str("name", "Domain name"),
				str("display_name", "Human-readable name"),
				str("slug", "Kebab-case directory name"),
				str("description", "Domain description"),
				strList("document_codes", "Member codes in first-seen order"),
				integer("document_count", "Number of member codes"),
			},
		},
		{
			Name: RecordSchemaField,
			Doc:  "A recognized front-matter key",
			Fields: []Field{
				str("name", "Key name"),
				str("requiredness", "required, required_for_accepted, required_for_operational or optional"),
				str("value_type", "string, date, array or enum"),
				optStr("validation_pattern", "Regular expression the value must match"),
				str("description", "What the key records"),
				withOptional(strList("allowed_values", "Closed value set for enum keys")),
			},
		},
		{
			Name: RecordConformanceLevel,
			Doc:  "A completeness tier an instance specification can claim",
			Fields: []Field{
				str("name", "Tier name"),
				str("display_name", "Human-readable name"),
				integer("minimum_document_count", "Fewest document types the tier needs"),
				strList("required_codes", "Document types the tier requires"),
				str("description", "Tier description"),
				withOptional(strList("additional_requirements", "Requirements beyond document presence")),
			},
		},
		{
			Name: RecordIndustryProfile,
			Doc:  "Extra document types expected in one industry",
			Fields: []Field{
				str("name", "Profile name"),
				str("display_name", "Human-readable name"),
				strList("additional_documents", "Document types added by the profile"),
				strList("specialized_metrics", "Metrics the profile tracks"),
				str("description", "Profile description"),
			},
		},
		{
			Name: RecordFileEntry,
			Doc:  "Raw metadata for one file of the specification tree",
			Fields: []Field{
				str("path", "Path relative to the specification root"),
				str("name", "Base name"),
				str("type", "markdown, yaml, text or unknown"),
				str("extension", "File extension including the dot"),
				integer("size", "Size in bytes"),
				boolean("has_frontmatter", "Whether the file starts with a front-matter block"),
				anyMap("frontmatter", "Parsed front-matter"),
				optStr("content", "Raw file content"),
				optStr("parsed_content", "Content after the front-matter block"),
			},
		},
		{
			Name: RecordMetadata,
			Doc:  "Generation envelope of a packaged document",
			Fields: []Field{
				str("source_file", "Specification file path"),
				str("file_name", "Specification file base name"),
				str("generated_at", "RFC 3339 generation time"),
				str("bspec_version", "Specification version"),
			},
		},
		{
			Name: RecordDocument,
			Doc:  "A packaged document: envelope plus content",
			Fields: []Field{
				ref("metadata", RecordMetadata, "Generation envelope"),
				ref("record", RecordDocumentType, "Extracted facts"),
				anyMap("frontmatter", "Parsed front-matter"),
				str("content", "Raw document text"),
				optStr("parsed_content", "Text after the front-matter block"),
			},
		},
		{
			Name: RecordData,
			Doc:  "The canonical model bundled with the SDK",
			Fields: []Field{
				str("version", "Specification version"),
				str("generated_at", "RFC 3339 generation time"),
				str("generator", "Tool that produced the model"),
				optStr("source_revision", "Commit of the specification tree"),
				str("vocabulary_version", "Label vocabulary the facts were extracted with"),
				refMap("documents", RecordDocumentType, "Document types by code"),
				strList("document_order", "Codes in specification order"),
				refMap("domains", RecordDomain, "Domains by name"),
				strList("domain_order", "Domain names in first-seen order"),
				refMap("schema", RecordSchemaField, "Front-matter schema by key"),
				refList("conformance_levels", RecordConformanceLevel, "Tiers, lowest first"),
				refList("industry_profiles", RecordIndustryProfile, "Industry profiles"),
				refMap("file_index", RecordFileEntry, "Every indexed file by path"),
			},
		},
		{
			Name: RecordDomainSummary,
			Doc:  "Document count of one domain",
			Fields: []Field{
				str("name", "Domain name"),
				integer("document_count", "Number of document types"),
			},
		},
		{
			Name: RecordSummary,
			Doc:  "Counts over the whole specification",
			Fields: []Field{
				str("version", "Specification version"),
				integer("document_count", "Number of document types"),
				integer("domain_count", "Number of domains"),
				integer("file_count", "Number of indexed files"),
				refList("domains", RecordDomainSummary, "Per-domain counts in first-seen order"),
			},
		},
	}
}

func withOptional(f Field) Field {
	f.Optional = true
	return f
}
