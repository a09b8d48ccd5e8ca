package extract

// Vocabulary is the label table the extractor matches against. Changing how
// documents are labeled is a data change here, not a logic change in Extract.
type Vocabulary struct {
	// Version identifies this label set; stamped into model metadata.
	Version string

	CodeLabel   string
	NameLabel   string
	DomainLabel string

	// PurposeHeading is matched as a substring of a markdown heading line.
	PurposeHeading string
	// PurposeWindow is how many lines after the heading are scanned.
	PurposeWindow int

	// ExamplesHeading opens a section whose bullet items become examples.
	ExamplesHeading string

	// PurposeFallback is a fmt template taking the document name.
	PurposeFallback string
	// NameFallback is a fmt template taking the document code.
	NameFallback string
	// UnknownDomain is used when neither a label nor a directory is available.
	UnknownDomain string
}

// DefaultVocabulary is the label set used by the BSpec v1 documents.
var DefaultVocabulary = Vocabulary{
	Version:         "1",
	CodeLabel:       "**Document Type Code:**",
	NameLabel:       "**Document Type Name:**",
	DomainLabel:     "**Domain:**",
	PurposeHeading:  "Purpose and Scope",
	PurposeWindow:   4,
	ExamplesHeading: "Examples",
	PurposeFallback: "Business document of type %s",
	NameFallback:    "%s Document",
	UnknownDomain:   "General",
}
