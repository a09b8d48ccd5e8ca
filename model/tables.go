package model

// Tables are the built-in definitions the Builder copies into every model.
// They are part of the model's own contract, not derived from documents.
type Tables struct {
	Schema            []SchemaField
	ConformanceLevels []ConformanceLevel
	IndustryProfiles  []IndustryProfile
}

// DefaultTables returns a fresh copy of the BSpec v1 tables
func DefaultTables() Tables {
	return Tables{
		Schema:            defaultSchema(),
		ConformanceLevels: defaultConformanceLevels(),
		IndustryProfiles:  defaultIndustryProfiles(),
	}
}

func defaultSchema() []SchemaField {
	return []SchemaField{
		// Always required
		{Name: "id", Requiredness: Required, ValueType: TypeString, Description: "Globally unique document identifier", ValidationPattern: `^[A-Z]{3}-[a-z0-9-]+$`},
		{Name: "title", Requiredness: Required, ValueType: TypeString, Description: "Clear, descriptive title"},
		{Name: "type", Requiredness: Required, ValueType: TypeString, Description: "Document type code (MSN, SVC, etc.)"},
		{Name: "status", Requiredness: Required, ValueType: TypeEnum, Description: "Document lifecycle status", ValidationPattern: `^(Draft|Review|Accepted|Deprecated)$`, AllowedValues: []string{"Draft", "Review", "Accepted", "Deprecated"}},
		{Name: "version", Requiredness: Required, ValueType: TypeString, Description: "Semantic versioning", ValidationPattern: `^\d+\.\d+\.\d+$`},
		{Name: "owner", Requiredness: Required, ValueType: TypeString, Description: "Who owns and maintains this document"},
		{Name: "created", Requiredness: Required, ValueType: TypeDate, Description: "When document was first created", ValidationPattern: `^\d{4}-\d{2}-\d{2}$`},
		{Name: "updated", Requiredness: Required, ValueType: TypeDate, Description: "When document was last modified", ValidationPattern: `^\d{4}-\d{2}-\d{2}$`},
		// Required once status is Accepted
		{Name: "stakeholders", Requiredness: RequiredForAccepted, ValueType: TypeArray, Description: "Who has interest in this document"},
		{Name: "success_criteria", Requiredness: RequiredForAccepted, ValueType: TypeArray, Description: "Measurable success criteria"},
		// Required for operational businesses
		{Name: "implementation_status", Requiredness: RequiredForOperational, ValueType: TypeEnum, Description: "Implementation progress", AllowedValues: []string{"planned", "in-progress", "implemented", "operational"}},
		{Name: "metrics", Requiredness: RequiredForOperational, ValueType: TypeArray, Description: "How success is measured"},
		// Optional but recommended
		{Name: "reviewers", Requiredness: Optional, ValueType: TypeArray, Description: "Who reviewed/approved this version"},
		{Name: "contributors", Requiredness: Optional, ValueType: TypeArray, Description: "Who contributed to this document"},
		{Name: "expires", Requiredness: Optional, ValueType: TypeDate, Description: "When document expires (optional)", ValidationPattern: `^\d{4}-\d{2}-\d{2}$`},
		{Name: "review_cycle", Requiredness: Optional, ValueType: TypeEnum, Description: "How often to review", AllowedValues: []string{"monthly", "quarterly", "annually"}},
		{Name: "parent", Requiredness: Optional, ValueType: TypeString, Description: "Parent document (hierarchical)"},
		{Name: "depends_on", Requiredness: Optional, ValueType: TypeArray, Description: "Dependencies (this needs those)"},
		{Name: "enables", Requiredness: Optional, ValueType: TypeArray, Description: "Enablements (this makes those possible)"},
		{Name: "conflicts_with", Requiredness: Optional, ValueType: TypeArray, Description: "Mutual exclusions"},
		{Name: "related", Requiredness: Optional, ValueType: TypeArray, Description: "Other relevant documents"},
		{Name: "supersedes", Requiredness: Optional, ValueType: TypeString, Description: "What this document replaces"},
		{Name: "domain", Requiredness: Optional, ValueType: TypeEnum, Description: "Business domain classification", AllowedValues: []string{"strategic", "market", "customer", "product", "model", "operations", "technology", "financial", "risk", "growth", "learning"}},
		{Name: "scope", Requiredness: Optional, ValueType: TypeEnum, Description: "Organizational scope", AllowedValues: []string{"organization", "business-unit", "team", "project"}},
		{Name: "horizon", Requiredness: Optional, ValueType: TypeEnum, Description: "Time horizon", AllowedValues: []string{"short-term", "medium-term", "long-term"}},
		{Name: "priority", Requiredness: Optional, ValueType: TypeEnum, Description: "Business importance", AllowedValues: []string{"critical", "high", "medium", "low"}},
		{Name: "visibility", Requiredness: Optional, ValueType: TypeEnum, Description: "Access level", AllowedValues: []string{"public", "internal", "confidential", "restricted"}},
		{Name: "assumptions", Requiredness: Optional, ValueType: TypeArray, Description: "Key assumptions"},
		{Name: "constraints", Requiredness: Optional, ValueType: TypeArray, Description: "Key constraints"},
		{Name: "risks", Requiredness: Optional, ValueType: TypeArray, Description: "Associated risk documents"},
		{Name: "implementation_date", Requiredness: Optional, ValueType: TypeDate, Description: "When implementation begins/began", ValidationPattern: `^\d{4}-\d{2}-\d{2}$`},
		{Name: "completion_date", Requiredness: Optional, ValueType: TypeDate, Description: "When implementation completes", ValidationPattern: `^\d{4}-\d{2}-\d{2}$`},
		{Name: "resources_required", Requiredness: Optional, ValueType: TypeArray, Description: "Resource requirements"},
		{Name: "tags", Requiredness: Optional, ValueType: TypeArray, Description: "Searchable tags"},
		{Name: "industry", Requiredness: Optional, ValueType: TypeArray, Description: "Industry classifications"},
		{Name: "geography", Requiredness: Optional, ValueType: TypeArray, Description: "Geographic relevance"},
		{Name: "language", Requiredness: Optional, ValueType: TypeString, Description: "Primary language"},
		{Name: "classification", Requiredness: Optional, ValueType: TypeEnum, Description: "Information classification", AllowedValues: []string{"public", "internal", "confidential", "secret"}},
		{Name: "changelog", Requiredness: Optional, ValueType: TypeArray, Description: "Version history"},
	}
}

func defaultConformanceLevels() []ConformanceLevel {
	return []ConformanceLevel{
		{
			Name:                 "bronze",
			DisplayName:          "Bronze Level (Minimum Viable)",
			MinimumDocumentCount: 15,
			RequiredCodes:        []string{"MSN", "VSN", "VAL", "STR", "PER", "JTB", "PRD", "REV", "CST", "RSK"},
			Description:          "Basic framework with core components",
			AdditionalRequirements: []string{
				"Basic framework with core components",
				"Simple implementation approach",
				"All required metadata fields completed",
			},
		},
		{
			Name:                 "silver",
			DisplayName:          "Silver Level (Investment Ready)",
			MinimumDocumentCount: 30,
			RequiredCodes:        []string{"MKT", "SEG", "CMP", "PRD", "FIN", "OPS", "ARC", "SEC", "GOV"},
			Description:          "Comprehensive framework with structured implementation",
			AdditionalRequirements: []string{
				"Comprehensive framework with detailed implementation",
				"Structured governance and quality standards",
				"Regular review and improvement processes",
			},
		},
		{
			Name:                 "gold",
			DisplayName:          "Gold Level (Operational Excellence)",
			MinimumDocumentCount: 50,
			RequiredCodes:        []string{"INN", "LEA", "KNO", "WIS", "DEC", "ANA", "BRD", "CAM"},
			Description:          "Advanced capabilities with sophisticated optimization",
			AdditionalRequirements: []string{
				"Advanced capabilities with sophisticated optimization",
				"Comprehensive ecosystem integration",
				"Strategic management driving competitive advantage",
			},
		},
	}
}

func defaultIndustryProfiles() []IndustryProfile {
	return []IndustryProfile{
		{
			Name:                "software-saas",
			DisplayName:         "Software/SaaS",
			AdditionalDocuments: []string{"ARC", "API", "SEC", "SUP"},
			SpecializedMetrics:  []string{"MRR", "CAC", "LTV", "Churn", "NRR"},
			Description:         "Software as a Service and cloud platforms",
		},
		{
			Name:                "physical-product",
			DisplayName:         "Physical Product",
			AdditionalDocuments: []string{"INF", "QUA", "VND", "REG"},
			SpecializedMetrics:  []string{"COGS", "Inventory", "Manufacturing"},
			Description:         "Physical products and manufacturing businesses",
		},
		{
			Name:                "service-business",
			DisplayName:         "Service Business",
			AdditionalDocuments: []string{"PRC", "SLA", "SKI", "QUA"},
			SpecializedMetrics:  []string{"Utilization", "Capacity", "Quality"},
			Description:         "Professional services and consulting businesses",
		},
		{
			Name:                "nonprofit",
			DisplayName:         "Nonprofit",
			AdditionalDocuments: []string{"PUR", "STA", "MET", "GVN"},
			SpecializedMetrics:  []string{"Impact", "Beneficiaries", "Funding"},
			Description:         "Nonprofit organizations and social enterprises",
		},
	}
}
