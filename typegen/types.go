package typegen

// TypeConverterConfig configures how IR field types print in a target language.
type TypeConverterConfig struct {
	// TypeMapping maps scalar kinds (KindString, KindInt, KindBool) to
	// target types
	TypeMapping map[Kind]string

	// ArrayFormat formats a list type given the element type
	// e.g., Python: "list[%s]", Rust: "Vec<%s>", TypeScript: "%s[]"
	ArrayFormat func(elemType string) string

	// MapFormat formats a string-keyed map type given the value type
	// e.g., Python: "dict[str, %s]", Rust: "BTreeMap<String, %s>"
	MapFormat func(valType string) string

	// StringMapUnknownType is the type for free-form JSON objects
	// e.g., Python: "dict[str, Any]", Rust: "serde_json::Map<String, serde_json::Value>"
	StringMapUnknownType string

	// UnknownType is returned for kinds the target does not map
	UnknownType string
}

// ConvertType renders t with the language rules in config
func ConvertType(t FieldType, config *TypeConverterConfig) string {
	switch t.Kind {
	case KindString, KindInt, KindBool:
		if mapped, ok := config.TypeMapping[t.Kind]; ok {
			return mapped
		}
		return config.UnknownType
	case KindStringList:
		return config.ArrayFormat(ConvertType(FieldType{Kind: KindString}, config))
	case KindRecord:
		return t.Ref
	case KindRecordList:
		return config.ArrayFormat(t.Ref)
	case KindRecordMap:
		return config.MapFormat(t.Ref)
	case KindAnyMap:
		return config.StringMapUnknownType
	default:
		return config.UnknownType
	}
}
