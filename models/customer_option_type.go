package models

// Customer option type constants. The catalog is closed: administrative
// code validates against AllOptionTypes and nothing else.
const (
	OptionTypeText                = "text"
	OptionTypeTextarea            = "textarea"
	OptionTypeSelect              = "select"
	OptionTypeSelectExpanded      = "select_expanded"
	OptionTypeMultiSelect         = "multi_select"
	OptionTypeMultiSelectExpanded = "multi_select_expanded"
	OptionTypeFile                = "file"
	OptionTypeDate                = "date"
	OptionTypeDatetime            = "datetime"
	OptionTypeNumber              = "number"
	OptionTypeBoolean             = "boolean"
)

// Configuration option kinds used by the default configuration schema
const (
	ConfigKindNumber   = "number"
	ConfigKindDate     = "date"
	ConfigKindDatetime = "datetime"
	ConfigKindBoolean  = "boolean"
	ConfigKindText     = "text"
)

// ConfigOption describes one named configuration knob of an option type:
// its primitive kind and the default value used to seed admin forms.
type ConfigOption struct {
	Kind    string `json:"kind"`
	Default any    `json:"default"`
}

// AllOptionTypes returns the closed list of supported option types.
func AllOptionTypes() []string {
	return []string{
		OptionTypeFile,
		OptionTypeText,
		OptionTypeTextarea,
		OptionTypeSelect,
		OptionTypeSelectExpanded,
		OptionTypeMultiSelect,
		OptionTypeMultiSelectExpanded,
		OptionTypeDate,
		OptionTypeDatetime,
		OptionTypeNumber,
		OptionTypeBoolean,
	}
}

// IsValidOptionType reports whether t is part of the catalog.
func IsValidOptionType(t string) bool {
	for _, known := range AllOptionTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// IsSelectType reports whether a raw value for this type must be resolved
// against the value catalog.
func IsSelectType(t string) bool {
	switch t {
	case OptionTypeSelect, OptionTypeSelectExpanded, OptionTypeMultiSelect, OptionTypeMultiSelectExpanded:
		return true
	}
	return false
}

// IsDateType reports whether a raw value for this type must be parsed as a
// date with timezone awareness.
func IsDateType(t string) bool {
	return t == OptionTypeDate || t == OptionTypeDatetime
}

// DefaultConfiguration returns the default configuration schema for an
// option type. Types without configurable knobs return an empty map.
func DefaultConfiguration(t string) map[string]ConfigOption {
	switch t {
	case OptionTypeText, OptionTypeTextarea:
		return map[string]ConfigOption{
			"min_length": {Kind: ConfigKindNumber, Default: 0},
			"max_length": {Kind: ConfigKindNumber, Default: 255},
		}
	case OptionTypeDate:
		return map[string]ConfigOption{
			"min_date": {Kind: ConfigKindDate, Default: "1900-01-01"},
			"max_date": {Kind: ConfigKindDate, Default: "3000-12-31"},
		}
	case OptionTypeDatetime:
		return map[string]ConfigOption{
			"min_date": {Kind: ConfigKindDatetime, Default: "1900-01-01T00:00:00Z"},
			"max_date": {Kind: ConfigKindDatetime, Default: "3000-12-31T00:00:00Z"},
		}
	case OptionTypeNumber:
		return map[string]ConfigOption{
			"min_number": {Kind: ConfigKindNumber, Default: 0},
			"max_number": {Kind: ConfigKindNumber, Default: 1000},
		}
	case OptionTypeBoolean:
		return map[string]ConfigOption{
			"default_value": {Kind: ConfigKindBoolean, Default: true},
		}
	case OptionTypeFile:
		return map[string]ConfigOption{
			"max_file_size": {Kind: ConfigKindText, Default: "10M"},
			"min_file_size": {Kind: ConfigKindText, Default: "0B"},
			"multiple":      {Kind: ConfigKindBoolean, Default: false},
			"allowed_types": {Kind: ConfigKindText, Default: ""},
		}
	}
	return map[string]ConfigOption{}
}

// FormWidget maps an option type to the widget tag consumed by the
// form-rendering layer. The tags are opaque to the pricing core.
func FormWidget(t string) string {
	switch t {
	case OptionTypeText:
		return "text"
	case OptionTypeTextarea:
		return "textarea"
	case OptionTypeSelect:
		return "choice"
	case OptionTypeSelectExpanded:
		return "choice_expanded"
	case OptionTypeMultiSelect:
		return "choice_multiple"
	case OptionTypeMultiSelectExpanded:
		return "choice_multiple_expanded"
	case OptionTypeFile:
		return "file"
	case OptionTypeDate:
		return "date"
	case OptionTypeDatetime:
		return "datetime"
	case OptionTypeNumber:
		return "number"
	case OptionTypeBoolean:
		return "checkbox"
	}
	return ""
}
