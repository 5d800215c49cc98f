package mcptools

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// buildParameterSchema derives a JSON-schema-shaped map from cmd's flags,
// the same way the command tree supplies its own --help text: every flag
// becomes an input property, and required flags populate "required".
func buildParameterSchema(cmd *cobra.Command) map[string]any {
	properties := map[string]any{}

	var required []string

	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if flag.Name == helpFlagName {
			return
		}

		properties[flag.Name] = flagToSchemaProperty(flag)

		if isRequiredFlag(flag) {
			required = append(required, flag.Name)
		}
	})

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}

	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

func isRequiredFlag(flag *pflag.Flag) bool {
	annotations, ok := flag.Annotations[cobra.BashCompOneRequiredFlag]

	return ok && len(annotations) > 0 && annotations[0] == "true"
}

func flagToSchemaProperty(flag *pflag.Flag) map[string]any {
	property := map[string]any{
		"type":        mapFlagTypeToJSONType(flag.Value.Type()),
		"description": flag.Usage,
	}

	if enumValuer, ok := flag.Value.(interface{ ValidValues() []string }); ok {
		property["enum"] = enumValuer.ValidValues()
	}

	if flag.DefValue != "" && flag.DefValue != "[]" {
		property["default"] = flag.DefValue
	}

	return property
}

func mapFlagTypeToJSONType(flagType string) string {
	switch flagType {
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "count":
		return "integer"
	case "float32", "float64":
		return "number"
	case "bool":
		return "boolean"
	case "stringSlice", "stringArray", "intSlice":
		return "array"
	default:
		return "string"
	}
}
