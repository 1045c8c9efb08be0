// Package template renders {scope.field} placeholders against an execution
// context. Rendering is total: a token that cannot be resolved becomes the
// empty string, never an error.
package template

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oliveagle/jsonpath"

	"github.com/claimwise/automation/model"
)

var tokenPattern = regexp.MustCompile(`{(.*?)}`)

// triggerAliases are convenience names for nested trigger fields; each
// resolves exactly like its {trigger.*} counterpart.
var triggerAliases = map[string]string{
	"inspection.date":      "inspection.date",
	"inspection.time":      "inspection.time",
	"inspection.type":      "inspection.type",
	"inspection.inspector": "inspection.inspector",
	"inspection.notes":     "inspection.notes",
}

func Render(template string, claim *model.Claim, triggerData map[string]any) string {
	// Single pass over the original template: a resolved value that itself
	// looks like a token is emitted literally, never re-substituted.
	return tokenPattern.ReplaceAllStringFunc(template, func(token string) string {
		path := strings.TrimSuffix(strings.TrimPrefix(token, "{"), "}")
		return resolveToken(path, claim, triggerData)
	})
}

func resolveToken(path string, claim *model.Claim, triggerData map[string]any) string {
	switch {
	case strings.HasPrefix(path, "claim."):
		value, ok := claim.Field(strings.TrimPrefix(path, "claim."))
		return format(value, ok)
	case strings.HasPrefix(path, "trigger."):
		return lookupTrigger(strings.TrimPrefix(path, "trigger."), triggerData)
	default:
		if alias, ok := triggerAliases[path]; ok {
			return lookupTrigger(alias, triggerData)
		}
		return ""
	}
}

func lookupTrigger(path string, triggerData map[string]any) string {
	if triggerData == nil {
		return ""
	}
	if value, ok := triggerData[path]; ok {
		return format(value, true)
	}
	// Dotted paths address nested trigger fields.
	value, err := jsonpath.JsonPathLookup(triggerData, "$."+path)
	if err != nil {
		return ""
	}
	return format(value, true)
}

func format(value any, ok bool) string {
	if !ok || value == nil {
		return ""
	}
	return fmt.Sprintf("%v", value)
}
