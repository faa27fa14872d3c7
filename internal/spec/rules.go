package spec

import (
	"slices"
	"strconv"
	"strings"
)

// RuleSchema describes how a constraint kind renders.
type RuleSchema struct {
	// Options are the positional option slots, in render order.
	Options []string
	// Quoted lists the slots whose values render as string literals.
	Quoted []string
	// Silent kinds never render a message.
	Silent bool
}

// Rule kinds.
const (
	RuleValid    = "Valid"
	RuleNotBlank = "NotBlank"
	RuleNotNull  = "NotNull"
	RuleNotEmpty = "NotEmpty"
	RulePattern  = "Pattern"
	RuleSize     = "Size"
	RuleRange    = "Range"
	RuleFormat   = "Format"
)

var ruleSchemas = map[string]RuleSchema{
	RuleValid:    {Silent: true},
	RuleNotBlank: {},
	RuleNotNull:  {},
	RuleNotEmpty: {},
	RulePattern:  {Options: []string{"regexp"}, Quoted: []string{"regexp"}},
	RuleSize:     {Options: []string{"min", "max"}},
	RuleRange:    {Options: []string{"min", "max"}},
	RuleFormat:   {Options: []string{"name"}, Quoted: []string{"name"}},
}

// LookupRule returns the schema of a rule kind.
func LookupRule(kind string) (RuleSchema, bool) {
	s, ok := ruleSchemas[kind]
	return s, ok
}

// RuleKinds returns every known rule kind, sorted.
func RuleKinds() []string {
	kinds := make([]string, 0, len(ruleSchemas))
	for k := range ruleSchemas {
		kinds = append(kinds, k)
	}

	slices.Sort(kinds)

	return kinds
}

// Render renders a rule as a constraint decorator, e.g.
// `Size(min=1,max=2,message="too long")`. Kinds without option slots, or
// rules that supply no options at all, render only their message. Blank
// options and blank messages are left out; the message always comes last.
func (r Rule) Render() string {
	schema := ruleSchemas[r.Kind]

	var parts []string

	if len(schema.Options) > 0 && len(r.Opts) > 0 {
		for i, slot := range schema.Options {
			if i >= len(r.Opts) || strings.TrimSpace(r.Opts[i]) == "" {
				continue
			}

			value := r.Opts[i]
			if slices.Contains(schema.Quoted, slot) {
				value = strconv.Quote(value)
			}

			parts = append(parts, slot+"="+value)
		}
	}

	if !schema.Silent && strings.TrimSpace(r.Msg) != "" {
		parts = append(parts, "message="+strconv.Quote(r.Msg))
	}

	if len(parts) == 0 {
		return r.Kind
	}

	return r.Kind + "(" + strings.Join(parts, ",") + ")"
}
