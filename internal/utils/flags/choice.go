// Package flags holds shared command-line flag values.
package flags

import (
	"fmt"
	"strings"
)

const (
	choicePlaceholderPrefixConstant   = "<"
	choicePlaceholderSuffixConstant   = ">"
	choiceSeparatorConstant           = "|"
	choiceUsageTemplateConstant       = "`%s` %s"
	choiceValueTypeConstant           = "choice"
	unsupportedChoiceTemplateConstant = "unsupported value %q, expected one of %s"
)

// ChoiceValue is a pflag.Value restricted to a fixed set of case-insensitive options.
// Accepted values are stored lower-cased and trimmed.
type ChoiceValue struct {
	selected string
	choices  []string
}

// NewChoiceValue constructs a ChoiceValue preselecting defaultChoice.
func NewChoiceValue(defaultChoice string, choices []string) *ChoiceValue {
	return &ChoiceValue{
		selected: normalizeChoice(defaultChoice),
		choices:  uniqueChoices(choices),
	}
}

// String returns the selected option.
func (value *ChoiceValue) String() string {
	if value == nil {
		return ""
	}
	return value.selected
}

// Set selects candidate when it is one of the accepted options.
func (value *ChoiceValue) Set(candidate string) error {
	normalizedCandidate := normalizeChoice(candidate)
	for _, choice := range value.choices {
		if normalizeChoice(choice) == normalizedCandidate {
			value.selected = normalizedCandidate
			return nil
		}
	}
	return fmt.Errorf(unsupportedChoiceTemplateConstant, candidate, strings.Join(value.choices, choiceSeparatorConstant))
}

// Type names the value kind in flag usage.
func (value *ChoiceValue) Type() string {
	return choiceValueTypeConstant
}

// Usage renders description prefixed by a placeholder listing the options with the
// selected option upper-cased, for example `<debug|INFO|warn>`.
func (value *ChoiceValue) Usage(description string) string {
	return FormatChoiceUsage(value.selected, value.choices, description)
}

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	normalizedDefault := normalizeChoice(defaultChoice)
	displayChoices := make([]string, 0, len(choices))
	for _, choice := range uniqueChoices(choices) {
		if len(normalizedDefault) > 0 && normalizeChoice(choice) == normalizedDefault {
			choice = strings.ToUpper(choice)
		}
		displayChoices = append(displayChoices, choice)
	}

	placeholder := choicePlaceholderPrefixConstant + strings.Join(displayChoices, choiceSeparatorConstant) + choicePlaceholderSuffixConstant
	return strings.TrimSpace(fmt.Sprintf(choiceUsageTemplateConstant, placeholder, strings.TrimSpace(description)))
}

func uniqueChoices(choices []string) []string {
	unique := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		normalizedChoice := normalizeChoice(trimmedChoice)
		if len(normalizedChoice) == 0 {
			continue
		}
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}
		seen[normalizedChoice] = struct{}{}
		unique = append(unique, trimmedChoice)
	}
	return unique
}

func normalizeChoice(choice string) string {
	return strings.ToLower(strings.TrimSpace(choice))
}
