package usecase

import (
	"fmt"
	"strings"

	"github.com/skinfridge/fridge/internal/domain"
)

// ConsolidateIssues collapses avoid rules sharing the same (source, comp) pair
// into one record whose tags are the union of every tag seen for the pair.
// Records keep the order of their first occurrence and the first message seen.
// Use-with rules pass through unchanged. The input is not modified.
func ConsolidateIssues(rules *domain.RuleSet) domain.RuleSet {
	if rules == nil {
		return domain.RuleSet{Avoid: []domain.AvoidRule{}, UseWith: []domain.UseWithRule{}}
	}

	avoid := make([]domain.AvoidRule, 0, len(rules.Avoid))
	index := make(map[string]int, len(rules.Avoid))
	seenTags := make(map[string]map[string]struct{}, len(rules.Avoid))

	for _, rule := range rules.Avoid {
		key := issueKey(rule.Source, rule.Comp)

		pos, ok := index[key]
		if !ok {
			pos = len(avoid)
			index[key] = pos
			seenTags[key] = make(map[string]struct{})
			avoid = append(avoid, domain.AvoidRule{
				Source: rule.Source,
				Comp:   rule.Comp,
				Rule: domain.RuleDetail{
					Tag:     domain.TagList{},
					Message: rule.Rule.Message,
				},
			})
		}

		tags := seenTags[key]
		for _, tag := range rule.Rule.Tag {
			if _, dup := tags[tag]; dup {
				continue
			}
			tags[tag] = struct{}{}
			avoid[pos].Rule.Tag = append(avoid[pos].Rule.Tag, tag)
		}
	}

	useWith := make([]domain.UseWithRule, len(rules.UseWith))
	copy(useWith, rules.UseWith)

	return domain.RuleSet{Avoid: avoid, UseWith: useWith}
}

// issueKey joins source and comp with a separator that cannot appear in either,
// so ("ab", "c") and ("a", "bc") stay distinct.
func issueKey(source, comp string) string {
	return source + "\x00" + comp
}

// FormatIssueMessages renders the sentences shown in the issues panel,
// avoid issues first and use-with issues after.
func FormatIssueMessages(rules domain.RuleSet) []string {
	messages := make([]string, 0, len(rules.Avoid)+len(rules.UseWith))

	for _, item := range rules.Avoid {
		messages = append(messages, fmt.Sprintf("%s contains %s, so please %s like %s.",
			item.Comp, strings.Join(item.Rule.Tag, ", "), item.Rule.Message, item.Source))
	}
	for _, item := range rules.UseWith {
		messages = append(messages, fmt.Sprintf("%s: %s", item.Source, item.Message))
	}

	return messages
}
