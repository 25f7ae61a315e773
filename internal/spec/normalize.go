package spec

import (
	"fmt"
	"sort"

	"github.com/go-viper/mapstructure/v2"
)

// NormalizedRules is the canonical form of the decision_rules section:
// one ordered rule list with guaranteed ids plus the matching config.
// Problems carries shape errors for entries that could not be decoded;
// those entries are dropped so later layers can still work with the
// rules that did parse.
type NormalizedRules struct {
	Config   RuleConfig
	Rules    []DecisionRule
	Problems []Problem
}

// NormalizeRules converts any of the three accepted decision_rules
// encodings into the canonical form:
//
//  1. canonical: {"_config": {...}, "rules": [...]}
//  2. legacy keyed: {"rule_id": {...}, ...} where the key supplies the id
//  3. legacy list: [{...}, {...}]
//
// Rules without an explicit id receive "rule_<index>" using the index
// within their source collection; keyed rules inherit their key. The
// transformation is pure and idempotent: normalizing already-normalized
// input yields the same config and rule list.
func NormalizeRules(raw any) NormalizedRules {
	out := NormalizedRules{Config: DefaultRuleConfig()}
	switch v := raw.(type) {
	case nil:
		return out
	case []any:
		out.Rules = decodeRuleList(v, "decision_rules", &out.Problems)
		return out
	case map[string]any:
		if cfg, ok := v["_config"]; ok {
			decodeRuleConfig(cfg, &out.Config, &out.Problems)
		}
		if rules, ok := v["rules"]; ok {
			list, isList := rules.([]any)
			if !isList {
				out.Problems = append(out.Problems, Problem{
					Path:       "decision_rules.rules",
					Message:    "rules must be a sequence",
					Suggestion: "Use a YAML list of rule objects",
				})
				return out
			}
			out.Rules = decodeRuleList(list, "decision_rules.rules", &out.Problems)
			return out
		}
		// Legacy keyed form. Keys are iterated in sorted order so the
		// canonical rule order is deterministic.
		keys := make([]string, 0, len(v))
		for k := range v {
			if k != "_config" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, key := range keys {
			entry, isMap := v[key].(map[string]any)
			if !isMap {
				out.Problems = append(out.Problems, Problem{
					Path:       "decision_rules." + key,
					Message:    "rule entry must be a mapping",
					Suggestion: "Define the rule as an object with when/then",
				})
				continue
			}
			rule, ok := decodeRule(entry, "decision_rules."+key, &out.Problems)
			if !ok {
				continue
			}
			if rule.ID == "" {
				rule.ID = key
			}
			out.Rules = append(out.Rules, rule)
		}
		return out
	default:
		out.Problems = append(out.Problems, Problem{
			Path:       "decision_rules",
			Message:    fmt.Sprintf("decision_rules must be a mapping or sequence, got %T", raw),
			Suggestion: "Use the canonical {_config, rules} form",
		})
		return out
	}
}

func decodeRuleList(list []any, path string, problems *[]Problem) []DecisionRule {
	rules := make([]DecisionRule, 0, len(list))
	for i, item := range list {
		entry, isMap := item.(map[string]any)
		if !isMap {
			*problems = append(*problems, Problem{
				Path:       fmt.Sprintf("%s[%d]", path, i),
				Message:    "rule entry must be a mapping",
				Suggestion: "Define the rule as an object with when/then",
			})
			continue
		}
		rule, ok := decodeRule(entry, fmt.Sprintf("%s[%d]", path, i), problems)
		if !ok {
			continue
		}
		if rule.ID == "" {
			rule.ID = fmt.Sprintf("rule_%d", i)
		}
		rules = append(rules, rule)
	}
	return rules
}

func decodeRule(entry map[string]any, path string, problems *[]Problem) (DecisionRule, bool) {
	var rule DecisionRule
	if err := decodeStrict(entry, &rule); err != nil {
		*problems = append(*problems, Problem{
			Path:       path,
			Message:    fmt.Sprintf("invalid rule shape: %v", err),
			Suggestion: "Check the rule fields (id, priority, is_default, when, then)",
		})
		return DecisionRule{}, false
	}
	return rule, true
}

func decodeRuleConfig(raw any, cfg *RuleConfig, problems *[]Problem) {
	entry, isMap := raw.(map[string]any)
	if !isMap {
		*problems = append(*problems, Problem{
			Path:       "decision_rules._config",
			Message:    "_config must be a mapping",
			Suggestion: "Use match_strategy and conflict_resolution keys",
		})
		return
	}
	decoded := DefaultRuleConfig()
	if err := decodeStrict(entry, &decoded); err != nil {
		*problems = append(*problems, Problem{
			Path:       "decision_rules._config",
			Message:    fmt.Sprintf("invalid _config: %v", err),
			Suggestion: "Use match_strategy and conflict_resolution keys",
		})
		return
	}
	if decoded.MatchStrategy == "" {
		decoded.MatchStrategy = "first_match"
	}
	if decoded.ConflictResolution == "" {
		decoded.ConflictResolution = "error"
	}
	*cfg = decoded
}

// Action decodes the rule's raw then payload into its known fields plus
// the open property bag.
func (r DecisionRule) Action() (RuleAction, error) {
	var action RuleAction
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &action})
	if err != nil {
		return RuleAction{}, err
	}
	if err := dec.Decode(r.Then); err != nil {
		return RuleAction{}, fmt.Errorf("decode rule action: %w", err)
	}
	return action, nil
}

// decodeStrict decodes a raw map into a typed struct, rejecting unknown
// keys so the model stays closed the way the schema demands.
func decodeStrict(input any, result any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      result,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
