package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/metalagman/skillspec/internal/policy"
)

// ComplianceViolation is one failed policy rule.
type ComplianceViolation struct {
	Policy   string `json:"policy"`
	RuleID   string `json:"rule_id"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// ComplianceResult is the outcome of the compliance layer.
type ComplianceResult struct {
	Valid           bool                  `json:"valid"`
	PoliciesApplied int                   `json:"policies_applied"`
	RulesPassed     int                   `json:"rules_passed"`
	RulesFailed     int                   `json:"rules_failed"`
	Violations      []ComplianceViolation `json:"violations"`
}

// ComplianceChecker evaluates policy predicates against the normalized
// spec document. An unparseable predicate fails its own rule with an
// explanatory violation; it never aborts the check.
type ComplianceChecker struct{}

func NewComplianceChecker() *ComplianceChecker { return &ComplianceChecker{} }

// Check applies all policies to the raw document. The document should
// already have normalized decision rules so predicate paths address
// the canonical form.
func (c *ComplianceChecker) Check(raw map[string]any, policies []*policy.Policy) ComplianceResult {
	result := ComplianceResult{Valid: true}
	for _, pol := range policies {
		result.PoliciesApplied++
		for _, rule := range pol.Rules {
			ok, err := evalPredicate(raw, rule.Predicate)
			if err != nil {
				result.RulesFailed++
				result.Violations = append(result.Violations, ComplianceViolation{
					Policy:   pol.Name,
					RuleID:   rule.ID,
					Severity: rule.Severity,
					Message:  fmt.Sprintf("Predicate could not be evaluated: %v", err),
				})
				if rule.Severity == "error" {
					result.Valid = false
				}
				continue
			}
			if ok {
				result.RulesPassed++
				continue
			}
			result.RulesFailed++
			msg := rule.Description
			if msg == "" {
				msg = fmt.Sprintf("%s %s", rule.Predicate.Path, rule.Predicate.Op)
			}
			result.Violations = append(result.Violations, ComplianceViolation{
				Policy:   pol.Name,
				RuleID:   rule.ID,
				Severity: rule.Severity,
				Message:  msg,
			})
			if rule.Severity == "error" {
				result.Valid = false
			}
		}
	}
	return result
}

func evalPredicate(raw map[string]any, p policy.Predicate) (bool, error) {
	if p.Path == "" {
		return false, fmt.Errorf("predicate has no path")
	}
	value, found := lookupPath(raw, p.Path)

	switch p.Op {
	case "exists":
		return found && value != nil, nil
	case "absent":
		return !found || value == nil, nil
	case "equals":
		return found && looseEqual(value, p.Value), nil
	case "not_equals":
		return !found || !looseEqual(value, p.Value), nil
	case "matches":
		pattern, ok := p.Value.(string)
		if !ok {
			return false, fmt.Errorf("matches requires a string pattern")
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		str, ok := value.(string)
		return found && ok && re.MatchString(str), nil
	case "contains":
		if !found {
			return false, nil
		}
		switch t := value.(type) {
		case string:
			needle, ok := p.Value.(string)
			return ok && strings.Contains(t, needle), nil
		case []any:
			for _, item := range t {
				if looseEqual(item, p.Value) {
					return true, nil
				}
			}
			return false, nil
		default:
			return false, nil
		}
	case "min_count", "max_count":
		n, err := intValue(p.Value)
		if err != nil {
			return false, fmt.Errorf("%s requires an integer value", p.Op)
		}
		list, ok := value.([]any)
		if !found || !ok {
			return false, nil
		}
		if p.Op == "min_count" {
			return len(list) >= n, nil
		}
		return len(list) <= n, nil
	case "min_length":
		n, err := intValue(p.Value)
		if err != nil {
			return false, fmt.Errorf("min_length requires an integer value")
		}
		str, ok := value.(string)
		return found && ok && len(str) >= n, nil
	default:
		return false, fmt.Errorf("unknown op: %s", p.Op)
	}
}

var pathSegmentRE = regexp.MustCompile(`^([^\[\]]+)((\[\d+\])*)$`)

// lookupPath resolves a dot/bracket addressed path against the
// document, e.g. "skill.name" or "inputs[0].type".
func lookupPath(raw map[string]any, path string) (any, bool) {
	var current any = raw
	for _, segment := range strings.Split(path, ".") {
		m := pathSegmentRE.FindStringSubmatch(segment)
		if m == nil {
			return nil, false
		}
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[m[1]]
		if !ok {
			return nil, false
		}
		for _, idx := range indexSegmentRE.FindAllStringSubmatch(m[2], -1) {
			list, isList := current.([]any)
			if !isList {
				return nil, false
			}
			i, _ := strconv.Atoi(idx[1])
			if i >= len(list) {
				return nil, false
			}
			current = list[i]
		}
	}
	return current, true
}

// looseEqual compares scalars across YAML's numeric representations so
// a policy value of 1 matches a document value of 1.0.
func looseEqual(a, b any) bool {
	if a == b {
		return true
	}
	af, aok := floatValue(a)
	bf, bok := floatValue(b)
	return aok && bok && af == bf
}

func floatValue(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}

func intValue(v any) (int, error) {
	f, ok := floatValue(v)
	if !ok || f != float64(int(f)) {
		return 0, fmt.Errorf("not an integer: %v", v)
	}
	return int(f), nil
}
