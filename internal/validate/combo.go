package validate

import (
	"strings"

	"cozyoven/internal/domain"
)

// Rule names a combo invariant. Rules are checked in declaration order.
type Rule string

const (
	RuleName           Rule = "name"
	RuleSelectionCount Rule = "selection_count"
	RuleBasePrice      Rule = "base_price"
	RuleActiveOptions  Rule = "active_options"
	RuleLinkedProduct  Rule = "linked_product"
	RuleOptionIDs      Rule = "option_ids"
	RuleOptionFields   Rule = "option_fields"
)

// ComboError reports the first invariant a candidate config broke.
type ComboError struct {
	Rule Rule
	Msg  string
}

func (e *ComboError) Error() string { return e.Msg }

// Combo checks a fully merged candidate config and stops at the first failure.
func Combo(c domain.ComboConfig) error {
	if strings.TrimSpace(c.Name) == "" {
		return &ComboError{RuleName, "name required"}
	}
	if c.BaseSelectionCount < 1 {
		return &ComboError{RuleSelectionCount, "selection count must be positive"}
	}
	if !c.BasePrice.IsPositive() {
		return &ComboError{RuleBasePrice, "base price must be positive"}
	}
	if len(c.ActiveOptions()) < c.BaseSelectionCount {
		return &ComboError{RuleActiveOptions, "not enough active options"}
	}
	if strings.TrimSpace(c.BaseProductID) == "" {
		return &ComboError{RuleLinkedProduct, "linked product required"}
	}
	seen := make(map[string]struct{}, len(c.Options))
	for _, o := range c.Options {
		if o.ID == "" {
			return &ComboError{RuleOptionIDs, "option id required"}
		}
		if _, dup := seen[o.ID]; dup {
			return &ComboError{RuleOptionIDs, "duplicate option id"}
		}
		seen[o.ID] = struct{}{}
	}
	for _, o := range c.Options {
		if _, ok := Name(o.Name); !ok || o.Price.IsNegative() {
			return &ComboError{RuleOptionFields, "invalid option"}
		}
	}
	return nil
}
