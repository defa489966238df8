package rules

import "fmt"

// ErrTemplateNotFound indicates a template id is not stored
type ErrTemplateNotFound struct {
	TemplateID string
}

func (e *ErrTemplateNotFound) Error() string {
	return fmt.Sprintf("template not found: %s", e.TemplateID)
}

// ErrRuleNotFound indicates a rule id is not in the registry
type ErrRuleNotFound struct {
	RuleID string
}

func (e *ErrRuleNotFound) Error() string {
	return fmt.Sprintf("rule not found: %s", e.RuleID)
}
