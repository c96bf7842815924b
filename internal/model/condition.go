package model

import (
	"strings"

	"github.com/pkg/errors"
)

// Condition is the physical grade of a traded-in device.
// Keep these values stable; they are part of the HTTP contract.
type Condition string

const (
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
)

// Conditions lists every tier from best to worst.
func Conditions() []Condition {
	return []Condition{ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor}
}

// ParseCondition normalizes case and whitespace. Unknown values are rejected,
// never coerced to a default tier.
func ParseCondition(raw string) (Condition, error) {
	c := Condition(strings.ToLower(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", errors.Wrapf(ErrInvalidCondition, "%q is not one of excellent, good, fair, poor", raw)
	}
	return c, nil
}

func (c Condition) Valid() bool {
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return true
	default:
		return false
	}
}

func (c Condition) String() string { return string(c) }
