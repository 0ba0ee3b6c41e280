package models

import (
	"strconv"
	"strings"
)

// Operator is a split comparison direction.
type Operator string

const (
	OpLessEq  Operator = "<="
	OpGreater Operator = ">"
)

// Condition is one immutable (feature, operator, threshold) clause.
type Condition struct {
	Feature   string   `json:"feature"`
	Op        Operator `json:"operator"`
	Threshold float64  `json:"threshold"`
}

// Holds reports whether a feature value satisfies the condition.
func (c Condition) Holds(v float64) bool {
	if c.Op == OpLessEq {
		return v <= c.Threshold
	}
	return v > c.Threshold
}

func (c Condition) String() string {
	return c.Feature + " " + string(c.Op) + " " + strconv.FormatFloat(c.Threshold, 'f', -1, 64)
}

// DecisionPath is one root-to-leaf path: the ordered conjunction of split
// conditions plus the leaf's statistics. Condition order mirrors the
// traversal for readability; evaluation is order-independent.
type DecisionPath struct {
	Conditions []Condition
	Prediction float64
	Samples    int
	Weight     float64
	TreeIndex  int
	LeafIndex  int
}

// RankedRule is a DecisionPath with its computed importance score and
// training-sample coverage fraction (always in [0,1]).
type RankedRule struct {
	Path       DecisionPath
	Importance float64
	Coverage   float64
}

// SimplifiedRule carries at most one condition per (feature, operator) pair,
// the most restrictive of the originals, with thresholds rounded for display.
// The leaf statistics are copied from the source path unchanged.
type SimplifiedRule struct {
	Conditions []Condition
	Prediction float64
	Samples    int
	Coverage   float64
	Importance float64
	TreeIndex  int
}

// ConditionText joins the conditions into an "a AND b" clause.
func ConditionText(conds []Condition) string {
	if len(conds) == 0 {
		return "always"
	}
	parts := make([]string, len(conds))
	for i, c := range conds {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}
