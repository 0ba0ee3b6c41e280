// Package rules converts a trained tree ensemble into a ranked, simplified,
// deduplicated set of directional trading signals. Every stage is a pure
// function over in-memory inputs; nothing here touches I/O.
package rules

import (
	"fmt"

	"RuleForge/internal/domain/models"
)

// Walk traverses one tree depth-first and calls emit once per leaf with the
// accumulated root-to-leaf path. Paths are produced lazily in a single pass;
// a non-nil error from emit aborts the traversal.
//
// A tree with only a root yields one path with no conditions (an always-true
// rule); whether to keep such paths is the caller's policy.
func Walk(t *models.Tree, emit func(models.DecisionPath) error) error {
	if t == nil || t.Root == nil {
		return fmt.Errorf("tree %d: %w: nil root", treeIndex(t), models.ErrMalformedTree)
	}
	w := &walker{
		tree: t.Index,
		seen: make(map[*models.Node]struct{}),
		emit: emit,
	}
	return w.visit(t.Root)
}

// Paths collects every root-to-leaf path of a tree eagerly.
func Paths(t *models.Tree) ([]models.DecisionPath, error) {
	var out []models.DecisionPath
	err := Walk(t, func(p models.DecisionPath) error {
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type walker struct {
	tree  int
	seen  map[*models.Node]struct{}
	conds []models.Condition
	leaf  int
	emit  func(models.DecisionPath) error
}

func (w *walker) visit(n *models.Node) error {
	// Visited-node guard: trees are acyclic by construction upstream, but a
	// cycle must fail the traversal rather than hang it.
	if _, ok := w.seen[n]; ok {
		return fmt.Errorf("tree %d: %w: cycle detected", w.tree, models.ErrMalformedTree)
	}
	w.seen[n] = struct{}{}

	if n.Leaf {
		if n.LessEq != nil || n.Greater != nil {
			return fmt.Errorf("tree %d: %w: node is both leaf and split", w.tree, models.ErrMalformedTree)
		}
		path := models.DecisionPath{
			Conditions: append([]models.Condition(nil), w.conds...),
			Prediction: n.Value,
			Samples:    n.Count,
			Weight:     n.Weight,
			TreeIndex:  w.tree,
			LeafIndex:  w.leaf,
		}
		w.leaf++
		return w.emit(path)
	}

	if n.LessEq == nil || n.Greater == nil {
		return fmt.Errorf("tree %d: %w: split node missing branch", w.tree, models.ErrMalformedTree)
	}

	w.conds = append(w.conds, models.Condition{Feature: n.Feature, Op: models.OpLessEq, Threshold: n.Threshold})
	if err := w.visit(n.LessEq); err != nil {
		return err
	}
	w.conds[len(w.conds)-1].Op = models.OpGreater
	if err := w.visit(n.Greater); err != nil {
		return err
	}
	w.conds = w.conds[:len(w.conds)-1]
	return nil
}

func treeIndex(t *models.Tree) int {
	if t == nil {
		return -1
	}
	return t.Index
}
