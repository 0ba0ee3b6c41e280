// Package lightgbm decodes the JSON structure produced by LightGBM's
// dump_model() into the domain ensemble. The dump is the stable, documented
// surface for enumerating trees, splits and leaf statistics; training
// itself happens upstream and is out of scope here.
package lightgbm

import (
	"encoding/json"
	"fmt"
	"math"

	"RuleForge/internal/domain/models"
)

type dump struct {
	Name         string     `json:"name"`
	FeatureNames []string   `json:"feature_names"`
	TreeInfo     []dumpTree `json:"tree_info"`
}

type dumpTree struct {
	TreeIndex     int       `json:"tree_index"`
	NumLeaves     int       `json:"num_leaves"`
	TreeStructure *dumpNode `json:"tree_structure"`
}

// dumpNode covers both node kinds; leaves are recognised by the presence of
// leaf_value, splits by split_feature, matching the upstream format.
type dumpNode struct {
	SplitFeature  *int      `json:"split_feature"`
	Threshold     float64   `json:"threshold"`
	DecisionType  string    `json:"decision_type"`
	LeftChild     *dumpNode `json:"left_child"`
	RightChild    *dumpNode `json:"right_child"`
	InternalCount int       `json:"internal_count"`

	LeafValue  *float64 `json:"leaf_value"`
	LeafCount  int      `json:"leaf_count"`
	LeafWeight float64  `json:"leaf_weight"`
}

// Decode parses a model dump into an ensemble plus the training-sample
// total, taken from the first tree's root internal_count (every training
// sample is routed through every boosted tree). Callers with a better
// source of truth may override the total.
func Decode(data []byte) (*models.Ensemble, int, error) {
	var d dump
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, 0, fmt.Errorf("parse model dump: %w", err)
	}
	if len(d.TreeInfo) == 0 {
		return nil, 0, models.ErrEmptyEnsemble
	}

	ens := &models.Ensemble{Trees: make([]*models.Tree, 0, len(d.TreeInfo))}
	for i, td := range d.TreeInfo {
		if td.TreeStructure == nil {
			return nil, 0, fmt.Errorf("tree %d: %w: missing tree_structure", i, models.ErrMalformedTree)
		}
		root, err := buildNode(td.TreeStructure, d.FeatureNames, i)
		if err != nil {
			return nil, 0, err
		}
		idx := td.TreeIndex
		if idx == 0 && i != 0 {
			idx = i // dumps without explicit indices fall back to position
		}
		ens.Trees = append(ens.Trees, &models.Tree{Index: idx, Root: root})
	}

	total := rootCount(d.TreeInfo[0].TreeStructure)
	return ens, total, nil
}

func buildNode(dn *dumpNode, features []string, tree int) (*models.Node, error) {
	if dn.LeafValue != nil {
		if dn.LeftChild != nil || dn.RightChild != nil {
			return nil, fmt.Errorf("tree %d: %w: node carries leaf_value and children", tree, models.ErrMalformedTree)
		}
		weight := dn.LeafWeight
		if weight == 0 {
			// Older dumps omit leaf_weight; the leaf value magnitude is the
			// closest available stand-in for the leaf's contribution weight.
			weight = math.Abs(*dn.LeafValue)
		}
		return &models.Node{
			Leaf:   true,
			Value:  *dn.LeafValue,
			Count:  dn.LeafCount,
			Weight: weight,
		}, nil
	}

	if dn.SplitFeature == nil {
		return nil, fmt.Errorf("tree %d: %w: node is neither leaf nor split", tree, models.ErrMalformedTree)
	}
	fi := *dn.SplitFeature
	if fi < 0 || fi >= len(features) {
		return nil, fmt.Errorf("tree %d: split_feature %d out of range (%d features)", tree, fi, len(features))
	}
	if dn.DecisionType != "" && dn.DecisionType != "<=" {
		return nil, fmt.Errorf("tree %d: unsupported decision_type %q", tree, dn.DecisionType)
	}
	if dn.LeftChild == nil || dn.RightChild == nil {
		return nil, fmt.Errorf("tree %d: %w: split node missing child", tree, models.ErrMalformedTree)
	}

	left, err := buildNode(dn.LeftChild, features, tree)
	if err != nil {
		return nil, err
	}
	right, err := buildNode(dn.RightChild, features, tree)
	if err != nil {
		return nil, err
	}
	return &models.Node{
		Feature:   features[fi],
		Threshold: dn.Threshold,
		LessEq:    left,
		Greater:   right,
	}, nil
}

// rootCount reads the sample total from a tree root: internal_count on a
// split root, leaf_count on a degenerate single-leaf tree.
func rootCount(dn *dumpNode) int {
	if dn == nil {
		return 0
	}
	if dn.LeafValue != nil {
		return dn.LeafCount
	}
	return dn.InternalCount
}
