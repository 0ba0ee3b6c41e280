package models

import "errors"

var (
	// ErrMalformedTree marks a structural violation in an input tree:
	// a node typed as both leaf and split, a split missing a branch, or a
	// cycle detected during traversal. Fatal for that tree only; the
	// aggregator skips the tree and reports its index.
	ErrMalformedTree = errors.New("malformed tree")

	// ErrEmptyEnsemble is returned when an extraction run receives zero trees.
	ErrEmptyEnsemble = errors.New("empty ensemble")

	// ErrUnknownFeature is returned by Matches when a sample lacks a feature
	// referenced by a rule condition.
	ErrUnknownFeature = errors.New("unknown feature")
)
