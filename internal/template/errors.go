package template

import "errors"

var (
	ErrUnknownNode     = errors.New("node is not tracked by this view")
	ErrNoBinding       = errors.New("node has no such binding")
	ErrNoUpdate        = errors.New("binding has no update")
	ErrNoKey           = errors.New("keyed binding updated without a key")
	ErrNotForeach      = errors.New("node has no foreach binding")
	ErrBadPermutation  = errors.New("order is not a permutation of the current items")
	ErrRetired         = errors.New("view is retired")
	ErrTemplateMissing = errors.New("template not found")
)
