package merkle

import "errors"

var (
	ErrUnsupportedShape       = errors.New("unsupported tree shape")
	ErrCanopyTooDeep          = errors.New("canopy depth must be less than tree depth")
	ErrCanopyTooShallow       = errors.New("canopy depth is too small for the tree depth")
	ErrTreeFull               = errors.New("tree is full")
	ErrCannotAppendEmptyNode  = errors.New("cannot append an empty node")
	ErrTreeNotInitialized     = errors.New("tree is not initialized")
	ErrTreeAlreadyInitialized = errors.New("tree is already initialized")
)
