package treeaccount

import "errors"

var (
	ErrInvalidTreeAccount       = errors.New("invalid tree account data")
	ErrUnsupportedAccountType   = errors.New("unsupported compression account type")
	ErrUnsupportedHeaderVersion = errors.New("unsupported tree header version")
	ErrInvalidCanopyBuffer      = errors.New("cannot parse canopy leaf nodes from tree data account")
	ErrTooManyCanopyLeaves      = errors.New("canopy leaves do not fit the canopy")
)
