package ecs

import "errors"

var (
	ErrEntityNotFound       = errors.New("ecs: entity not found")
	ErrComponentNotFound    = errors.New("ecs: component not found")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)
