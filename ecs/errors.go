package ecs

import "errors"

var (
	ErrComponentNotFound      = errors.New("component not found")
	ErrComponentAlreadyExists = errors.New("component already exists")
	ErrEntityIdConflict       = errors.New("entity with this id already exists")
	ErrEntityNotFound         = errors.New("entity not found")
	ErrUnknownComponent       = errors.New("unknown component type")
)
