package project

import "errors"

var (
	ErrNotFound     = errors.New("project not found")
	ErrUnauthorised = errors.New("unauthorised project action")
)
