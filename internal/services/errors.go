package services

import "errors"

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrRecordNotFound   = errors.New("record not found")
	ErrPuzzleNotFound   = errors.New("custom puzzle not found")
	ErrDuplicateRecord  = errors.New("record already exists")
	ErrInvalidName      = errors.New("name must not be empty")
	ErrInvalidPuzzle    = errors.New("invalid puzzle reference")
)
