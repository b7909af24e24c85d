package pipeline

import "errors"

var (
	// ErrTemplateNotFound is returned when the template file does not exist.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrIO covers read and write failures other than a missing template.
	ErrIO = errors.New("i/o error")
)
