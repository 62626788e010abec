package service

import "errors"

var (
	ErrFileRequired    = errors.New("please select a file")
	ErrTypeRequired    = errors.New("please select a document type")
	ErrInvalidProduct  = errors.New("please fill all fields correctly")
	ErrNotFound        = errors.New("record not found")
	ErrEditUnsupported = errors.New("edit feature coming soon")
)
