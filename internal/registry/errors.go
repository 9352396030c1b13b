package registry

import "errors"

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidData     = errors.New("invalid data")
	ErrStorageInit     = errors.New("registry initialization failed")
	ErrFileOperation   = errors.New("file operation failed")
)
