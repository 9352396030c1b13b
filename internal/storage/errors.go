package storage

import "errors"

var (
	ErrArtifactName      = errors.New("invalid artifact name")
	ErrNamespaceNotFound = errors.New("project namespace not found")
	ErrStorageInit       = errors.New("storage initialization failed")
	ErrFileOperation     = errors.New("file operation failed")
)
