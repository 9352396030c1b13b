package storage

import (
	"fmt"
	"sync"
)

type MemoryStore struct {
	namespaces map[string]map[string]string
	mu         sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		namespaces: make(map[string]map[string]string),
	}
}

func (m *MemoryStore) Init() error {
	return nil
}

func (m *MemoryStore) CreateNamespace(projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.namespaces[projectID]; !exists {
		m.namespaces[projectID] = make(map[string]string)
	}
	return nil
}

func (m *MemoryStore) DeleteNamespace(projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.namespaces[projectID]; !exists {
		return ErrNamespaceNotFound
	}

	delete(m.namespaces, projectID)
	return nil
}

func (m *MemoryStore) WriteArtifact(projectID, name, content string) error {
	if !IsAllowedArtifact(name) {
		return fmt.Errorf("%w: %s", ErrArtifactName, name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	files, exists := m.namespaces[projectID]
	if !exists {
		return ErrNamespaceNotFound
	}

	files[name] = content
	return nil
}

func (m *MemoryStore) ReadArtifact(projectID, name string) (string, bool, error) {
	if !IsAllowedArtifact(name) {
		return "", false, fmt.Errorf("%w: %s", ErrArtifactName, name)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	files, exists := m.namespaces[projectID]
	if !exists {
		return "", false, nil
	}

	content, exists := files[name]
	return content, exists, nil
}

func (m *MemoryStore) ReadAll(projectID string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make(map[string]string, len(AllowedArtifacts))
	stored := m.namespaces[projectID]

	for _, name := range AllowedArtifacts {
		files[name] = stored[name]
	}

	return files, nil
}
