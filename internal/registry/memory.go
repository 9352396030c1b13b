package registry

import (
	"sort"
	"sync"
	"time"
)

type MemoryRegistry struct {
	projects map[string]*Project
	mu       sync.RWMutex
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		projects: make(map[string]*Project),
	}
}

func (m *MemoryRegistry) Init() error {
	return nil
}

func (m *MemoryRegistry) Close() error {
	return nil
}

func (m *MemoryRegistry) Create(project *Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.projects[project.ID] = project
	return nil
}

func (m *MemoryRegistry) Get(projectID string) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	project, exists := m.projects[projectID]
	if !exists {
		return nil, ErrProjectNotFound
	}

	return project, nil
}

func (m *MemoryRegistry) Update(project *Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.projects[project.ID]; !exists {
		return ErrProjectNotFound
	}

	project.UpdatedAt = time.Now()
	m.projects[project.ID] = project
	return nil
}

func (m *MemoryRegistry) Delete(projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.projects[projectID]; !exists {
		return ErrProjectNotFound
	}

	delete(m.projects, projectID)
	return nil
}

func (m *MemoryRegistry) List() ([]*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	projects := make([]*Project, 0, len(m.projects))
	for _, project := range m.projects {
		projects = append(projects, project)
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].UpdatedAt.After(projects[j].UpdatedAt)
	})

	return projects, nil
}
