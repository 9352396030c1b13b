package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"pageforge-backend/pkg/logger"
)

// DiskRegistry 索引文件 + 每条记录单独落盘，带读写锁保护的内存缓存
type DiskRegistry struct {
	dataDir   string
	mu        sync.RWMutex
	cache     map[string]*Project
	cacheSize int
}

type projectIndex struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewDiskRegistry(dataDir string, cacheSize int) *DiskRegistry {
	return &DiskRegistry{
		dataDir:   dataDir,
		cache:     make(map[string]*Project),
		cacheSize: cacheSize,
	}
}

func (d *DiskRegistry) Init() error {
	if err := os.MkdirAll(d.recordsDir(), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageInit, err)
	}

	if err := d.warmCache(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageInit, err)
	}

	logger.Info("Disk registry initialized successfully")
	return nil
}

func (d *DiskRegistry) recordsDir() string {
	return filepath.Join(d.dataDir, "registry")
}

func (d *DiskRegistry) indexPath() string {
	return filepath.Join(d.dataDir, "projects.json")
}

func (d *DiskRegistry) recordPath(projectID string) string {
	return filepath.Join(d.recordsDir(), projectID+".json")
}

func (d *DiskRegistry) warmCache() error {
	if _, err := os.Stat(d.indexPath()); os.IsNotExist(err) {
		return d.saveIndex([]*projectIndex{})
	}

	data, err := os.ReadFile(d.indexPath())
	if err != nil {
		return err
	}

	var indexes []*projectIndex
	if err := json.Unmarshal(data, &indexes); err != nil {
		return err
	}

	for _, index := range indexes {
		if len(d.cache) >= d.cacheSize {
			break
		}

		project, err := d.loadRecord(index.ID)
		if err != nil {
			logger.Errorf("Failed to load project %s: %v", index.ID, err)
			continue
		}

		d.cache[index.ID] = project
	}

	return nil
}

func (d *DiskRegistry) loadRecord(projectID string) (*Project, error) {
	data, err := os.ReadFile(d.recordPath(projectID))
	if err != nil {
		return nil, err
	}

	var project Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, err
	}

	return &project, nil
}

func (d *DiskRegistry) saveRecord(project *Project) error {
	recordPath := d.recordPath(project.ID)
	tempPath := recordPath + ".tmp"

	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return err
	}

	return os.Rename(tempPath, recordPath)
}

func (d *DiskRegistry) saveIndex(indexes []*projectIndex) error {
	tempPath := d.indexPath() + ".tmp"

	data, err := json.MarshalIndent(indexes, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return err
	}

	return os.Rename(tempPath, d.indexPath())
}

func (d *DiskRegistry) rebuildIndex() error {
	files, err := os.ReadDir(d.recordsDir())
	if err != nil {
		return err
	}

	var indexes []*projectIndex
	for _, file := range files {
		if filepath.Ext(file.Name()) != ".json" {
			continue
		}

		projectID := file.Name()[:len(file.Name())-5]
		project, err := d.loadRecord(projectID)
		if err != nil {
			logger.Errorf("Failed to load project %s for index update: %v", projectID, err)
			continue
		}

		indexes = append(indexes, &projectIndex{
			ID:        project.ID,
			Name:      project.Name,
			CreatedAt: project.CreatedAt,
			UpdatedAt: project.UpdatedAt,
		})
	}

	return d.saveIndex(indexes)
}

func (d *DiskRegistry) Create(project *Project) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.saveRecord(project); err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	if err := d.rebuildIndex(); err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	d.cache[project.ID] = project
	d.evictCache()

	return nil
}

func (d *DiskRegistry) Get(projectID string) (*Project, error) {
	d.mu.RLock()
	if project, exists := d.cache[projectID]; exists {
		d.mu.RUnlock()
		return project, nil
	}
	d.mu.RUnlock()

	project, err := d.loadRecord(projectID)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	d.mu.Lock()
	d.cache[projectID] = project
	d.evictCache()
	d.mu.Unlock()

	return project, nil
}

func (d *DiskRegistry) Update(project *Project) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := d.loadRecord(project.ID); err != nil {
		if os.IsNotExist(err) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	project.UpdatedAt = time.Now()

	if err := d.saveRecord(project); err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	if err := d.rebuildIndex(); err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	d.cache[project.ID] = project

	return nil
}

func (d *DiskRegistry) Delete(projectID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	recordPath := d.recordPath(projectID)
	if _, err := os.Stat(recordPath); os.IsNotExist(err) {
		return ErrProjectNotFound
	}

	if err := os.Remove(recordPath); err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	delete(d.cache, projectID)

	return d.rebuildIndex()
}

func (d *DiskRegistry) List() ([]*Project, error) {
	data, err := os.ReadFile(d.indexPath())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	var indexes []*projectIndex
	if err := json.Unmarshal(data, &indexes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	projects := make([]*Project, 0, len(indexes))
	for _, index := range indexes {
		project, err := d.loadRecord(index.ID)
		if err != nil {
			logger.Errorf("Failed to load project %s: %v", index.ID, err)
			continue
		}
		projects = append(projects, project)
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].UpdatedAt.After(projects[j].UpdatedAt)
	})

	return projects, nil
}

// evictCache 缓存超限时按 UpdatedAt 淘汰最旧的记录
func (d *DiskRegistry) evictCache() {
	if len(d.cache) <= d.cacheSize {
		return
	}

	type cacheEntry struct {
		id        string
		updatedAt time.Time
	}

	var entries []cacheEntry
	for id, project := range d.cache {
		entries = append(entries, cacheEntry{
			id:        id,
			updatedAt: project.UpdatedAt,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].updatedAt.Before(entries[j].updatedAt)
	})

	toEvict := len(d.cache) - d.cacheSize
	for i := 0; i < toEvict; i++ {
		delete(d.cache, entries[i].id)
	}
}

func (d *DiskRegistry) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cache = make(map[string]*Project)
	return nil
}
