package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"pageforge-backend/pkg/logger"
)

// DiskStore 每个项目一个目录，目录下是固定的三个产物文件
type DiskStore struct {
	dataDir string
}

func NewDiskStore(dataDir string) *DiskStore {
	return &DiskStore{dataDir: dataDir}
}

func (d *DiskStore) Init() error {
	if err := os.MkdirAll(d.projectsDir(), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageInit, err)
	}

	logger.Info("Disk file store initialized successfully")
	return nil
}

func (d *DiskStore) projectsDir() string {
	return filepath.Join(d.dataDir, "projects")
}

func (d *DiskStore) namespaceDir(projectID string) string {
	return filepath.Join(d.projectsDir(), projectID)
}

func (d *DiskStore) CreateNamespace(projectID string) error {
	if err := os.MkdirAll(d.namespaceDir(projectID), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}
	return nil
}

func (d *DiskStore) DeleteNamespace(projectID string) error {
	dir := d.namespaceDir(projectID)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return ErrNamespaceNotFound
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	return nil
}

// WriteArtifact 原子写入：先写临时文件再改名，避免读到半截内容
func (d *DiskStore) WriteArtifact(projectID, name, content string) error {
	if !IsAllowedArtifact(name) {
		return fmt.Errorf("%w: %s", ErrArtifactName, name)
	}

	dir := d.namespaceDir(projectID)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return ErrNamespaceNotFound
	}

	artifactPath := filepath.Join(dir, name)
	tempPath := artifactPath + ".tmp"

	if err := os.WriteFile(tempPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	if err := os.Rename(tempPath, artifactPath); err != nil {
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	return nil
}

func (d *DiskStore) ReadArtifact(projectID, name string) (string, bool, error) {
	if !IsAllowedArtifact(name) {
		return "", false, fmt.Errorf("%w: %s", ErrArtifactName, name)
	}

	data, err := os.ReadFile(filepath.Join(d.namespaceDir(projectID), name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	return string(data), true, nil
}

// ReadAll 返回全部三个产物，缺失的文件按空内容处理
func (d *DiskStore) ReadAll(projectID string) (map[string]string, error) {
	files := make(map[string]string, len(AllowedArtifacts))

	for _, name := range AllowedArtifacts {
		content, _, err := d.ReadArtifact(projectID, name)
		if err != nil {
			return nil, err
		}
		files[name] = content
	}

	return files, nil
}
