package service

import (
	"time"

	"pageforge-backend/internal/registry"
	"pageforge-backend/internal/storage"
	"pageforge-backend/pkg/logger"

	"github.com/google/uuid"
)

// ProjectService 项目 CRUD 与文件访问，registry 和 file store 的薄封装
type ProjectService struct {
	registry registry.Registry
	files    storage.FileStore
}

func NewProjectService(reg registry.Registry, files storage.FileStore) *ProjectService {
	return &ProjectService{
		registry: reg,
		files:    files,
	}
}

// Create 建立项目记录和文件命名空间，并初始化三个空产物
func (s *ProjectService) Create(name, description string) (*registry.Project, error) {
	project := &registry.Project{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.registry.Create(project); err != nil {
		return nil, err
	}

	if err := s.files.CreateNamespace(project.ID); err != nil {
		return nil, err
	}

	for _, filename := range storage.AllowedArtifacts {
		if err := s.files.WriteArtifact(project.ID, filename, ""); err != nil {
			return nil, err
		}
	}

	return project, nil
}

func (s *ProjectService) Get(projectID string) (*registry.Project, error) {
	return s.registry.Get(projectID)
}

func (s *ProjectService) List() ([]*registry.Project, error) {
	return s.registry.List()
}

func (s *ProjectService) Update(projectID string, name, description *string) (*registry.Project, error) {
	project, err := s.registry.Get(projectID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		project.Name = *name
	}
	if description != nil {
		project.Description = *description
	}

	if err := s.registry.Update(project); err != nil {
		return nil, err
	}

	return project, nil
}

// Delete 先删文件后删记录，文件缺失不阻断删除
func (s *ProjectService) Delete(projectID string) error {
	if _, err := s.registry.Get(projectID); err != nil {
		return err
	}

	if err := s.files.DeleteNamespace(projectID); err != nil && err != storage.ErrNamespaceNotFound {
		logger.Warnf("Failed to delete files for project %s: %v", projectID, err)
	}

	return s.registry.Delete(projectID)
}

func (s *ProjectService) Files(projectID string) (map[string]string, error) {
	if _, err := s.registry.Get(projectID); err != nil {
		return nil, err
	}

	return s.files.ReadAll(projectID)
}

func (s *ProjectService) File(projectID, filename string) (string, error) {
	if _, err := s.registry.Get(projectID); err != nil {
		return "", err
	}

	content, _, err := s.files.ReadArtifact(projectID, filename)
	return content, err
}

func (s *ProjectService) SaveFile(projectID, filename, content string) error {
	if _, err := s.registry.Get(projectID); err != nil {
		return err
	}

	return s.files.WriteArtifact(projectID, filename, content)
}

// Preview 读取三个产物并合成单页预览文档
func (s *ProjectService) Preview(projectID string) (string, error) {
	project, err := s.registry.Get(projectID)
	if err != nil {
		return "", err
	}

	files, err := s.files.ReadAll(projectID)
	if err != nil {
		return "", err
	}

	return ComposePreview(
		project.Name,
		files["index.html"],
		files["style.css"],
		files["script.js"],
	), nil
}
