package registry

import "time"

// Project 项目元数据记录
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Registry 项目记录的存取接口
type Registry interface {
	Create(project *Project) error
	Get(projectID string) (*Project, error)
	Update(project *Project) error
	Delete(projectID string) error
	List() ([]*Project, error)

	Init() error
	Close() error
}
