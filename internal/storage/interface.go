package storage

// AllowedArtifacts 每个项目固定的三个产物文件
var AllowedArtifacts = []string{"index.html", "style.css", "script.js"}

func IsAllowedArtifact(name string) bool {
	for _, allowed := range AllowedArtifacts {
		if name == allowed {
			return true
		}
	}
	return false
}

// FileStore 项目产物文件的存取接口，按项目 ID 划分命名空间
type FileStore interface {
	// 命名空间管理
	CreateNamespace(projectID string) error
	DeleteNamespace(projectID string) error

	// 产物读写
	WriteArtifact(projectID, name, content string) error
	ReadArtifact(projectID, name string) (string, bool, error)
	ReadAll(projectID string) (map[string]string, error)

	// 存储管理
	Init() error
}
