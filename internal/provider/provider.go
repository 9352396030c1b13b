package provider

import "context"

// 角色常量，与各后端的 chat 协议保持一致
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	InputUnits  int `json:"input_units"`
	OutputUnits int `json:"output_units"`
	TotalUnits  int `json:"total_units"`
}

type Response struct {
	Text  string `json:"text"`
	Usage Usage  `json:"usage"`
}

// Options 单次补全调用的参数
type Options struct {
	Temperature    float32
	MaxOutputUnits int
	WantJSON       bool
}

// Provider 统一的文本生成后端接口，调用方不感知具体后端
type Provider interface {
	Name() string
	Complete(ctx context.Context, messages []Message, opts Options) (*Response, error)
}

func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}
