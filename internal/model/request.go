package model

// StyleHints 调用方对生成风格的可选约束，覆盖需求提取的同名字段
type StyleHints struct {
	Theme  string   `json:"theme"`
	Colors []string `json:"colors"`
}

type GenerateRequest struct {
	Prompt     string      `json:"prompt" binding:"required"`
	Name       string      `json:"name"`
	Provider   string      `json:"provider"`
	StyleHints *StyleHints `json:"style_hints"`
}

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type UpdateFileRequest struct {
	Content string `json:"content"`
}
