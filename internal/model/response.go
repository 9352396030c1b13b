package model

type TokenInfoResponse struct {
	Remaining int `json:"remaining"`
	Limit     int `json:"limit"`
	Used      int `json:"used"`
}

type FileContent struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type ProjectFilesResponse struct {
	ProjectID string        `json:"project_id"`
	Files     []FileContent `json:"files"`
}

type FileResponse struct {
	Filename  string `json:"filename"`
	Content   string `json:"content"`
	ProjectID string `json:"project_id"`
}
