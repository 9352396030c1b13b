package handler

import (
	"errors"
	"net/http"
	"strings"

	"pageforge-backend/internal/model"
	"pageforge-backend/internal/registry"
	"pageforge-backend/internal/service"
	"pageforge-backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projects *service.ProjectService
}

func NewProjectHandler(projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projects: projects,
	}
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req model.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	project, err := h.projects.Create(req.Name, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projects.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projects.Get(c.Param("project_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	var req model.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	project, err := h.projects.Update(c.Param("project_id"), req.Name, req.Description)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projects.Delete(c.Param("project_id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ProjectHandler) GetFiles(c *gin.Context) {
	projectID := c.Param("project_id")

	files, err := h.projects.Files(projectID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	fileList := make([]model.FileContent, 0, len(storage.AllowedArtifacts))
	for _, filename := range storage.AllowedArtifacts {
		fileList = append(fileList, model.FileContent{
			Filename: filename,
			Content:  files[filename],
		})
	}

	c.JSON(http.StatusOK, model.ProjectFilesResponse{
		ProjectID: projectID,
		Files:     fileList,
	})
}

func (h *ProjectHandler) GetFile(c *gin.Context) {
	projectID := c.Param("project_id")
	filename := c.Param("filename")

	if !storage.IsAllowedArtifact(filename) {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "Invalid filename. Allowed: " + strings.Join(storage.AllowedArtifacts, ", "),
		})
		return
	}

	content, err := h.projects.File(projectID, filename)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.FileResponse{
		Filename:  filename,
		Content:   content,
		ProjectID: projectID,
	})
}

func (h *ProjectHandler) UpdateFile(c *gin.Context) {
	projectID := c.Param("project_id")
	filename := c.Param("filename")

	if !storage.IsAllowedArtifact(filename) {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "Invalid filename. Allowed: " + strings.Join(storage.AllowedArtifacts, ", "),
		})
		return
	}

	var req model.UpdateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	if err := h.projects.SaveFile(projectID, filename, req.Content); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.FileResponse{
		Filename:  filename,
		Content:   req.Content,
		ProjectID: projectID,
	})
}

// Preview 合成并返回项目的单页预览
func (h *ProjectHandler) Preview(c *gin.Context) {
	previewHTML, err := h.projects.Preview(c.Param("project_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(previewHTML))
}

func (h *ProjectHandler) respondError(c *gin.Context, err error) {
	if errors.Is(err, registry.ErrProjectNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Project not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
}
