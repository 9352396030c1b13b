package service

import (
	"context"
	"strings"
	"time"

	"pageforge-backend/internal/config"
	"pageforge-backend/internal/design"
	"pageforge-backend/internal/model"
	"pageforge-backend/internal/provider"
	"pageforge-backend/internal/registry"
	"pageforge-backend/internal/stage"
	"pageforge-backend/internal/storage"
	"pageforge-backend/pkg/logger"

	"github.com/google/uuid"
)

type providerFactory func(ctx context.Context, cfg *config.Config, name string) (provider.Provider, error)

// Pipeline 生成流水线编排器：串行驱动各阶段，累计 token 用量，
// 对外发射类型化的进度事件流，并通过存储协作方持久化产物。
type Pipeline struct {
	cfg         *config.Config
	registry    registry.Registry
	files       storage.FileStore
	newProvider providerFactory
	typingDelay time.Duration
}

func NewPipeline(cfg *config.Config, reg registry.Registry, files storage.FileStore) *Pipeline {
	return &Pipeline{
		cfg:         cfg,
		registry:    reg,
		files:       files,
		newProvider: provider.New,
		typingDelay: cfg.Generation.TypingDelay,
	}
}

func (p *Pipeline) TokenLimit() int {
	if p.cfg.Generation.TokenLimit > 0 {
		return p.cfg.Generation.TokenLimit
	}
	return provider.DefaultTokenLimit
}

// Run 启动一次生成。返回的通道在流水线结束后关闭；
// 事件严格按阶段顺序发射，终态事件之后不再有任何事件。
func (p *Pipeline) Run(ctx context.Context, req *model.GenerateRequest) <-chan ProgressEvent {
	events := make(chan ProgressEvent, 64)

	go func() {
		defer close(events)
		p.run(ctx, req, events)
	}()

	return events
}

func (p *Pipeline) run(ctx context.Context, req *model.GenerateRequest, events chan<- ProgressEvent) {
	// 每个发射点同时也是取消检查点：调用方断开后不再推进任何阶段。
	// 通道有缓冲，发送可能立即成功，必须先查 ctx 再发送。
	emit := func(ev ProgressEvent) bool {
		if ctx.Err() != nil {
			return false
		}
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	prompt := req.Prompt
	projectName := req.Name
	if projectName == "" {
		projectName = truncateRunes(prompt, 50)
	}

	prov, err := p.newProvider(ctx, p.cfg, req.Provider)
	if err != nil {
		logger.Errorf("provider init failed: %v", err)
		emit(errorEvent("Failed to initialize " + displayProviderName(req.Provider) + " provider: " + err.Error()))
		return
	}

	tokenLimit := p.TokenLimit()
	tokensUsed := 0

	// 阶段 0：意图识别
	if !emit(thinkingEvent("Understanding your request...")) {
		return
	}

	intent := stage.DetectIntent(ctx, prov, prompt)
	if intent.Usage.TotalUnits > 0 {
		tokensUsed += intent.Usage.TotalUnits
	} else {
		tokensUsed += provider.EstimateTokens(prompt)
	}

	if intent.Intent != stage.IntentCreateWebpage {
		reply := intent.Response
		if reply == "" {
			reply = "How can I help you?"
		}
		emit(conversationEvent(reply, intent.Intent))
		return
	}

	// 阶段 1：项目描述
	if !emit(thinkingEvent("Generating project description...")) {
		return
	}

	description, err := stage.GenerateDescription(ctx, prov, prompt)
	if err != nil {
		logger.Errorf("description stage failed: %v", err)
		emit(errorEvent(err.Error()))
		return
	}
	tokensUsed += provider.EstimateTokens(prompt + description)

	if !emit(descriptionEvent(description)) {
		return
	}

	// 阶段 2：任务清单
	if !emit(thinkingEvent("Creating detailed plan...")) {
		return
	}

	todoList := stage.GenerateTodoList(ctx, prov, prompt)
	tokensUsed += provider.EstimateTokens(prompt + joinTasks(todoList))

	for _, todo := range todoList {
		// 逐字符揭示任务文本
		taskRunes := []rune(todo.Task)
		for i := 0; i <= len(taskRunes); i++ {
			if !emit(todoTypingEvent(todo.ID, string(taskRunes[:i]))) {
				return
			}
			if !p.pause(ctx, p.typingDelay) {
				return
			}
		}

		if !emit(todoItemEvent(todo)) {
			return
		}
	}

	if !emit(todoCompleteEvent()) {
		return
	}

	// 阶段 3：创建项目记录与文件命名空间
	if !emit(thinkingEvent("Setting up project structure...")) {
		return
	}

	project := &registry.Project{
		ID:          uuid.New().String(),
		Name:        projectName,
		Description: description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := p.registry.Create(project); err != nil {
		logger.Errorf("project record creation failed: %v", err)
		emit(errorEvent("Failed to create project: " + err.Error()))
		return
	}

	// 命名空间必须先于任何产物写入；失败则整个请求失败
	if err := p.files.CreateNamespace(project.ID); err != nil {
		logger.Errorf("namespace creation failed for project %s: %v", project.ID, err)
		emit(errorEvent("Failed to create project storage: " + err.Error()))
		return
	}

	if !emit(projectCreatedEvent(project.ID)) {
		return
	}

	totalTasks := len(todoList)
	if totalTasks > 0 {
		todoList[0].Completed = true
		if !emit(taskCompleteEvent(todoList[0].ID, 1, totalTasks)) {
			return
		}
	}

	// 阶段 4：需求提取 + 设计参考注入
	if !emit(thinkingEvent("Analyzing design requirements deeply...")) {
		return
	}

	profile := stage.ExtractRequirements(ctx, prov, prompt)
	tokensUsed += provider.EstimateTokens(prompt)

	if category := design.DetectCategory(prompt); category != "" {
		if ref, ok := design.Lookup(category); ok {
			profile.DesignReference = category
			profile.DesignDescription = ref.Description
			profile.DesignColors = ref.ColorScheme
		}
	}
	applyStyleHints(&profile, req.StyleHints)

	// 阶段 5-7：逐产物生成 markup/style/behavior
	htmlCode := ""
	artifacts := []struct {
		file     string
		taskID   int
		task     string
		thinking string
		generate func(ctx context.Context) (string, error)
	}{
		{
			file:     "index.html",
			taskID:   2,
			task:     "Creating HTML structure",
			thinking: "Deeply analyzing requirements and generating beautiful HTML structure...",
			generate: func(ctx context.Context) (string, error) {
				return stage.GenerateHTML(ctx, prov, prompt, profile)
			},
		},
		{
			file:     "style.css",
			taskID:   3,
			task:     "Designing CSS styling",
			thinking: "Creating beautiful, responsive CSS with animations and modern design...",
			generate: func(ctx context.Context) (string, error) {
				return stage.GenerateCSS(ctx, prov, prompt, profile, htmlCode)
			},
		},
		{
			file:     "script.js",
			taskID:   4,
			task:     "Adding JavaScript functionality",
			thinking: "Implementing interactive JavaScript features...",
			generate: func(ctx context.Context) (string, error) {
				return stage.GenerateJS(ctx, prov, prompt, profile, htmlCode)
			},
		},
	}

	for idx, artifact := range artifacts {
		if !emit(taskStartEvent(artifact.taskID, artifact.task)) {
			return
		}
		if !emit(thinkingEvent(artifact.thinking)) {
			return
		}
		if !emit(codeStartEvent(artifact.file)) {
			return
		}

		code, err := artifact.generate(ctx)
		if err != nil {
			logger.Errorf("code generation failed for %s: %v", artifact.file, err)
			emit(errorEvent("Failed to generate " + artifact.file + ": " + err.Error()))
			return
		}
		if idx == 0 {
			htmlCode = code
		}

		for _, line := range splitLines(code) {
			if !emit(codeLineEvent(artifact.file, line)) {
				return
			}
		}

		tokensUsed += provider.EstimateTokens(prompt + code)
		if !emit(tokensUpdateEvent(tokenLimit-tokensUsed, tokenLimit)) {
			return
		}

		if err := p.files.WriteArtifact(project.ID, artifact.file, code); err != nil {
			logger.Errorf("artifact write failed for %s/%s: %v", project.ID, artifact.file, err)
			emit(errorEvent("Failed to save " + artifact.file + ": " + err.Error()))
			return
		}

		if !emit(codeCompleteEvent(artifact.file, code)) {
			return
		}

		// todo[idx+1] 对应本产物阶段
		if idx+1 < totalTasks {
			todoList[idx+1].Completed = true
			if !emit(taskCompleteEvent(todoList[idx+1].ID, idx+2, totalTasks)) {
				return
			}
		}
	}

	// 收尾：剩余任务按序补齐，保证 completed_count 收敛到 total_tasks
	for idx := 4; idx < totalTasks; idx++ {
		todoList[idx].Completed = true
		if !emit(taskCompleteEvent(todoList[idx].ID, idx+1, totalTasks)) {
			return
		}
	}

	if !emit(codeGeneratedEvent("All code files generated and saved successfully")) {
		return
	}

	emit(completeEvent(project.ID, todoList, description, tokensUsed, tokenLimit))
}

// pause 可取消的短暂停顿，用于 todo_typing 的节奏控制
func (p *Pipeline) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// applyStyleHints 调用方显式给出的风格约束优先于模型提取结果
func applyStyleHints(profile *stage.Profile, hints *model.StyleHints) {
	if hints == nil {
		return
	}
	if hints.Theme != "" {
		profile.Theme = hints.Theme
	}
	if len(hints.Colors) > 0 {
		profile.Colors = hints.Colors
	}
}

// splitLines 保留行尾换行符切分，拼接所有行可精确还原原文
func splitLines(code string) []string {
	if code == "" {
		return nil
	}

	lines := strings.SplitAfter(code, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func joinTasks(todos []stage.TodoItem) string {
	var b strings.Builder
	for _, todo := range todos {
		b.WriteString(todo.Task)
	}
	return b.String()
}

func displayProviderName(name string) string {
	if name == "" {
		return "default"
	}
	return name
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
