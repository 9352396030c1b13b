package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"pageforge-backend/internal/config"
	"pageforge-backend/internal/model"
	"pageforge-backend/internal/provider"
	"pageforge-backend/internal/registry"
	"pageforge-backend/internal/stage"
	"pageforge-backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProvider 按调用顺序返回预置应答，errAt 指定第几次调用失败（从 0 计），
// cancelAt 指定第几次调用成功返回前触发取消（模拟调用方中途断开）
type scriptedProvider struct {
	replies  []string
	errAt    int
	cancelAt int
	cancel   context.CancelFunc
	calls    int
}

func newScriptedProvider(replies ...string) *scriptedProvider {
	return &scriptedProvider{replies: replies, errAt: -1, cancelAt: -1}
}

func (s *scriptedProvider) Name() string {
	return "scripted"
}

func (s *scriptedProvider) Complete(ctx context.Context, messages []provider.Message, opts provider.Options) (*provider.Response, error) {
	call := s.calls
	s.calls++

	if s.errAt >= 0 && call >= s.errAt {
		return nil, errors.New("backend unavailable")
	}
	if call >= len(s.replies) {
		return nil, errors.New("no scripted reply for call")
	}
	if s.cancelAt >= 0 && call == s.cancelAt {
		s.cancel()
	}

	// 用量恒为零，走编排层的估算路径，便于断言 token 账目
	return &provider.Response{Text: s.replies[call]}, nil
}

const (
	testHTML = "<!DOCTYPE html>\n<html>\n<head>\n<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n</head>\n<body>\n<h1>Blog</h1>\n</body>\n</html>"
	testCSS  = "body { color: #333; }\n@media (max-width: 768px) {\n  body { font-size: 14px; }\n}"
	testJS   = "document.addEventListener('DOMContentLoaded', function() {\n  console.log('ready');\n});"
)

// 完整七阶段的脚本应答：意图、描述、清单、需求、HTML、CSS、JS
func fullRunReplies() []string {
	return []string{
		`{"intent": "create_webpage", "confidence": 0.95}`,
		"A personal blog page with a clean reading layout.",
		`{"todos": [
			{"id": 1, "task": "Set up"},
			{"id": 2, "task": "HTML"},
			{"id": 3, "task": "CSS"},
			{"id": 4, "task": "JS"},
			{"id": 5, "task": "Polish"}
		]}`,
		`{"project_type": "blog", "theme": "light", "colors": [], "js_functions": []}`,
		testHTML,
		testCSS,
		testJS,
	}
}

func newTestPipeline(t *testing.T, prov provider.Provider, initErr error) (*Pipeline, *registry.MemoryRegistry, *storage.MemoryStore) {
	t.Helper()

	cfg := &config.Config{
		Generation: config.GenerationConfig{
			TokenLimit:  30000,
			TypingDelay: 0,
		},
	}

	reg := registry.NewMemoryRegistry()
	files := storage.NewMemoryStore()

	p := NewPipeline(cfg, reg, files)
	p.newProvider = func(ctx context.Context, cfg *config.Config, name string) (provider.Provider, error) {
		if initErr != nil {
			return nil, initErr
		}
		return prov, nil
	}

	return p, reg, files
}

func collectEvents(t *testing.T, ch <-chan ProgressEvent) []ProgressEvent {
	t.Helper()

	var events []ProgressEvent
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatal("pipeline did not finish in time")
		}
	}
}

func eventTypes(events []ProgressEvent) []string {
	types := make([]string, len(events))
	for i, ev := range events {
		types[i] = ev.Type
	}
	return types
}

func TestPipelineConversationEarlyExit(t *testing.T) {
	prov := newScriptedProvider(`{"intent": "conversation", "confidence": 0.9, "response": "Hello there!"}`)
	p, reg, _ := newTestPipeline(t, prov, nil)

	events := collectEvents(t, p.Run(context.Background(), &model.GenerateRequest{Prompt: "hi"}))

	require.Equal(t, []string{EventThinking, EventConversation}, eventTypes(events))
	assert.Equal(t, "Hello there!", events[1].Message)
	assert.Equal(t, "conversation", events[1].Intent)

	// 闲聊不落任何项目记录
	projects, err := reg.List()
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestPipelineProviderInitFailure(t *testing.T) {
	p, _, _ := newTestPipeline(t, nil, errors.New("no api key"))

	events := collectEvents(t, p.Run(context.Background(), &model.GenerateRequest{Prompt: "x", Provider: "groq"}))

	require.Len(t, events, 1)
	assert.Equal(t, EventError, events[0].Type)
	assert.Contains(t, events[0].Message, "Failed to initialize groq provider")
	assert.Contains(t, events[0].Message, "no api key")
}

func TestPipelineFullRun(t *testing.T) {
	prompt := "make a personal blog page"
	prov := newScriptedProvider(fullRunReplies()...)
	p, reg, files := newTestPipeline(t, prov, nil)

	events := collectEvents(t, p.Run(context.Background(), &model.GenerateRequest{Prompt: prompt}))
	require.NotEmpty(t, events)

	// 首事件为 thinking，终态为 complete 且其后再无事件
	assert.Equal(t, EventThinking, events[0].Type)
	assert.Equal(t, EventComplete, events[len(events)-1].Type)
	for _, ev := range events {
		assert.NotEqual(t, EventError, ev.Type)
	}

	// 关键节点的相对顺序
	order := []string{
		EventDescription, EventTodoComplete, EventProjectCreated,
		EventCodeGenerated, EventComplete,
	}
	last := -1
	types := eventTypes(events)
	for _, want := range order {
		idx := indexOf(types, want, last+1)
		require.GreaterOrEqual(t, idx, 0, "missing event %s after index %d", want, last)
		last = idx
	}

	// todo_item 五条，每条之前有逐字符的 todo_typing 序列
	var todoItems []ProgressEvent
	for _, ev := range events {
		if ev.Type == EventTodoItem {
			todoItems = append(todoItems, ev)
		}
	}
	require.Len(t, todoItems, 5)
	assert.Equal(t, "Set up", todoItems[0].Todo.Task)

	// completed_count 严格递增并收敛到 total_tasks
	prevCount := 0
	lastCount, totalTasks := 0, 0
	for _, ev := range events {
		if ev.Type != EventTaskComplete {
			continue
		}
		assert.Equal(t, prevCount+1, ev.CompletedCount)
		prevCount = ev.CompletedCount
		lastCount = ev.CompletedCount
		totalTasks = ev.TotalTasks
	}
	assert.Equal(t, 5, totalTasks)
	assert.Equal(t, totalTasks, lastCount)

	// code_line 逐行拼接精确还原 code_complete 的完整内容
	lineConcat := map[string]string{}
	contents := map[string]string{}
	for _, ev := range events {
		switch ev.Type {
		case EventCodeLine:
			require.NotNil(t, ev.Line)
			lineConcat[ev.File] += *ev.Line
		case EventCodeComplete:
			require.NotNil(t, ev.Content)
			require.NotNil(t, ev.FileSize)
			contents[ev.File] = *ev.Content
			assert.Equal(t, len(*ev.Content), *ev.FileSize)
		}
	}
	require.Len(t, contents, 3)
	for _, file := range storage.AllowedArtifacts {
		assert.Equal(t, contents[file], lineConcat[file], "file %s", file)
	}
	assert.Equal(t, testHTML, contents["index.html"])
	assert.Equal(t, testCSS, contents["style.css"])
	assert.Equal(t, testJS, contents["script.js"])

	// 产物已持久化
	complete := events[len(events)-1]
	require.NotEmpty(t, complete.ProjectID)
	persisted, err := files.ReadAll(complete.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, testHTML, persisted["index.html"])
	assert.Equal(t, testCSS, persisted["style.css"])
	assert.Equal(t, testJS, persisted["script.js"])

	// 项目记录：未指定名字时取提示词前缀
	project, err := reg.Get(complete.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, prompt, project.Name)
	assert.Equal(t, "A personal blog page with a clean reading layout.", project.Description)

	// token 账目：全部走估算路径
	description := "A personal blog page with a clean reading layout."
	expectedUsed := provider.EstimateTokens(prompt) +
		provider.EstimateTokens(prompt+description) +
		provider.EstimateTokens(prompt+"Set upHTMLCSSJSPolish") +
		provider.EstimateTokens(prompt) +
		provider.EstimateTokens(prompt+testHTML) +
		provider.EstimateTokens(prompt+testCSS) +
		provider.EstimateTokens(prompt+testJS)
	assert.Equal(t, expectedUsed, complete.TokensUsed)
	assert.Equal(t, 30000, complete.TokenLimit)
	require.NotNil(t, complete.RemainingTokens)
	assert.Equal(t, 30000-expectedUsed, *complete.RemainingTokens)

	// complete 事件携带全部任务且均已完成
	require.Len(t, complete.TodoList, 5)
	for _, todo := range complete.TodoList {
		assert.True(t, todo.Completed, "todo %d", todo.ID)
	}
}

func TestPipelineUsesProvidedName(t *testing.T) {
	prov := newScriptedProvider(fullRunReplies()...)
	p, reg, _ := newTestPipeline(t, prov, nil)

	events := collectEvents(t, p.Run(context.Background(), &model.GenerateRequest{
		Prompt: "make a personal blog page",
		Name:   "My Blog",
	}))

	complete := events[len(events)-1]
	require.Equal(t, EventComplete, complete.Type)

	project, err := reg.Get(complete.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, "My Blog", project.Name)
}

// 描述阶段失败终止流水线，error 是最后一个事件
func TestPipelineDescriptionFailure(t *testing.T) {
	prov := newScriptedProvider(`{"intent": "create_webpage", "confidence": 0.95}`)
	prov.errAt = 1
	p, reg, _ := newTestPipeline(t, prov, nil)

	events := collectEvents(t, p.Run(context.Background(), &model.GenerateRequest{Prompt: "make a page"}))

	last := events[len(events)-1]
	assert.Equal(t, EventError, last.Type)
	assert.Contains(t, last.Message, "error generating description")

	projects, err := reg.List()
	require.NoError(t, err)
	assert.Empty(t, projects)
}

// 代码阶段失败：错误信息点名出错的文件，之后不再有事件
func TestPipelineCodeFailure(t *testing.T) {
	replies := fullRunReplies()[:4]
	prov := newScriptedProvider(replies...)
	prov.errAt = 4
	p, _, files := newTestPipeline(t, prov, nil)

	events := collectEvents(t, p.Run(context.Background(), &model.GenerateRequest{Prompt: "make a page"}))

	last := events[len(events)-1]
	assert.Equal(t, EventError, last.Type)
	assert.Contains(t, last.Message, "index.html")

	for _, ev := range events {
		assert.NotEqual(t, EventCodeComplete, ev.Type)
		assert.NotEqual(t, EventComplete, ev.Type)
	}

	// 项目记录和命名空间已建立，但没有任何产物写入
	var projectID string
	for _, ev := range events {
		if ev.Type == EventProjectCreated {
			projectID = ev.ProjectID
		}
	}
	require.NotEmpty(t, projectID)
	persisted, err := files.ReadAll(projectID)
	require.NoError(t, err)
	for _, content := range persisted {
		assert.Empty(t, content)
	}
}

func TestPipelineStyleHintsOverrideProfile(t *testing.T) {
	profile := stage.Profile{Theme: "light", Colors: []string{"#ffffff"}}
	applyStyleHints(&profile, &model.StyleHints{Theme: "dark", Colors: []string{"#000000"}})

	assert.Equal(t, "dark", profile.Theme)
	assert.Equal(t, []string{"#000000"}, profile.Colors)

	applyStyleHints(&profile, nil)
	assert.Equal(t, "dark", profile.Theme)

	applyStyleHints(&profile, &model.StyleHints{})
	assert.Equal(t, "dark", profile.Theme)
	assert.Equal(t, []string{"#000000"}, profile.Colors)
}

// 启动前就断开的调用方：不发射任何事件，也不发起任何后端调用
func TestPipelineCancelledBeforeStart(t *testing.T) {
	prov := newScriptedProvider(fullRunReplies()...)
	p, _, _ := newTestPipeline(t, prov, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events := collectEvents(t, p.Run(ctx, &model.GenerateRequest{Prompt: "make a page"}))

	assert.Empty(t, events)
	assert.Equal(t, 0, prov.calls)
}

// 中途断开：下一个发射点即停，不再发起后续阶段调用
func TestPipelineCancelledMidRun(t *testing.T) {
	prov := newScriptedProvider(fullRunReplies()...)
	// 描述阶段调用返回前断开连接
	prov.cancelAt = 1

	p, reg, _ := newTestPipeline(t, prov, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	prov.cancel = cancel

	events := collectEvents(t, p.Run(ctx, &model.GenerateRequest{Prompt: "make a page"}))

	// 意图和描述两次调用之后流水线停止，任务清单阶段不再触达后端
	assert.Equal(t, 2, prov.calls)
	for _, ev := range events {
		assert.Equal(t, EventThinking, ev.Type)
	}

	projects, err := reg.List()
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestPipelinePauseCancellation(t *testing.T) {
	p, _, _ := newTestPipeline(t, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, p.pause(ctx, time.Hour))
	assert.False(t, p.pause(ctx, 0))
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{"one"}, splitLines("one"))
	assert.Equal(t, []string{"one\n"}, splitLines("one\n"))
	assert.Equal(t, []string{"one\n", "\n", "two"}, splitLines("one\n\ntwo"))

	// 拼接所有行必须精确还原原文
	code := "a\nb\n\nc"
	assert.Equal(t, code, strings.Join(splitLines(code), ""))
}

func indexOf(types []string, want string, from int) int {
	for i := from; i < len(types); i++ {
		if types[i] == want {
			return i
		}
	}
	return -1
}
