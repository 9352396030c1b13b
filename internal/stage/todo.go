package stage

import (
	"context"
	"encoding/json"
	"fmt"

	"pageforge-backend/internal/provider"
	"pageforge-backend/pkg/logger"
)

type TodoItem struct {
	ID        int    `json:"id"`
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

const todoSystemPrompt = `You are a project planning assistant. Based on a user's request to create a webpage, generate a detailed todo list of tasks needed to complete the project.

Return ONLY a valid JSON object with this structure:
{
  "todos": [
    {
      "id": 1,
      "task": "Task description",
      "completed": false
    }
  ]
}

Include 6-8 tasks covering:
1. Project structure setup
2. HTML structure creation
3. CSS styling and design
4. JavaScript functionality
5. Responsive design implementation
6. UI polish and animations

Do not include any markdown formatting or explanations. Only return the raw JSON object.`

// defaultTodoList 固定的五项兜底清单，保证后续阶段到任务的映射始终成立
func defaultTodoList() []TodoItem {
	return []TodoItem{
		{ID: 1, Task: "Set up project structure"},
		{ID: 2, Task: "Create HTML structure"},
		{ID: 3, Task: "Design CSS styling"},
		{ID: 4, Task: "Add JavaScript functionality"},
		{ID: 5, Task: "Make responsive design"},
	}
}

// GenerateTodoList 生成任务清单，任何失败都替换为固定默认清单
func GenerateTodoList(ctx context.Context, p provider.Provider, prompt string) []TodoItem {
	resp, err := p.Complete(ctx, []provider.Message{
		provider.SystemMessage(todoSystemPrompt),
		provider.UserMessage(fmt.Sprintf("Create a todo list for: %s", prompt)),
	}, provider.Options{
		Temperature:    0.7,
		MaxOutputUnits: 1000,
		WantJSON:       true,
	})
	if err != nil {
		logger.Warnf("todo list call failed, using default list: %v", err)
		return defaultTodoList()
	}

	todos, err := parseTodoList(resp.Text)
	if err != nil || len(todos) == 0 {
		logger.Warnf("todo list reply unparsable, using default list: %v", err)
		return defaultTodoList()
	}

	// 归一化：保证 id 唯一且未完成
	for i := range todos {
		if todos[i].ID == 0 {
			todos[i].ID = i + 1
		}
		todos[i].Completed = false
	}

	return todos
}

func parseTodoList(raw string) ([]TodoItem, error) {
	var wrapper struct {
		Todos []TodoItem `json:"todos"`
	}
	if err := decodeJSONObject(raw, &wrapper); err == nil && len(wrapper.Todos) > 0 {
		return wrapper.Todos, nil
	}

	// 模型偶尔直接返回裸数组
	var todos []TodoItem
	if err := json.Unmarshal([]byte(StripCodeFences(raw, "json")), &todos); err != nil {
		return nil, err
	}
	return todos, nil
}
