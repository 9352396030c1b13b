package service

import "pageforge-backend/internal/stage"

// 事件类型，type 字段为判别标识，客户端按到达顺序增量渲染
const (
	EventThinking       = "thinking"
	EventConversation   = "conversation"
	EventDescription    = "description"
	EventTodoTyping     = "todo_typing"
	EventTodoItem       = "todo_item"
	EventTodoComplete   = "todo_complete"
	EventProjectCreated = "project_created"
	EventTaskStart      = "task_start"
	EventTaskComplete   = "task_complete"
	EventCodeStart      = "code_start"
	EventCodeLine       = "code_line"
	EventCodeComplete   = "code_complete"
	EventTokensUpdate   = "tokens_update"
	EventCodeGenerated  = "code_generated"
	EventComplete       = "complete"
	EventError          = "error"
)

// ProgressEvent 进度事件联合体。空串和 0 对部分字段是有效取值
// （空的 partial_task 首帧、空行 code_line、零字节产物），这些字段用指针
// 区分"未设置"与"取值为零"。
type ProgressEvent struct {
	Type string `json:"type"`

	Message     string `json:"message,omitempty"`
	Intent      string `json:"intent,omitempty"`
	Description string `json:"description,omitempty"`

	TodoID      int              `json:"todo_id,omitempty"`
	PartialTask *string          `json:"partial_task,omitempty"`
	Todo        *stage.TodoItem  `json:"todo,omitempty"`
	TodoList    []stage.TodoItem `json:"todo_list,omitempty"`

	ProjectID string `json:"project_id,omitempty"`

	TaskID         int    `json:"task_id,omitempty"`
	Task           string `json:"task,omitempty"`
	CompletedCount int    `json:"completed_count,omitempty"`
	TotalTasks     int    `json:"total_tasks,omitempty"`

	File     string  `json:"file,omitempty"`
	Line     *string `json:"line,omitempty"`
	Content  *string `json:"content,omitempty"`
	FileSize *int    `json:"file_size,omitempty"`

	RemainingTokens *int `json:"remaining_tokens,omitempty"`
	TokenLimit      int  `json:"token_limit,omitempty"`
	TokensUsed      int  `json:"tokens_used,omitempty"`
}

func thinkingEvent(message string) ProgressEvent {
	return ProgressEvent{Type: EventThinking, Message: message}
}

func conversationEvent(message, intent string) ProgressEvent {
	return ProgressEvent{Type: EventConversation, Message: message, Intent: intent}
}

func descriptionEvent(description string) ProgressEvent {
	return ProgressEvent{Type: EventDescription, Description: description}
}

func todoTypingEvent(todoID int, partialTask string) ProgressEvent {
	return ProgressEvent{Type: EventTodoTyping, TodoID: todoID, PartialTask: &partialTask}
}

func todoItemEvent(todo stage.TodoItem) ProgressEvent {
	return ProgressEvent{Type: EventTodoItem, Todo: &todo}
}

func todoCompleteEvent() ProgressEvent {
	return ProgressEvent{Type: EventTodoComplete}
}

func projectCreatedEvent(projectID string) ProgressEvent {
	return ProgressEvent{Type: EventProjectCreated, ProjectID: projectID}
}

func taskStartEvent(taskID int, task string) ProgressEvent {
	return ProgressEvent{Type: EventTaskStart, TaskID: taskID, Task: task}
}

func taskCompleteEvent(taskID, completedCount, totalTasks int) ProgressEvent {
	return ProgressEvent{
		Type:           EventTaskComplete,
		TaskID:         taskID,
		CompletedCount: completedCount,
		TotalTasks:     totalTasks,
	}
}

func codeStartEvent(file string) ProgressEvent {
	return ProgressEvent{Type: EventCodeStart, File: file}
}

func codeLineEvent(file, line string) ProgressEvent {
	return ProgressEvent{Type: EventCodeLine, File: file, Line: &line}
}

func codeCompleteEvent(file, content string) ProgressEvent {
	size := len(content)
	return ProgressEvent{Type: EventCodeComplete, File: file, Content: &content, FileSize: &size}
}

func tokensUpdateEvent(remaining, limit int) ProgressEvent {
	return ProgressEvent{Type: EventTokensUpdate, RemainingTokens: &remaining, TokenLimit: limit}
}

func codeGeneratedEvent(message string) ProgressEvent {
	return ProgressEvent{Type: EventCodeGenerated, Message: message}
}

func completeEvent(projectID string, todoList []stage.TodoItem, description string, tokensUsed, tokenLimit int) ProgressEvent {
	remaining := tokenLimit - tokensUsed
	return ProgressEvent{
		Type:            EventComplete,
		ProjectID:       projectID,
		TodoList:        todoList,
		Description:     description,
		TokensUsed:      tokensUsed,
		TokenLimit:      tokenLimit,
		RemainingTokens: &remaining,
	}
}

func errorEvent(message string) ProgressEvent {
	return ProgressEvent{Type: EventError, Message: message}
}
