package utils

import (
	"fmt"
	"net/http"
)

// 流结束标记，客户端收到后停止读取
const sseDoneMarker = "[DONE]"

// SSEWriter 进度事件流的 SSE 写出器，每个事件一条 data 行并立即刷出
type SSEWriter struct {
	w http.ResponseWriter
}

func NewSSEWriter(w http.ResponseWriter) *SSEWriter {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	// 禁用反向代理缓冲，事件必须实时到达
	w.Header().Set("X-Accel-Buffering", "no")

	return &SSEWriter{w: w}
}

func (s *SSEWriter) Write(event, data string) error {
	if event != "" {
		if _, err := fmt.Fprintf(s.w, "event: %s\n", event); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return err
	}

	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}

	return nil
}

// Close 发送结束标记，流关闭后不再有任何事件
func (s *SSEWriter) Close() error {
	return s.Write("", sseDoneMarker)
}
