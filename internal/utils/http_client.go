package utils

import (
	"net/http"
	"time"
)

// NewHTTPClient 构造带总超时的 HTTP 客户端。调用方只面向单个推理后端，
// 连接池按小规模复用调优；本地模型生成慢，超时由调用方按场景给定。
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        32,
			MaxIdleConnsPerHost: 8,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
