package provider

// DefaultTokenLimit 单次生成会话的默认 token 预算
const DefaultTokenLimit = 30000

// EstimateTokens 粗略估算 token 数（约 1 token ≈ 4 字符），仅用于进度展示
func EstimateTokens(text string) int {
	return len(text) / 4
}
