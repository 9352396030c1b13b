package stage

import (
	"encoding/json"
	"strings"
)

// StripCodeFences 去掉模型回复中可能包裹的 markdown 代码块标记。
// 模型被要求返回裸代码，但仍可能带 ```lang ... ``` 围栏。
func StripCodeFences(raw string, langs ...string) string {
	content := strings.TrimSpace(raw)

	for _, lang := range langs {
		marker := "```" + lang
		if idx := strings.Index(content, marker); idx >= 0 {
			content = content[idx+len(marker):]
			if end := strings.Index(content, "```"); end >= 0 {
				content = content[:end]
			}
			return strings.TrimSpace(content)
		}
	}

	if strings.Contains(content, "```") {
		parts := strings.Split(content, "```")
		if len(parts) > 1 {
			content = strings.TrimSpace(parts[1])
			// 围栏首行可能是语言标签
			for _, lang := range langs {
				if strings.HasPrefix(content, lang) {
					rest := content[len(lang):]
					if rest == "" || rest[0] == '\n' || rest[0] == '\r' || rest[0] == ' ' {
						content = strings.TrimSpace(rest)
						break
					}
				}
			}
		}
	}

	return strings.TrimSpace(content)
}

// decodeJSONObject 防御性解析模型回复中的 JSON 对象：
// 先去围栏，失败后再尝试截取首个 { 到末尾 } 的子串。
func decodeJSONObject(raw string, v interface{}) error {
	content := StripCodeFences(raw, "json")

	if err := json.Unmarshal([]byte(content), v); err == nil {
		return nil
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return json.Unmarshal([]byte(content[start:end+1]), v)
	}

	return json.Unmarshal([]byte(content), v)
}
