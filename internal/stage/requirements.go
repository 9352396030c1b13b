package stage

import (
	"context"

	"pageforge-backend/internal/provider"
	"pageforge-backend/pkg/logger"
)

// Profile 一次请求只提取一次的需求画像，后续所有代码生成阶段共同消费
type Profile struct {
	ProjectType string   `json:"project_type"`
	Theme       string   `json:"theme"`
	Colors      []string `json:"colors"`
	JSFunctions []string `json:"js_functions"`

	// 命中设计参考库时由编排层填充
	DesignReference   string   `json:"design_reference,omitempty"`
	DesignDescription string   `json:"design_description,omitempty"`
	DesignColors      []string `json:"design_colors,omitempty"`
}

const requirementsSystemPrompt = `Analyze the user's request and extract:
1. Project type (todo list, coffee shop, portfolio, landing page, etc.)
2. Theme preferences (dark, light, modern, vintage, etc.)
3. Color preferences (specific colors mentioned)
4. Required JavaScript functions needed

Return JSON: {"project_type": "...", "theme": "...", "colors": ["..."], "js_functions": ["..."]}`

func defaultProfile() Profile {
	return Profile{
		ProjectType: "webpage",
		Theme:       "modern",
		Colors:      []string{},
		JSFunctions: []string{},
	}
}

// ExtractRequirements 提取项目需求，失败时使用通用默认画像
func ExtractRequirements(ctx context.Context, p provider.Provider, prompt string) Profile {
	resp, err := p.Complete(ctx, []provider.Message{
		provider.SystemMessage(requirementsSystemPrompt),
		provider.UserMessage(prompt),
	}, provider.Options{
		Temperature:    0.7,
		MaxOutputUnits: 300,
		WantJSON:       true,
	})
	if err != nil {
		logger.Warnf("requirement extraction call failed, using defaults: %v", err)
		return defaultProfile()
	}

	var profile Profile
	if err := decodeJSONObject(resp.Text, &profile); err != nil {
		logger.Warnf("requirement extraction reply unparsable, using defaults: %v", err)
		return defaultProfile()
	}

	if profile.ProjectType == "" {
		profile.ProjectType = "webpage"
	}
	if profile.Theme == "" {
		profile.Theme = "modern"
	}
	if profile.Colors == nil {
		profile.Colors = []string{}
	}
	if profile.JSFunctions == nil {
		profile.JSFunctions = []string{}
	}

	return profile
}
