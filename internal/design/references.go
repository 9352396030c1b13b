package design

import "strings"

// Reference 预置的设计风格参考，用于增强代码生成提示词
type Reference struct {
	Description string
	ColorScheme []string
	Layout      string
	Features    []string
}

var references = map[string]Reference{
	"coffee_shop": {
		Description: "Warm, inviting coffee shop design with earthy tones",
		ColorScheme: []string{"#8B4513", "#D2691E", "#F5F5DC", "#FFFFFF", "#CD853F"},
		Layout:      "two_column_hero",
		Features:    []string{"card_grid", "warm_gradients", "rounded_corners"},
	},
	"tech_startup": {
		Description: "Modern tech startup with clean lines and bold typography",
		ColorScheme: []string{"#1a1a1a", "#4a9eff", "#ffffff", "#f5f5f5"},
		Layout:      "centered_hero",
		Features:    []string{"gradient_backgrounds", "bold_typography", "card_hover_effects"},
	},
	"portfolio": {
		Description: "Creative portfolio with showcase sections",
		ColorScheme: []string{"#ffffff", "#333333", "#007bff", "#f8f9fa"},
		Layout:      "grid_portfolio",
		Features:    []string{"image_galleries", "hover_overlays", "minimal_design"},
	},
}

var categoryKeywords = []struct {
	keywords []string
	category string
}{
	{[]string{"coffee", "cafe", "coffee shop"}, "coffee_shop"},
	{[]string{"tech", "startup", "saas", "software"}, "tech_startup"},
	{[]string{"portfolio", "showcase", "gallery"}, "portfolio"},
}

// DetectCategory 从提示词中识别设计类别，未命中返回空串（非错误）
func DetectCategory(prompt string) string {
	promptLower := strings.ToLower(prompt)

	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(promptLower, keyword) {
				return entry.category
			}
		}
	}

	return ""
}

func Lookup(category string) (Reference, bool) {
	ref, ok := references[strings.ToLower(category)]
	return ref, ok
}
