package stage

import (
	"context"
	"fmt"
	"strings"

	"pageforge-backend/internal/provider"
)

const htmlSystemPrompt = `You are an expert web developer. Generate clean, modern, production-ready HTML code with HIGHLY ATTRACTIVE, ORIGINAL DESIGN.

CRITICAL REQUIREMENTS FOR BEAUTIFUL UI:
1. HTML must be properly formatted with correct indentation (2 spaces per level)
2. Use semantic HTML5 elements (header, nav, main, section, footer, article, aside)
3. Include proper viewport meta tag: <meta name="viewport" content="width=device-width, initial-scale=1.0">
4. Include Google Fonts or other attractive fonts in <head>: <link href="https://fonts.googleapis.com/css2?family=Poppins:wght@300;400;600;700&family=Inter:wght@400;500;600&display=swap" rel="stylesheet">
5. Include Font Awesome or similar icon library: <link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.4.0/css/all.min.css">
6. Add meaningful class names for styling (use BEM methodology or similar)
7. Include proper accessibility attributes (alt, aria-labels where needed)
8. Use proper heading hierarchy (h1, h2, h3)
9. DESIGN MUST BE HIGHLY ATTRACTIVE:
   - Use modern, eye-catching layouts
   - Include icons from Font Awesome (use <i class="fas fa-..."></i>)
   - Use attractive typography with Google Fonts
   - Add data attributes for animations
   - Include proper structure for animations and interactions
10. Make it look professional and polished like a real modern website
11. CRITICAL: Do NOT include <link> tags for external CSS files (style.css, styles.css, etc.)
12. CRITICAL: Do NOT include <script src=""> tags for external JS files (script.js, main.js, etc.)
13. All CSS and JS will be injected automatically - just provide the HTML structure

Return ONLY the HTML code as a string. Do not include markdown code blocks, backticks, or explanations.`

const cssSystemPrompt = `You are an expert web developer. Generate clean, modern, production-ready, FULLY RESPONSIVE CSS code with HIGHLY ATTRACTIVE, ORIGINAL DESIGN.

CRITICAL REQUIREMENTS FOR BEAUTIFUL UI:
1. CSS must be properly formatted with correct indentation
2. MUST BE FULLY RESPONSIVE - Use media queries: @media (max-width: 768px) for mobile, @media (max-width: 1024px) for tablet
3. Use CSS Grid or Flexbox for PERFECT alignment and layout
4. Use relative units (rem, em, %, vw, vh) for responsive sizing
5. DESIGN MUST BE HIGHLY ATTRACTIVE AND ORIGINAL:
   - Use creative, modern layouts that stand out
   - Implement unique visual elements (gradients, shadows, animations, glassmorphism effects)
   - Create professional, polished appearance like premium websites
   - Use original color schemes with proper contrast
   - Add micro-interactions and smooth animations (fade-in, slide-in, scale effects)
   - Use attractive typography with Google Fonts (Poppins, Inter, Playfair Display, etc.)
   - Add hover effects, transitions, and interactive elements
   - Use CSS variables for colors and spacing for consistency
   - Add box-shadows, border-radius, and modern styling
   - Include keyframe animations for engaging effects
6. Perfect alignment - center content properly, use consistent spacing
7. Use modern typography with proper font weights and sizes
8. Add smooth transitions (0.3s ease) and hover effects on all interactive elements
9. Use CSS variables for colors and spacing
10. Mobile-first responsive design
11. Include animations: @keyframes for fade-in, slide-in, pulse effects
12. Make buttons and interactive elements attractive with gradients, shadows, and hover states
13. Use modern color palettes and ensure proper contrast

Return ONLY the CSS code as a string. Do not include markdown code blocks, backticks, or explanations.`

const jsSystemPrompt = `You are an expert web developer. Generate clean, modern, production-ready JavaScript code.

CRITICAL REQUIREMENTS:
1. JavaScript must be properly formatted with correct indentation
2. All functions must be complete and functional
3. Add proper event listeners
4. Handle user interactions smoothly
5. Use modern JavaScript (ES6+)
6. Add error handling where appropriate
7. Make functions work seamlessly with the UI

Return ONLY the JavaScript code as a string. Do not include markdown code blocks, backticks, or explanations.`

// GenerateHTML 生成页面结构。后端调用失败是致命错误，由编排层终止流水线。
func GenerateHTML(ctx context.Context, p provider.Provider, prompt string, profile Profile) (string, error) {
	userContext := fmt.Sprintf(`Create beautiful, modern HTML structure for: %s

PROJECT TYPE: %s
THEME: %s
%s%s
CRITICAL UI REQUIREMENTS:
- Semantic HTML5 structure
- Responsive and accessible
- HIGHLY ATTRACTIVE design with icons, modern fonts, animations
- Professional, polished appearance like premium websites
- Include Google Fonts (Poppins, Inter, Playfair Display) in <head>
- Include Font Awesome icons library in <head>
- Add proper structure for animations and interactions
- Use meaningful class names for styling
- Make it visually stunning and modern`,
		prompt, profile.ProjectType, profile.Theme, colorScheme(prompt, profile), designContext(profile))

	resp, err := p.Complete(ctx, []provider.Message{
		provider.SystemMessage(htmlSystemPrompt),
		provider.UserMessage(userContext),
	}, provider.Options{
		Temperature:    0.7,
		MaxOutputUnits: 12000,
	})
	if err != nil {
		return "", fmt.Errorf("error generating HTML: %w", err)
	}

	htmlCode := StripCodeFences(resp.Text, "html")

	return ensureViewport(htmlCode), nil
}

// GenerateCSS 生成样式。htmlCode 仅截取前 500 字符作为结构参考。
func GenerateCSS(ctx context.Context, p provider.Provider, prompt string, profile Profile, htmlCode string) (string, error) {
	userContext := fmt.Sprintf(`Create beautiful, modern, responsive CSS for: %s

PROJECT TYPE: %s
THEME: %s
%s%s
HTML Structure (for reference):
%s

CRITICAL UI REQUIREMENTS:
- Fully responsive (mobile, tablet, desktop)
- HIGHLY ATTRACTIVE design with icons, animations, modern fonts
- Smooth animations and transitions (fade-in, slide-in, hover effects)
- Professional, polished appearance like premium websites
- Perfect alignment and spacing
- Use Google Fonts (Poppins, Inter, Playfair Display) - apply to body and headings
- Style Font Awesome icons properly
- Add keyframe animations for engaging effects (@keyframes fadeIn, slideIn, pulse)
- Modern color schemes with gradients and shadows
- Make buttons and interactive elements attractive with gradients, shadows, hover states
- Use CSS variables for colors and spacing
- Add box-shadows, border-radius, and modern styling throughout
- Ensure perfect alignment - center content properly`,
		prompt, profile.ProjectType, profile.Theme, colorScheme(prompt, profile), designContext(profile), truncate(htmlCode, 500))

	resp, err := p.Complete(ctx, []provider.Message{
		provider.SystemMessage(cssSystemPrompt),
		provider.UserMessage(userContext),
	}, provider.Options{
		Temperature:    0.7,
		MaxOutputUnits: 12000,
	})
	if err != nil {
		return "", fmt.Errorf("error generating CSS: %w", err)
	}

	cssCode := StripCodeFences(resp.Text, "css")

	return ensureResponsive(cssCode), nil
}

// GenerateJS 生成交互脚本，必需函数清单按项目类型推导
func GenerateJS(ctx context.Context, p provider.Provider, prompt string, profile Profile, htmlCode string) (string, error) {
	jsFunctions := requiredJSFunctions(profile)

	functionsText := ""
	if len(jsFunctions) > 0 {
		var lines []string
		for _, fn := range jsFunctions {
			lines = append(lines, fmt.Sprintf("- %s()", fn))
		}
		functionsText = "\n\nREQUIRED FUNCTIONS (MUST IMPLEMENT ALL):\n" + strings.Join(lines, "\n")
	}

	userContext := fmt.Sprintf(`Create functional JavaScript for: %s

PROJECT TYPE: %s
%s

HTML Structure (for reference):
%s

Requirements:
- All required functions implemented
- Smooth user interactions
- Error handling
- Modern JavaScript`,
		prompt, profile.ProjectType, functionsText, truncate(htmlCode, 500))

	resp, err := p.Complete(ctx, []provider.Message{
		provider.SystemMessage(jsSystemPrompt),
		provider.UserMessage(userContext),
	}, provider.Options{
		Temperature:    0.7,
		MaxOutputUnits: 3000,
	})
	if err != nil {
		return "", fmt.Errorf("error generating JavaScript: %w", err)
	}

	return StripCodeFences(resp.Text, "javascript", "js"), nil
}

// colorScheme 依次采用：用户点名的颜色 > 设计参考库配色 > 主题/关键词推导
func colorScheme(prompt string, profile Profile) string {
	if len(profile.Colors) > 0 {
		return fmt.Sprintf("\nUser requested colors: %s. Use these colors.\n", strings.Join(profile.Colors, ", "))
	}
	if len(profile.DesignColors) > 0 {
		return fmt.Sprintf("\nUse this color palette: %s\n", strings.Join(profile.DesignColors, ", "))
	}

	switch {
	case strings.EqualFold(profile.Theme, "dark"):
		return "\nUse a dark theme with colors like #1a1a1a, #2d2d2d, #ffffff, #4a9eff\n"
	case strings.EqualFold(profile.Theme, "light"):
		return "\nUse a light theme with colors like #ffffff, #f5f5f5, #333333, #007bff\n"
	case strings.Contains(strings.ToLower(prompt), "coffee"):
		return "\nUse warm coffee shop colors: #8B4513, #D2691E, #F5F5DC, #FFFFFF, #CD853F\n"
	}

	return "\n"
}

func designContext(profile Profile) string {
	if profile.DesignDescription == "" {
		return ""
	}
	return fmt.Sprintf("Follow this design style: %s\n", profile.DesignDescription)
}

func requiredJSFunctions(profile Profile) []string {
	functions := append([]string{}, profile.JSFunctions...)

	projectType := strings.ToLower(profile.ProjectType)
	switch {
	case strings.Contains(projectType, "todo") || strings.Contains(projectType, "task"):
		functions = append(functions, "addTask", "deleteTask", "toggleCheckbox", "saveToLocalStorage", "loadFromLocalStorage")
	case strings.Contains(projectType, "calculator"):
		functions = append(functions, "calculate", "clear", "handleInput")
	case strings.Contains(projectType, "form") || strings.Contains(projectType, "contact"):
		functions = append(functions, "validateForm", "submitForm", "resetForm")
	}

	return functions
}

// ensureViewport 缺少 viewport meta 且存在 <head> 时补注入
func ensureViewport(htmlCode string) string {
	if !strings.Contains(strings.ToLower(htmlCode), "viewport") && strings.Contains(htmlCode, "<head>") {
		return strings.Replace(htmlCode, "<head>",
			"<head>\n  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">", 1)
	}
	return htmlCode
}

// ensureResponsive 无任何媒体查询时补一个最小移动端断点
func ensureResponsive(cssCode string) string {
	if !strings.Contains(cssCode, "@media") {
		cssCode += "\n\n/* Responsive Design */\n@media (max-width: 768px) {\n  body {\n    font-size: 14px;\n  }\n}\n"
	}
	return cssCode
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
