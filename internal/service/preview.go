package service

import (
	"fmt"
	"regexp"
	"strings"
)

// 生成的产物要求自包含，残留的外部引用视为过期内容，合成前一律剥离
var (
	externalStylesheetRe = regexp.MustCompile(`(?i)<link[^>]*rel=["']stylesheet["'][^>]*>`)
	externalCSSLinkRe    = regexp.MustCompile(`(?i)<link[^>]*href=["'][^"']*\.css["'][^>]*>`)
	externalScriptRe     = regexp.MustCompile(`(?is)<script[^>]*src=["'][^"']*["'][^>]*>\s*</script>`)
	inlineStyleRe        = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	inlineScriptRe       = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
)

// ComposePreview 把三个产物合成一份可独立渲染的 HTML 文档。
// 纯函数且幂等：相同输入必然产生相同输出。
func ComposePreview(projectName, markup, style, behavior string) string {
	markup = externalStylesheetRe.ReplaceAllString(markup, "")
	markup = externalCSSLinkRe.ReplaceAllString(markup, "")
	markup = externalScriptRe.ReplaceAllString(markup, "")

	// 裸片段：包一层最小文档骨架
	if !strings.Contains(markup, "<!DOCTYPE html>") && !strings.Contains(markup, "<html") {
		return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        %s
    </style>
</head>
<body>
    %s
    <script>
        %s
    </script>
</body>
</html>`, projectName, style, markup, behavior)
	}

	// 完整文档：去掉已有内联块再注入生成内容，避免样式/行为重复
	markup = inlineStyleRe.ReplaceAllString(markup, "")

	styleBlock := fmt.Sprintf("<style>\n%s\n</style>", style)
	switch {
	case strings.Contains(markup, "</head>"):
		markup = strings.Replace(markup, "</head>", styleBlock+"\n</head>", 1)
	case strings.Contains(markup, "<head>"):
		markup = strings.Replace(markup, "<head>", "<head>\n"+styleBlock, 1)
	default:
		markup = styleBlock + "\n" + markup
	}

	markup = inlineScriptRe.ReplaceAllString(markup, "")

	scriptBlock := fmt.Sprintf("<script>\n%s\n</script>", behavior)
	if strings.Contains(markup, "</body>") {
		markup = strings.Replace(markup, "</body>", scriptBlock+"\n</body>", 1)
	} else {
		markup = markup + "\n" + scriptBlock
	}

	return markup
}
