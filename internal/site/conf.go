package site

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

//go:embed conf.tmpl
var confFS embed.FS

// RenderConf 用键值上下文渲染站点配置文本；缺键视为错误。
func RenderConf(context map[string]string) (string, error) {
	raw, err := confFS.ReadFile("conf.tmpl")
	if err != nil {
		return "", fmt.Errorf("read conf template: %w", err)
	}
	tpl, err := template.New("conf").Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("parse conf template: %w", err)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, context); err != nil {
		return "", fmt.Errorf("render conf template: %w", err)
	}
	return buf.String(), nil
}

// AdjustConf 对渲染结果做后处理：
// - 取消 REDIRECTIONS 行的注释（url 映射总是生成）
// - 探测到站点时区时取消 TIMEZONE 行的注释并写入时区名
func AdjustConf(rendered, timezone string) string {
	rendered = strings.Replace(rendered, "# REDIRECTIONS = ", "REDIRECTIONS = ", 1)
	if timezone != "" {
		rendered = strings.Replace(rendered, "# TIMEZONE = 'UTC'", "TIMEZONE = '"+timezone+"'", 1)
	}
	return rendered
}

// FormatTranslations 把默认语言与检出的附加语言折叠为 TRANSLATIONS 字面量。
func FormatTranslations(extra map[string]struct{}) string {
	if len(extra) == 0 {
		return `{DEFAULT_LANG: ""}`
	}
	langs := make([]string, 0, len(extra))
	for l := range extra {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	var b strings.Builder
	b.WriteString("{\n")
	b.WriteString("    DEFAULT_LANG: \"\",\n")
	for _, l := range langs {
		fmt.Fprintf(&b, "    %q: \"./%s\",\n", l, l)
	}
	b.WriteString("}")
	return b.String()
}
