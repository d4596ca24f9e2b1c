// 包 transform 将 WordPress 专有标记重写为 Markdown/HTML：
// - 代码短码（[code]/[sourcecode]，带或不带语言属性）→ 围栏代码块
// - 图片说明短码（[caption]）→ 去壳保留内容
// - 连续空行按需压缩
package transform

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnsupportedFormat 表示条目声明了无法识别的正文格式。
var ErrUnsupportedFormat = errors.New("unsupported post format")

// 四种短码写法各自独立的一趟替换，顺序不可调整：
// 后面的替换会重新扫描前面替换过的文本。
var (
	codeLangRe       = regexp.MustCompile(`(?s)\[code.* lang.*?="(.*?)?".*\](.*?)\[/code\]`)
	sourcecodeLangRe = regexp.MustCompile(`(?s)\[sourcecode.* lang.*?="(.*?)?".*\](.*?)\[/sourcecode\]`)
	codeBareRe       = regexp.MustCompile(`(?s)\[code.*?\](.*?)\[/code\]`)
	sourcecodeBareRe = regexp.MustCompile(`(?s)\[sourcecode.*?\](.*?)\[/sourcecode\]`)

	captionCloseRe = regexp.MustCompile(`\[/caption\]`)
	captionOpenRe  = regexp.MustCompile(`\[caption.*\]`)

	multiNewlineRe = regexp.MustCompile(`\n{3,}`)
)

// Transformer 持有影响转换结果的运行开关。
type Transformer struct {
	SquashNewlines bool
}

// Code 将代码短码重写为围栏代码块，并还原代码体内的四种 HTML 实体。
func (t *Transformer) Code(content string) string {
	content = replaceCode(codeLangRe, content, true)
	content = replaceCode(sourcecodeLangRe, content, true)
	content = replaceCode(codeBareRe, content, false)
	content = replaceCode(sourcecodeBareRe, content, false)
	return content
}

func replaceCode(re *regexp.Regexp, content string, withLang bool) string {
	return re.ReplaceAllStringFunc(content, func(m string) string {
		groups := re.FindStringSubmatch(m)
		var language, code string
		if withLang {
			language = groups[1]
			code = groups[2]
		} else {
			code = groups[1]
		}
		code = unescapeEntities(code)
		return fmt.Sprintf("```%s\n%s\n```", language, code)
	})
}

// unescapeEntities 仅还原代码体中常见的四种实体，其余保持原样。
func unescapeEntities(code string) string {
	code = strings.ReplaceAll(code, "&amp;", "&")
	code = strings.ReplaceAll(code, "&gt;", ">")
	code = strings.ReplaceAll(code, "&lt;", "<")
	code = strings.ReplaceAll(code, "&quot;", `"`)
	return code
}

// Caption 去掉 caption 短码的开闭标记，保留内部内容，不处理嵌套。
func (t *Transformer) Caption(content string) string {
	content = captionCloseRe.ReplaceAllString(content, "")
	content = captionOpenRe.ReplaceAllString(content, "")
	return content
}

// MultipleNewlines 在开关开启时把 3 个以上连续换行压成 2 个。
func (t *Transformer) MultipleNewlines(content string) string {
	if !t.SquashNewlines {
		return content
	}
	return multiNewlineRe.ReplaceAllString(content, "\n\n")
}

// Content 按条目声明的正文格式分发转换，返回转换结果与目标扩展名：
// - "wp"：依次执行代码/说明/空行三个转换，产出 Markdown
// - "markdown"：原样透传为 Markdown
// - "none"：原样透传为 HTML
// 其余格式为失败，条目应被跳过。
func (t *Transformer) Content(content, postFormat string) (string, string, error) {
	switch postFormat {
	case "wp":
		content = t.Code(content)
		content = t.Caption(content)
		content = t.MultipleNewlines(content)
		return content, "md", nil
	case "markdown":
		return content, "md", nil
	case "none":
		return content, "html", nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, postFormat)
	}
}
