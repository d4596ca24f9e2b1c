// 包 qtranslate 拆分 qtranslate 插件嵌入的多语言正文：
// <!--:en-->Hello<!--:--><!--:fr-->Bonjour<!--:-->
// 语言段之间的公共文本会补进此前出现过的每个语言桶。
package qtranslate

import "strings"

const (
	qtStart          = "<!--:"
	qtEnd            = "-->"
	qtEndWithLangLen = 5 // 形如 "en-->" 的长度
)

// Separate 按语言码拆分正文；键为 2 字母语言码，空串键为默认语言。
// 没有任何语言标记时，整段文本归入默认桶。
func Separate(text string) map[string]string {
	chunks := strings.Split(text, qtStart)
	byLang := map[string][]string{}
	var common []string
	for _, c := range chunks {
		if strings.TrimSpace(c) == "" {
			continue
		}
		lang := ""
		switch {
		case strings.HasPrefix(c, qtEnd):
			// 语言段刚结束：后面可能跟着公共文本，也可能什么都没有
			c = strings.TrimLeft(c, "->")
			if c == "" {
				continue
			}
		case len(c) >= qtEndWithLangLen && c[2:qtEndWithLangLen] == qtEnd:
			// 以 2 字母语言码开头的语言段
			lang = c[:2]
			c = c[qtEndWithLangLen:]
		default:
			// 不在任何语言段内（也许全文根本没有语言标记）
		}
		if lang == "" {
			common = append(common, c)
			for l := range byLang {
				byLang[l] = append(byLang[l], c)
			}
		} else {
			if _, seen := byLang[lang]; !seen {
				// 新语言桶以此前累计的公共文本打底
				byLang[lang] = append([]string(nil), common...)
			}
			byLang[lang] = append(byLang[lang], c)
		}
	}
	if len(common) > 0 && len(byLang) == 0 {
		byLang[""] = common
	}
	out := make(map[string]string, len(byLang))
	for l, parts := range byLang {
		out[l] = strings.Join(parts, " ")
	}
	return out
}
