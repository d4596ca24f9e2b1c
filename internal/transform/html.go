package transform

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText 去掉 HTML 标签，返回折叠过空白的纯文本，用于元数据的描述/摘要字段。
// 解析失败时原样返回。
func PlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// RewriteHTML 把 HTML 内容里 img/src 与 a/href 命中映射的地址替换为目标地址。
// 返回重写后的文本与是否发生替换。
func RewriteHTML(content string, resolve func(string) (string, bool)) (string, bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content, false, err
	}
	changed := false
	rewriteAttr := func(sel, attr string) {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			val, ok := s.Attr(attr)
			if !ok {
				return
			}
			if dst, hit := resolve(val); hit && dst != val {
				s.SetAttr(attr, dst)
				changed = true
			}
		})
	}
	rewriteAttr("img", "src")
	rewriteAttr("a", "href")
	if !changed {
		return content, false, nil
	}
	out, err := doc.Find("body").Html()
	if err != nil {
		return content, false, err
	}
	return out, true, nil
}

// RewriteText 对非 HTML 内容做逐条纯文本替换（Markdown 里的内联地址）。
func RewriteText(content string, pairs [][2]string) (string, bool) {
	changed := false
	for _, p := range pairs {
		if p[0] == "" || p[0] == p[1] {
			continue
		}
		if strings.Contains(content, p[0]) {
			content = strings.ReplaceAll(content, p[0], p[1])
			changed = true
		}
	}
	return content, changed
}
