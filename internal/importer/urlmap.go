package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/url"
	"strings"

	"go-wordpress-import/internal/logx"
	"go-wordpress-import/internal/model"
)

// writeURLMap 把映射写成两列 CSV（源地址，目标地址），按插入顺序。
func (r *Runner) writeURLMap() error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, p := range r.urlMap.Pairs() {
		if err := w.Write([]string{p.Source, p.Dest}); err != nil {
			return fmt.Errorf("write url map row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush url map: %w", err)
	}
	return r.writer.WriteRaw("url_map.csv", buf.Bytes())
}

// configureRedirections 把 url 映射折算成（相对源文件, 目标路径）重定向对；
// 指向站点根的映射无法表达为文件重定向，跳过。
func configureRedirections(m *model.URLMap) [][2]string {
	var out [][2]string
	for _, p := range m.Pairs() {
		k := p.Source
		if !strings.HasSuffix(k, "/") {
			k += "/"
		}
		srcPath := k
		if u, err := url.Parse(k); err == nil {
			srcPath = u.Path
		}
		src := strings.TrimPrefix(srcPath+"index.html", "/")
		if src == "index.html" {
			logx.Debugf("无法为 %q 生成重定向", p.Source)
			continue
		}
		dst := p.Dest
		if u, err := url.Parse(p.Dest); err == nil && u.Path != "" {
			dst = u.Path
		}
		out = append(out, [2]string{src, dst})
	}
	return out
}

// formatRedirections 输出配置文件中 REDIRECTIONS 的字面量形式。
func formatRedirections(pairs [][2]string) string {
	if len(pairs) == 0 {
		return "[]"
	}
	var b strings.Builder
	b.WriteString("[\n")
	for _, p := range pairs {
		fmt.Fprintf(&b, "    (%q, %q),\n", p[0], p[1])
	}
	b.WriteString("]")
	return b.String()
}
