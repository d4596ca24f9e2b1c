package importer

import (
	"net/url"
	"strings"

	"go-wordpress-import/internal/site"
	"go-wordpress-import/internal/wxr"
)

// 站点内容发现模式，与生成站点的默认目录结构保持一致。
const (
	postsPatterns = `(
    ("posts/*.rst", "posts", "post.tmpl"),
    ("posts/*.txt", "posts", "post.tmpl"),
    ("posts/*.md", "posts", "post.tmpl"),
)`
	pagesPatterns = `(
    ("stories/*.rst", "stories", "story.tmpl"),
    ("stories/*.txt", "stories", "story.tmpl"),
    ("stories/*.md", "stories", "story.tmpl"),
)`
	compilersPatterns = `{
    "rest": ('.txt', '.rst'),
    "markdown": ('.md', '.mdown', '.markdown'),
    "html": ('.html', '.htm'),
}`
)

// prepare 从频道元数据一次性构建配置上下文，并记录站点的基础路径。
func (r *Runner) prepare(channel *wxr.Channel) {
	ctx := map[string]string{}

	lang := channel.Language()
	if lang == "" {
		lang = "en"
	}
	if len(lang) > 2 {
		lang = lang[:2]
	}
	ctx["DEFAULT_LANG"] = lang

	pattern := r.opts.TranslationsPattern
	if pattern == "" {
		pattern = site.DefaultTranslationsPattern
	}
	ctx["TRANSLATIONS_PATTERN"] = pattern
	ctx["TRANSLATIONS"] = site.FormatTranslations(nil)

	title := channel.Title()
	if title == "" {
		title = "PUT TITLE HERE"
	}
	ctx["BLOG_TITLE"] = title
	desc := channel.Description()
	if desc == "" {
		desc = "PUT DESCRIPTION HERE"
	}
	ctx["BLOG_DESCRIPTION"] = desc

	base := channel.Link()
	if base == "" {
		base = channel.AuthorURL()
	}
	if base == "" {
		base = "http://foo.com/"
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	ctx["BASE_URL"] = base
	ctx["SITE_URL"] = base

	email := channel.AuthorEmail()
	if email == "" {
		email = "joe@example.com"
	}
	ctx["BLOG_EMAIL"] = email
	author := channel.AuthorName()
	if author == "" {
		author = "Joe Example"
	}
	ctx["BLOG_AUTHOR"] = author

	ctx["POSTS"] = postsPatterns
	ctx["PAGES"] = pagesPatterns
	ctx["COMPILERS"] = compilersPatterns
	ctx["REDIRECTIONS"] = "[]"

	r.context = ctx
	if u, err := url.Parse(base); err == nil {
		r.baseDir = u.Path
	}
}

// writeConf 渲染配置模板并做时区/重定向补丁后落盘。
func (r *Runner) writeConf() error {
	rendered, err := site.RenderConf(r.context)
	if err != nil {
		return err
	}
	rendered = site.AdjustConf(rendered, r.timezone)
	return r.writer.WriteRaw("conf.py", []byte(rendered))
}
