package importer

import (
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go-wordpress-import/internal/logx"
	"go-wordpress-import/internal/model"
	"go-wordpress-import/internal/qtranslate"
	"go-wordpress-import/internal/site"
	"go-wordpress-import/internal/transform"
	"go-wordpress-import/internal/wxr"
)

// postFormatMetaKey 为条目级正文格式覆盖所用的 postmeta 键。
const postFormatMetaKey = "_tc_post_format"

// epochDate 为日期解析失败时的替代值。
const epochDate = "1970-01-01 00:00:00"

// importItem 对单条文章/页面执行分类与落盘，返回显式结果：
// 成功时携带 (输出目录, slug)，失败时携带跳过原因；
// 只有全部语言变体转换成功并写盘后才注册 url 映射。
func (r *Runner) importItem(it wxr.Item, outFolder string) model.ImportResult {
	title := it.Title()
	if title == "" {
		title = "NO TITLE"
	}

	// 链接形如 http://foo.com/2012/09/01/hello-world/：
	// 取路径，slug 化最后一段，中间段成为嵌套输出目录
	link := it.Link()
	parsed, err := url.Parse(link)
	if err != nil {
		logx.Errorf("文章 %q 的链接 %q 无法解析：%v", title, link, err)
		return model.Skipped(model.SkipNoSlug)
	}
	p := strings.Trim(parsed.Path, "/")
	if base := strings.Trim(r.baseDir, "/"); base != "" && strings.HasPrefix(p, base) {
		p = strings.Replace(p, base, "", 1)
	}
	pathlist := strings.Split(p, "/")

	var slug string
	if parsed.RawQuery != "" {
		// 站点没有友好 URL、使用查询串时，slug 改取 post_name/post_id
		outFolder = filepath.Join(append([]string{outFolder}, pathlist...)...)
		slug = it.PostName()
		if slug == "" {
			if id := it.PostID(); id != 0 {
				slug = strconv.Itoa(id)
			}
		}
		if slug == "" {
			logx.Errorf("转换文章 %q 失败：没有可用的 slug", title)
			return model.Skipped(model.SkipNoSlug)
		}
	} else {
		if len(pathlist) > 1 {
			outFolder = filepath.Join(append([]string{outFolder}, pathlist[:len(pathlist)-1]...)...)
		}
		slug = site.Slugify(pathlist[len(pathlist)-1])
	}

	description := it.Description()
	postDate := it.PostDate()
	dt, derr := parsePostDate(postDate)
	if derr != nil {
		logx.Errorf("文章 %q [%s] 的日期 %q 无法解析，改用 %s", title, slug, postDate, epochDate)
		dt = time.Unix(0, 0).UTC()
		postDate = epochDate
	}
	if r.timezone == "" {
		// 带数字时差的日期解析出的是无名固定时区，只能按偏移量判断
		if _, off := dt.Zone(); off != 0 {
			r.timezone = dt.Format("-07:00")
		}
	}

	status := it.Status()
	content := it.Content()
	excerpt := it.Excerpt()

	var tags, categories []string
	var isDraft, isPrivate bool
	switch {
	case status == "trash":
		logx.Warnf("已回收的文章 %q 不会被导入", title)
		return model.Skipped(model.SkipTrashed)
	case status == "private":
		tags = append(tags, "private")
		isPrivate = true
	case status != "publish":
		tags = append(tags, "draft")
		isDraft = true
	}

	for _, c := range it.Categories() {
		// WordPress 的隐式默认分类不导入
		if c.Name == "Uncategorized" && c.Domain == "category" {
			continue
		}
		r.allTags[c.Name] = struct{}{}
		if c.Domain == "category" {
			categories = append(categories, c.Name)
		} else {
			tags = append(tags, c.Name)
		}
	}

	if strings.Contains(content, "$latex") {
		tags = append(tags, "mathjax")
	}

	postFormat := "wp"
	if v, ok := it.MetaValue(postFormatMetaKey); ok && v != "" {
		postFormat = v
		if postFormat == "wpautop" { // 旧版格式别名
			postFormat = "wp"
		}
	}

	if isDraft && r.opts.ExcludeDrafts {
		logx.Noticef("草稿 %q 不会被导入", title)
		return model.Skipped(model.SkipDraft)
	}
	if isPrivate && r.opts.ExcludePrivates {
		logx.Noticef("私密文章 %q 不会被导入", title)
		return model.Skipped(model.SkipPrivate)
	}
	if strings.TrimSpace(content) == "" && !r.opts.IncludeEmptyItems {
		logx.Warnf("文章 %q 看起来没有内容，不会被导入", title)
		return model.Skipped(model.SkipEmpty)
	}

	var translations map[string]string
	if r.opts.Qtranslate {
		translations = qtranslate.Separate(content)
	} else {
		translations = map[string]string{"": content}
	}
	defaultLang := r.context["DEFAULT_LANG"]

	// 先把所有语言变体转换完，任何一个失败都整条跳过，
	// 这样 url 映射只会出现确实落盘的条目
	type variant struct {
		lang     string
		filename string
		text     string
	}
	var variants []variant
	var newLangs []string
	for _, lang := range sortedKeys(translations) {
		text, ext, terr := r.tr.Content(translations[lang], postFormat)
		if terr != nil {
			logx.Errorf("无法按格式 %q 解释文章 %q（语言 %q）：%v",
				postFormat, filepath.Join(outFolder, slug), lang, terr)
			return model.Skipped(model.SkipBadFormat)
		}
		filename := slug + "." + ext
		if lang != "" && lang != defaultLang {
			filename = site.TranslationFilename(r.opts.TranslationsPattern, slug, lang, ext)
			newLangs = append(newLangs, lang)
		}
		variants = append(variants, variant{lang: lang, filename: filename, text: text})
	}

	meta := model.Metadata{
		Title:       title,
		Slug:        slug,
		Date:        postDate,
		Description: transform.PlainText(description),
		Tags:        append(append([]string{}, tags...), categories...),
		Status:      status,
		Excerpt:     transform.PlainText(excerpt),
	}
	if err := r.writer.WriteMetadata(filepath.Join(outFolder, slug+".meta"), meta); err != nil {
		logx.Errorf("写入 %q 的元数据失败：%v", slug, err)
		return model.Skipped(model.SkipWriteError)
	}
	ref := &model.PostRef{Folder: outFolder, Slug: slug}
	for _, v := range variants {
		rel := filepath.Join(outFolder, v.filename)
		if err := r.writer.WriteContent(rel, v.text); err != nil {
			logx.Errorf("写入 %q 的正文失败：%v", slug, err)
			return model.Skipped(model.SkipWriteError)
		}
		ref.ContentFiles = append(ref.ContentFiles, rel)
	}

	for _, l := range newLangs {
		r.extraLanguages[l] = struct{}{}
	}
	dest := r.context["SITE_URL"] + filepath.ToSlash(outFolder) + "/" + slug + ".html"
	r.urlMap.Set(link, dest)
	return model.ImportResult{Ref: ref}
}

// postDateLayouts 覆盖 WordPress 导出常见的几种时间写法。
var postDateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.RFC1123Z,
}

func parsePostDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range postDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
