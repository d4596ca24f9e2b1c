// 包 importer 负责主流程编排：
// - 按文档顺序遍历导出条目，分类导入文章/页面、解析附件
// - 在一次运行内累积 url 映射/附件索引/语言集合/标签集合
// - 收尾写出附件边车、url_map.csv 与站点配置
package importer

import (
	"cmp"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go-wordpress-import/internal/config"
	"go-wordpress-import/internal/fetch"
	"go-wordpress-import/internal/logx"
	"go-wordpress-import/internal/model"
	"go-wordpress-import/internal/site"
	"go-wordpress-import/internal/store"
	"go-wordpress-import/internal/transform"
	"go-wordpress-import/internal/wxr"
)

// Runner 为一次导入运行的执行器；全部累积状态都挂在实例上，
// 单次运行独占，不存在全局可变状态。
type Runner struct {
	opts   *config.Options
	client *fetch.Client
	ledger *store.Ledger // 可为 nil（禁用缓存或禁用下载）
	writer *site.Writer
	tr     *transform.Transformer

	context        map[string]string
	baseDir        string
	urlMap         *model.URLMap
	postsPages     map[int]model.PostRef
	attachments    map[int]map[int][]string
	extraLanguages map[string]struct{}
	allTags        map[string]struct{}
	timezone       string
}

// New 创建 Runner。
func New(opts *config.Options, cl *fetch.Client, ledger *store.Ledger) *Runner {
	return &Runner{
		opts:           opts,
		client:         cl,
		ledger:         ledger,
		writer:         site.NewWriter(opts.OutputFolder),
		tr:             &transform.Transformer{SquashNewlines: opts.SquashNewlines},
		urlMap:         model.NewURLMap(),
		postsPages:     map[int]model.PostRef{},
		attachments:    map[int]map[int][]string{},
		extraLanguages: map[string]struct{}{},
		allTags:        map[string]struct{}{},
	}
}

// Run 执行一轮导入：建上下文→逐条处理→挂附件→收尾写盘。
func (r *Runner) Run(ctx context.Context, channel *wxr.Channel) error {
	r.prepare(channel)
	for _, it := range channel.Items() {
		r.processItem(ctx, it)
	}
	r.assignAttachments()

	// 顺序沿袭导入语义：重定向配置基于文章映射计算，
	// 标签归档映射只进 url_map.csv，不进配置。
	r.context["TRANSLATIONS"] = site.FormatTranslations(r.extraLanguages)
	r.context["REDIRECTIONS"] = formatRedirections(configureRedirections(r.urlMap))
	r.addTagRedirects()

	if err := r.writeURLMap(); err != nil {
		return err
	}
	if err := r.writeConf(); err != nil {
		return err
	}
	if r.opts.RewriteLinks {
		r.rewriteLinks()
	}
	return nil
}

// URLMap 暴露本次运行累积的映射（测试与统计用）。
func (r *Runner) URLMap() *model.URLMap { return r.urlMap }

// processItem 处理单条目：附件走附件解析，其余按文章/页面分类导入。
func (r *Runner) processItem(ctx context.Context, it wxr.Item) {
	postType := it.PostType()
	postID := it.PostID()
	parentID := it.ParentID()

	if postType == "attachment" {
		files := r.importAttachment(ctx, it)
		// WordPress 用 post_parent=0 表示没有父级
		if parentID > 0 {
			if r.attachments[parentID] == nil {
				r.attachments[parentID] = map[int][]string{}
			}
			r.attachments[parentID][postID] = files
		} else {
			logx.Warnf("附件 #%d 没有父级文章（文件：%v）", postID, files)
		}
		return
	}

	typ, folder := "post", "posts"
	if postType != "post" {
		typ, folder = "page", "stories"
	}
	res := r.importItem(it, folder)
	if res.Imported() {
		res.Ref.Type = typ
		r.postsPages[postID] = *res.Ref
	} else {
		logx.Debugf("条目 #%d 未导入：%s", postID, res.Skip)
	}
}

// assignAttachments 把附件列表写到各自父级文章旁边的边车文件；
// 父级未被导入的附件只告警并丢弃（下载的文件本身保留）。
func (r *Runner) assignAttachments() {
	for _, parentID := range sortedKeys(r.attachments) {
		files := r.attachments[parentID]
		ref, ok := r.postsPages[parentID]
		if !ok {
			logx.Warnf("发现文章/页面 #%d 的附件，但该文章/页面未被导入（附件：%v）",
				parentID, sortedKeys(files))
			continue
		}
		dest := filepath.Join(ref.Folder, ref.Slug+".attachments.json")
		if err := r.writer.WriteAttachments(dest, files); err != nil {
			logx.Warnf("写入附件边车失败：%v", err)
		}
	}
}

// addTagRedirects 为每个出现过的标签补充旧标签页到新标签页的映射，
// 仅在新旧地址确实不同的情况下记录。
func (r *Runner) addTagRedirects() {
	for _, tag := range sortedKeys(r.allTags) {
		s := site.Slugify(tag)
		src := r.context["SITE_URL"] + "tag/" + s
		dst := "/categories/" + s + "/"
		if src != dst {
			r.urlMap.Set(src, dst)
		}
	}
}

// rewriteLinks 导入完成后的补充趟：用完整的 url 映射重写已写出的正文，
// HTML 内容借助选择器改属性，Markdown 内容做纯文本替换。
func (r *Runner) rewriteLinks() {
	pairs := make([][2]string, 0, r.urlMap.Len())
	for _, p := range r.urlMap.Pairs() {
		pairs = append(pairs, [2]string{p.Source, p.Dest})
	}
	resolve := r.urlMap.Get
	for _, id := range sortedKeys(r.postsPages) {
		for _, rel := range r.postsPages[id].ContentFiles {
			full := r.writer.Abs(rel)
			b, err := os.ReadFile(full)
			if err != nil {
				logx.Warnf("读取 %s 失败，跳过链接重写：%v", rel, err)
				continue
			}
			var out string
			var changed bool
			if strings.HasSuffix(rel, ".html") {
				out, changed, err = transform.RewriteHTML(string(b), resolve)
				if err != nil {
					logx.Warnf("重写 %s 的链接失败：%v", rel, err)
					continue
				}
			} else {
				out, changed = transform.RewriteText(string(b), pairs)
			}
			if !changed {
				continue
			}
			if err := r.writer.WriteRaw(rel, []byte(out)); err != nil {
				logx.Warnf("写回 %s 失败：%v", rel, err)
			}
		}
	}
}

// sortedKeys 返回排序后的键，保证落盘与日志顺序稳定。
func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
