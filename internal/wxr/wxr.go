// 包 wxr 负责读取并解析 WordPress eXtended RSS（WXR）导出文件：
// - ReadExportFile：读入原始字节并丢弃 atom:link 行（该元素会破坏解析）
// - Parse：WXR 本质是带 wp/content/excerpt 命名空间的 RSS 2.0，
//   使用 gofeed 的 rss 解析器解析；wp/excerpt 元素落在扩展树中，
//   content:encoded 被解析器特判到条目字段
// - Channel/Item：对扩展树做一层类型化访问，调用方不再手写命名空间查找
package wxr

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	ext "github.com/mmcdole/gofeed/extensions"
	"github.com/mmcdole/gofeed/rss"
)

// WXR 导出中 wp/excerpt 命名空间使用的固定前缀。
const (
	nsWP      = "wp"
	nsExcerpt = "excerpt"
)

// ReadExportFile 读取导出文件并按行过滤：凡包含 atom:link 声明的行一律丢弃。
func ReadExportFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export file %s: %w", path, err)
	}
	lines := bytes.Split(raw, []byte("\n"))
	kept := make([][]byte, 0, len(lines))
	for _, line := range lines {
		if bytes.Contains(line, []byte("<atom:link rel=")) {
			continue
		}
		kept = append(kept, line)
	}
	return bytes.Join(kept, []byte("\n")), nil
}

// Parse 解析 WXR 字节流并返回频道包装。
func Parse(data []byte) (*Channel, error) {
	p := &rss.Parser{}
	feed, err := p.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse wxr: %w", err)
	}
	return &Channel{feed: feed}, nil
}

// Load 读取并解析导出文件。
func Load(path string) (*Channel, error) {
	data, err := ReadExportFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Channel 为导出文件的根级元数据，解析后只读。
type Channel struct {
	feed *rss.Feed
}

func (c *Channel) Title() string       { return c.feed.Title }
func (c *Channel) Description() string { return c.feed.Description }
func (c *Channel) Link() string        { return c.feed.Link }
func (c *Channel) Language() string    { return c.feed.Language }

// AuthorName 返回 wp:author 下的展示名。
func (c *Channel) AuthorName() string {
	return childText(firstExt(c.feed.Extensions, nsWP, "author"), "author_display_name")
}

// AuthorEmail 返回 wp:author 下的邮箱。
func (c *Channel) AuthorEmail() string {
	return childText(firstExt(c.feed.Extensions, nsWP, "author"), "author_email")
}

// AuthorURL 为缺失 <link> 时的兜底：部分导出在 wp:author 元素本身带文本。
func (c *Channel) AuthorURL() string {
	if e := firstExt(c.feed.Extensions, nsWP, "author"); e != nil {
		return e.Value
	}
	return ""
}

// Items 按文档顺序返回全部条目。
func (c *Channel) Items() []Item {
	out := make([]Item, 0, len(c.feed.Items))
	for _, it := range c.feed.Items {
		out = append(out, Item{raw: it})
	}
	return out
}

// Item 为一条导出条目（文章/页面/附件），解析后只读。
type Item struct {
	raw *rss.Item
}

func (i Item) Title() string       { return i.raw.Title }
func (i Item) Link() string        { return i.raw.Link }
func (i Item) Description() string { return i.raw.Description }

// PostID 返回 wp:post_id，缺失或非法时为 0。
func (i Item) PostID() int {
	n, _ := strconv.Atoi(i.extText(nsWP, "post_id"))
	return n
}

// ParentID 返回 wp:post_parent；WordPress 用 0 表示没有父级。
func (i Item) ParentID() int {
	n, _ := strconv.Atoi(i.extText(nsWP, "post_parent"))
	return n
}

// PostType 返回条目类型（post/page/attachment），缺省视为 post。
func (i Item) PostType() string {
	if t := i.extText(nsWP, "post_type"); t != "" {
		return t
	}
	return "post"
}

// Status 返回发布状态，缺省视为 publish。
func (i Item) Status() string {
	if s := i.extText(nsWP, "status"); s != "" {
		return s
	}
	return "publish"
}

func (i Item) PostName() string      { return i.extText(nsWP, "post_name") }
func (i Item) PostDate() string      { return i.extText(nsWP, "post_date") }
func (i Item) AttachmentURL() string { return i.extText(nsWP, "attachment_url") }

// Content 返回 content:encoded 的正文；
// 解析器对该元素做了特判，直接填在条目字段上而不进扩展树。
func (i Item) Content() string { return i.raw.Content }

// Excerpt 返回 excerpt:encoded 的摘要，可能为空。
func (i Item) Excerpt() string { return i.extText(nsExcerpt, "encoded") }

// Category 为条目上的分类或标签；Domain 为 category 时是分类，否则是标签。
type Category struct {
	Name   string
	Domain string
}

// Categories 返回条目上的全部 category 元素。
func (i Item) Categories() []Category {
	out := make([]Category, 0, len(i.raw.Categories))
	for _, c := range i.raw.Categories {
		domain := c.Domain
		if domain == "" {
			domain = "category"
		}
		out = append(out, Category{Name: c.Value, Domain: domain})
	}
	return out
}

// Meta 为一条 wp:postmeta 键值对。
type Meta struct {
	Key   string
	Value string
}

// Postmeta 按文档顺序返回条目全部 wp:postmeta。
func (i Item) Postmeta() []Meta {
	if i.raw.Extensions == nil {
		return nil
	}
	entries := i.raw.Extensions[nsWP]["postmeta"]
	out := make([]Meta, 0, len(entries))
	for idx := range entries {
		out = append(out, Meta{
			Key:   childText(&entries[idx], "meta_key"),
			Value: childText(&entries[idx], "meta_value"),
		})
	}
	return out
}

// MetaValue 查找指定 meta_key 的首个取值。
func (i Item) MetaValue(key string) (string, bool) {
	for _, m := range i.Postmeta() {
		if m.Key == key {
			return m.Value, true
		}
	}
	return "", false
}

func (i Item) extText(prefix, name string) string {
	if e := firstExt(i.raw.Extensions, prefix, name); e != nil {
		return e.Value
	}
	return ""
}

// firstExt 取扩展树中某前缀下指定元素的第一个实例。
func firstExt(exts ext.Extensions, prefix, name string) *ext.Extension {
	if exts == nil {
		return nil
	}
	entries := exts[prefix][name]
	if len(entries) == 0 {
		return nil
	}
	return &entries[0]
}

// childText 取扩展元素的指定子元素文本。
func childText(e *ext.Extension, name string) string {
	if e == nil || e.Children == nil {
		return ""
	}
	kids := e.Children[name]
	if len(kids) == 0 {
		return ""
	}
	return kids[0].Value
}
