// 包 model 定义导入流程的数据模型（文章记录/跳过原因/URL 映射/元数据）。
package model

// PostRef 表示一篇已成功导入的文章/页面的落盘位置。
type PostRef struct {
	Type         string   // post|page
	Folder       string   // 输出子目录（posts/... 或 stories/...）
	Slug         string   // URL 安全标识
	ContentFiles []string // 相对输出根目录的内容文件路径（含翻译变体）
}

// SkipReason 表示单条目未被导入的分类原因。
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipTrashed
	SkipDraft
	SkipPrivate
	SkipEmpty
	SkipBadFormat
	SkipNoSlug
	SkipWriteError
)

func (s SkipReason) String() string {
	switch s {
	case SkipNone:
		return "none"
	case SkipTrashed:
		return "trashed"
	case SkipDraft:
		return "draft-excluded"
	case SkipPrivate:
		return "private-excluded"
	case SkipEmpty:
		return "empty-content"
	case SkipBadFormat:
		return "bad-format"
	case SkipNoSlug:
		return "no-slug"
	case SkipWriteError:
		return "write-error"
	default:
		return "unknown"
	}
}

// ImportResult 为分类器的显式结果：要么携带 PostRef，要么携带跳过原因，
// 不再使用裸 false/nil 同时承担“数据”与“跳过信号”两种语义。
type ImportResult struct {
	Ref  *PostRef
	Skip SkipReason
}

// Imported 判断条目是否被成功导入。
func (r ImportResult) Imported() bool { return r.Ref != nil && r.Skip == SkipNone }

// Skipped 构造一个跳过结果。
func Skipped(reason SkipReason) ImportResult { return ImportResult{Skip: reason} }

// Metadata 为写入 .meta 文件的元数据记录（YAML 序列化）。
type Metadata struct {
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug"`
	Date        string   `yaml:"date"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Status      string   `yaml:"wp-status"`
	Excerpt     string   `yaml:"excerpt,omitempty"`
}

// URLPair 为 url_map.csv 的一行：原始地址 → 新站点相对地址。
type URLPair struct {
	Source string
	Dest   string
}

// URLMap 为保持插入顺序的源地址→目标地址映射：
// - 追加写入，同源地址后写覆盖先写（不改变首次插入的位置）
// - 迭代顺序即文档处理顺序，保证多次运行输出字节一致
type URLMap struct {
	keys []string
	m    map[string]string
}

func NewURLMap() *URLMap {
	return &URLMap{m: make(map[string]string)}
}

// Set 记录一条映射；同名键仅更新值，保持原有顺序。
func (u *URLMap) Set(src, dst string) {
	if src == "" {
		return
	}
	if _, ok := u.m[src]; !ok {
		u.keys = append(u.keys, src)
	}
	u.m[src] = dst
}

// Get 查询映射。
func (u *URLMap) Get(src string) (string, bool) {
	dst, ok := u.m[src]
	return dst, ok
}

// Len 返回映射条数。
func (u *URLMap) Len() int { return len(u.keys) }

// Pairs 按插入顺序返回全部映射。
func (u *URLMap) Pairs() []URLPair {
	out := make([]URLPair, 0, len(u.keys))
	for _, k := range u.keys {
		out = append(out, URLPair{Source: k, Dest: u.m[k]})
	}
	return out
}
