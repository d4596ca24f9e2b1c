// 包 site 负责站点内容树的落盘：
// - 元数据文件（.meta，YAML）与正文文件成对写入
// - 附件边车（<slug>.attachments.json）
// - slug 推导与翻译文件命名
package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"

	"go-wordpress-import/internal/model"
)

// DefaultTranslationsPattern 为翻译内容文件的默认命名模式。
const DefaultTranslationsPattern = "{path}.{lang}.{ext}"

// Writer 把导入结果写入输出根目录下的内容树。
type Writer struct {
	Root string
}

// NewWriter 创建输出树写入器。
func NewWriter(root string) *Writer { return &Writer{Root: root} }

// WriteMetadata 将元数据序列化为 YAML 并写入 path（相对输出根目录）。
func (w *Writer) WriteMetadata(path string, meta model.Metadata) error {
	b, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata %s: %w", path, err)
	}
	return w.writeFile(path, b)
}

// WriteContent 写入正文文件。
func (w *Writer) WriteContent(path, content string) error {
	return w.writeFile(path, []byte(content))
}

// WriteAttachments 写入附件边车：附件 id → 相对文件路径列表。
// json.Marshal 对整数键按数值排序，输出稳定。
func (w *Writer) WriteAttachments(path string, attachments map[int][]string) error {
	b, err := json.Marshal(attachments)
	if err != nil {
		return fmt.Errorf("marshal attachments %s: %w", path, err)
	}
	return w.writeFile(path, b)
}

// WriteRaw 写入任意文本文件（配置、url 映射等由调用方编码）。
func (w *Writer) WriteRaw(path string, data []byte) error {
	return w.writeFile(path, data)
}

// Abs 返回相对路径在输出树下的绝对位置。
func (w *Writer) Abs(path string) string { return filepath.Join(w.Root, path) }

func (w *Writer) writeFile(path string, data []byte) error {
	full := filepath.Join(w.Root, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %w", full, err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", full, err)
	}
	return nil
}

// Slugify 将路径片段或标签转为 URL 安全的 slug。
func Slugify(s string) string { return slug.Make(s) }

// TranslationFilename 按模式计算非默认语言内容文件名。
// 模式占位符：{path}（不含扩展名的文件名）、{lang}、{ext}。
func TranslationFilename(pattern, base, lang, ext string) string {
	if pattern == "" {
		pattern = DefaultTranslationsPattern
	}
	out := strings.ReplaceAll(pattern, "{path}", base)
	out = strings.ReplaceAll(out, "{lang}", lang)
	out = strings.ReplaceAll(out, "{ext}", ext)
	return out
}
