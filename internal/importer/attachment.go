package importer

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/elliotchance/phpserialize"

	"go-wordpress-import/internal/logx"
	"go-wordpress-import/internal/wxr"
)

// attachmentMetaKey 为 WordPress 存放附件尺寸变体的 postmeta 键，
// 取值是 PHP 序列化的嵌套结构。
const attachmentMetaKey = "_wp_attachment_metadata"

// importAttachment 解析一条附件：下载原始文件与全部尺寸变体，
// 把规范链接与源地址都登记进 url 映射，返回涉及的源路径列表。
func (r *Runner) importAttachment(ctx context.Context, it wxr.Item) []string {
	srcURL := it.AttachmentURL()
	link := it.Link()
	urlPath := pathOf(srcURL)

	dst := r.fileDestination(urlPath)
	logx.Infof("下载 %s => %s", srcURL, dst)
	r.downloadToFile(ctx, srcURL, dst)

	dstURL := "/" + strings.TrimPrefix(urlPath, "/")
	r.urlMap.Set(link, dstURL)
	r.urlMap.Set(srcURL, dstURL)

	files := []string{urlPath}
	files = append(files, r.downloadSizes(ctx, it, parentURL(srcURL))...)
	return files
}

// downloadSizes 读取附件的尺寸变体元数据，逐个下载并登记。
// 元数据缺失或无法解析时静默返回空列表。
func (r *Runner) downloadSizes(ctx context.Context, it wxr.Item, sourceDir string) []string {
	var out []string
	for _, m := range it.Postmeta() {
		if m.Key != attachmentMetaKey || m.Value == "" {
			continue
		}
		meta, err := phpserialize.UnmarshalAssociativeArray([]byte(m.Value))
		if err != nil {
			continue
		}
		sizes, ok := meta["sizes"].(map[interface{}]interface{})
		if !ok {
			continue
		}
		names := make([]string, 0, len(sizes))
		for _, v := range sizes {
			entry, ok := v.(map[interface{}]interface{})
			if !ok {
				continue
			}
			if name, ok := entry["file"].(string); ok && name != "" {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		for _, name := range names {
			u := sourceDir + "/" + name
			p := pathOf(u)
			dst := r.fileDestination(p)
			logx.Infof("下载 %s => %s", u, dst)
			r.downloadToFile(ctx, u, dst)
			r.urlMap.Set(u, "/"+strings.TrimPrefix(p, "/"))
			out = append(out, p)
		}
	}
	return out
}

// downloadToFile 抓取远端字节并落盘：禁用下载时不做任何事；
// 台账命中且文件仍在磁盘上时跳过；抓取失败仅告警，文件缺席。
func (r *Runner) downloadToFile(ctx context.Context, rawURL, dst string) {
	if r.opts.NoDownloads || rawURL == "" {
		return
	}
	if r.ledger != nil {
		if prev, ok, err := r.ledger.Lookup(ctx, rawURL); err == nil && ok {
			if _, serr := os.Stat(prev); serr == nil {
				logx.Debugf("台账命中，跳过下载：%s", rawURL)
				return
			}
		}
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		logx.Warnf("为 %s 创建目录失败：%v", dst, err)
		return
	}
	n, err := r.client.Download(ctx, rawURL, dst)
	if err != nil {
		logx.Warnf("下载 %s 到 %s 失败：%v", rawURL, dst, err)
		return
	}
	if r.ledger != nil {
		if err := r.ledger.Record(ctx, rawURL, dst, n); err != nil {
			logx.Warnf("登记下载台账失败：%v", err)
		}
	}
}

// fileDestination 把源地址的路径镜像到输出树的 files/ 子树下。
func (r *Runner) fileDestination(urlPath string) string {
	rel := filepath.Join("files", filepath.FromSlash(strings.TrimPrefix(urlPath, "/")))
	return r.writer.Abs(rel)
}

// pathOf 提取地址的路径部分，解析失败时做字符串兜底。
func pathOf(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		return u.Path
	}
	s := rawURL
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
		if j := strings.Index(s, "/"); j >= 0 {
			return s[j:]
		}
		return "/"
	}
	return s
}

// parentURL 返回地址去掉最后一段后的目录部分。
func parentURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		if i := strings.LastIndex(rawURL, "/"); i >= 0 {
			return rawURL[:i]
		}
		return rawURL
	}
	u.Path = path.Dir(u.Path)
	return strings.TrimSuffix(u.String(), "/")
}
