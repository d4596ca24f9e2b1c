// 包 logx 是对标准库 slog 的薄封装：
// - 支持级别/格式/语言/颜色配置
// - 在 info 与 warn 之间增加 notice 级别（导入器用于"主动跳过"类消息）
// - 通过 Debugf/Infof/Noticef/Warnf/Errorf 暴露，便于将来替换底层实现
package logx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// LevelNotice 位于 Info 与 Warn 之间，用于"条目被主动跳过"一类提示。
const LevelNotice = slog.Level(2)

// silence 之上的级别全部被过滤。
const levelOff = slog.Level(100)

// Init 根据 level/format/locale/colorMode 初始化全局日志器。
func Init(level, format, locale, colorMode string) {
	lv := ParseLevel(level)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lv})))
	case "text":
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lv})))
	default: // pretty
		slog.SetDefault(slog.New(NewPrettyHandler(os.Stdout, lv, locale, colorMode)))
	}
}

// ParseLevel 将字符串级别解析为 slog.Level。
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "notice":
		return LevelNotice
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none", "silent", "off":
		return levelOff
	default:
		return slog.LevelInfo
	}
}

// 便捷函数：格式化并按级别输出
func Debugf(format string, v ...any) { slog.Debug(fmt.Sprintf(format, v...)) }
func Infof(format string, v ...any)  { slog.Info(fmt.Sprintf(format, v...)) }
func Warnf(format string, v ...any)  { slog.Warn(fmt.Sprintf(format, v...)) }
func Errorf(format string, v ...any) { slog.Error(fmt.Sprintf(format, v...)) }
func Noticef(format string, v ...any) { slog.Log(context.Background(), LevelNotice, fmt.Sprintf(format, v...)) }

// label 描述某一级别的展示形式。
type label struct {
	zh   string
	en   string
	ansi string // ANSI 颜色码
}

var labels = []struct {
	level slog.Level
	label label
}{
	{slog.LevelDebug, label{"[调试]", "[DEBUG]", "90"}},
	{slog.LevelInfo, label{"[信息]", "[INFO]", "36"}},
	{LevelNotice, label{"[提示]", "[NOTICE]", "35"}},
	{slog.LevelWarn, label{"[警告]", "[WARN]", "33"}},
	{slog.LevelError, label{"[错误]", "[ERROR]", "31"}},
}

// PrettyHandler 为人读输出：时间 + 中/英文级别标签 + 消息 + 扁平属性。
type PrettyHandler struct {
	w     io.Writer
	level slog.Level
	zh    bool
	color bool
	mu    *sync.Mutex
	attrs []slog.Attr
}

// NewPrettyHandler 创建美化 Handler。
func NewPrettyHandler(w io.Writer, lv slog.Level, locale, colorMode string) slog.Handler {
	if w == nil {
		w = os.Stdout
	}
	return &PrettyHandler{
		w:     w,
		level: lv,
		zh:    locale == "" || strings.HasPrefix(strings.ToLower(locale), "zh"),
		color: shouldColor(w, colorMode),
		mu:    &sync.Mutex{},
	}
}

func (h *PrettyHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level && h.level < levelOff
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	var buf bytes.Buffer
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	buf.WriteString(ts.Format("2006-01-02 15:04:05"))
	buf.WriteByte(' ')
	buf.WriteString(h.labelFor(r.Level))
	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	attrs := append([]slog.Attr{}, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	for _, a := range attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Key)
		buf.WriteByte('=')
		buf.WriteString(a.Value.String())
	}
	buf.WriteByte('\n')
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &cp
}

// WithGroup 未细分组，直接返回自身属性拷贝。
func (h *PrettyHandler) WithGroup(string) slog.Handler {
	cp := *h
	return &cp
}

// labelFor 返回（可选着色的）级别标签。
func (h *PrettyHandler) labelFor(l slog.Level) string {
	for _, e := range labels {
		if e.level == l {
			s := e.label.en
			if h.zh {
				s = e.label.zh
			}
			if h.color {
				return "\x1b[" + e.label.ansi + "m" + s + "\x1b[0m"
			}
			return s
		}
	}
	return fmt.Sprintf("[L%d]", l)
}

// shouldColor 判断是否启用颜色：遵循 colorMode 与 NO_COLOR。
func shouldColor(w io.Writer, mode string) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "always":
		return true
	case "auto", "":
		if f, ok := w.(*os.File); ok {
			if fi, err := f.Stat(); err == nil {
				return (fi.Mode() & os.ModeCharDevice) != 0
			}
		}
		return false
	default:
		return false
	}
}
