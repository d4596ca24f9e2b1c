// 包 config 负责导入器的两层配置：
// - Options：命令行行为开关（排除草稿/私密、下载、qtranslate 等）
// - Settings：可选 settings.yaml（日志、下载超时/重试、缓存位置）
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Options 汇总命令行决定的导入行为。
type Options struct {
	ExportFile   string // 必填：WXR 导出文件路径
	OutputFolder string // 站点输出根目录

	ExcludeDrafts     bool
	ExcludePrivates   bool
	IncludeEmptyItems bool
	SquashNewlines    bool
	NoDownloads       bool
	DownloadAuth      string // "user:pass"，空表示不认证

	Qtranslate          bool   // 识别 qtranslate 语言标记
	TranslationsPattern string // 翻译文件命名模式，空用默认

	NoCache      bool // 不使用下载台账（每次都重新抓取）
	RewriteLinks bool // 导入完成后重写内容中的附件链接
}

// Validate 校验启动期即可判定的错误（属于致命错误，处理开始前中止）。
func (o *Options) Validate() error {
	if o.ExportFile == "" {
		return errors.New("missing wordpress export file argument")
	}
	if o.OutputFolder == "" {
		return errors.New("output folder must not be empty")
	}
	if _, _, err := o.Auth(); err != nil {
		return err
	}
	return nil
}

// Auth 解析 -download-auth 的 user:pass；未设置时返回空。
func (o *Options) Auth() (user, pass string, err error) {
	if o.DownloadAuth == "" {
		return "", "", nil
	}
	parts := strings.SplitN(o.DownloadAuth, ":", 2)
	if len(parts) < 2 {
		return "", "", fmt.Errorf("download auth must be in username:password form, got %q", o.DownloadAuth)
	}
	return parts[0], parts[1], nil
}

// Settings 为 settings.yaml 的可选配置，键风格沿用大写蛇形。
type Settings struct {
	LogLevel  string   `yaml:"LOG_LEVEL"`
	LogFormat string   `yaml:"LOG_FORMAT"` // text|json|pretty
	LogLocale string   `yaml:"LOG_LOCALE"` // zh-CN|en
	LogColor  string   `yaml:"LOG_COLOR"`  // auto|always|never
	Download  Download `yaml:"DOWNLOAD"`
	Cache     Cache    `yaml:"CACHE"`
}

type Download struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
	Retry          int `yaml:"retry"`
}

type Cache struct {
	DSN string `yaml:"dsn"` // 下载台账 SQLite 路径
}

// LoadSettings 从文件读取 YAML 并填充默认值；path 为空时直接返回默认配置。
func LoadSettings(path string) (*Settings, error) {
	var s Settings
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open settings %s: %w", path, err)
		}
		defer f.Close()
		b, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("read settings %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &s); err != nil {
			return nil, fmt.Errorf("unmarshal settings %s: %w", path, err)
		}
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("validate settings: %w", err)
	}
	return &s, nil
}

// Validate 负责合法性检查与默认值设置，避免在业务层分散判空逻辑。
func (s *Settings) Validate() error {
	if s.LogFormat == "" {
		s.LogFormat = "pretty"
	}
	if s.LogLocale == "" {
		s.LogLocale = "zh-CN"
	}
	if s.LogColor == "" {
		s.LogColor = "auto"
	}
	if s.Download.TimeoutSeconds < 0 {
		return errors.New("DOWNLOAD.timeout_seconds must be >= 0")
	}
	if s.Download.TimeoutSeconds == 0 {
		s.Download.TimeoutSeconds = 25
	}
	if s.Download.Retry < 0 {
		return errors.New("DOWNLOAD.retry must be >= 0")
	}
	if s.Cache.DSN == "" {
		s.Cache.DSN = "./import-cache.db"
	}
	return nil
}
