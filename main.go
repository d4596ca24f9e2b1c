// 命令行入口：
// - 解析 flags 与可选 settings.yaml
// - 初始化日志、HTTP 客户端、下载台账
// - 读取 WXR 导出文件并执行一轮导入
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go-wordpress-import/internal/config"
	"go-wordpress-import/internal/fetch"
	"go-wordpress-import/internal/importer"
	"go-wordpress-import/internal/logx"
	"go-wordpress-import/internal/store"
	"go-wordpress-import/internal/wxr"
)

func main() {
	var (
		output              = flag.String("output", "new_site", "path of the generated site")
		settingsPath        = flag.String("settings", "", "optional settings.yaml path")
		noDrafts            = flag.Bool("no-drafts", false, "don't import drafts")
		excludePrivates     = flag.Bool("exclude-privates", false, "don't import private posts")
		includeEmpty        = flag.Bool("include-empty-items", false, "include empty posts and pages")
		squashNewlines      = flag.Bool("squash-newlines", false, "shorten multiple newlines in a row to only two")
		noDownloads         = flag.Bool("no-downloads", false, "do not try to download files for the import")
		downloadAuth        = flag.String("download-auth", "", "http auth credentials as username:password")
		qtr                 = flag.Bool("qtranslate", false, "look for translations generated by the qtranslate plugin")
		translationsPattern = flag.String("translations-pattern", "", "pattern for translation file names")
		noCache             = flag.Bool("no-cache", false, "do not use the download ledger")
		rewriteLinks        = flag.Bool("rewrite-links", false, "rewrite attachment links in imported content")
	)
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: go-wordpress-import [flags] wordpress_export_file [output_folder]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	// 1) 汇总导入选项（第二个位置参数可覆盖默认输出目录）
	opts := &config.Options{
		ExportFile:          args[0],
		OutputFolder:        *output,
		ExcludeDrafts:       *noDrafts,
		ExcludePrivates:     *excludePrivates,
		IncludeEmptyItems:   *includeEmpty,
		SquashNewlines:      *squashNewlines,
		NoDownloads:         *noDownloads,
		DownloadAuth:        *downloadAuth,
		Qtranslate:          *qtr,
		TranslationsPattern: *translationsPattern,
		NoCache:             *noCache,
		RewriteLinks:        *rewriteLinks,
	}
	if len(args) > 1 && *output == "new_site" {
		opts.OutputFolder = args[1]
	}
	if err := opts.Validate(); err != nil {
		log.Fatalf("invalid options: %v", err)
	}

	// 2) 加载 settings.yaml 并初始化日志
	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		log.Fatalf("load settings: %v", err)
	}
	logx.Init(settings.LogLevel, settings.LogFormat, settings.LogLocale, settings.LogColor)

	// 3) HTTP 客户端（超时/重试/认证）
	user, pass, _ := opts.Auth()
	cl := fetch.New(fetch.Options{
		Timeout:  time.Duration(settings.Download.TimeoutSeconds) * time.Second,
		Retry:    settings.Download.Retry,
		Username: user,
		Password: pass,
	})

	// 4) 下载台账：仅在会实际下载时打开；打开失败不阻断导入
	var ledger *store.Ledger
	if !opts.NoCache && !opts.NoDownloads {
		ledger, err = store.Open(settings.Cache.DSN)
		if err != nil {
			logx.Warnf("打开下载台账失败，本次运行不启用缓存：%v", err)
			ledger = nil
		} else {
			defer ledger.Close()
		}
	}

	// 5) 读取并解析导出文件
	channel, err := wxr.Load(opts.ExportFile)
	if err != nil {
		log.Fatalf("load wordpress export: %v", err)
	}

	// 6) 执行导入
	run := importer.New(opts, cl, ledger)
	logx.Infof("开始导入：%s => %s", opts.ExportFile, opts.OutputFolder)
	if err := run.Run(context.Background(), channel); err != nil {
		logx.Errorf("导入失败：%v", err)
		os.Exit(1)
	}
	logx.Infof("导入完成：url 映射 %d 条", run.URLMap().Len())
}
