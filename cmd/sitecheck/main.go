// sitecheck 抓取已部署站点的 robots.txt 与站点地图并校验，失败时以非零状态退出
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/calisto-ai/calisto-site/internal/app/sitecheck"
	"github.com/calisto-ai/calisto-site/internal/pkg/logger"
	"github.com/calisto-ai/calisto-site/pkg/config"
	"github.com/calisto-ai/calisto-site/pkg/service/sitemap"
)

func main() {
	site := flag.String("site", "", "站点地址，默认按 SITE_URL、PUBLIC_SITE_URL 解析")
	envFile := flag.String("env", ".env", "可选的 .env 文件")
	timeout := flag.Duration("timeout", time.Minute, "整体超时")
	debug := flag.Bool("debug", false, "输出每次请求的日志")
	flag.Parse()

	root, closer := logger.Setup(logger.Options{Debug: *debug})
	defer closer.Close()

	if *site == "" {
		env, err := config.LoadSiteEnv(*envFile)
		if err != nil {
			log.Fatalf("load site env: %v", err)
		}
		if *site, err = sitemap.ResolveBaseURL(env, ""); err != nil {
			log.Fatalf("resolve site url: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	checker := sitecheck.NewChecker(&http.Client{Timeout: 15 * time.Second}, root)
	report, err := checker.Check(ctx, *site)
	if err != nil {
		log.Fatalf("sitecheck: %v", err)
	}

	sitecheck.WriteReport(os.Stdout, report)
	if !report.OK() {
		os.Exit(1)
	}
}
