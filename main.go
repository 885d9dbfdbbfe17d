package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calisto-ai/calisto-site/cmd/server"
)

// @title           Calisto Site API
// @version         1.0
// @description     站点地图、robots.txt 与联系表单接口
// @BasePath  /
func main() {
	var opts server.Options
	flag.StringVar(&opts.ConfigFile, "config", "data/conf.ini", "配置文件路径")
	flag.StringVar(&opts.EnvFile, "env", ".env", "可选的 .env 文件")
	flag.Parse()

	app, cleanup, err := server.NewApp(opts)
	if err != nil {
		log.Fatalf("application init failed: %v", err)
	}
	defer cleanup()
	defer app.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- app.Run() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Printf("application stopped with error: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Shutdown(shutdownCtx); err != nil {
			log.Printf("graceful shutdown failed: %v", err)
		}
	}
}
