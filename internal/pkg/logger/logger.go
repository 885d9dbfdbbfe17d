// Package logger 构造按子系统打标签的 slog 日志器，由 cmd/server 创建后注入各组件。
package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options 日志配置
type Options struct {
	Debug bool
	// File 非空时同时写入按大小滚动的日志文件
	File string
}

// Setup 创建根日志器，返回的 io.Closer 用于关闭滚动文件
func Setup(opts Options) (*slog.Logger, io.Closer) {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    20, // MB
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, rotator)
		closer = rotator
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closer
}

// For 返回带 system 标签的子日志器，例如 For(root, "sitemap-sources")
func For(base *slog.Logger, system string) *slog.Logger {
	if base == nil {
		base = Discard()
	}
	return base.With("system", system)
}

// Discard 丢弃所有输出，测试使用
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
