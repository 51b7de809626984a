package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// SetupLogger 按 log.level / log.format 安装全局 slog Handler
func SetupLogger() *slog.Logger {
	logger := NewLogger(os.Stderr, viper.GetString("log.level"), viper.GetString("log.format"))
	slog.SetDefault(logger)
	return logger
}

// NewLogger 构造一个 Logger，未知的 level 退回 info，未知的 format 退回 text
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var h slog.Handler
	if strings.EqualFold(format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
