package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"agentwindow/internal/message"

	"github.com/pelletier/go-toml/v2"
)

// Class 是 className 中一个 token 对应的外观修饰。
type Class struct {
	BorderColor string `toml:"border_color,omitempty"`
	Background  string `toml:"background,omitempty"`
	Margin      int    `toml:"margin,omitempty"`
	// Compact 去掉消息卡片的边框与边距。
	Compact bool `toml:"compact,omitempty"`
	Height  int  `toml:"height,omitempty"`
}

// Config is the persisted config file schema.
type Config struct {
	// Height 固定滚动区行数；0 表示按终端高度自适应。
	Height             int              `toml:"height"`
	Placeholder        string           `toml:"placeholder"`
	Animations         bool             `toml:"animations"`
	FrameIntervalMS    int              `toml:"frame_interval_ms"`
	AnimationFrames    int              `toml:"animation_frames"`
	PlaceholderDelayMS int              `toml:"placeholder_delay_ms"`
	LogPath            string           `toml:"log_path"`
	LogLevel           string           `toml:"log_level"`
	LogMaxSizeMB       int              `toml:"log_max_size_mb"`
	LogMaxBackups      int              `toml:"log_max_backups"`
	LogMaxAgeDays      int              `toml:"log_max_age_days"`
	Classes            map[string]Class `toml:"classes"`
	Source             string           `toml:"-"`
}

func defaultClasses() map[string]Class {
	return map[string]Class{
		"compact": {Compact: true},
		"accent":  {BorderColor: "#1E88E5"},
	}
}

func Default() Config {
	return Config{
		Placeholder:        message.PlaceholderText,
		Animations:         true,
		FrameIntervalMS:    60,
		AnimationFrames:    4,
		PlaceholderDelayMS: 1000,
		LogLevel:           "info",
		LogMaxSizeMB:       50,
		LogMaxBackups:      3,
		LogMaxAgeDays:      7,
		Classes:            defaultClasses(),
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".agentwindow", "config.toml")
}

// Load 读取 TOML 配置；文件不存在时使用默认值。环境变量最后生效。
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg), nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	cfg.Classes = nil
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Classes == nil {
		cfg.Classes = map[string]Class{}
	}
	for name, c := range defaultClasses() {
		if _, ok := cfg.Classes[name]; !ok {
			cfg.Classes[name] = c
		}
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if env := strings.TrimSpace(os.Getenv("AGENTWINDOW_NO_ANIMATION")); env != "" && env != "0" && !strings.EqualFold(env, "false") {
		cfg.Animations = false
	}
	if env := strings.TrimSpace(os.Getenv("AGENTWINDOW_LOG")); env != "" {
		cfg.LogPath = env
	}
	return cfg
}

// FrameInterval 返回动画帧间隔。
func (c Config) FrameInterval() time.Duration {
	return time.Duration(c.FrameIntervalMS) * time.Millisecond
}

// PlaceholderDelay 返回占位提示弹出前的延迟。
func (c Config) PlaceholderDelay() time.Duration {
	return time.Duration(c.PlaceholderDelayMS) * time.Millisecond
}

// ResolveClasses 按顺序合并 className 中的各个 token，后出现的覆盖先出现的。
// 未定义的 token 通过 unknown 返回。
func (c Config) ResolveClasses(className string) (merged Class, unknown []string) {
	for _, name := range strings.Fields(className) {
		cls, ok := c.Classes[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		if cls.BorderColor != "" {
			merged.BorderColor = cls.BorderColor
		}
		if cls.Background != "" {
			merged.Background = cls.Background
		}
		if cls.Margin != 0 {
			merged.Margin = cls.Margin
		}
		if cls.Height != 0 {
			merged.Height = cls.Height
		}
		merged.Compact = merged.Compact || cls.Compact
	}
	return merged, unknown
}
