package config

import (
	"strconv"
	"strings"
)

// ApplyKVOverrides applies free-form -c key=value overrides.
// Unknown keys and unparsable values are skipped.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	if len(overrides) == 0 {
		return cfg
	}
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		switch key {
		case "height":
			setInt(&cfg.Height, val)
		case "placeholder":
			cfg.Placeholder = val
		case "animations":
			if b, err := strconv.ParseBool(val); err == nil {
				cfg.Animations = b
			}
		case "frame_interval_ms":
			setInt(&cfg.FrameIntervalMS, val)
		case "animation_frames":
			setInt(&cfg.AnimationFrames, val)
		case "placeholder_delay_ms":
			setInt(&cfg.PlaceholderDelayMS, val)
		case "log_path":
			cfg.LogPath = val
		case "log_level":
			cfg.LogLevel = val
		case "log_max_size_mb":
			setInt(&cfg.LogMaxSizeMB, val)
		case "log_max_backups":
			setInt(&cfg.LogMaxBackups, val)
		case "log_max_age_days":
			setInt(&cfg.LogMaxAgeDays, val)
		default:
			if name, field, ok := strings.Cut(strings.TrimPrefix(key, "classes."), "."); ok && strings.HasPrefix(key, "classes.") {
				cfg = applyClassOverride(cfg, name, field, val)
			}
		}
	}
	return cfg
}

func applyClassOverride(cfg Config, name, field, val string) Config {
	classes := make(map[string]Class, len(cfg.Classes)+1)
	for k, v := range cfg.Classes {
		classes[k] = v
	}
	cls := classes[name]
	switch field {
	case "border_color":
		cls.BorderColor = val
	case "background":
		cls.Background = val
	case "margin":
		setInt(&cls.Margin, val)
	case "height":
		setInt(&cls.Height, val)
	case "compact":
		if b, err := strconv.ParseBool(val); err == nil {
			cls.Compact = b
		}
	default:
		return cfg
	}
	classes[name] = cls
	cfg.Classes = classes
	return cfg
}

func setInt(dst *int, val string) {
	if n, err := strconv.Atoi(val); err == nil && n >= 0 {
		*dst = n
	}
}
