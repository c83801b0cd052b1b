package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ledger-sol-parser/internal/pkg/logger"
)

//go:embed default.yaml
var defaultYAML []byte

const (
	DisplayModeNormal = "normal"
	DisplayModeExpert = "expert"

	PubkeyDisplayShort = "short"
	PubkeyDisplayLong  = "long"
)

type LogConfig struct {
	Format   string `yaml:"format"`   // 日志格式，支持 "console" 或 "json"
	LogDir   string `yaml:"log_dir"`  // 日志目录（可为相对路径或绝对路径），为空只输出到 stderr
	Level    string `yaml:"level"`    // 日志级别：debug / info / warn / error
	Compress bool   `yaml:"compress"` // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// ReviewConfig 签名审阅相关的用户设置
type ReviewConfig struct {
	DisplayMode    string `yaml:"display_mode"`     // normal / expert，expert 额外展示版本、格式、长度与哈希
	PubkeyDisplay  string `yaml:"pubkey_display"`   // short 截断展示公钥，long 完整展示
	AllowBlindSign bool   `yaml:"allow_blind_sign"` // 是否允许签署非 ASCII（UTF-8）消息
}

func (c *ReviewConfig) Expert() bool {
	return c.DisplayMode == DisplayModeExpert
}

func (c *ReviewConfig) LongPubkeys() bool {
	return c.PubkeyDisplay == PubkeyDisplayLong
}

func (c *ReviewConfig) Validate() error {
	switch c.DisplayMode {
	case DisplayModeNormal, DisplayModeExpert:
	default:
		return fmt.Errorf("config: invalid display_mode %q", c.DisplayMode)
	}
	switch c.PubkeyDisplay {
	case PubkeyDisplayShort, PubkeyDisplayLong:
	default:
		return fmt.Errorf("config: invalid pubkey_display %q", c.PubkeyDisplay)
	}
	return nil
}

// AppConfig 审阅工具主配置
type AppConfig struct {
	LogConf    LogConfig    `yaml:"logger"` // 日志配置
	ReviewConf ReviewConfig `yaml:"review"` // 审阅配置
}

// Default 内置默认配置
func Default() (AppConfig, error) {
	var c AppConfig
	if err := yaml.Unmarshal(defaultYAML, &c); err != nil {
		return AppConfig{}, fmt.Errorf("config: parse defaults: %w", err)
	}
	return c, nil
}

// Load 在默认配置之上叠加 path 指定的 yaml 文件，文件中未出现的字段保持默认值。
// path 为空时只使用内置默认配置。
func Load(path string) (AppConfig, error) {
	c, err := Default()
	if err != nil {
		return AppConfig{}, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return AppConfig{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return AppConfig{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := c.ReviewConf.Validate(); err != nil {
		return AppConfig{}, err
	}
	return c, nil
}
