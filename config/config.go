package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// 环境变量
const (
	EnvLogLevel      = "CIRCUIT_LOG_LEVEL"
	EnvStrictSources = "CIRCUIT_STRICT_SOURCES"
)

// Config 程序配置
type Config struct {
	Analysis Analysis `yaml:"analysis"`
	Log      Log      `yaml:"log"`
	Chart    Chart    `yaml:"chart"`
	Plot     Plot     `yaml:"plot"`
}

// Analysis 化简参数
type Analysis struct {
	MaxPassFactor int  `yaml:"max_pass_factor" validate:"min=1,max=100"` // 轮次上限系数
	StrictSources bool `yaml:"strict_sources"`                           // 校验电压源位置
	Nodal         bool `yaml:"nodal"`                                    // 化简成功后计算节点电压
}

// Log 日志参数
type Log struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// Chart 网页图表参数
type Chart struct {
	Theme  string `yaml:"theme" validate:"oneof=white dark chalk essos infographic macarons purple-passion roma romantic shine vintage walden westeros wonderland"`
	Width  string `yaml:"width" validate:"required"`
	Height string `yaml:"height" validate:"required"`
}

// Plot 电压图参数, 单位厘米
type Plot struct {
	WidthCM  float64 `yaml:"width_cm" validate:"gt=0"`
	HeightCM float64 `yaml:"height_cm" validate:"gt=0"`
}

var validate = validator.New()

// Default 默认配置
func Default() *Config {
	return &Config{
		Analysis: Analysis{
			MaxPassFactor: 1,
			StrictSources: true,
			Nodal:         true,
		},
		Log: Log{
			Level: "info",
		},
		Chart: Chart{
			Theme:  "westeros",
			Width:  "900px",
			Height: "600px",
		},
		Plot: Plot{
			WidthCM:  16,
			HeightCM: 10,
		},
	}
}

// Load 加载配置文件, 文件不存在时使用默认配置
// 加载顺序: 默认值, 配置文件, 环境变量
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func (cfg *Config) loadEnv() error {
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		cfg.Log.Level = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv(EnvStrictSources); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStrictSources, err)
		}
		cfg.Analysis.StrictSources = b
	}
	return nil
}

// Validate 校验配置
func (cfg *Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		var list validator.ValidationErrors
		if !errors.As(err, &list) {
			return err
		}
		msg := make([]string, len(list))
		for i, e := range list {
			msg[i] = fmt.Sprintf("%s failed %s=%s (got %v)", e.Namespace(), e.Tag(), e.Param(), e.Value())
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msg, "; "))
	}
	return nil
}
