// Package config 提供了统一的配置加载与管理能力.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wyfcoding/treelca/logging"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config 全局顶级配置结构.
type Config struct {
	Version string        `mapstructure:"version" toml:"version"`
	Engine  EngineConfig  `mapstructure:"engine"  toml:"engine"`
	Log     LogConfig     `mapstructure:"log"     toml:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" toml:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing" toml:"tracing"`
}

// EngineConfig 定义 LCA 引擎的策略与资源上限.
type EngineConfig struct {
	DefaultStrategy string `mapstructure:"default_strategy" toml:"default_strategy" validate:"required,oneof=naive binary_lifting euler_tour heavy_light"`
	MaxNodes        int    `mapstructure:"max_nodes"        toml:"max_nodes"        validate:"min=1"`
	CrossCheck      bool   `mapstructure:"cross_check"      toml:"cross_check"`                         // 建索引后用朴素算法抽样校验。
	CrossCheckPairs int    `mapstructure:"cross_check_pairs" toml:"cross_check_pairs" validate:"min=0"` // 抽样校验的节点对数量。
}

// LogConfig 定义日志输出、级别与切割策略.
type LogConfig struct {
	Level      string `mapstructure:"level"       toml:"level"       validate:"omitempty,oneof=debug info warn error"` // 日志级别。
	File       string `mapstructure:"file"        toml:"file"`                                                         // 日志文件路径。
	Stdout     bool   `mapstructure:"stdout"      toml:"stdout"`                                                       // 配置文件路径时是否同时输出到 stdout。
	MaxSize    int    `mapstructure:"max_size"    toml:"max_size"`                                                     // 单个文件最大大小 (MB)。
	MaxBackups int    `mapstructure:"max_backups" toml:"max_backups"`                                                  // 最大备份数。
	MaxAge     int    `mapstructure:"max_age"     toml:"max_age"`                                                      // 最大保留天数。
	Compress   bool   `mapstructure:"compress"    toml:"compress"`                                                     // 是否启用压缩。
}

// MetricsConfig 定义指标采集开关.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"   toml:"enabled"`
	Namespace string `mapstructure:"namespace" toml:"namespace"`
}

// TracingConfig 定义 OpenTelemetry 追踪参数.
type TracingConfig struct {
	Enabled      bool   `mapstructure:"enabled"       toml:"enabled"`
	ServiceName  string `mapstructure:"service_name"  toml:"service_name"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint" toml:"otlp_endpoint" validate:"required_if=Enabled true"`
}

// Default 返回未提供配置文件时使用的默认值.
func Default() Config {
	return Config{
		Version: "dev",
		Engine: EngineConfig{
			DefaultStrategy: "euler_tour",
			MaxNodes:        1 << 22,
			CrossCheckPairs: 64,
		},
		Log:     LogConfig{Level: "info", Stdout: true},
		Metrics: MetricsConfig{Enabled: true, Namespace: "treelca"},
		Tracing: TracingConfig{ServiceName: "treelca"},
	}
}

var (
	vInstance = viper.New()
	current   atomic.Pointer[Config]
	hooksMu   sync.Mutex
	onReload  []*reloadHook
)

type reloadHook struct {
	fn func(*Config)
}

// Current 返回最近一次成功加载或热更新的配置，未加载时返回 nil。
// 返回值只读，热更新会替换指针而不是修改原对象。
func Current() *Config {
	return current.Load()
}

// RegisterReloadHook 注册配置热更新回调，回调收到的是新配置的只读快照。
// 返回的函数用于注销该回调，可重复调用。
func RegisterReloadHook(hook func(*Config)) (unregister func()) {
	if hook == nil {
		return func() {}
	}
	entry := &reloadHook{fn: hook}
	hooksMu.Lock()
	defer hooksMu.Unlock()
	onReload = append(onReload, entry)

	return func() {
		hooksMu.Lock()
		defer hooksMu.Unlock()
		for i, h := range onReload {
			if h == entry {
				onReload = append(onReload[:i:i], onReload[i+1:]...)
				return
			}
		}
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("version", d.Version)
	v.SetDefault("engine.default_strategy", d.Engine.DefaultStrategy)
	v.SetDefault("engine.max_nodes", d.Engine.MaxNodes)
	v.SetDefault("engine.cross_check_pairs", d.Engine.CrossCheckPairs)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.stdout", d.Log.Stdout)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// Load 读取 TOML 配置文件（支持 APP_ 前缀的环境变量覆盖）、校验并开启热更新.
// conf 只接收首次加载的结果；之后的变更通过 Current 与重载回调获取。
func Load(path string, conf *Config) error {
	vInstance.SetConfigFile(path)
	vInstance.SetConfigType("toml")
	setDefaults(vInstance)

	vInstance.SetEnvPrefix("APP")
	vInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vInstance.AutomaticEnv()

	if err := vInstance.ReadInConfig(); err != nil {
		return fmt.Errorf("read config error: %w", err)
	}

	if err := vInstance.Unmarshal(conf); err != nil {
		return fmt.Errorf("unmarshal config error: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(conf); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	snapshot := *conf
	current.Store(&snapshot)

	vInstance.OnConfigChange(func(event fsnotify.Event) {
		slog.Info("detecting config change", "file", event.Name)
		const debounceTimeout = 500 * time.Millisecond
		time.Sleep(debounceTimeout)

		var next Config
		if err := vInstance.Unmarshal(&next); err != nil {
			slog.Error("reload config unmarshal failed", "error", err)
			return
		}
		if err := validate.Struct(&next); err != nil {
			slog.Error("reload config validation failed", "error", err)
			return
		}

		current.Store(&next)
		logging.SetLevel(next.Log.Level)
		slog.Info("config hot-reloaded and validated successfully")

		hooksMu.Lock()
		hooks := append([]*reloadHook{}, onReload...)
		hooksMu.Unlock()
		for _, hook := range hooks {
			hook.fn(&next)
		}
	})
	vInstance.WatchConfig()

	return nil
}

// PrintWithMask 脱敏打印当前配置.
func PrintWithMask(conf any) {
	data, err := json.Marshal(conf)
	if err != nil {
		slog.Error("failed to marshal config for printing", "error", err)
		return
	}

	var configMap map[string]any
	if err := json.Unmarshal(data, &configMap); err != nil {
		slog.Error("failed to unmarshal config for masking", "error", err)
		return
	}

	mask(configMap)

	maskedJSON, err := json.Marshal(configMap)
	if err != nil {
		slog.Error("failed to marshal masked config", "error", err)
		return
	}

	slog.Info("current effective configuration", "config", string(maskedJSON))
}

func mask(configMap map[string]any) {
	sensitiveKeys := []string{"password", "secret", "token", "endpoint"}

	for key, val := range configMap {
		if subMap, ok := val.(map[string]any); ok {
			mask(subMap)
			continue
		}
		for _, sensitiveKey := range sensitiveKeys {
			if strings.Contains(strings.ToLower(key), sensitiveKey) {
				configMap[key] = "******"
				break
			}
		}
	}
}
