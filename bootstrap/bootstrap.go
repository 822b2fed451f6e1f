// Package bootstrap 按 配置 -> 日志 -> 指标 -> 追踪 -> 引擎 的顺序装配基础设施。
package bootstrap

import (
	"context"

	"github.com/wyfcoding/treelca/config"
	"github.com/wyfcoding/treelca/engine"
	"github.com/wyfcoding/treelca/logging"
	"github.com/wyfcoding/treelca/metrics"
	"github.com/wyfcoding/treelca/tracing"
)

// Bootstrapper 处理通用基础设施的初始化
type Bootstrapper struct {
	ServiceName string
	Version     string
	Config      config.Config // 首次加载的配置，热更新后的值见 config.Current
	Logger      *logging.Logger
	Metrics     *metrics.Metrics // 配置关闭指标时为 nil

	engine     *engine.Engine
	unregister func()
}

// New 创建一个新的引导器实例
func New(serviceName, version string) *Bootstrapper {
	return &Bootstrapper{
		ServiceName: serviceName,
		Version:     version,
	}
}

// Initialize 加载配置文件，并据此重建日志、指标与引擎。
func (b *Bootstrapper) Initialize(configPath string) error {
	// 1. 临时 Logger，用于记录配置加载过程中的错误。
	logging.InitLogger(b.ServiceName, "bootstrap")
	b.Logger = logging.Default()

	// 2. 加载配置文件。
	if err := config.Load(configPath, &b.Config); err != nil {
		b.Logger.Error("failed to load config", "error", err)
		return err
	}

	// 3. 按 [log] 重建 Logger。
	b.Logger = logging.NewFromConfig(logging.Config{
		Service:    b.ServiceName,
		Module:     "bootstrap",
		Level:      b.Config.Log.Level,
		File:       b.Config.Log.File,
		Stdout:     b.Config.Log.Stdout,
		MaxSize:    b.Config.Log.MaxSize,
		MaxBackups: b.Config.Log.MaxBackups,
		MaxAge:     b.Config.Log.MaxAge,
		Compress:   b.Config.Log.Compress,
	})

	// 4. 指标。
	if b.Config.Metrics.Enabled {
		b.Metrics = metrics.NewMetrics(b.Config.Metrics.Namespace)
		b.Metrics.RegisterBuildInfo(b.ServiceName, b.Version)
	}

	// 5. 引擎。
	eng, err := engine.New(b.Config.Engine, engine.WithLogger(b.Logger), engine.WithMetrics(b.Metrics))
	if err != nil {
		b.Logger.Error("failed to create engine", "error", err)
		return err
	}
	b.engine = eng

	// 6. 热更新时把新的 [engine] 推给引擎，非法配置保留旧值。
	logger := b.Logger
	b.unregister = config.RegisterReloadHook(func(next *config.Config) {
		if err := eng.UpdateConfig(next.Engine); err != nil {
			logger.Error("failed to apply reloaded engine config", "error", err)
		}
	})

	config.PrintWithMask(b.Config)
	b.Logger.Info("bootstrap completed", "version", b.Version, "default_strategy", eng.DefaultStrategy())
	return nil
}

// SetupTracing 初始化 OpenTelemetry 追踪器，返回的函数用于关闭时刷新数据。
func (b *Bootstrapper) SetupTracing() func() {
	cfg := b.Config.Tracing
	if cfg.ServiceName == "" {
		cfg.ServiceName = b.ServiceName
	}
	shutdown, err := tracing.InitTracer(cfg, b.Version)
	if err != nil {
		b.Logger.Error("failed to init tracer", "error", err)
		return func() {}
	}
	return func() {
		if err := shutdown(context.Background()); err != nil {
			b.Logger.Error("failed to shutdown tracer", "error", err)
		}
	}
}

// Engine 返回按配置创建的引擎，Initialize 成功前为 nil。
func (b *Bootstrapper) Engine() *engine.Engine {
	return b.engine
}

// Close 注销热更新回调并释放日志文件等资源。
func (b *Bootstrapper) Close() error {
	if b.unregister != nil {
		b.unregister()
		b.unregister = nil
	}
	if b.Logger == nil {
		return nil
	}
	return b.Logger.Close()
}
