// Package engine 在算法包之上提供带日志、指标、链路追踪与交叉校验的 LCA 查询门面。
//
// 调用方通过 Build 选择静态策略得到 Index，通过 SolveOffline 回答整批查询，
// 通过 NewForest 操作会变化的森林。所有入口都会校验节点数上限。
package engine

import (
	"math/rand/v2"
	"sync/atomic"

	"github.com/wyfcoding/treelca/algorithm/graph"
	"github.com/wyfcoding/treelca/config"
	"github.com/wyfcoding/treelca/logging"
	"github.com/wyfcoding/treelca/metrics"
	"github.com/wyfcoding/treelca/xerrors"
)

// Engine 持有策略配置与可观测性组件，构建出的索引与森林共享它们。
// 配置可在运行中通过 UpdateConfig 整体替换，每次调用读取一份一致的快照。
type Engine struct {
	current  atomic.Pointer[settings]
	logger   *logging.Logger
	metrics  *metrics.Metrics // 为 nil 时不采集指标
}

// settings 是 EngineConfig 校验后的只读快照。
type settings struct {
	cfg      config.EngineConfig
	strategy graph.Strategy
}

func newSettings(cfg config.EngineConfig) (*settings, error) {
	s, err := graph.ParseStrategy(cfg.DefaultStrategy)
	if err != nil {
		return nil, err
	}
	if s == graph.StrategyOffline {
		return nil, xerrors.UnknownStrategy(cfg.DefaultStrategy).WithDetail("offline strategy cannot be the default")
	}
	return &settings{cfg: cfg, strategy: s}, nil
}

// Option 定义 Engine 的可选配置项。
type Option func(*Engine)

// WithLogger 指定引擎使用的日志记录器。
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics 指定引擎使用的指标采集器。
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New 创建引擎。默认策略必须是支持在线查询的静态策略。
func New(cfg config.EngineConfig, opts ...Option) (*Engine, error) {
	set, err := newSettings(cfg)
	if err != nil {
		return nil, err
	}

	e := &Engine{}
	e.current.Store(set)
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.Default()
	}
	e.logger = e.logger.Named("engine")
	return e, nil
}

// UpdateConfig 原子地替换引擎配置，已构建的索引与森林不受影响。
// 配置不合法时返回错误并保留旧配置。
func (e *Engine) UpdateConfig(cfg config.EngineConfig) error {
	set, err := newSettings(cfg)
	if err != nil {
		return err
	}
	prev := e.current.Swap(set)
	e.logger.Info("engine config updated",
		"default_strategy", set.strategy, "max_nodes", cfg.MaxNodes,
		"previous_max_nodes", prev.cfg.MaxNodes, "cross_check", cfg.CrossCheck)
	return nil
}

// Config 返回当前生效的引擎配置。
func (e *Engine) Config() config.EngineConfig {
	return e.current.Load().cfg
}

// DefaultStrategy 返回 BuildDefault 使用的策略。
func (e *Engine) DefaultStrategy() graph.Strategy {
	return e.current.Load().strategy
}

// checkSize 校验节点数上限，MaxNodes 不大于 0 表示不限制。
func (e *Engine) checkSize(n int) error {
	return e.current.Load().checkSize(n)
}

func (s *settings) checkSize(n int) error {
	if s.cfg.MaxNodes > 0 && n > s.cfg.MaxNodes {
		return xerrors.TreeTooLarge(n, s.cfg.MaxNodes)
	}
	return nil
}

func (e *Engine) countQueries(s graph.Strategy, n int) {
	if e.metrics != nil && n > 0 {
		e.metrics.QueriesTotal.WithLabelValues(string(s)).Add(float64(n))
	}
}

func (e *Engine) countError(s graph.Strategy) {
	if e.metrics != nil {
		e.metrics.QueryErrorsTotal.WithLabelValues(string(s)).Inc()
	}
}

func (e *Engine) countMismatch(s graph.Strategy) {
	if e.metrics != nil {
		e.metrics.CrossCheckMismatches.WithLabelValues(string(s)).Inc()
	}
}

// samplePairs 为给定规模生成确定性的抽样节点对，同一棵树每次抽到相同的对。
func samplePairs(n, count int) []graph.Query {
	if n == 0 || count <= 0 {
		return nil
	}
	rng := rand.New(rand.NewPCG(uint64(n), uint64(count)))
	pairs := make([]graph.Query, count)
	for i := range pairs {
		pairs[i] = graph.Query{U: rng.IntN(n), V: rng.IntN(n)}
	}
	return pairs
}
