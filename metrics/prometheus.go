// Package metrics 封装基于 Prometheus 的指标注册表以及 LCA 引擎的标准指标。
package metrics

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics 封装了独立的 Prometheus 注册表及预定义的 LCA 指标。
type Metrics struct {
	registry *prometheus.Registry // 内部独立的 Prometheus 注册中心
	ns       string

	QueriesTotal          *prometheus.CounterVec   // 在线查询次数 (维度: strategy)
	QueryErrorsTotal      *prometheus.CounterVec   // 查询失败次数 (维度: strategy)
	BuildDuration         *prometheus.HistogramVec // 预处理耗时分布 (维度: strategy)
	ForestOperationsTotal *prometheus.CounterVec   // 动态森林操作次数 (维度: op, result)
	CrossCheckMismatches  *prometheus.CounterVec   // 交叉校验不一致次数 (维度: strategy)
	BuildInfo             *prometheus.GaugeVec
}

// NewMetrics 初始化并返回一个新的指标采集器，自动注册 Go 运行时与进程指标。
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: reg, ns: namespace}

	m.QueriesTotal = m.NewCounterVec(prometheus.CounterOpts{
		Name: "lca_queries_total",
		Help: "Total number of LCA queries answered",
	}, []string{"strategy"})

	m.QueryErrorsTotal = m.NewCounterVec(prometheus.CounterOpts{
		Name: "lca_query_errors_total",
		Help: "Total number of rejected LCA queries",
	}, []string{"strategy"})

	m.BuildDuration = m.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lca_build_duration_seconds",
		Help:    "Preprocessing latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"strategy"})

	m.ForestOperationsTotal = m.NewCounterVec(prometheus.CounterOpts{
		Name: "lca_forest_operations_total",
		Help: "Total number of dynamic forest operations",
	}, []string{"op", "result"})

	m.CrossCheckMismatches = m.NewCounterVec(prometheus.CounterOpts{
		Name: "lca_cross_check_mismatches_total",
		Help: "Answers that disagreed with the naive oracle",
	}, []string{"strategy"})

	slog.Info("lca metrics registry initialized", "namespace", namespace)
	return m
}

// NewCounterVec 创建并注册一个新的计数器指标。
func (m *Metrics) NewCounterVec(opts prometheus.CounterOpts, labelNames []string) *prometheus.CounterVec {
	opts.Namespace = m.ns
	cv := prometheus.NewCounterVec(opts, labelNames)
	m.registry.MustRegister(cv)
	return cv
}

// NewGaugeVec 创建并注册一个新的仪表盘指标。
func (m *Metrics) NewGaugeVec(opts prometheus.GaugeOpts, labelNames []string) *prometheus.GaugeVec {
	opts.Namespace = m.ns
	gv := prometheus.NewGaugeVec(opts, labelNames)
	m.registry.MustRegister(gv)
	return gv
}

// NewHistogramVec 创建并注册一个新的直方图指标。
func (m *Metrics) NewHistogramVec(opts prometheus.HistogramOpts, labelNames []string) *prometheus.HistogramVec {
	opts.Namespace = m.ns
	hv := prometheus.NewHistogramVec(opts, labelNames)
	m.registry.MustRegister(hv)
	return hv
}

// Registry 返回底层注册表，供调用方按需暴露或采集。
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
