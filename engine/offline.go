package engine

import (
	"context"
	"time"

	"github.com/wyfcoding/treelca/algorithm/graph"
	"github.com/wyfcoding/treelca/tracing"
	"github.com/wyfcoding/treelca/xerrors"
)

// SolveOffline 用 Tarjan 离线算法一次遍历回答整批查询，答案顺序与提交顺序一致。
func (e *Engine) SolveOffline(ctx context.Context, t *graph.Tree, queries []graph.Query) ([]int, error) {
	ctx, span := tracing.StartOperation(ctx, "solve_offline",
		tracing.Strategy(string(graph.StrategyOffline)), tracing.Queries(len(queries)))
	defer span.End()

	if t == nil {
		err := xerrors.InvalidTree("tree is nil")
		tracing.RecordError(span, err)
		return nil, err
	}
	if err := e.checkSize(t.NodeCount()); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	solver := graph.NewOfflineLCA(t)
	answers, err := solver.Solve(queries)
	if err != nil {
		e.countError(graph.StrategyOffline)
		tracing.RecordError(span, err)
		return nil, err
	}
	elapsed := time.Since(start)
	if e.metrics != nil {
		e.metrics.BuildDuration.WithLabelValues(string(graph.StrategyOffline)).Observe(elapsed.Seconds())
	}
	e.countQueries(graph.StrategyOffline, len(queries))

	stats := solver.Stats()
	e.logger.DebugContext(ctx, "offline batch solved",
		"nodes", t.NodeCount(), "queries", len(queries), "query_ops", stats.QueryOps, "duration", elapsed)
	return answers, nil
}
