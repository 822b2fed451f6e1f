package engine

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/wyfcoding/treelca/algorithm/graph"
	"github.com/wyfcoding/treelca/tracing"
	"github.com/wyfcoding/treelca/xerrors"
	"golang.org/x/sync/errgroup"
)

// CrossCheck 并行地用全部静态策略和离线算法回答同一批查询，并与朴素算法逐个比对。
// 返回朴素算法的答案；出现分歧时返回 ErrStrategyMismatch，指出第一个不一致的策略与查询。
func (e *Engine) CrossCheck(ctx context.Context, t *graph.Tree, queries []graph.Query) ([]int, error) {
	ctx, span := tracing.StartOperation(ctx, "cross_check", tracing.Queries(len(queries)))
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

	strategies := append(append([]graph.Strategy{}, graph.StaticStrategies...), graph.StrategyOffline)
	results := make([][]int, len(strategies))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range strategies {
		g.Go(func() (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = xerrors.Internal(fmt.Sprintf("strategy %s panicked: %v", s, rec), nil)
					e.logger.Error("cross check panic recovered", "strategy", s, "panic", rec, "stack", string(debug.Stack()))
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			answers, err := answerWith(t, s, queries)
			if err != nil {
				return xerrors.Wrap(err, xerrors.ErrInternal, fmt.Sprintf("cross check strategy %s failed", s))
			}
			results[i] = answers
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	// strategies[0] 为朴素算法。
	want := results[0]
	for i, s := range strategies[1:] {
		got := results[i+1]
		for j, q := range queries {
			if got[j] == want[j] {
				continue
			}
			e.countMismatch(s)
			e.logger.WarnContext(ctx, "cross check mismatch",
				"strategy", s, "u", q.U, "v", q.V, "want", want[j], "got", got[j])
			err := xerrors.StrategyMismatch("%s answered %d for query %d (%d, %d), naive answered %d",
				s, got[j], j, q.U, q.V, want[j]).WithContext("trace_id", tracing.TraceID(ctx))
			tracing.RecordError(span, err)
			return nil, err
		}
	}

	e.countQueries(graph.StrategyNaive, len(queries))
	e.logger.DebugContext(ctx, "cross check passed", "strategies", len(strategies), "queries", len(queries))
	return want, nil
}

func answerWith(t *graph.Tree, s graph.Strategy, queries []graph.Query) ([]int, error) {
	if s == graph.StrategyOffline {
		return graph.NewOfflineLCA(t).Solve(queries)
	}
	impl, err := graph.NewStatic(t, s)
	if err != nil {
		return nil, err
	}
	return graph.BatchLCA(impl, queries)
}
