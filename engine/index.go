package engine

import (
	"context"
	"time"

	"github.com/wyfcoding/treelca/algorithm/graph"
	"github.com/wyfcoding/treelca/tracing"
	"github.com/wyfcoding/treelca/xerrors"
)

// Index 是对一棵静态树预处理后的查询句柄，可被多个 goroutine 共享读取。
type Index struct {
	impl   graph.StaticLCA
	tree   *graph.Tree
	engine *Engine
}

// Build 按指定策略对树做预处理。启用交叉校验时会用朴素算法抽样核对新索引。
func (e *Engine) Build(ctx context.Context, t *graph.Tree, s graph.Strategy) (*Index, error) {
	ctx, span := tracing.StartOperation(ctx, "build", tracing.Strategy(string(s)))
	defer span.End()

	if t == nil {
		err := xerrors.InvalidTree("tree is nil")
		tracing.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(tracing.Nodes(t.NodeCount()))

	set := e.current.Load()
	if err := set.checkSize(t.NodeCount()); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	start := time.Now()
	impl, err := graph.NewStatic(t, s)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	elapsed := time.Since(start)
	if e.metrics != nil {
		e.metrics.BuildDuration.WithLabelValues(string(s)).Observe(elapsed.Seconds())
	}

	stats := impl.Stats()
	e.logger.DebugContext(ctx, "lca index built",
		"strategy", s, "nodes", t.NodeCount(), "build_ops", stats.BuildOps, "duration", elapsed)

	idx := &Index{impl: impl, tree: t, engine: e}
	if set.cfg.CrossCheck && s != graph.StrategyNaive {
		if err := e.verify(ctx, idx, set.cfg.CrossCheckPairs); err != nil {
			tracing.RecordError(span, err)
			return nil, err
		}
	}
	return idx, nil
}

// BuildDefault 使用配置中的默认策略构建索引。
func (e *Engine) BuildDefault(ctx context.Context, t *graph.Tree) (*Index, error) {
	return e.Build(ctx, t, e.DefaultStrategy())
}

// verify 用朴素算法核对索引在抽样节点对上的答案。
func (e *Engine) verify(ctx context.Context, idx *Index, pairs int) error {
	oracle := graph.NewNaive(idx.tree)
	for _, q := range samplePairs(idx.tree.NodeCount(), pairs) {
		want, err := oracle.LCA(q.U, q.V)
		if err != nil {
			return err
		}
		got, err := idx.impl.LCA(q.U, q.V)
		if err != nil {
			return err
		}
		if got != want {
			e.countMismatch(idx.Strategy())
			e.logger.WarnContext(ctx, "cross check mismatch",
				"strategy", idx.Strategy(), "u", q.U, "v", q.V, "want", want, "got", got)
			return xerrors.StrategyMismatch("%s answered %d for (%d, %d), naive answered %d",
				idx.Strategy(), got, q.U, q.V, want).WithContext("trace_id", tracing.TraceID(ctx))
		}
	}
	return nil
}

// LCA 返回 u 与 v 的最近公共祖先。
func (x *Index) LCA(u, v int) (int, error) {
	w, err := x.impl.LCA(u, v)
	if err != nil {
		x.engine.countError(x.Strategy())
		return -1, err
	}
	x.engine.countQueries(x.Strategy(), 1)
	return w, nil
}

// Batch 逐个回答一批查询，任一查询失败时整批失败。
func (x *Index) Batch(ctx context.Context, queries []graph.Query) ([]int, error) {
	ctx, span := tracing.StartOperation(ctx, "batch",
		tracing.Strategy(string(x.Strategy())), tracing.Queries(len(queries)))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	answers, err := graph.BatchLCA(x.impl, queries)
	if err != nil {
		x.engine.countError(x.Strategy())
		tracing.RecordError(span, err)
		return nil, err
	}
	x.engine.countQueries(x.Strategy(), len(queries))
	return answers, nil
}

// LCAOfSet 返回一组节点的最近公共祖先。
func (x *Index) LCAOfSet(nodes ...int) (int, error) {
	w, err := graph.LCAOfSet(x.impl, nodes...)
	if err != nil {
		x.engine.countError(x.Strategy())
		return -1, err
	}
	x.engine.countQueries(x.Strategy(), max(len(nodes)-1, 1))
	return w, nil
}

// Distance 返回 u 与 v 之间的边数。
func (x *Index) Distance(u, v int) (int, error) {
	d, err := graph.Distance(x.impl, x.tree, u, v)
	if err != nil {
		x.engine.countError(x.Strategy())
		return 0, err
	}
	x.engine.countQueries(x.Strategy(), 1)
	return d, nil
}

// Strategy 返回索引使用的策略。
func (x *Index) Strategy() graph.Strategy { return x.impl.Strategy() }

// Stats 返回底层结构的操作计数。
func (x *Index) Stats() graph.Stats { return x.impl.Stats() }

// Tree 返回索引对应的树。
func (x *Index) Tree() *graph.Tree { return x.tree }
