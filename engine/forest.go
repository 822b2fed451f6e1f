package engine

import (
	"errors"

	"github.com/wyfcoding/treelca/algorithm/graph"
	"github.com/wyfcoding/treelca/xerrors"
)

// Forest 是会变化的有根森林，基于 Link-Cut Tree。
// 即便是查询也会修改内部结构，同一个 Forest 不能并发使用。
type Forest struct {
	lct    *graph.LinkCutTree
	engine *Engine
}

// NewForest 创建由 n 个孤立节点组成的森林。
func (e *Engine) NewForest(n int) (*Forest, error) {
	if n < 0 {
		return nil, xerrors.InvalidArg("node count must not be negative")
	}
	if err := e.checkSize(n); err != nil {
		return nil, err
	}
	return &Forest{lct: graph.NewLinkCutTree(n), engine: e}, nil
}

// record 记录一次森林操作的结果，前置条件失败时打印告警。
func (f *Forest) record(op string, err error, args ...any) error {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, xerrors.ErrPreconditionViolation):
		result = "precondition_violation"
		f.engine.logger.Warn("forest precondition violated", append([]any{"op", op, "error", err}, args...)...)
	default:
		result = "error"
	}
	if f.engine.metrics != nil {
		f.engine.metrics.ForestOperationsTotal.WithLabelValues(op, result).Inc()
	}
	return err
}

// Link 把 x 所在的树挂到 y 下，x 先成为其所在树的根。
func (f *Forest) Link(x, y int) error {
	return f.record("link", f.lct.Link(x, y), "x", x, "y", y)
}

// Cut 断开 x 与其父节点。
func (f *Forest) Cut(x int) error {
	return f.record("cut", f.lct.Cut(x), "x", x)
}

// MakeRoot 把 x 设为所在树的根。
func (f *Forest) MakeRoot(x int) error {
	return f.record("make_root", f.lct.MakeRoot(x), "x", x)
}

// LCA 返回 x 与 y 在当前根下的最近公共祖先，不连通时 ok 为 false。
func (f *Forest) LCA(x, y int) (int, bool, error) {
	w, ok, err := f.lct.LCA(x, y)
	return w, ok, f.record("lca", err, "x", x, "y", y)
}

// FindRoot 返回 x 所在树的根。
func (f *Forest) FindRoot(x int) (int, error) {
	r, err := f.lct.FindRoot(x)
	return r, f.record("find_root", err, "x", x)
}

// Connected 判断 x 与 y 是否连通。
func (f *Forest) Connected(x, y int) (bool, error) {
	ok, err := f.lct.Connected(x, y)
	return ok, f.record("connected", err, "x", x, "y", y)
}

// NodeCount 返回森林的节点数。
func (f *Forest) NodeCount() int {
	return f.lct.NodeCount()
}
