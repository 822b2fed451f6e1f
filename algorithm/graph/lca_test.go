package graph

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/treelca/xerrors"
)

func allStatic(t *testing.T, tree *Tree) []StaticLCA {
	t.Helper()
	out := make([]StaticLCA, 0, len(StaticStrategies))
	for _, s := range StaticStrategies {
		impl, err := NewStatic(tree, s)
		require.NoError(t, err)
		require.Equal(t, s, impl.Strategy())
		out = append(out, impl)
	}
	return out
}

func TestStrategiesAgreeOnSampleTree(t *testing.T) {
	tree := sampleTree(t)
	want := map[Query]int{
		{3, 4}: 1,
		{3, 5}: 0,
		{4, 5}: 0,
		{1, 3}: 1,
		{5, 2}: 2,
		{0, 5}: 0,
		{4, 4}: 4,
	}
	for _, impl := range allStatic(t, tree) {
		for q, w := range want {
			got, err := impl.LCA(q.U, q.V)
			require.NoError(t, err)
			assert.Equal(t, w, got, "%s lca(%d, %d)", impl.Strategy(), q.U, q.V)
		}
	}
}

func TestCrossAlgorithmAgreementOnRandomTrees(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1024))
	for _, n := range []int{1, 2, 3, 17, 64, 300} {
		tree := randomTree(t, rng, n)
		impls := allStatic(t, tree)
		oracle := impls[0]

		for u := range n {
			for v := range n {
				want, err := oracle.LCA(u, v)
				require.NoError(t, err)
				for _, impl := range impls[1:] {
					got, err := impl.LCA(u, v)
					require.NoError(t, err)
					require.Equal(t, want, got, "n=%d %s lca(%d, %d)", n, impl.Strategy(), u, v)
				}
			}
		}
	}
}

func TestLCAProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	tree := randomTree(t, rng, 120)

	for _, impl := range allStatic(t, tree) {
		for v := range tree.NodeCount() {
			// 自身的 LCA 是自身。
			got, err := impl.LCA(v, v)
			require.NoError(t, err)
			assert.Equal(t, v, got)

			// 祖先与后代的 LCA 是祖先。
			if p, ok := tree.Parent(v); ok {
				got, err = impl.LCA(p, v)
				require.NoError(t, err)
				assert.Equal(t, p, got)
				got, err = impl.LCA(tree.Root(), v)
				require.NoError(t, err)
				assert.Equal(t, tree.Root(), got)
			}
		}

		for range 500 {
			u, v := rng.IntN(tree.NodeCount()), rng.IntN(tree.NodeCount())
			w, err := impl.LCA(u, v)
			require.NoError(t, err)

			du, dv, dw := tree.Depth(u), tree.Depth(v), tree.Depth(w)
			require.LessOrEqual(t, dw, min(du, dv))

			uAnc, err := tree.IsAncestor(u, v)
			require.NoError(t, err)
			vAnc, err := tree.IsAncestor(v, u)
			require.NoError(t, err)
			assert.Equal(t, uAnc || vAnc, dw == min(du, dv), "%s lca(%d, %d)", impl.Strategy(), u, v)
		}
	}
}

func TestDegeneratePathTree(t *testing.T) {
	const n = 100000
	tree := pathTree(t, n)
	for _, impl := range allStatic(t, tree) {
		got, err := impl.LCA(n-1, n/2)
		require.NoError(t, err)
		assert.Equal(t, n/2, got, impl.Strategy())

		got, err = impl.LCA(1, n-1)
		require.NoError(t, err)
		assert.Equal(t, 1, got, impl.Strategy())
	}

	answers, err := NewOfflineLCA(tree).Solve([]Query{{n - 1, 10}, {5, 7}})
	require.NoError(t, err)
	assert.Equal(t, []int{10, 5}, answers)
}

func TestOutOfRangeQueries(t *testing.T) {
	tree := sampleTree(t)
	for _, impl := range allStatic(t, tree) {
		_, err := impl.LCA(0, 6)
		assert.True(t, errors.Is(err, xerrors.ErrOutOfRangeNode), impl.Strategy())
		_, err = impl.LCA(-1, 2)
		assert.True(t, errors.Is(err, xerrors.ErrOutOfRangeNode), impl.Strategy())
	}

	_, err := NewOfflineLCA(tree).Solve([]Query{{3, 4}, {3, 99}})
	assert.True(t, errors.Is(err, xerrors.ErrOutOfRangeNode))
}

func TestOfflineBatch(t *testing.T) {
	tree := sampleTree(t)
	solver := NewOfflineLCA(tree)

	answers, err := solver.Solve([]Query{{3, 4}, {3, 5}, {4, 5}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 0}, answers)

	// 答案按提交顺序返回，包括自查询与重复查询。
	answers, err = solver.Solve([]Query{{5, 4}, {2, 2}, {4, 3}, {4, 3}, {0, 3}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 1, 1, 0}, answers)

	answers, err = solver.Solve(nil)
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestOfflineMatchesOnline(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	tree := randomTree(t, rng, 500)
	oracle := NewNaive(tree)

	queries := make([]Query, 2000)
	for i := range queries {
		queries[i] = Query{U: rng.IntN(500), V: rng.IntN(500)}
	}

	got, err := NewOfflineLCA(tree).Solve(queries)
	require.NoError(t, err)
	want, err := BatchLCA(oracle, queries)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEulerTourShape(t *testing.T) {
	tree := sampleTree(t)
	e := NewEulerTour(tree)

	assert.Equal(t, []int{0, 1, 3, 1, 4, 1, 0, 2, 5, 2, 0}, e.Tour())
	assert.Len(t, e.Tour(), 2*tree.NodeCount()-1)
	assert.Equal(t, 2, e.FirstOccurrence(3))
	assert.Equal(t, 7, e.FirstOccurrence(2))
	assert.Equal(t, -1, e.FirstOccurrence(42))
}

func TestBinaryLiftingKthAncestorAndDistance(t *testing.T) {
	tree := pathTree(t, 50)
	bl := NewBinaryLifting(tree)

	for _, k := range []int{0, 1, 7, 32, 49} {
		got, ok := bl.KthAncestor(49, k)
		require.True(t, ok)
		assert.Equal(t, 49-k, got)
	}
	_, ok := bl.KthAncestor(49, 50)
	assert.False(t, ok)
	_, ok = bl.KthAncestor(49, -1)
	assert.False(t, ok)

	d, err := bl.Distance(10, 40)
	require.NoError(t, err)
	assert.Equal(t, 30, d)

	sample := sampleTree(t)
	d, err = Distance(NewHeavyLight(sample), sample, 3, 5)
	require.NoError(t, err)
	assert.Equal(t, 4, d)
}

func TestLCAOfSet(t *testing.T) {
	tree := sampleTree(t)
	impl := NewEulerTour(tree)

	got, err := LCAOfSet(impl, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = LCAOfSet(impl, 3, 4, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	got, err = LCAOfSet(impl, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, got)

	_, err = LCAOfSet(impl)
	assert.Error(t, err)
	_, err = LCAOfSet(impl, 8)
	assert.True(t, errors.Is(err, xerrors.ErrOutOfRangeNode))
}

func TestHeavyLightDecomposition(t *testing.T) {
	tree := sampleTree(t)
	h := NewHeavyLight(tree)

	// 节点 1 的子树更大，是 0 的重儿子；3 是 1 的第一个等大子节点。
	assert.Equal(t, 0, h.Head(1))
	assert.Equal(t, 0, h.Head(3))
	assert.Equal(t, 4, h.Head(4))
	assert.Equal(t, 2, h.Head(5))
	assert.Equal(t, 3, h.ChainCount())
	assert.Equal(t, h.Chain(0), h.Chain(3))
	assert.NotEqual(t, h.Chain(0), h.Chain(4))

	// 重链位置连续。
	assert.Equal(t, []int{0, 1, 2}, []int{h.Pos(0), h.Pos(1), h.Pos(3)})

	r, err := h.SubtreeRange(1)
	require.NoError(t, err)
	assert.Equal(t, Segment{From: 1, To: 3}, r)
}

func TestHeavyLightPathSegmentsCoverPath(t *testing.T) {
	rng := rand.New(rand.NewPCG(17, 71))
	tree := randomTree(t, rng, 200)
	h := NewHeavyLight(tree)
	oracle := NewNaive(tree)

	for range 300 {
		u, v := rng.IntN(200), rng.IntN(200)
		segs, err := h.PathSegments(u, v)
		require.NoError(t, err)

		covered := map[int]bool{}
		for _, s := range segs {
			require.LessOrEqual(t, s.From, s.To)
			for p := s.From; p <= s.To; p++ {
				require.False(t, covered[p], "segments overlap at %d", p)
				covered[p] = true
			}
		}

		d, err := Distance(oracle, tree, u, v)
		require.NoError(t, err)
		require.Len(t, covered, d+1)

		// 路径上的每个节点都被覆盖。
		w, err := oracle.LCA(u, v)
		require.NoError(t, err)
		for _, x := range []int{u, v} {
			for ; x != w; x, _ = tree.Parent(x) {
				require.True(t, covered[h.Pos(x)])
			}
		}
		require.True(t, covered[h.Pos(w)])
	}

	_, err := h.PathSegments(0, 999)
	assert.True(t, errors.Is(err, xerrors.ErrOutOfRangeNode))
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy(" Euler_Tour ")
	require.NoError(t, err)
	assert.Equal(t, StrategyEulerTour, s)

	_, err = ParseStrategy("magic")
	assert.True(t, errors.Is(err, xerrors.ErrUnknownStrategy))

	_, err = NewStatic(sampleTree(t), StrategyOffline)
	assert.True(t, errors.Is(err, xerrors.ErrUnknownStrategy))
}
