package graph

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/treelca/xerrors"
)

// forestModel 暴力维护的森林：无向邻接表加每个连通块的根标记。
type forestModel struct {
	adj    []map[int]bool
	isRoot []bool
}

func newForestModel(n int) *forestModel {
	m := &forestModel{adj: make([]map[int]bool, n), isRoot: make([]bool, n)}
	for i := range n {
		m.adj[i] = map[int]bool{}
		m.isRoot[i] = true
	}
	return m
}

// component 返回 x 所在连通块的全部节点。
func (m *forestModel) component(x int) []int {
	seen := map[int]bool{x: true}
	queue := []int{x}
	for i := 0; i < len(queue); i++ {
		for y := range m.adj[queue[i]] {
			if !seen[y] {
				seen[y] = true
				queue = append(queue, y)
			}
		}
	}
	return queue
}

func (m *forestModel) rootOf(x int) int {
	for _, v := range m.component(x) {
		if m.isRoot[v] {
			return v
		}
	}
	panic("component without root")
}

// parents 以连通块根为起点做 BFS，返回父节点映射。
func (m *forestModel) parents(x int) map[int]int {
	r := m.rootOf(x)
	par := map[int]int{r: -1}
	queue := []int{r}
	for i := 0; i < len(queue); i++ {
		v := queue[i]
		for y := range m.adj[v] {
			if _, ok := par[y]; !ok {
				par[y] = v
				queue = append(queue, y)
			}
		}
	}
	return par
}

func (m *forestModel) lca(x, y int) (int, bool) {
	par := m.parents(x)
	if _, ok := par[y]; !ok {
		return -1, false
	}
	anc := map[int]bool{}
	for v := x; v != -1; v = par[v] {
		anc[v] = true
	}
	for v := y; ; v = par[v] {
		if anc[v] {
			return v, true
		}
	}
}

func TestLinkCutMatchesStaticTree(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 8))
	tree := randomTree(t, rng, 150)
	oracle := NewNaive(tree)

	lct := NewLinkCutTree(tree.NodeCount())
	// BFS 序保证挂接时父节点已在根所在的树中，根保持不变。
	for _, v := range tree.order[1:] {
		p, _ := tree.Parent(v)
		require.NoError(t, lct.Link(v, p))
	}

	for range 2000 {
		u, v := rng.IntN(150), rng.IntN(150)
		want, err := oracle.LCA(u, v)
		require.NoError(t, err)
		got, ok, err := lct.LCA(u, v)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, want, got, "lca(%d, %d)", u, v)
	}

	r, err := lct.FindRoot(rng.IntN(150))
	require.NoError(t, err)
	assert.Equal(t, tree.Root(), r)
}

func TestLinkCutRoundTrip(t *testing.T) {
	lct := NewLinkCutTree(4)
	require.NoError(t, lct.Link(1, 0))
	require.NoError(t, lct.Link(2, 0))

	require.NoError(t, lct.Link(3, 2))
	w, ok, err := lct.LCA(3, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, w)

	require.NoError(t, lct.Cut(3))
	_, ok, err = lct.LCA(3, 2)
	require.NoError(t, err)
	assert.False(t, ok, "a cut node has no common ancestor with its former parent")

	r, err := lct.FindRoot(3)
	require.NoError(t, err)
	assert.Equal(t, 3, r)

	connected, err := lct.Connected(1, 2)
	require.NoError(t, err)
	assert.True(t, connected)
}

func TestMakeRootIdempotent(t *testing.T) {
	lct := NewLinkCutTree(5)
	for _, e := range [][2]int{{1, 0}, {2, 1}, {3, 1}, {4, 3}} {
		require.NoError(t, lct.Link(e[0], e[1]))
	}

	require.NoError(t, lct.MakeRoot(4))
	snapshot := map[[2]int]int{}
	for u := range 5 {
		for v := range 5 {
			w, ok, err := lct.LCA(u, v)
			require.NoError(t, err)
			require.True(t, ok)
			snapshot[[2]int{u, v}] = w
		}
	}

	require.NoError(t, lct.MakeRoot(4))
	for k, want := range snapshot {
		got, _, err := lct.LCA(k[0], k[1])
		require.NoError(t, err)
		assert.Equal(t, want, got, "lca%v", k)
	}

	// 以 4 为根时，0 与 2 的 LCA 为 1。
	w, _, err := lct.LCA(0, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, w)
	r, err := lct.FindRoot(0)
	require.NoError(t, err)
	assert.Equal(t, 4, r)
}

func TestLinkCutPreconditions(t *testing.T) {
	lct := NewLinkCutTree(3)
	require.NoError(t, lct.Link(1, 0))

	err := lct.Link(0, 1)
	assert.True(t, errors.Is(err, xerrors.ErrPreconditionViolation))
	err = lct.Link(2, 2)
	assert.True(t, errors.Is(err, xerrors.ErrPreconditionViolation))
	err = lct.Cut(0)
	assert.True(t, errors.Is(err, xerrors.ErrPreconditionViolation))

	// 失败的操作不改变森林。
	w, ok, err := lct.LCA(1, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, w)

	_, _, err = lct.LCA(0, 3)
	assert.True(t, errors.Is(err, xerrors.ErrOutOfRangeNode))
	assert.True(t, errors.Is(lct.Link(-1, 0), xerrors.ErrOutOfRangeNode))
	assert.True(t, errors.Is(lct.Cut(5), xerrors.ErrOutOfRangeNode))
	assert.True(t, errors.Is(lct.MakeRoot(3), xerrors.ErrOutOfRangeNode))
	_, err = lct.FindRoot(3)
	assert.Error(t, err)
	_, err = lct.Connected(0, 3)
	assert.Error(t, err)
	assert.Equal(t, 3, lct.NodeCount())
}

func TestLinkCutRandomOperations(t *testing.T) {
	const n = 30
	rng := rand.New(rand.NewPCG(2024, 10))
	lct := NewLinkCutTree(n)
	model := newForestModel(n)

	for step := range 4000 {
		x, y := rng.IntN(n), rng.IntN(n)
		switch op := rng.IntN(10); {
		case op < 4:
			err := lct.Link(x, y)
			if x == y || model.rootOf(x) == model.rootOf(y) {
				require.True(t, errors.Is(err, xerrors.ErrPreconditionViolation), "step %d link(%d, %d)", step, x, y)
				continue
			}
			require.NoError(t, err, "step %d link(%d, %d)", step, x, y)
			model.isRoot[model.rootOf(x)] = false
			model.adj[x][y] = true
			model.adj[y][x] = true
		case op < 6:
			err := lct.Cut(x)
			p := model.parents(x)[x]
			if p == -1 {
				require.True(t, errors.Is(err, xerrors.ErrPreconditionViolation), "step %d cut(%d)", step, x)
				continue
			}
			require.NoError(t, err, "step %d cut(%d)", step, x)
			delete(model.adj[x], p)
			delete(model.adj[p], x)
			model.isRoot[x] = true
		case op < 7:
			require.NoError(t, lct.MakeRoot(x))
			model.isRoot[model.rootOf(x)] = false
			model.isRoot[x] = true
		default:
			want, wantOK := model.lca(x, y)
			got, ok, err := lct.LCA(x, y)
			require.NoError(t, err)
			require.Equal(t, wantOK, ok, "step %d lca(%d, %d)", step, x, y)
			require.Equal(t, want, got, "step %d lca(%d, %d)", step, x, y)

			r, err := lct.FindRoot(x)
			require.NoError(t, err)
			require.Equal(t, model.rootOf(x), r, "step %d root(%d)", step, x)
		}
	}
}
