package graph

import (
	"strings"

	"github.com/wyfcoding/treelca/xerrors"
)

// Strategy 标识一种 LCA 算法。
type Strategy string

const (
	StrategyNaive         Strategy = "naive"
	StrategyBinaryLifting Strategy = "binary_lifting"
	StrategyEulerTour     Strategy = "euler_tour"
	StrategyHeavyLight    Strategy = "heavy_light"
	StrategyOffline       Strategy = "offline" // 只支持整批查询，见 OfflineLCA
)

// StaticStrategies 列出所有支持在线查询的静态策略。
var StaticStrategies = []Strategy{
	StrategyNaive,
	StrategyBinaryLifting,
	StrategyEulerTour,
	StrategyHeavyLight,
}

// ParseStrategy 解析策略名，大小写与首尾空白不敏感。
func ParseStrategy(name string) (Strategy, error) {
	s := Strategy(strings.ToLower(strings.TrimSpace(name)))
	switch s {
	case StrategyNaive, StrategyBinaryLifting, StrategyEulerTour, StrategyHeavyLight, StrategyOffline:
		return s, nil
	default:
		return "", xerrors.UnknownStrategy(name)
	}
}

// Query 一对待求 LCA 的节点。
type Query struct {
	U int
	V int
}

// StaticLCA 静态树上的在线 LCA 查询能力。
// 调用方按查询是否预先可知、树是否会变化、O(1) 与 O(log N) 查询代价权衡来选择实现。
type StaticLCA interface {
	LCA(u, v int) (int, error)
	Strategy() Strategy
	Stats() Stats
}

// NewStatic 按策略对树做预处理。离线策略没有在线查询接口，需改用 NewOfflineLCA。
func NewStatic(t *Tree, s Strategy) (StaticLCA, error) {
	switch s {
	case StrategyNaive:
		return NewNaive(t), nil
	case StrategyBinaryLifting:
		return NewBinaryLifting(t), nil
	case StrategyEulerTour:
		return NewEulerTour(t), nil
	case StrategyHeavyLight:
		return NewHeavyLight(t), nil
	default:
		return nil, xerrors.UnknownStrategy(string(s))
	}
}

// BatchLCA 用在线策略逐个回答一批查询，遇到第一个错误即停止。
func BatchLCA(s StaticLCA, queries []Query) ([]int, error) {
	answers := make([]int, len(queries))
	for i, q := range queries {
		w, err := s.LCA(q.U, q.V)
		if err != nil {
			return nil, err
		}
		answers[i] = w
	}
	return answers, nil
}

// LCAOfSet 返回一组节点的公共最近祖先，即两两 LCA 的折叠。
func LCAOfSet(s StaticLCA, nodes ...int) (int, error) {
	if len(nodes) == 0 {
		return -1, xerrors.InvalidArg("at least one node is required")
	}
	acc := nodes[0]
	for _, v := range nodes[1:] {
		w, err := s.LCA(acc, v)
		if err != nil {
			return -1, err
		}
		acc = w
	}
	if len(nodes) == 1 {
		// 单个节点也要做越界校验。
		return s.LCA(acc, acc)
	}
	return acc, nil
}

// Distance 返回 u 与 v 之间的边数。
func Distance(s StaticLCA, t *Tree, u, v int) (int, error) {
	w, err := s.LCA(u, v)
	if err != nil {
		return 0, err
	}
	return t.depth[u] + t.depth[v] - 2*t.depth[w], nil
}
