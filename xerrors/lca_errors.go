package xerrors

import "fmt"

// LCA 引擎错误码。
const (
	CodeInvalidTree          = 400101
	CodeOutOfRangeNode       = 400102
	CodeInvalidRange         = 400103
	CodeUnknownStrategy      = 400104
	CodeTreeTooLarge         = 429101
	CodePreconditionViolated = 412101
	CodeStrategyMismatch     = 500101
)

var (
	// ErrInvalidTree 建树输入非法：环、不连通、多根或越界标识。
	ErrInvalidTree = New(ErrInvalidArg, CodeInvalidTree, "invalid tree", "input must describe a single connected acyclic rooted tree", nil)
	// ErrOutOfRangeNode 查询引用了不存在的节点。
	ErrOutOfRangeNode = New(ErrOutOfRange, CodeOutOfRangeNode, "node out of range", "node identifiers must lie in [0, n)", nil)
	// ErrInvalidRange 区间查询的端点非法。
	ErrInvalidRange = New(ErrOutOfRange, CodeInvalidRange, "invalid range", "range must satisfy 0 <= l <= r < len", nil)
	// ErrUnknownStrategy 未知的 LCA 策略。
	ErrUnknownStrategy = New(ErrInvalidArg, CodeUnknownStrategy, "unknown strategy", "supported: naive, binary_lifting, euler_tour, heavy_light, offline", nil)
	// ErrTreeTooLarge 节点数超过配置上限。
	ErrTreeTooLarge = New(ErrLimitExceeded, CodeTreeTooLarge, "tree too large", "node count exceeds engine.max_nodes", nil)
	// ErrPreconditionViolation 动态森林操作违反前置条件。
	ErrPreconditionViolation = New(ErrFailedPrecondition, CodePreconditionViolated, "precondition violation", "operation would break the forest invariant", nil)
	// ErrStrategyMismatch 交叉校验时不同策略给出了不同答案。
	ErrStrategyMismatch = New(ErrInternal, CodeStrategyMismatch, "strategy mismatch", "strategies disagree with the naive oracle", nil)
)

// InvalidTree 构造带详情的 ErrInvalidTree。
func InvalidTree(format string, args ...any) *Error {
	return New(ErrInvalidArg, CodeInvalidTree, "invalid tree", fmt.Sprintf(format, args...), nil)
}

// OutOfRangeNode 构造带节点信息的 ErrOutOfRangeNode。
func OutOfRangeNode(node, n int) *Error {
	return New(ErrOutOfRange, CodeOutOfRangeNode, "node out of range", fmt.Sprintf("node %d not in [0, %d)", node, n), nil).
		WithContext("node", node).
		WithContext("node_count", n)
}

// InvalidRange 构造带端点信息的 ErrInvalidRange。
func InvalidRange(l, r, length int) *Error {
	return New(ErrOutOfRange, CodeInvalidRange, "invalid range", fmt.Sprintf("[%d, %d] not within [0, %d)", l, r, length), nil)
}

// UnknownStrategy 构造 ErrUnknownStrategy。
func UnknownStrategy(name string) *Error {
	return New(ErrInvalidArg, CodeUnknownStrategy, "unknown strategy", fmt.Sprintf("strategy %q is not supported", name), nil).
		WithContext("strategy", name)
}

// TreeTooLarge 构造 ErrTreeTooLarge。
func TreeTooLarge(n, limit int) *Error {
	return New(ErrLimitExceeded, CodeTreeTooLarge, "tree too large", fmt.Sprintf("%d nodes exceeds limit %d", n, limit), nil)
}

// PreconditionViolation 构造带详情的 ErrPreconditionViolation。
func PreconditionViolation(format string, args ...any) *Error {
	return New(ErrFailedPrecondition, CodePreconditionViolated, "precondition violation", fmt.Sprintf(format, args...), nil)
}

// StrategyMismatch 构造 ErrStrategyMismatch。
func StrategyMismatch(format string, args ...any) *Error {
	return New(ErrInternal, CodeStrategyMismatch, "strategy mismatch", fmt.Sprintf(format, args...), nil)
}
