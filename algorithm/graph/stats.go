package graph

import "sync/atomic"

// Stats 记录算法内部的基本操作次数，用于在不依赖墙钟时间的前提下验证复杂度。
type Stats struct {
	BuildOps int64 // 预处理阶段的表项写入 / 节点访问次数
	QueryOps int64 // 所有查询累计的循环迭代次数（跳跃、RMQ、链跳转）
	Queries  int64 // 查询次数
}

// opCounter 原子计数器，使只读结构在并发查询下仍然无数据竞争。
type opCounter struct {
	build   atomic.Int64
	query   atomic.Int64
	queries atomic.Int64
}

func (c *opCounter) addBuild(n int) {
	c.build.Add(int64(n))
}

func (c *opCounter) addQuery(ops int) {
	c.query.Add(int64(ops))
	c.queries.Add(1)
}

func (c *opCounter) snapshot() Stats {
	return Stats{
		BuildOps: c.build.Load(),
		QueryOps: c.query.Load(),
		Queries:  c.queries.Load(),
	}
}
