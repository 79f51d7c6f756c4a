// 随机数引擎，包装了golang.org/x/exp/rand，提供了一些常用的随机数生成方法
package randengine

import (
	"flag"
	"log"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成
)

// Engine 随机数引擎
// 功能：提供可复现的随机数生成功能，用于生成随机命令序列
// 说明：基于golang.org/x/exp/rand库，非线程安全
type Engine struct {
	*rand.Rand // 底层随机数生成器
}

// New 创建随机数引擎
// 参数：seed-随机数种子
// 返回：随机数引擎指针
// 说明：种子偏移量允许在不修改调用方的情况下调整随机数序列
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// DiscreteDistribution 按给定概率分布生成随机数
// 功能：根据权重数组生成离散分布的随机数
// 参数：weight-权重数组，每个元素表示对应索引的概率权重
// 返回：随机生成的索引值（0到len(weight)-1）
// 算法说明：
// 1. 计算总权重并在[0, 总权重)范围内生成随机数
// 2. 累积权重，返回第一个累积权重超过随机数的索引
func (e *Engine) DiscreteDistribution(weight []float64) int32 {
	random := .0
	for _, w := range weight {
		random += w
	}
	random *= e.Float64()
	sum := 0.
	for i, w := range weight {
		sum += w
		if sum > random {
			return int32(i)
		}
	}
	log.Panicf("randengine: DiscreteDistribution: sum: %f random: %f", sum, random)
	return -1
}

// PTrue 以指定概率返回true
// 参数：p-返回true的概率（0.0到1.0之间）
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}
