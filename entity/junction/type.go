package junction

import (
	"fmt"

	"github.com/tsinghua-fib-lab/intersection-sim/entity"
)

// Phase 路口信控相位，每步由计时器状态计算得到
type Phase int32

const (
	PhaseEnteringGreen  Phase = iota // 进入绿灯：激活车道组并放行
	PhaseExtensionCheck              // 绿灯中点：检查是否延长绿灯并放行
	PhaseEnteringYellow              // 进入黄灯：不放行
	PhaseResetting                   // 周期结束：红灯，切换策略/道路
	PhaseHolding                     // 绿灯保持：放行
)

func (p Phase) String() string {
	switch p {
	case PhaseEnteringGreen:
		return "EnteringGreen"
	case PhaseExtensionCheck:
		return "ExtensionCheck"
	case PhaseEnteringYellow:
		return "EnteringYellow"
	case PhaseResetting:
		return "Resetting"
	case PhaseHolding:
		return "Holding"
	}
	return fmt.Sprintf("Phase(%d)", int32(p))
}

// phaseOf 计算本步相位
// 参数：timer-绿灯计时器，duration-绿灯时长，extended-本周期是否已延长
// 算法说明：按以下优先级取第一个满足的条件
// 1. timer==duration且未延长：进入绿灯
// 2. timer==duration/2：延长检查
// 3. timer==1：进入黄灯
// 4. timer==0：重置
// 5. 其他：保持
func phaseOf(timer, duration int, extended bool) Phase {
	switch {
	case timer == duration && !extended:
		return PhaseEnteringGreen
	case timer == duration/2:
		return PhaseExtensionCheck
	case timer == 1:
		return PhaseEnteringYellow
	case timer == 0:
		return PhaseResetting
	default:
		return PhaseHolding
	}
}

// 三种固定的转向激活策略
var (
	strategyAll           = []entity.Turn{entity.TurnLeft, entity.TurnStraight, entity.TurnRight}
	strategyStraightRight = []entity.Turn{entity.TurnStraight, entity.TurnRight}
	strategyLeft          = []entity.Turn{entity.TurnLeft}
)

// strategiesFor 车道数对应的策略循环
func strategiesFor(numberOfLanes int) [][]entity.Turn {
	switch {
	case numberOfLanes <= 1:
		return [][]entity.Turn{strategyAll}
	case numberOfLanes == 2:
		return [][]entity.Turn{strategyAll, strategyStraightRight}
	default:
		return [][]entity.Turn{strategyAll, strategyStraightRight, strategyLeft}
	}
}

// Snapshot 路口信控状态快照
type Snapshot struct {
	Phase         Phase // 下一步将执行的相位
	RoadIndex     int   // 当前绿灯道路在循环顺序中的下标
	StrategyIndex int   // 当前策略下标
	Timer         int   // 绿灯计时器
	Extended      bool  // 本周期是否已延长绿灯
}
