package junction

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/intersection-sim/entity"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/config"
)

// Intersection 四路交叉口
// 功能：持有按固定循环顺序排列的四条道路，运行绿灯计时与相位状态机，
// 决定每一步激活哪些车道组、何时切换信号灯，并汇总本步通过路口的车辆
type Intersection struct {
	roads [4]entity.IRoad

	duration      int // 绿灯时长
	extension     int // 绿灯延长时长
	numberOfLanes int // 每条道路的车道数

	strategies [][]entity.Turn

	roadIndex     int  // 当前绿灯道路
	strategyIndex int  // 当前策略
	timer         int  // 绿灯计时器
	extended      bool // 本周期是否已延长
}

// New 创建路口
// 参数：roads-按循环顺序排列的四条道路（下标相差2的道路互为对向），control-信控参数
// 返回：路口实例，计时器初始为绿灯时长
func New(roads [4]entity.IRoad, control config.Control) *Intersection {
	return &Intersection{
		roads:         roads,
		duration:      control.GreenLightDuration,
		extension:     control.GreenLightExtension,
		numberOfLanes: control.NumberOfLanes,
		strategies:    strategiesFor(control.NumberOfLanes),
		timer:         control.GreenLightDuration,
	}
}

// Snapshot 当前信控状态
func (j *Intersection) Snapshot() Snapshot {
	return Snapshot{
		Phase:         phaseOf(j.timer, j.duration, j.extended),
		RoadIndex:     j.roadIndex,
		StrategyIndex: j.strategyIndex,
		Timer:         j.timer,
		Extended:      j.extended,
	}
}

// VehicleCount 路口各道路上等待的车辆总数
func (j *Intersection) VehicleCount() int {
	return lo.SumBy(j.roads[:], func(r entity.IRoad) int { return r.VehicleCount() })
}

// PerformStep 执行一步
// 功能：按本步相位执行信号灯切换与车辆放行
// 返回：本步通过路口的车辆，按道路顺序、车道组顺序与缓冲区释放顺序排列；黄灯与重置步为空
func (j *Intersection) PerformStep() []*entity.Vehicle {
	phase := phaseOf(j.timer, j.duration, j.extended)
	log.Debugf("step: phase=%v road=%d strategy=%d timer=%d", phase, j.roadIndex, j.strategyIndex, j.timer)

	moved := make([]*entity.Vehicle, 0)
	switch phase {
	case PhaseEnteringGreen:
		j.switchToGreenLights()
		moved = j.moveVehicles()
	case PhaseExtensionCheck:
		j.maybeExtendGreenLight()
		moved = j.moveVehicles()
	case PhaseEnteringYellow:
		j.switchToYellowLights()
	case PhaseResetting:
		j.resetCycle()
	case PhaseHolding:
		moved = j.moveVehicles()
		j.timer--
	}
	return moved
}

// moveVehicles 所有道路放行并提交移除
// 说明：先让所有道路基于本步开始时的队列做决策，再统一提交移除
func (j *Intersection) moveVehicles() []*entity.Vehicle {
	moved := make([]*entity.Vehicle, 0)
	for i, r := range j.roads {
		moved = append(moved, r.MoveVehicles(j.canReleaseBuffer(i))...)
	}
	for _, r := range j.roads {
		r.FinalizeRemovingMovedVehicles()
	}
	if len(moved) > 0 {
		log.Debugf("%d vehicles crossed", len(moved))
	}
	return moved
}

// canReleaseBuffer 第i条道路的左转缓冲区本步能否释放
// 说明：仅单车道路口需要判断对向道路队首车辆是否冲突
func (j *Intersection) canReleaseBuffer(i int) bool {
	if j.numberOfLanes == 1 {
		return j.roads[(i+2)%len(j.roads)].CanReleaseOppositeRoadBuffer()
	}
	return true
}

// maybeExtendGreenLight 激活车道排队数超过绿灯时长一半时延长绿灯，每周期最多一次
func (j *Intersection) maybeExtendGreenLight() {
	threshold := j.duration / 2
	if !j.extended && lo.SomeBy(j.roads[:], func(r entity.IRoad) bool {
		return r.ShouldExtendGreenLight(threshold)
	}) {
		j.timer += j.extension
		j.extended = true
		log.Debugf("green light extended by %d", j.extension)
	}
	j.timer--
}

// switchToGreenLights 进入绿灯
// 算法说明：
// 1. 当前道路按当前策略激活车道组
// 2. 策略不是全转向策略或为单车道路口时，对向道路按相同策略激活
// 3. 左右相邻道路激活右转车道组，车道数小于3时由右转箭头灯控制
// 4. 所有激活车道的信号灯进入下一状态（红->绿，灭->亮）
func (j *Intersection) switchToGreenLights() {
	turns := j.strategies[j.strategyIndex]
	n := len(j.roads)
	j.roads[j.roadIndex].AddToActiveLanes(turns, false)
	if j.strategyIndex != 0 || j.numberOfLanes == 1 {
		j.roads[(j.roadIndex+2)%n].AddToActiveLanes(turns, false)
	}

	rightArrow := j.numberOfLanes < 3
	j.roads[(j.roadIndex-1+n)%n].AddToActiveLanes([]entity.Turn{entity.TurnRight}, rightArrow)
	j.roads[(j.roadIndex+1)%n].AddToActiveLanes([]entity.Turn{entity.TurnRight}, rightArrow)

	j.lightsNextState()
	log.Debugf("green: road %v strategy %v", j.roads[j.roadIndex].Direction(), turns)
	j.timer--
}

// switchToYellowLights 进入黄灯，箭头灯同时熄灭
func (j *Intersection) switchToYellowLights() {
	j.lightsNextState()
	j.timer--
}

func (j *Intersection) lightsNextState() {
	for _, r := range j.roads {
		r.ActiveTrafficLightsNextState()
		r.ActiveRightArrowLightsNextState()
	}
}

// resetCycle 周期结束
// 功能：激活车道的主信号灯转为红灯，清空激活车道，重置计时器，切换到下一策略；
// 策略循环结束时切换到下一条道路
func (j *Intersection) resetCycle() {
	for _, r := range j.roads {
		r.ActiveTrafficLightsNextState()
		r.ClearActiveLanes()
	}
	j.timer = j.duration
	j.extended = false

	j.strategyIndex = (j.strategyIndex + 1) % len(j.strategies)
	if j.strategyIndex == 0 {
		j.roadIndex = (j.roadIndex + 1) % len(j.roads)
	}
	log.Debugf("cycle reset: next road %d strategy %d", j.roadIndex, j.strategyIndex)
}
