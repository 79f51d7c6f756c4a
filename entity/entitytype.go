package entity

import (
	"fmt"
	"math"
)

// Turn 车辆在路口的转向
type Turn int32

// 转向常量
const (
	TurnLeft     Turn = iota // 左转
	TurnStraight             // 直行
	TurnRight                // 右转
)

func (t Turn) String() string {
	switch t {
	case TurnLeft:
		return "left"
	case TurnStraight:
		return "straight"
	case TurnRight:
		return "right"
	}
	return fmt.Sprintf("Turn(%d)", int32(t))
}

// Vehicle 车辆
// 功能：表示一辆在某条道路上等待通过路口的车辆
// 说明：车辆在任一时刻只属于一个车道队列或一个左转缓冲区，通过路口后即被丢弃
type Vehicle struct {
	ID          string    // 车辆ID，一次仿真内唯一
	Destination Direction // 目的方位
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("Vehicle{%s -> %v}", v.ID, v.Destination)
}

// LeftTurnBuffer 左转缓冲区
// 功能：道路内所有车道共享的单车位左转等待区，用于保护左转
// 说明：容量为1，同一次MoveVehicles调用内严格按"写入-检查释放"顺序使用
type LeftTurnBuffer struct {
	vehicle *Vehicle
}

// Empty 缓冲区是否为空
func (b *LeftTurnBuffer) Empty() bool {
	return b.vehicle == nil
}

// Put 放入一辆车，缓冲区已满时返回false
func (b *LeftTurnBuffer) Put(v *Vehicle) bool {
	if b.vehicle != nil {
		return false
	}
	b.vehicle = v
	return true
}

// Pop 取出缓冲区中的车辆，为空时返回nil
func (b *LeftTurnBuffer) Pop() *Vehicle {
	v := b.vehicle
	b.vehicle = nil
	return v
}

// Peek 查看缓冲区中的车辆但不取出
func (b *LeftTurnBuffer) Peek() *Vehicle {
	return b.vehicle
}

// entity/lane/lane.go的依赖倒置
type ILane interface {
	String() string

	ID() string                 // 获取车道ID
	VehicleCount() int          // 排队车辆数（包含本步已标记待移除的车辆）
	FrontVehicle() *Vehicle     // 队首车辆，空队列返回nil
	AddVehicle(v *Vehicle)      // 车辆在队尾排队
	NextVehicleTurnsLeft() bool // 队首车辆是否左转（空队列视为true）

	// 尝试让队首车辆通过路口，左转车辆进入buffer，返回本次直接通过的车辆
	MoveVehicle(buffer *LeftTurnBuffer, rightArrow bool) *Vehicle
	RemoveVehicles() // 提交本步所有待移除车辆

	TrafficLightNextState()    // 主信号灯进入下一状态
	RightArrowLightNextState() // 右转箭头灯进入下一状态
}

// entity/road/road.go的依赖倒置
type IRoad interface {
	String() string

	Direction() Direction // 道路的来车方位
	VehicleCount() int    // 道路上等待的车辆总数（含左转缓冲区）

	AddVehicle(v *Vehicle) error // 按目的方位将车辆分配到车道

	AddToActiveLanes(turns []Turn, rightArrow bool) // 激活指定转向的车道组
	ClearActiveLanes()                              // 清空激活车道
	ActiveTrafficLightsNextState()                  // 激活车道的主信号灯进入下一状态
	ActiveRightArrowLightsNextState()               // 激活车道的右转箭头灯进入下一状态
	ShouldExtendGreenLight(threshold int) bool      // 是否有激活车道排队数超过阈值

	MoveVehicles(canReleaseBuffer bool) []*Vehicle // 本步通过路口的车辆
	FinalizeRemovingMovedVehicles()                // 提交本步的车辆移除
	CanReleaseOppositeRoadBuffer() bool            // 对向道路能否释放其左转缓冲区
}

// TurnLaneCount 多车道（车道数大于2）道路每侧的专用转向车道数
// 算法说明：turnLanes = max(floor(ceil(n*p)/2), 1)
func TurnLaneCount(numberOfLanes int, turnLanesPercentage float64) int {
	return max(int(math.Ceil(float64(numberOfLanes)*turnLanesPercentage))/2, 1)
}
