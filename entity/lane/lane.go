package lane

import (
	"fmt"

	"github.com/tsinghua-fib-lab/intersection-sim/entity"
	"github.com/tsinghua-fib-lab/intersection-sim/entity/junction/trafficlight"
)

// Lane 车道实体
// 功能：表示道路上的一条车道，维护排队车辆并按信号灯状态逐车放行
type Lane struct {
	id     string
	source entity.Direction // 所在道路的来车方位

	trafficLight    *trafficlight.Light // 主信号灯
	rightArrowLight *trafficlight.Light // 右转箭头灯，可为nil

	vehicles laneList
}

// New 创建车道
// 参数：id-车道ID，source-所在道路的来车方位，trafficLight-主信号灯，rightArrowLight-右转箭头灯（可为nil）
// 返回：车道实例
func New(id string, source entity.Direction, trafficLight, rightArrowLight *trafficlight.Light) *Lane {
	if trafficLight == nil {
		log.Panicf("lane %s: traffic light is required", id)
	}
	return &Lane{
		id:              id,
		source:          source,
		trafficLight:    trafficLight,
		rightArrowLight: rightArrowLight,
		vehicles:        newLaneList(fmt.Sprintf("lane %s vehicles", id)),
	}
}

func (l *Lane) String() string {
	return fmt.Sprintf("Lane{ID:%s, Vehicles:%d}", l.id, l.vehicles.len())
}

// ID 获取车道ID
func (l *Lane) ID() string {
	return l.id
}

// TrafficLight 获取主信号灯
func (l *Lane) TrafficLight() *trafficlight.Light {
	return l.trafficLight
}

// RightArrowLight 获取右转箭头灯，无箭头灯时返回nil
func (l *Lane) RightArrowLight() *trafficlight.Light {
	return l.rightArrowLight
}

// VehicleCount 排队车辆数
func (l *Lane) VehicleCount() int {
	return l.vehicles.len()
}

// Vehicles 按排队顺序返回所有车辆
func (l *Lane) Vehicles() []*entity.Vehicle {
	return l.vehicles.list.Values()
}

// FrontVehicle 队首车辆，空队列返回nil
func (l *Lane) FrontVehicle() *entity.Vehicle {
	if node := l.vehicles.front(); node != nil {
		return node.Value
	}
	return nil
}

// AddVehicle 车辆在队尾排队
func (l *Lane) AddVehicle(v *entity.Vehicle) {
	l.vehicles.add(v)
}

// NextVehicleTurnsLeft 队首车辆是否左转，空队列视为true
func (l *Lane) NextVehicleTurnsLeft() bool {
	v := l.FrontVehicle()
	return v == nil || v.Destination == l.source.Left()
}

// MoveVehicle 尝试让队首车辆通过路口
// 功能：按信号灯状态与车辆转向决定队首车辆是否放行
// 参数：buffer-所在道路共享的左转缓冲区，rightArrow-是否为右转箭头灯放行
// 返回：本次直接通过路口的车辆，没有则返回nil
// 算法说明：
// 1. 队列为空则不放行
// 2. 箭头灯放行只服务右转车辆，车道无箭头灯时不放行
// 3. 信号灯为黄灯或箭头灯熄灭时不放行
// 4. 左转车辆在缓冲区为空时进入缓冲区（本次不计为通过），缓冲区已满则继续等待
// 5. 直行与右转车辆标记待移除并返回
// 说明：所有移除都只做标记，由RemoveVehicles统一提交
func (l *Lane) MoveVehicle(buffer *entity.LeftTurnBuffer, rightArrow bool) *entity.Vehicle {
	node := l.vehicles.front()
	if node == nil {
		return nil
	}
	v := node.Value
	light := l.trafficLight
	if rightArrow {
		if v.Destination != l.source.Right() || l.rightArrowLight == nil {
			return nil
		}
		light = l.rightArrowLight
	}
	if light.State().Blocking() {
		return nil
	}
	if v.Destination == l.source.Left() {
		if buffer.Put(v) {
			l.vehicles.remove(node)
		}
		return nil
	}
	l.vehicles.remove(node)
	return v
}

// RemoveVehicles 提交本步所有待移除车辆
func (l *Lane) RemoveVehicles() {
	if n := l.vehicles.pending(); n > 0 {
		log.Debugf("lane %s: remove %d vehicles", l.id, n)
	}
	l.vehicles.prepare()
}

// TrafficLightNextState 主信号灯进入下一状态
func (l *Lane) TrafficLightNextState() {
	l.trafficLight.NextState()
	log.Debugf("lane %s traffic light state: %v", l.id, l.trafficLight.State())
}

// RightArrowLightNextState 右转箭头灯进入下一状态，无箭头灯时不做任何操作
func (l *Lane) RightArrowLightNextState() {
	if l.rightArrowLight == nil {
		return
	}
	l.rightArrowLight.NextState()
	log.Debugf("lane %s right arrow light state: %v", l.id, l.rightArrowLight.State())
}
