// 车道信号灯：主信号灯（绿-黄-红循环）与右转箭头灯（亮-灭切换）
package trafficlight

import "fmt"

// Family 信号灯状态族，一个信号灯在创建时确定状态族且不再改变
type Family int32

const (
	FamilyTraffic    Family = iota // 主信号灯
	FamilyRightArrow               // 右转箭头灯
)

// State 信号灯状态
type State int32

const (
	Green  State = iota // 绿灯
	Yellow              // 黄灯
	Red                 // 红灯
	On                  // 箭头灯亮
	Off                 // 箭头灯灭
)

func (s State) String() string {
	switch s {
	case Green:
		return "GREEN"
	case Yellow:
		return "YELLOW"
	case Red:
		return "RED"
	case On:
		return "ON"
	case Off:
		return "OFF"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Family 状态所属的状态族
func (s State) Family() Family {
	if s == On || s == Off {
		return FamilyRightArrow
	}
	return FamilyTraffic
}

// Next 状态族内的下一状态
// 功能：主信号灯按GREEN->YELLOW->RED->GREEN循环，箭头灯在ON/OFF之间切换
func (s State) Next() State {
	switch s {
	case Green:
		return Yellow
	case Yellow:
		return Red
	case Red:
		return Green
	case On:
		return Off
	case Off:
		return On
	}
	panic(fmt.Sprintf("trafficlight: unknown state %d", int32(s)))
}

// Blocking 该状态下车道是否禁止放行
// 说明：黄灯与箭头灯熄灭时车辆保持排队；红灯车道不会被激活，因此不在此处判断
func (s State) Blocking() bool {
	return s == Yellow || s == Off
}

// Light 信号灯
type Light struct {
	state State
}

// New 创建信号灯
// 参数：initial-初始状态，同时决定信号灯的状态族
// 返回：信号灯实例
func New(initial State) *Light {
	return &Light{state: initial}
}

// State 当前状态
func (l *Light) State() State {
	return l.state
}

// Family 信号灯所属状态族
func (l *Light) Family() Family {
	return l.state.Family()
}

// NextState 进入下一状态
func (l *Light) NextState() {
	l.state = l.state.Next()
}
