package entity

import (
	"fmt"
	"strings"
)

// Direction 路口方位（道路的来车方向/车辆的目的方向）
type Direction int32

// 方位常量
const (
	North Direction = iota // 北
	South                  // 南
	East                   // 东
	West                   // 西
)

// Directions 全部方位，按声明顺序
var Directions = []Direction{North, South, East, West}

var directionNames = map[Direction]string{
	North: "north",
	South: "south",
	East:  "east",
	West:  "west",
}

// ParseDirection 解析方位名称
// 功能：将方位名称（大小写不敏感）转换为Direction
// 参数：s-方位名称，如"north"、"sOuth"
// 返回：对应方位；无法识别时返回ErrInvalidDirection
func ParseDirection(s string) (Direction, error) {
	name := strings.ToLower(s)
	for d, n := range directionNames {
		if n == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: cannot map %q to a direction", ErrInvalidDirection, s)
}

func (d Direction) String() string {
	if n, ok := directionNames[d]; ok {
		return n
	}
	return fmt.Sprintf("Direction(%d)", int32(d))
}

// Left 从该方位驶入的车辆左转后驶向的方位
func (d Direction) Left() Direction {
	switch d {
	case North:
		return East
	case South:
		return West
	case East:
		return South
	default:
		return North
	}
}

// Right 从该方位驶入的车辆右转后驶向的方位
func (d Direction) Right() Direction {
	switch d {
	case North:
		return West
	case South:
		return East
	case East:
		return North
	default:
		return South
	}
}

// Opposite 对向方位（直行的目的方位）
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}

// TurnTo 计算从该方位驶入、驶向dst的车辆的转向
// 功能：按目的方位对车辆进行转向分类
// 参数：dst-目的方位
// 返回：转向类型；目的方位与来车方位相同（掉头）时返回ErrInvalidDestination
func (d Direction) TurnTo(dst Direction) (Turn, error) {
	switch dst {
	case d.Left():
		return TurnLeft, nil
	case d.Opposite():
		return TurnStraight, nil
	case d.Right():
		return TurnRight, nil
	}
	return 0, fmt.Errorf("%w: u-turn from %v to %v is not allowed", ErrInvalidDestination, d, dst)
}

// UnmarshalText 支持JSON/YAML中以名称表示方位
func (d *Direction) UnmarshalText(text []byte) error {
	v, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalText 以小写名称输出方位
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
