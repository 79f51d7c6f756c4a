package clock

import "fmt"

// Clock 仿真步计数器
// 功能：记录一次仿真已经执行的步数与处理过的命令数
// 说明：路口仿真只由外部的step命令推进，没有物理时间
type Clock struct {
	InternalStep int32 // 已执行的步数
	Commands     int64 // 已处理的命令数
}

// New 创建步计数器
func New() *Clock {
	c := &Clock{}
	c.Init()
	return c
}

// Init 重置计数
func (c *Clock) Init() {
	c.InternalStep = 0
	c.Commands = 0
}

// Tick 记录处理了一条命令
func (c *Clock) Tick() {
	c.Commands++
}

// Step 推进一步，返回推进后的步数
func (c *Clock) Step() int32 {
	c.InternalStep++
	return c.InternalStep
}

// String 获取计数器的字符串表示
func (c *Clock) String() string {
	return fmt.Sprintf("step %d (%d commands)", c.InternalStep, c.Commands)
}
