package task

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/intersection-sim/clock"
	"github.com/tsinghua-fib-lab/intersection-sim/entity"
	"github.com/tsinghua-fib-lab/intersection-sim/entity/junction"
	"github.com/tsinghua-fib-lab/intersection-sim/entity/road"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/config"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/input"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/output"
)

// 输入/逻辑错误，出错的命令之前的步进结果仍然保留在Output中
var (
	ErrUnknownCommand   = errors.New("unknown command type")
	ErrMissingStartRoad = errors.New("first add vehicle command must have startRoad")
	ErrMissingVehicleID = errors.New("add vehicle command must have vehicleId")
	ErrMissingEndRoad   = errors.New("add vehicle command must have endRoad")
)

// Context 仿真任务上下文
// 功能：包含一次路口仿真的所有状态，不同Context之间不共享任何可变状态
// 说明：道路顺序由第一条添加车辆命令的来车方位决定，确定之前不能步进
type Context struct {
	control  config.Control
	commands []input.Command

	// 步计数器
	clock *clock.Clock
	// Road管理器
	roadManager entity.IRoadManager
	// 路口信控
	intersection *junction.Intersection
	// 是否已确定道路顺序
	initialized bool

	output  *output.Output
	entered int // 进入路口的车辆数
	crossed int // 通过路口的车辆数
}

// Status 仿真状态
type Status struct {
	Step        int32             // 已执行的步数
	Initialized bool              // 是否已确定道路顺序
	Entered     int               // 进入路口的车辆数
	Crossed     int               // 通过路口的车辆数
	Queued      int               // 正在等待的车辆数（含左转缓冲区）
	Junction    junction.Snapshot // 信控状态
}

// NewContext 创建批处理仿真任务
// 功能：校验配置，按第一条添加车辆命令的来车方位建立道路与路口
// 参数：c-配置，commands-命令序列
// 返回：任务上下文；配置错误返回ErrInvalidConfig，找不到首个来车方位返回ErrMissingStartRoad
func NewContext(c config.Config, commands []input.Command) (*Context, error) {
	ctx, err := newContext(c)
	if err != nil {
		return nil, err
	}
	ctx.commands = commands

	first, ok := lo.Find(commands, func(cmd input.Command) bool {
		return cmd.Type == c.AddVehicleCommandString
	})
	if !ok || first.StartRoad == "" {
		return nil, fmt.Errorf("%w: first %s command has no startRoad", ErrMissingStartRoad, c.AddVehicleCommandString)
	}
	primary, err := entity.ParseDirection(first.StartRoad)
	if err != nil {
		return nil, err
	}
	if err := ctx.init(primary); err != nil {
		return nil, err
	}
	return ctx, nil
}

// NewInteractiveContext 创建交互式仿真任务
// 功能：只校验配置，道路顺序由第一次AddVehicle调用决定
func NewInteractiveContext(c config.Config) (*Context, error) {
	return newContext(c)
}

func newContext(c config.Config) (*Context, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Context{
		control:     c.Control,
		clock:       clock.New(),
		roadManager: road.NewManager(),
		output:      output.New(),
	}, nil
}

// init 以primary为基准建立道路与路口
func (ctx *Context) init(primary entity.Direction) error {
	if err := ctx.roadManager.Init(primary, ctx.control.NumberOfLanes, ctx.control.TurnLanesPercentage); err != nil {
		return err
	}
	ctx.intersection = junction.New(ctx.roadManager.Roads(), ctx.control)
	ctx.initialized = true
	log.Infof("intersection ready: primary road %v, %d lanes, green %d(+%d)",
		primary, ctx.control.NumberOfLanes, ctx.control.GreenLightDuration, ctx.control.GreenLightExtension)
	return nil
}

// Clock 步计数器
func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

// RoadManager Road管理器
func (ctx *Context) RoadManager() entity.IRoadManager {
	return ctx.roadManager
}

// Output 到目前为止的步进结果
func (ctx *Context) Output() *output.Output {
	return ctx.output
}

// AddVehicle 添加车辆
// 功能：解析起止方位并将车辆分配到来车方位对应道路的车道上
// 参数：vehicleID-车辆ID，startRoad-来车方位，endRoad-目的方位
// 返回：缺少字段、方位无法解析或掉头时返回错误，此时不添加车辆
func (ctx *Context) AddVehicle(vehicleID, startRoad, endRoad string) error {
	if startRoad == "" {
		if !ctx.initialized {
			return fmt.Errorf("%w: vehicle %s", ErrMissingStartRoad, vehicleID)
		}
		return fmt.Errorf("%w: vehicle %s has no startRoad", entity.ErrInvalidDirection, vehicleID)
	}
	start, err := entity.ParseDirection(startRoad)
	if err != nil {
		return err
	}
	if vehicleID == "" {
		return ErrMissingVehicleID
	}
	if endRoad == "" {
		return fmt.Errorf("%w: vehicle %s", ErrMissingEndRoad, vehicleID)
	}
	end, err := entity.ParseDirection(endRoad)
	if err != nil {
		return err
	}
	if !ctx.initialized {
		if err := ctx.init(start); err != nil {
			return err
		}
	}
	r, err := ctx.roadManager.GetOrError(start)
	if err != nil {
		return err
	}
	if err := r.AddVehicle(&entity.Vehicle{ID: vehicleID, Destination: end}); err != nil {
		return err
	}
	ctx.entered++
	return nil
}

// Status 当前仿真状态
func (ctx *Context) Status() Status {
	s := Status{
		Step:        ctx.clock.InternalStep,
		Initialized: ctx.initialized,
		Entered:     ctx.entered,
		Crossed:     ctx.crossed,
	}
	if ctx.initialized {
		s.Queued = ctx.roadManager.VehicleCount()
		s.Junction = ctx.intersection.Snapshot()
	}
	return s
}
