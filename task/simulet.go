package task

import (
	"flag"
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/intersection-sim/entity"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/input"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/output"
)

const (
	SelfName = "intersection" // 本程序在模拟任务集群中的名字
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
)

// Step 执行一步
// 功能：路口执行一步，记录本步通过路口的车辆
// 返回：本步通过路口的车辆ID；道路顺序尚未确定时返回ErrMissingStartRoad
func (ctx *Context) Step() ([]string, error) {
	if !ctx.initialized {
		return nil, fmt.Errorf("%w: step before any vehicle was added", ErrMissingStartRoad)
	}
	moved := ctx.intersection.PerformStep()
	ids := lo.Map(moved, func(v *entity.Vehicle, _ int) string { return v.ID })
	ctx.output.Append(ids)
	ctx.crossed += len(ids)

	step := ctx.clock.Step()
	log.Debugf("step %d: %v", step, ids)
	if *heartBeatInterval > 0 && step%int32(*heartBeatInterval) == 0 {
		log.Infof("STEP: %d, crossed %d, queued %d", step, ctx.crossed, ctx.roadManager.VehicleCount())
	}
	return ids, nil
}

// execute 执行一条命令
func (ctx *Context) execute(cmd input.Command) error {
	ctx.clock.Tick()
	switch cmd.Type {
	case ctx.control.AddVehicleCommandString:
		return ctx.AddVehicle(cmd.VehicleID, cmd.StartRoad, cmd.EndRoad)
	case ctx.control.SimulationStepCommandString:
		_, err := ctx.Step()
		return err
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Type)
	}
}

// Run 按顺序执行全部命令
// 返回：步进结果；某条命令出错时立即停止，返回此前的结果与错误
func (ctx *Context) Run() (*output.Output, error) {
	for i, cmd := range ctx.commands {
		if err := ctx.execute(cmd); err != nil {
			log.Errorf("command %d (%s) failed: %v", i, cmd.Type, err)
			return ctx.output, fmt.Errorf("command %d: %w", i, err)
		}
	}
	s := ctx.Status()
	log.Infof("engine complete: %d steps, %d vehicles entered, %d crossed, %d queued",
		s.Step, s.Entered, s.Crossed, s.Queued)
	return ctx.output, nil
}
