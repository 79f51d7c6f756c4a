package input

import (
	"github.com/google/uuid"
	"github.com/tsinghua-fib-lab/intersection-sim/entity"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/config"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/randengine"
)

var (
	turnWeights     = []float64{0.25, 0.5, 0.25} // 左转、直行、右转
	stepProbability = 0.5                        // 每添加一辆车后插入步进命令的概率
)

// Generate 随机生成命令序列
// 功能：生成可复现的随机负载，用于压力实验
// 参数：control-控制配置（提供命令类型字符串与信控参数），seed-随机种子，vehicles-车辆数
// 返回：命令序列
// 算法说明：
// 1. 每辆车随机选择来车方位，按转向权重选择目的方位，车辆ID由同一随机源生成的UUID
// 2. 每添加一辆车后以stepProbability的概率插入一条步进命令
// 3. 末尾追加足够多的步进命令，使信号灯至少完整轮转一圈
func Generate(control config.Control, seed uint64, vehicles int) []Command {
	engine := randengine.New(seed)
	commands := make([]Command, 0, vehicles*2)
	for i := 0; i < vehicles; i++ {
		start := entity.Directions[engine.Intn(len(entity.Directions))]
		var end entity.Direction
		switch entity.Turn(engine.DiscreteDistribution(turnWeights)) {
		case entity.TurnLeft:
			end = start.Left()
		case entity.TurnStraight:
			end = start.Opposite()
		default:
			end = start.Right()
		}
		id, err := uuid.NewRandomFromReader(engine)
		if err != nil {
			log.Panicf("generate vehicle id: %v", err)
		}
		commands = append(commands, Command{
			Type:      control.AddVehicleCommandString,
			VehicleID: id.String(),
			StartRoad: start.String(),
			EndRoad:   end.String(),
		})
		if engine.PTrue(stepProbability) {
			commands = append(commands, Command{Type: control.SimulationStepCommandString})
		}
	}
	for i := 0; i < drainSteps(control, vehicles); i++ {
		commands = append(commands, Command{Type: control.SimulationStepCommandString})
	}
	log.Infof("generate %d commands for %d vehicles (seed %d)", len(commands), vehicles, seed)
	return commands
}

// drainSteps 末尾追加的步进命令数
func drainSteps(control config.Control, vehicles int) int {
	strategies := min(max(control.NumberOfLanes, 1), 3)
	cycle := control.GreenLightDuration + control.GreenLightExtension + 1
	return vehicles + len(entity.Directions)*strategies*cycle
}
