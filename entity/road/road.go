package road

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/intersection-sim/entity"
	"github.com/tsinghua-fib-lab/intersection-sim/entity/junction/trafficlight"
	"github.com/tsinghua-fib-lab/intersection-sim/entity/lane"
)

// Road 道路实体
// 功能：表示从某一方位驶入路口的道路，按转向将车道分为左转/直行/右转三组，
// 为新到达的车辆分配车道，并持有全路共享的单车位左转缓冲区
type Road struct {
	source        entity.Direction
	numberOfLanes int

	leftLanes     []entity.ILane // 左转车道，按从左到右排序
	straightLanes []entity.ILane // 直行车道，按从左到右排序
	rightLanes    []entity.ILane // 右转车道，从最右侧车道开始向内排序

	leftTurnBuffer entity.LeftTurnBuffer

	activeLanes           []entity.ILane // 受主信号灯控制的激活车道
	activeRightArrowLanes []entity.ILane // 受右转箭头灯控制的激活车道
}

// New 创建道路并划分车道
// 功能：按车道数与转向车道比例构造车道并划分左转/直行/右转车道组
// 参数：source-来车方位，numberOfLanes-车道数，turnLanesPercentage-转向车道比例（仅车道数大于2时使用）
// 返回：道路实例；车道数非法返回ErrInvalidLaneCount，转向车道配置非法返回ErrInvalidTurnLaneConfig
// 算法说明：
// 1. 单车道：唯一车道同时属于三组，带主信号灯与右转箭头灯
// 2. 双车道：0号车道专用左转（仅主信号灯），1号车道直行与右转共用（主信号灯与右转箭头灯）
// 3. 多车道：最左侧turnLanes条车道左转，最右侧turnLanes条车道右转，其余直行，均只有主信号灯
func New(source entity.Direction, numberOfLanes int, turnLanesPercentage float64) (*Road, error) {
	r := &Road{
		source:                source,
		numberOfLanes:         numberOfLanes,
		activeLanes:           make([]entity.ILane, 0),
		activeRightArrowLanes: make([]entity.ILane, 0),
	}
	switch {
	case numberOfLanes < 1:
		return nil, fmt.Errorf("%w: got %d", entity.ErrInvalidLaneCount, numberOfLanes)
	case numberOfLanes == 1:
		l := r.newLane(0, true)
		r.leftLanes = []entity.ILane{l}
		r.straightLanes = []entity.ILane{l}
		r.rightLanes = []entity.ILane{l}
	case numberOfLanes == 2:
		r.leftLanes = []entity.ILane{r.newLane(0, false)}
		straightAndRight := r.newLane(1, true)
		r.straightLanes = []entity.ILane{straightAndRight}
		r.rightLanes = []entity.ILane{straightAndRight}
	default:
		if float64(numberOfLanes)*turnLanesPercentage <= 0 || turnLanesPercentage > 1 {
			return nil, fmt.Errorf("%w: turn lanes percentage %v with %d lanes",
				entity.ErrInvalidTurnLaneConfig, turnLanesPercentage, numberOfLanes)
		}
		turnLanes := entity.TurnLaneCount(numberOfLanes, turnLanesPercentage)
		if 2*turnLanes >= numberOfLanes {
			return nil, fmt.Errorf("%w: %d turn lanes per side leave no straight lane out of %d",
				entity.ErrInvalidTurnLaneConfig, turnLanes, numberOfLanes)
		}
		for i := 0; i < turnLanes; i++ {
			r.leftLanes = append(r.leftLanes, r.newLane(i, false))
			r.rightLanes = append(r.rightLanes, r.newLane(numberOfLanes-i-1, false))
		}
		for i := turnLanes; i < numberOfLanes-turnLanes; i++ {
			r.straightLanes = append(r.straightLanes, r.newLane(i, false))
		}
	}
	log.Debugf("road %v: %d left, %d straight, %d right lanes",
		source, len(r.leftLanes), len(r.straightLanes), len(r.rightLanes))
	return r, nil
}

// newLane 创建位于position的车道，所有信号灯初始为红灯/箭头灯熄灭
func (r *Road) newLane(position int, withRightArrow bool) entity.ILane {
	var arrow *trafficlight.Light
	if withRightArrow {
		arrow = trafficlight.New(trafficlight.Off)
	}
	return lane.New(fmt.Sprintf("%v-%d", r.source, position), r.source, trafficlight.New(trafficlight.Red), arrow)
}

func (r *Road) String() string {
	return fmt.Sprintf("Road{Source:%v, Lanes:%d}", r.source, r.numberOfLanes)
}

// Direction 道路的来车方位
func (r *Road) Direction() entity.Direction {
	return r.source
}

// LeftLanes 左转车道组
func (r *Road) LeftLanes() []entity.ILane {
	return r.leftLanes
}

// StraightLanes 直行车道组
func (r *Road) StraightLanes() []entity.ILane {
	return r.straightLanes
}

// RightLanes 右转车道组
func (r *Road) RightLanes() []entity.ILane {
	return r.rightLanes
}

// ActiveLanes 受主信号灯控制的激活车道
func (r *Road) ActiveLanes() []entity.ILane {
	return r.activeLanes
}

// ActiveRightArrowLanes 受右转箭头灯控制的激活车道
func (r *Road) ActiveRightArrowLanes() []entity.ILane {
	return r.activeRightArrowLanes
}

// LeftTurnBuffer 道路共享的左转缓冲区
func (r *Road) LeftTurnBuffer() *entity.LeftTurnBuffer {
	return &r.leftTurnBuffer
}

// VehicleCount 道路上等待的车辆总数，包含左转缓冲区中的车辆
func (r *Road) VehicleCount() int {
	lanes := lo.Uniq(lo.Flatten([][]entity.ILane{r.leftLanes, r.straightLanes, r.rightLanes}))
	count := lo.SumBy(lanes, func(l entity.ILane) int { return l.VehicleCount() })
	if !r.leftTurnBuffer.Empty() {
		count++
	}
	return count
}

// lanesOf 转向对应的车道组
func (r *Road) lanesOf(turn entity.Turn) []entity.ILane {
	switch turn {
	case entity.TurnLeft:
		return r.leftLanes
	case entity.TurnStraight:
		return r.straightLanes
	case entity.TurnRight:
		return r.rightLanes
	}
	log.Panicf("road %v: unknown turn %v", r.source, turn)
	return nil
}

// AddVehicle 为车辆分配车道
// 功能：按车辆目的方位选择车道组，在组内选择排队车辆最少的车道（并列时取组内靠前者）并在队尾排队
// 参数：v-车辆
// 返回：目的方位与来车方位相同（掉头）时返回ErrInvalidDestination
func (r *Road) AddVehicle(v *entity.Vehicle) error {
	turn, err := r.source.TurnTo(v.Destination)
	if err != nil {
		return fmt.Errorf("vehicle %s: %w", v.ID, err)
	}
	target := lo.MinBy(r.lanesOf(turn), func(a, b entity.ILane) bool {
		return a.VehicleCount() < b.VehicleCount()
	})
	target.AddVehicle(v)
	log.Debugf("vehicle %s queued on lane %s (%v)", v.ID, target.ID(), turn)
	return nil
}

// AddToActiveLanes 激活指定转向的车道组
// 参数：turns-转向集合，rightArrow-是否作为右转箭头灯控制的车道激活
// 说明：车道按集合语义加入，保持首次加入的顺序
func (r *Road) AddToActiveLanes(turns []entity.Turn, rightArrow bool) {
	lanes := lo.Uniq(lo.FlatMap(turns, func(t entity.Turn, _ int) []entity.ILane {
		return r.lanesOf(t)
	}))
	target := &r.activeLanes
	if rightArrow {
		target = &r.activeRightArrowLanes
	}
	for _, l := range lanes {
		if !lo.Contains(*target, l) {
			*target = append(*target, l)
		}
	}
}

// ClearActiveLanes 清空两类激活车道
func (r *Road) ClearActiveLanes() {
	r.activeLanes = r.activeLanes[:0]
	r.activeRightArrowLanes = r.activeRightArrowLanes[:0]
}

// ActiveTrafficLightsNextState 激活车道的主信号灯进入下一状态
func (r *Road) ActiveTrafficLightsNextState() {
	for _, l := range r.activeLanes {
		l.TrafficLightNextState()
	}
}

// ActiveRightArrowLightsNextState 激活车道的右转箭头灯进入下一状态
func (r *Road) ActiveRightArrowLightsNextState() {
	for _, l := range r.activeRightArrowLanes {
		l.RightArrowLightNextState()
	}
}

// ShouldExtendGreenLight 是否有激活车道的排队车辆数超过阈值
func (r *Road) ShouldExtendGreenLight(threshold int) bool {
	return lo.SomeBy(r.activeLanes, func(l entity.ILane) bool {
		return l.VehicleCount() > threshold
	})
}

// MoveVehicles 放行本步可以通过路口的车辆
// 功能：依次让主信号灯激活车道、箭头灯激活车道的队首车辆尝试通过路口
// 参数：canReleaseBuffer-左转缓冲区中的车辆本步能否通过
// 返回：按通过顺序排列的车辆
// 说明：每个车道尝试之后立即检查左转缓冲区，使左转车辆可以在进入缓冲区的同一次调用中通过
func (r *Road) MoveVehicles(canReleaseBuffer bool) []*entity.Vehicle {
	moved := make([]*entity.Vehicle, 0)
	moved = r.processLanes(r.activeLanes, false, canReleaseBuffer, moved)
	moved = r.processLanes(r.activeRightArrowLanes, true, canReleaseBuffer, moved)
	return moved
}

func (r *Road) processLanes(lanes []entity.ILane, rightArrow, canReleaseBuffer bool, moved []*entity.Vehicle) []*entity.Vehicle {
	for _, l := range lanes {
		if v := l.MoveVehicle(&r.leftTurnBuffer, rightArrow); v != nil {
			moved = append(moved, v)
		}
		if !r.leftTurnBuffer.Empty() && canReleaseBuffer {
			moved = append(moved, r.leftTurnBuffer.Pop())
		}
	}
	return moved
}

// FinalizeRemovingMovedVehicles 提交所有激活车道本步的车辆移除
func (r *Road) FinalizeRemovingMovedVehicles() {
	for _, l := range r.activeLanes {
		l.RemoveVehicles()
	}
	for _, l := range r.activeRightArrowLanes {
		l.RemoveVehicles()
	}
}

// CanReleaseOppositeRoadBuffer 对向道路能否释放其左转缓冲区
// 说明：本道路最左侧左转车道为空或其队首车辆同样左转时不会与对向左转车辆冲突
func (r *Road) CanReleaseOppositeRoadBuffer() bool {
	return r.leftLanes[0].NextVehicleTurnsLeft()
}
