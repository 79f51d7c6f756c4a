package road

import (
	"errors"
	"fmt"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/intersection-sim/entity"
)

// RoadManager Road管理器
// 功能：管理路口的四条道路，按固定的循环顺序保存并按方位查找
type RoadManager struct {
	data  map[entity.Direction]*Road
	roads [4]*Road
}

// NewManager 创建Road管理器实例
func NewManager() *RoadManager {
	return &RoadManager{
		data: make(map[entity.Direction]*Road),
	}
}

// Init 初始化四条道路
// 功能：以首辆车的来车方位为基准，按primary、primary.Right()、primary.Opposite()、primary.Left()的顺序创建道路
// 参数：primary-基准方位，numberOfLanes-每条道路的车道数，turnLanesPercentage-转向车道比例
// 返回：任一道路创建失败时返回错误
// 说明：使用并行处理创建道路，道路顺序与并行无关
func (m *RoadManager) Init(primary entity.Direction, numberOfLanes int, turnLanesPercentage float64) error {
	order := []entity.Direction{primary, primary.Right(), primary.Opposite(), primary.Left()}
	results := parallel.GoMap(order, func(d entity.Direction) lo.Tuple2[*Road, error] {
		r, err := New(d, numberOfLanes, turnLanesPercentage)
		return lo.T2(r, err)
	})
	if err := errors.Join(lo.Map(results, func(t lo.Tuple2[*Road, error], _ int) error { return t.B })...); err != nil {
		return err
	}
	for i, t := range results {
		m.roads[i] = t.A
	}
	m.data = lo.SliceToMap(m.roads[:], func(r *Road) (entity.Direction, *Road) {
		return r.source, r
	})
	log.Infof("init %d roads with %d lanes each, primary %v", len(m.roads), numberOfLanes, primary)
	return nil
}

// Get 根据方位获取Road实例，如果不存在则panic
func (m *RoadManager) Get(d entity.Direction) entity.IRoad {
	if road, ok := m.data[d]; !ok {
		log.Panicf("no direction %v in road data", d)
		return nil
	} else {
		return road
	}
}

// GetOrError 根据方位获取Road实例（带错误处理）
// 返回：Road实例和错误信息，如果不存在则返回nil和错误
func (m *RoadManager) GetOrError(d entity.Direction) (entity.IRoad, error) {
	if road, ok := m.data[d]; !ok {
		return nil, fmt.Errorf("no direction %v in road data", d)
	} else {
		return road, nil
	}
}

// Roads 按固定循环顺序返回四条道路
func (m *RoadManager) Roads() [4]entity.IRoad {
	var roads [4]entity.IRoad
	for i, r := range m.roads {
		roads[i] = r
	}
	return roads
}

// VehicleCount 所有道路上等待的车辆总数
func (m *RoadManager) VehicleCount() int {
	return lo.SumBy(lo.Values(m.data), func(r *Road) int { return r.VehicleCount() })
}
