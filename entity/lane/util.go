package lane

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/intersection-sim/entity"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/container"
)

// laneList 车道车辆队列
// 功能：先进先出的车辆队列，支持缓冲式删除操作
// 说明：删除先写入removeBuffer，在prepare阶段统一提交，保证同一步内所有车道基于一致的队列状态做决策
type laneList struct {
	list         *container.List[*entity.Vehicle]
	removeBuffer []*container.ListNode[*entity.Vehicle]
}

// newLaneList 创建新的车道队列
// 参数：id-队列标识符，用于调试和日志
func newLaneList(id string) laneList {
	return laneList{
		list: &container.List[*entity.Vehicle]{
			ID: id,
		},
		removeBuffer: make([]*container.ListNode[*entity.Vehicle], 0),
	}
}

// prepare 提交阶段，将缓冲区中的删除操作应用到队列并清空缓冲区
func (l *laneList) prepare() {
	for _, node := range l.removeBuffer {
		l.list.Remove(node)
	}
	l.removeBuffer = l.removeBuffer[:0]
}

// add 车辆在队尾排队
func (l *laneList) add(v *entity.Vehicle) {
	l.list.PushBack(container.NewNode(v))
}

// remove 标记节点待移除
// 说明：验证节点的父节点关系，同一节点重复标记只记录一次
func (l *laneList) remove(node *container.ListNode[*entity.Vehicle]) {
	if node.Parent() != l.list {
		log.Panicf("remove node %v (parent=%v) from wrong parent %+v", node, node.Parent(), l.list)
	}
	if lo.Contains(l.removeBuffer, node) {
		return
	}
	l.removeBuffer = append(l.removeBuffer, node)
}

// front 队首节点，空队列返回nil
func (l *laneList) front() *container.ListNode[*entity.Vehicle] {
	return l.list.First()
}

// len 排队车辆数（包含已标记待移除的车辆）
func (l *laneList) len() int {
	return l.list.Len()
}

// pending 待移除车辆数
func (l *laneList) pending() int {
	return len(l.removeBuffer)
}
