package entity

// Manager依赖倒置

// entity/road/manager.go的依赖倒置
type IRoadManager interface {
	// 以首辆车的来车方位为基准初始化四条道路
	Init(primary Direction, numberOfLanes int, turnLanesPercentage float64) error

	// 输入方位，查找Road，如果不存在则panic
	Get(d Direction) IRoad
	// 输入方位，查找Road，如果不存在则返回error
	GetOrError(d Direction) (IRoad, error)

	Roads() [4]IRoad   // 按固定循环顺序返回四条道路
	VehicleCount() int // 所有道路上等待的车辆总数
}
