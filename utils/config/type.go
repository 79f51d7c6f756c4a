package config

// StoragePath MongoDB中的数据位置
type StoragePath struct {
	DB  string `yaml:"db"`  // 数据库名
	Col string `yaml:"col"` // 集合名
}

// GetDb 获取数据库名
func (p StoragePath) GetDb() string {
	return p.DB
}

// GetColl 获取集合名
func (p StoragePath) GetColl() string {
	return p.Col
}

// Storage 指定命令输入与步进结果输出所在MongoDB的配置项
// 说明：Input/Output为空时对应数据使用文件
type Storage struct {
	URI    string       `yaml:"uri"`              // MongoDB连接字符串
	Input  *StoragePath `yaml:"input,omitempty"`  // 命令序列
	Output *StoragePath `yaml:"output,omitempty"` // 步进结果
}

// Control 路口仿真控制配置
// 功能：定义车道划分、绿灯计时与命令类型字符串
type Control struct {
	NumberOfLanes               int     `yaml:"numberOfLanes"`               // 每条道路的车道数
	GreenLightDuration          int     `yaml:"greenLightDuration"`          // 绿灯时长（步）
	GreenLightExtension         int     `yaml:"greenLightExtension"`         // 绿灯延长时长（步）
	TurnLanesPercentage         float64 `yaml:"turnLanesPercentage"`         // 转向车道比例，车道数大于2时使用
	AddVehicleCommandString     string  `yaml:"addVehicleCommandString"`     // 添加车辆命令的类型字符串
	SimulationStepCommandString string  `yaml:"simulationStepCommandString"` // 步进命令的类型字符串
}

// Config 配置文件的根结构
// 说明：控制配置位于顶层，与JSON格式的配置文件保持兼容
type Config struct {
	Control `yaml:",inline"`
	Storage *Storage `yaml:"storage,omitempty"` // MongoDB输入输出
}
