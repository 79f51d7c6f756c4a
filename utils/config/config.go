package config

import (
	"errors"
	"fmt"

	"github.com/tsinghua-fib-lab/intersection-sim/entity"
	"gopkg.in/yaml.v2"
)

// ErrInvalidConfig 配置错误，所有配置校验错误均包装该错误
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultControl 默认控制配置
func DefaultControl() Control {
	return Control{
		NumberOfLanes:               1,
		GreenLightDuration:          6,
		GreenLightExtension:         3,
		TurnLanesPercentage:         0.5,
		AddVehicleCommandString:     "addVehicle",
		SimulationStepCommandString: "step",
	}
}

// Default 默认配置，不使用MongoDB
func Default() Config {
	return Config{Control: DefaultControl()}
}

// Load 解析配置文件
// 功能：在默认配置的基础上解析YAML或JSON格式的配置，未出现的字段保持默认值
// 参数：data-配置文件内容
// 返回：配置对象；存在未知字段或格式错误时返回错误
func Load(data []byte) (Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return c, nil
}

// Validate 校验配置
// 返回：第一个不满足的约束，错误同时包装ErrInvalidConfig
func (c Config) Validate() error {
	if err := c.Control.Validate(); err != nil {
		return err
	}
	if c.Storage != nil && c.Storage.URI == "" && (c.Storage.Input != nil || c.Storage.Output != nil) {
		return fmt.Errorf("%w: storage uri must be set when storage input or output is used", ErrInvalidConfig)
	}
	return nil
}

// Validate 校验控制配置
// 算法说明：按以下顺序检查
// 1. 车道数至少为1
// 2. 车道数大于2时转向车道比例必须在(0,1]之间，且两侧转向车道之外至少保留一条直行车道
// 3. 绿灯时长至少为4
// 4. 绿灯延长时长非负
// 5. 两种命令类型字符串不同
func (c Control) Validate() error {
	n, p := c.NumberOfLanes, c.TurnLanesPercentage
	switch {
	case n < 1:
		return fmt.Errorf("%w: %w", ErrInvalidConfig, entity.ErrInvalidLaneCount)
	case n > 2 && float64(n)*p <= 0:
		return fmt.Errorf("%w: %w: number of turn lanes must be at least 1", ErrInvalidConfig, entity.ErrInvalidTurnLaneConfig)
	case n > 2 && p > 1:
		return fmt.Errorf("%w: %w: turn lanes percentage must not exceed 1", ErrInvalidConfig, entity.ErrInvalidTurnLaneConfig)
	case n > 2 && 2*entity.TurnLaneCount(n, p) >= n:
		return fmt.Errorf("%w: %w: no straight lane left out of %d", ErrInvalidConfig, entity.ErrInvalidTurnLaneConfig, n)
	case c.GreenLightDuration < 4:
		return fmt.Errorf("%w: green light duration must be greater than 3", ErrInvalidConfig)
	case c.GreenLightExtension < 0:
		return fmt.Errorf("%w: green light extension must be greater or equal to 0", ErrInvalidConfig)
	case c.AddVehicleCommandString == c.SimulationStepCommandString:
		return fmt.Errorf("%w: command strings must be different", ErrInvalidConfig)
	}
	return nil
}
