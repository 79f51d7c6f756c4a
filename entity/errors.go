package entity

import "errors"

// 模型层错误，调用方使用errors.Is判断
var (
	ErrInvalidDirection      = errors.New("invalid direction")
	ErrInvalidDestination    = errors.New("invalid destination")
	ErrInvalidLaneCount      = errors.New("number of lanes must be greater than 0")
	ErrInvalidTurnLaneConfig = errors.New("invalid turn lane configuration")
)
