package indicators

import "errors"

var (
	// ErrUnknownIndicator 未注册的指标名
	ErrUnknownIndicator = errors.New("unknown indicator")

	// ErrInvalidPeriod 无效周期错误
	ErrInvalidPeriod = errors.New("invalid period, must be greater than 0")

	// ErrInvalidMultiplier 无效倍数错误
	ErrInvalidMultiplier = errors.New("invalid multiplier, must be greater than 0")
)
