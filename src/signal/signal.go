package signal

// Signal 交易信号取值，三选一
type Signal string

const (
	SignalBuy  Signal = "buy"  // 买入
	SignalSell Signal = "sell" // 卖出
	SignalHold Signal = "hold" // 观望
)

// IsValid 检查信号取值是否合法
func (s Signal) IsValid() bool {
	switch s {
	case SignalBuy, SignalSell, SignalHold:
		return true
	}
	return false
}

// SignalModel 单次(标的, 策略)评估的结果记录，构造后不再修改。
// 决策始终由Signal字段承载，Details只用于诊断，不参与决策。
type SignalModel struct {
	Symbol   string  `json:"symbol"`   // 标的代码
	Strategy string  `json:"strategy"` // 策略名称
	Signal   Signal  `json:"signal"`   // buy / sell / hold
	Reason   string  `json:"reason"`   // 信号原因
	Details  Details `json:"details"`  // 诊断明细，有序
}

// NewSignalModel 创建信号记录
func NewSignalModel(symbol, strategy string, sig Signal, reason string, details Details) *SignalModel {
	return &SignalModel{
		Symbol:   symbol,
		Strategy: strategy,
		Signal:   sig,
		Reason:   reason,
		Details:  details,
	}
}
