package types

// 默认参数常量定义
const (
	Epsilon       = 1e-5 // 元件值最小有效量, 浮点误差内视为零
	MaxPassFactor = 1    // 化简轮次上限系数, 上限 = 系数 × 初始元件数
)
