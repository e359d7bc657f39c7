package types

import "errors"

// 元件构造错误
var (
	ErrNonPositiveResistance = errors.New("resistance must be positive and non-zero")
	ErrZeroVoltage           = errors.New("voltage must be non-zero")
	ErrSameNode              = errors.New("components must be connected to two different nodes")
)

// 图结构错误
var (
	ErrUnknownNode   = errors.New("unknown node")
	ErrDuplicateNode = errors.New("duplicate node")
	ErrNotFound      = errors.New("component not found")
)

// 化简错误
var (
	ErrEmptyGroup          = errors.New("empty resistor group")
	ErrUnsupportedTopology = errors.New("network is neither series nor parallel")
	ErrNoResistance        = errors.New("no resistance left in circuit")
	ErrEmptyCircuit        = errors.New("circuit has no components")
	ErrSourcePlacement     = errors.New("voltage sources are not in a single series loop")
)
