package id

import (
	"fmt"
	"time"

	"github.com/sony/sonyflake"
)

// Generator 单调递增的 ID 生成器
type Generator interface {
	NextID() (int64, error)
}

// 基准时间 2024-01-01 00:00:00 UTC
var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// SonyflakeGenerator 基于 sonyflake，同一台机器上严格递增
type SonyflakeGenerator struct {
	sf *sonyflake.Sonyflake
}

// NewSonyflakeGenerator 多实例部署时 machineID 必须不同
func NewSonyflakeGenerator(machineID uint16) (*SonyflakeGenerator, error) {
	sf, err := sonyflake.New(sonyflake.Settings{
		StartTime: epoch,
		MachineID: func() (uint16, error) {
			return machineID, nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("初始化 sonyflake 失败: %w", err)
	}
	return &SonyflakeGenerator{sf: sf}, nil
}

func (g *SonyflakeGenerator) NextID() (int64, error) {
	id, err := g.sf.NextID()
	if err != nil {
		return 0, err
	}
	return int64(id), nil
}

// ExtractTime 从 ID 中提取生成时间，精度 10ms
func ExtractTime(id int64) time.Time {
	const timeUnit = 10 * time.Millisecond
	elapsed := sonyflake.ElapsedTime(uint64(id))
	return epoch.Add(elapsed).Truncate(timeUnit)
}
