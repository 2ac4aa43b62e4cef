package services

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/mem"
)

type MemResult struct {
	Total     uint64
	Available uint64
	Used      uint64
	Free      uint64
	Active    uint64
}

type MemSensor struct{}

func NewMemSensor() *MemSensor {
	return &MemSensor{}
}

func (s *MemSensor) Name() string {
	return "Memory"
}

func (s *MemSensor) Connect(ctx context.Context) error {
	return nil
}

func (s *MemSensor) Disconnect(ctx context.Context) error {
	return nil
}

func (s *MemSensor) Collect(ctx context.Context) (any, error) {
	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get virtual memory: %w", err)
	}

	// Active is not reported on every platform; fall back to used memory.
	active := v.Active
	if active == 0 {
		active = v.Used
	}

	return MemResult{
		Total:     v.Total,
		Available: v.Available,
		Used:      v.Used,
		Free:      v.Free,
		Active:    active,
	}, nil
}
