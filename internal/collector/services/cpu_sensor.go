package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
)

type CPUResult struct {
	TotalUsage    float64
	Manufacturer  string
	Brand         string
	PhysicalCores int
	LogicalCores  int
	SpeedMHz      float64
}

type CPUSensor struct{}

func NewCPUSensor() *CPUSensor {
	return &CPUSensor{}
}

func (s *CPUSensor) Name() string {
	return "CPU"
}

func (s *CPUSensor) Connect(ctx context.Context) error {
	return nil
}

func (s *CPUSensor) Disconnect(ctx context.Context) error {
	return nil
}

func (s *CPUSensor) Collect(ctx context.Context) (any, error) {
	total, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get total cpu percent: %w", err)
	}
	if len(total) == 0 {
		return nil, fmt.Errorf("failed to get total cpu percent: empty result")
	}

	res := CPUResult{TotalUsage: total[0]}

	info, err := cpu.InfoWithContext(ctx)
	if err == nil && len(info) > 0 {
		res.Manufacturer = vendorName(info[0].VendorID)
		res.Brand = strings.TrimSpace(info[0].ModelName)
		res.SpeedMHz = info[0].Mhz
	}

	res.PhysicalCores, _ = cpu.CountsWithContext(ctx, false)
	res.LogicalCores, _ = cpu.CountsWithContext(ctx, true)

	return res, nil
}

// vendorName maps the raw CPUID vendor string to a display manufacturer.
func vendorName(vendorID string) string {
	switch vendorID {
	case "GenuineIntel":
		return "Intel"
	case "AuthenticAMD":
		return "AMD"
	case "":
		return ""
	}
	return vendorID
}
