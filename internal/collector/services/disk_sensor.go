package services

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"
)

type UsageStat struct {
	Path        string
	Device      string
	Fstype      string
	Total       uint64
	Free        uint64
	Used        uint64
	UsedPercent float64
}

type DiskResult struct {
	Usage []UsageStat
}

// DiskSensor reports filesystem usage for physical partitions. When Mounts is
// non-empty only those mountpoints are reported, in that order.
type DiskSensor struct {
	Mounts []string
}

func NewDiskSensor(mounts ...string) *DiskSensor {
	return &DiskSensor{Mounts: mounts}
}

func (s *DiskSensor) Name() string {
	return "Disk"
}

func (s *DiskSensor) Connect(ctx context.Context) error {
	return nil
}

func (s *DiskSensor) Disconnect(ctx context.Context) error {
	return nil
}

func (s *DiskSensor) Collect(ctx context.Context) (any, error) {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get partitions: %w", err)
	}

	byMount := make(map[string]disk.PartitionStat, len(partitions))
	order := make([]string, 0, len(partitions))
	for _, p := range partitions {
		if _, ok := byMount[p.Mountpoint]; ok {
			continue
		}
		byMount[p.Mountpoint] = p
		order = append(order, p.Mountpoint)
	}
	if len(s.Mounts) > 0 {
		order = s.Mounts
	}

	seen := make(map[string]bool)
	usage := []UsageStat{}
	for _, mount := range order {
		p, ok := byMount[mount]
		if !ok {
			continue
		}
		// Bind mounts and subvolumes show up once per mountpoint.
		if p.Device != "" && seen[p.Device] {
			continue
		}

		u, err := disk.UsageWithContext(ctx, mount)
		if err != nil || u.Total == 0 {
			continue
		}
		seen[p.Device] = true

		usage = append(usage, UsageStat{
			Path:        u.Path,
			Device:      p.Device,
			Fstype:      u.Fstype,
			Total:       u.Total,
			Free:        u.Free,
			Used:        u.Used,
			UsedPercent: u.UsedPercent,
		})
	}

	return DiskResult{Usage: usage}, nil
}
