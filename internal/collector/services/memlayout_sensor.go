package services

import (
	"bufio"
	"context"
	"strconv"
	"strings"
	"sync"
	"time"
)

type MemoryModule struct {
	Manufacturer string
	Type         string
	SizeBytes    uint64
}

type MemLayoutResult struct {
	Modules []MemoryModule
}

// MemLayoutSensor reads DIMM descriptors through dmidecode. The layout does not
// change while the host is up, so the first successful read is cached.
type MemLayoutSensor struct {
	Timeout time.Duration

	run func(ctx context.Context, name string, args ...string) (string, error)

	mu     sync.Mutex
	cached *MemLayoutResult
}

func NewMemLayoutSensor(timeout time.Duration) *MemLayoutSensor {
	return &MemLayoutSensor{Timeout: timeout, run: runCmd}
}

func (s *MemLayoutSensor) Name() string {
	return "MemoryLayout"
}

func (s *MemLayoutSensor) Connect(ctx context.Context) error {
	return nil
}

func (s *MemLayoutSensor) Disconnect(ctx context.Context) error {
	return nil
}

func (s *MemLayoutSensor) Collect(ctx context.Context) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return *s.cached, nil
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	// dmidecode needs root; without it the layout is simply unknown.
	out, err := s.run(ctx, "dmidecode", "-t", "memory")
	if err != nil {
		return MemLayoutResult{}, nil
	}

	res := MemLayoutResult{Modules: parseDMIDecode(out)}
	if len(res.Modules) > 0 {
		s.cached = &res
	}
	return res, nil
}

func parseDMIDecode(out string) []MemoryModule {
	var modules []MemoryModule
	var cur *MemoryModule

	flush := func() {
		if cur != nil && cur.SizeBytes > 0 {
			modules = append(modules, *cur)
		}
		cur = nil
	}

	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == "Memory Device" {
			flush()
			cur = &MemoryModule{}
			continue
		}
		if cur == nil {
			continue
		}
		if trimmed == "" {
			flush()
			continue
		}

		key, value, ok := strings.Cut(trimmed, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch key {
		case "Size":
			cur.SizeBytes = parseDMISize(value)
		case "Type":
			if value != "Unknown" && value != "Other" {
				cur.Type = value
			}
		case "Manufacturer":
			if value != "Unknown" && value != "Not Specified" {
				cur.Manufacturer = value
			}
		}
	}
	flush()
	return modules
}

// parseDMISize understands "8192 MB", "16 GB" and "No Module Installed".
func parseDMISize(v string) uint64 {
	fields := strings.Fields(v)
	if len(fields) != 2 {
		return 0
	}
	n, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return 0
	}
	switch fields[1] {
	case "kB", "KB":
		return n * 1024
	case "MB":
		return n * mib
	case "GB":
		return n * mib * 1024
	case "TB":
		return n * mib * 1024 * 1024
	}
	return 0
}
