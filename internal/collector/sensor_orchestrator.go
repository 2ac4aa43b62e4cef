package collector

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"sysdash/internal/collector/services"
)

// ============================================================================
// DATA STRUCTURES
// ============================================================================

// RawSnapshot is one tick of sensing provider output. Byte fields are raw
// bytes; optional readings are nil pointers or empty slices when the host does
// not expose them.
type RawSnapshot struct {
	Processor     *RawProcessor
	Memory        *RawMemory
	Storage       []RawStorage
	Graphics      []RawGraphicsController
	MemoryLayout  []RawMemoryModule
	UptimeSeconds float64
	CollectedAt   time.Time
}

type RawProcessor struct {
	UsagePercent float64
	Manufacturer string
	Brand        string
	Cores        int
	SpeedMHz     float64
	TemperatureC *float64
}

type RawMemory struct {
	Total     uint64
	Active    uint64
	Available uint64
	Free      uint64
}

type RawStorage struct {
	Mount     string
	Device    string
	Size      uint64
	Used      uint64
	Available uint64
}

type RawGraphicsController struct {
	Vendor         string
	Model          string
	UtilizationGPU *float64
	TemperatureGPU *float64
	VRAMTotal      uint64
	VRAMUsed       uint64
}

type RawMemoryModule struct {
	Manufacturer string
	Type         string
	SizeBytes    uint64
}

// ============================================================================
// INTERFACE DEFINITION
// ============================================================================

// Provider defines the contract for any sensing provider.
type Provider interface {
	Acquire(ctx context.Context) (*RawSnapshot, error)
}

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func(ctx context.Context) (*RawSnapshot, error)

func (f ProviderFunc) Acquire(ctx context.Context) (*RawSnapshot, error) {
	return f(ctx)
}

// ============================================================================
// CONCRETE IMPLEMENTATION
// ============================================================================

type SystemCollector struct {
	cfg    CollectorConfig
	logger *slog.Logger

	cpuSensor       services.Sensor
	memSensor       services.Sensor
	diskSensor      services.Sensor
	hostSensor      services.Sensor
	physicalSensor  services.Sensor
	gpuSensor       services.Sensor
	memLayoutSensor services.Sensor
}

func NewSystemCollector(cfg CollectorConfig, logger *slog.Logger) *SystemCollector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &SystemCollector{
		cfg:        cfg,
		logger:     logger,
		cpuSensor:  services.NewCPUSensor(),
		memSensor:  services.NewMemSensor(),
		diskSensor: services.NewDiskSensor(cfg.StorageMounts...),
		hostSensor: services.NewHostSensor(),
	}
	if cfg.EnableTemperatures {
		s.physicalSensor = services.NewPhysicalSensor()
	}
	if cfg.EnableGPU {
		s.gpuSensor = services.NewGPUSensor(cfg.GPUCommandTimeout)
	}
	if cfg.EnableMemoryLayout {
		s.memLayoutSensor = services.NewMemLayoutSensor(cfg.MemLayoutTimeout)
	}
	return s
}

// sensors returns every configured sensor, required ones first.
func (s *SystemCollector) sensors() []services.Sensor {
	all := []services.Sensor{s.cpuSensor, s.memSensor, s.diskSensor, s.hostSensor}
	for _, opt := range []services.Sensor{s.physicalSensor, s.gpuSensor, s.memLayoutSensor} {
		if opt != nil {
			all = append(all, opt)
		}
	}
	return all
}

// Connect prepares every sensor. A failing optional sensor is disabled
// instead of failing the collector.
func (s *SystemCollector) Connect(ctx context.Context) error {
	for _, sensor := range []services.Sensor{s.cpuSensor, s.memSensor, s.diskSensor, s.hostSensor} {
		if err := sensor.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect %s sensor: %w", sensor.Name(), err)
		}
	}
	for _, opt := range []*services.Sensor{&s.physicalSensor, &s.gpuSensor, &s.memLayoutSensor} {
		if *opt == nil {
			continue
		}
		if err := (*opt).Connect(ctx); err != nil {
			s.logger.Warn("optional sensor disabled", "sensor", (*opt).Name(), "error", err)
			*opt = nil
		}
	}
	return nil
}

func (s *SystemCollector) Disconnect(ctx context.Context) error {
	var firstErr error
	for _, sensor := range s.sensors() {
		if err := sensor.Disconnect(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to disconnect %s sensor: %w", sensor.Name(), err)
		}
	}
	return firstErr
}

// Internal result types for concurrency
type cpuResult struct {
	stats services.CPUResult
	err   error
}

type memResult struct {
	stats services.MemResult
	err   error
}

type diskResult struct {
	stats services.DiskResult
	err   error
}

type hostResult struct {
	stats services.HostResult
	err   error
}

type physicalResult struct {
	stats services.PhysicalResult
	err   error
}

type gpuResult struct {
	stats services.GPUResult
	err   error
}

type memLayoutResult struct {
	stats services.MemLayoutResult
	err   error
}

// collect runs one sensor under the per-sensor timeout and asserts its result type.
func collect[T any](ctx context.Context, sensor services.Sensor, timeout time.Duration) (T, error) {
	var zero T
	if sensor == nil {
		return zero, nil
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	res, err := sensor.Collect(ctx)
	if err != nil {
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("%s sensor returned unexpected %T", sensor.Name(), res)
	}
	return v, nil
}

// Acquire collects every sensor concurrently and assembles a RawSnapshot.
// Processor, memory, storage and host readings are required; temperature, GPU
// and memory layout failures only leave their fields empty.
func (s *SystemCollector) Acquire(ctx context.Context) (*RawSnapshot, error) {
	timeout := s.cfg.SensorTimeout

	cpuCh := make(chan cpuResult, 1)
	memCh := make(chan memResult, 1)
	diskCh := make(chan diskResult, 1)
	hostCh := make(chan hostResult, 1)
	physCh := make(chan physicalResult, 1)
	gpuCh := make(chan gpuResult, 1)
	layoutCh := make(chan memLayoutResult, 1)

	var wg sync.WaitGroup
	wg.Add(7)

	go func() {
		defer wg.Done()
		res, err := collect[services.CPUResult](ctx, s.cpuSensor, timeout)
		cpuCh <- cpuResult{stats: res, err: err}
	}()
	go func() {
		defer wg.Done()
		res, err := collect[services.MemResult](ctx, s.memSensor, timeout)
		memCh <- memResult{stats: res, err: err}
	}()
	go func() {
		defer wg.Done()
		res, err := collect[services.DiskResult](ctx, s.diskSensor, timeout)
		diskCh <- diskResult{stats: res, err: err}
	}()
	go func() {
		defer wg.Done()
		res, err := collect[services.HostResult](ctx, s.hostSensor, timeout)
		hostCh <- hostResult{stats: res, err: err}
	}()
	go func() {
		defer wg.Done()
		res, err := collect[services.PhysicalResult](ctx, s.physicalSensor, timeout)
		physCh <- physicalResult{stats: res, err: err}
	}()
	go func() {
		defer wg.Done()
		res, err := collect[services.GPUResult](ctx, s.gpuSensor, timeout)
		gpuCh <- gpuResult{stats: res, err: err}
	}()
	go func() {
		defer wg.Done()
		res, err := collect[services.MemLayoutResult](ctx, s.memLayoutSensor, timeout)
		layoutCh <- memLayoutResult{stats: res, err: err}
	}()

	wg.Wait()

	cpuRes := <-cpuCh
	memRes := <-memCh
	diskRes := <-diskCh
	hostRes := <-hostCh
	physRes := <-physCh
	gpuRes := <-gpuCh
	layoutRes := <-layoutCh

	if cpuRes.err != nil {
		return nil, fmt.Errorf("failed to get CPU metrics: %w", cpuRes.err)
	}
	if memRes.err != nil {
		return nil, fmt.Errorf("failed to get memory metrics: %w", memRes.err)
	}
	if diskRes.err != nil {
		return nil, fmt.Errorf("failed to get disk metrics: %w", diskRes.err)
	}
	if hostRes.err != nil {
		return nil, fmt.Errorf("failed to get host metrics: %w", hostRes.err)
	}
	for name, err := range map[string]error{
		"temperatures":  physRes.err,
		"gpu":           gpuRes.err,
		"memory layout": layoutRes.err,
	} {
		if err != nil {
			s.logger.Debug("optional reading unavailable", "reading", name, "error", err)
		}
	}

	cores := cpuRes.stats.PhysicalCores
	if cores == 0 {
		cores = cpuRes.stats.LogicalCores
	}
	processor := &RawProcessor{
		UsagePercent: cpuRes.stats.TotalUsage,
		Manufacturer: cpuRes.stats.Manufacturer,
		Brand:        cpuRes.stats.Brand,
		Cores:        cores,
		SpeedMHz:     cpuRes.stats.SpeedMHz,
	}
	if physRes.err == nil {
		if temp, ok := physRes.stats.CPUTemperature(); ok {
			processor.TemperatureC = &temp
		}
	}

	storage := make([]RawStorage, 0, len(diskRes.stats.Usage))
	for _, u := range diskRes.stats.Usage {
		storage = append(storage, RawStorage{
			Mount:     u.Path,
			Device:    u.Device,
			Size:      u.Total,
			Used:      u.Used,
			Available: u.Free,
		})
	}

	var graphics []RawGraphicsController
	if gpuRes.err == nil {
		for _, g := range gpuRes.stats.Controllers {
			graphics = append(graphics, RawGraphicsController{
				Vendor:         g.Vendor,
				Model:          g.Model,
				UtilizationGPU: g.UtilizationGPU,
				TemperatureGPU: g.TemperatureGPU,
				VRAMTotal:      g.VRAMTotal,
				VRAMUsed:       g.VRAMUsed,
			})
		}
	}

	var layout []RawMemoryModule
	if layoutRes.err == nil {
		for _, m := range layoutRes.stats.Modules {
			layout = append(layout, RawMemoryModule{
				Manufacturer: m.Manufacturer,
				Type:         m.Type,
				SizeBytes:    m.SizeBytes,
			})
		}
	}

	return &RawSnapshot{
		Processor: processor,
		Memory: &RawMemory{
			Total:     memRes.stats.Total,
			Active:    memRes.stats.Active,
			Available: memRes.stats.Available,
			Free:      memRes.stats.Free,
		},
		Storage:       storage,
		Graphics:      graphics,
		MemoryLayout:  layout,
		UptimeSeconds: float64(hostRes.stats.Uptime),
		CollectedAt:   time.Now(),
	}, nil
}
