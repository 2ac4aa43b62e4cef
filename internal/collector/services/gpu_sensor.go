package services

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	nvidiaQuery    = "--query-gpu=name,utilization.gpu,temperature.gpu,memory.total,memory.used"
	nvidiaFormat   = "--format=csv,noheader,nounits"
	defaultDRMRoot = "/sys/class/drm"
	mib            = 1024 * 1024
)

// GPUController is one graphics adapter as reported by the driver. Nil
// pointers mean the driver did not expose that reading.
type GPUController struct {
	Vendor         string
	Model          string
	UtilizationGPU *float64
	TemperatureGPU *float64
	VRAMTotal      uint64
	VRAMUsed       uint64
}

type GPUResult struct {
	Controllers []GPUController
}

// GPUSensor queries nvidia-smi first and falls back to the DRM sysfs tree
// (amdgpu and friends expose gpu_busy_percent there).
type GPUSensor struct {
	Timeout time.Duration
	DRMRoot string

	run func(ctx context.Context, name string, args ...string) (string, error)
}

func NewGPUSensor(timeout time.Duration) *GPUSensor {
	return &GPUSensor{
		Timeout: timeout,
		DRMRoot: defaultDRMRoot,
		run:     runCmd,
	}
}

func (s *GPUSensor) Name() string {
	return "GPU"
}

func (s *GPUSensor) Connect(ctx context.Context) error {
	return nil
}

func (s *GPUSensor) Disconnect(ctx context.Context) error {
	return nil
}

func (s *GPUSensor) Collect(ctx context.Context) (any, error) {
	if controllers := s.collectNvidia(ctx); len(controllers) > 0 {
		return GPUResult{Controllers: controllers}, nil
	}
	return GPUResult{Controllers: collectDRM(s.DRMRoot)}, nil
}

func (s *GPUSensor) collectNvidia(ctx context.Context) []GPUController {
	if s.run == nil {
		return nil
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	out, err := s.run(ctx, "nvidia-smi", nvidiaQuery, nvidiaFormat)
	if err != nil || out == "" {
		return nil
	}
	return parseNvidiaSMI(out)
}

func parseNvidiaSMI(out string) []GPUController {
	var gpus []GPUController
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		parts := strings.Split(sc.Text(), ",")
		if len(parts) < 5 {
			continue
		}
		g := GPUController{
			Vendor:         "NVIDIA",
			Model:          strings.TrimSpace(parts[0]),
			UtilizationGPU: parseOptional(parts[1]),
			TemperatureGPU: parseOptional(parts[2]),
		}
		if total := parseOptional(parts[3]); total != nil && *total > 0 {
			g.VRAMTotal = uint64(*total) * mib
		}
		if used := parseOptional(parts[4]); used != nil && *used > 0 {
			g.VRAMUsed = uint64(*used) * mib
		}
		gpus = append(gpus, g)
	}
	return gpus
}

// parseOptional returns nil for "[N/A]", "[Not Supported]" and other
// non-numeric placeholders.
func parseOptional(s string) *float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func collectDRM(root string) []GPUController {
	cards, _ := filepath.Glob(filepath.Join(root, "card[0-9]*"))
	sort.Strings(cards)

	var gpus []GPUController
	for _, card := range cards {
		// card0-DP-1 and similar are connectors, not devices.
		if strings.Contains(filepath.Base(card), "-") {
			continue
		}
		dev := filepath.Join(card, "device")
		busy, ok := readFloat(filepath.Join(dev, "gpu_busy_percent"))
		if !ok {
			continue
		}
		g := GPUController{
			Vendor:         readVendor(dev),
			Model:          readModel(dev),
			UtilizationGPU: &busy,
		}
		if temp, ok := readHwmonTemp(dev); ok {
			g.TemperatureGPU = &temp
		}
		if total, ok := readFloat(filepath.Join(dev, "mem_info_vram_total")); ok {
			g.VRAMTotal = uint64(total)
		}
		if used, ok := readFloat(filepath.Join(dev, "mem_info_vram_used")); ok {
			g.VRAMUsed = uint64(used)
		}
		gpus = append(gpus, g)
	}
	return gpus
}

func readVendor(dev string) string {
	b, err := os.ReadFile(filepath.Join(dev, "vendor"))
	if err != nil {
		return "unknown"
	}
	switch v := strings.TrimSpace(string(b)); v {
	case "0x1002":
		return "AMD"
	case "0x10de":
		return "NVIDIA"
	case "0x8086":
		return "Intel"
	default:
		return v
	}
}

func readModel(dev string) string {
	for _, name := range []string{"product_name", "device"} {
		if b, err := os.ReadFile(filepath.Join(dev, name)); err == nil {
			if v := strings.TrimSpace(string(b)); v != "" {
				return v
			}
		}
	}
	return "unknown"
}

func readHwmonTemp(dev string) (float64, bool) {
	matches, _ := filepath.Glob(filepath.Join(dev, "hwmon", "hwmon*", "temp1_input"))
	sort.Strings(matches)
	for _, m := range matches {
		if v, ok := readFloat(m); ok {
			return v / 1000, true
		}
	}
	return 0, false
}

func readFloat(path string) (float64, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func runCmd(ctx context.Context, name string, args ...string) (string, error) {
	if _, err := exec.LookPath(name); err != nil {
		return "", err
	}
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	return string(out), err
}
