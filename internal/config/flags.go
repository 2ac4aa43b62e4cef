package config

import (
	"flag"
	"strings"
	"time"
)

// Flags holds command-line overrides. Only flags the user actually set are
// applied, so file and environment values survive unset flags.
type Flags struct {
	fs *flag.FlagSet

	ConfigPath string
	EnvFile    string

	interval  time.Duration
	window    int
	timeout   time.Duration
	gpuPolicy string
	noGPU     bool
	mounts    string
	httpAddr  string
	noHTTP    bool
	logLevel  string
	logFormat string
	logFile   string
	mode      string
	once      bool
	chart     string
}

// RegisterFlags defines every sysdash flag on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.ConfigPath, "config", "", "path to a YAML config file")
	fs.StringVar(&f.EnvFile, "env-file", ".env", "dotenv file loaded into the environment")
	fs.DurationVar(&f.interval, "interval", time.Second, "sampling interval")
	fs.IntVar(&f.window, "window", 20, "samples kept per chart stream")
	fs.DurationVar(&f.timeout, "acquire-timeout", 5*time.Second, "bound on one acquisition (0 disables)")
	fs.StringVar(&f.gpuPolicy, "gpu-policy", "keep", "what to do with GPU streams when the GPU disappears: keep|drop")
	fs.BoolVar(&f.noGPU, "no-gpu", false, "do not probe graphics controllers")
	fs.StringVar(&f.mounts, "mounts", "", "comma-separated mountpoints to report (default: all physical)")
	fs.StringVar(&f.httpAddr, "addr", ":3000", "HTTP listen address")
	fs.BoolVar(&f.noHTTP, "no-http", false, "disable the HTTP API")
	fs.StringVar(&f.logLevel, "log-level", "info", "debug|info|warn|error")
	fs.StringVar(&f.logFormat, "log-format", "text", "text|json")
	fs.StringVar(&f.logFile, "log-file", "", "write logs to this file")
	fs.StringVar(&f.mode, "mode", ModeTUI, "tui|headless|once")
	fs.BoolVar(&f.once, "once", false, "print one report and exit (same as -mode once)")
	fs.StringVar(&f.chart, "chart", ChartUtilization, "initial chart: utilization|temperature")
	return f
}

// Apply copies explicitly set flags onto cfg.
func (f *Flags) Apply(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "interval":
			cfg.Sampler.Interval = f.interval
		case "window":
			cfg.Sampler.Window = f.window
		case "acquire-timeout":
			cfg.Sampler.AcquireTimeout = f.timeout
		case "gpu-policy":
			cfg.Sampler.GPUPolicy = f.gpuPolicy
		case "no-gpu":
			cfg.Collector.GPU = !f.noGPU
		case "mounts":
			cfg.Collector.StorageMounts = splitList(f.mounts)
		case "addr":
			cfg.HTTP.Addr = f.httpAddr
		case "no-http":
			cfg.HTTP.Enabled = !f.noHTTP
		case "log-level":
			cfg.Log.Level = f.logLevel
		case "log-format":
			cfg.Log.Format = f.logFormat
		case "log-file":
			cfg.Log.File = f.logFile
		case "mode":
			cfg.UI.Mode = f.mode
		case "once":
			if f.once {
				cfg.UI.Mode = ModeOnce
			}
		case "chart":
			cfg.UI.Chart = f.chart
		}
	})
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
