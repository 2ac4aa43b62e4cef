package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/sensors"
)

type TempStat struct {
	SensorKey   string
	Temperature float64
}

type PhysicalResult struct {
	Temperatures []TempStat
}

type PhysicalSensor struct{}

func NewPhysicalSensor() *PhysicalSensor {
	return &PhysicalSensor{}
}

func (s *PhysicalSensor) Name() string {
	return "Physical"
}

func (s *PhysicalSensor) Connect(ctx context.Context) error {
	return nil
}

func (s *PhysicalSensor) Disconnect(ctx context.Context) error {
	return nil
}

func (s *PhysicalSensor) Collect(ctx context.Context) (any, error) {
	data, err := sensors.TemperaturesWithContext(ctx)
	// gopsutil returns partial readings together with a warning error.
	if err != nil && len(data) == 0 {
		return nil, fmt.Errorf("failed to get temperatures: %w", err)
	}

	var temps []TempStat
	for _, t := range data {
		temps = append(temps, TempStat{
			SensorKey:   t.SensorKey,
			Temperature: t.Temperature,
		})
	}

	return PhysicalResult{Temperatures: temps}, nil
}

// cpuSensorKeys are checked in order; the first match wins.
var cpuSensorKeys = []string{
	"coretemp_package_id_0",
	"x86_pkg_temp",
	"k10temp_tctl",
	"k10temp_tdie",
	"zenpower_tdie",
	"cpu_thermal",
	"soc_thermal",
	"acpitz",
}

// CPUTemperature picks the reading that best represents the processor package.
func (r PhysicalResult) CPUTemperature() (float64, bool) {
	for _, key := range cpuSensorKeys {
		for _, t := range r.Temperatures {
			if strings.HasPrefix(strings.ToLower(t.SensorKey), key) && t.Temperature > 0 {
				return t.Temperature, true
			}
		}
	}
	return 0, false
}
