package source

import (
	"context"
	"fmt"
	"strconv"

	"codeberg.org/mutker/aidasensors/internal/errors"
	"codeberg.org/mutker/aidasensors/internal/logger"
	"codeberg.org/mutker/aidasensors/internal/sensor"
)

type gpuMetric int

const (
	metricTemperature gpuMetric = iota
	metricFanSpeed
	metricPowerMilliwatts
	metricGraphicsClock
	metricMemoryClock
	metricUtilization
)

// gpuDevice holds the metrics one device reported this cycle. Metrics the
// device could not read are absent.
type gpuDevice struct {
	Index   int
	Metrics map[gpuMetric]uint32
}

// gpuReader abstracts the driver library for testing
type gpuReader interface {
	Init() error
	Shutdown() error
	Read() ([]gpuDevice, error)
}

// gpuSensors maps metrics onto the ids AIDA64 uses for the same readings.
var gpuSensors = []struct {
	metric gpuMetric
	id     string // formatted with the 1-based device number
	label  string
}{
	{metricTemperature, "TGPU%d", "GPU%d Temperature"},
	{metricFanSpeed, "FGPU%d", "GPU%d Fan"},
	{metricPowerMilliwatts, "PGPU%d", "GPU%d Power"},
	{metricGraphicsClock, "SGPU%dCLK", "GPU%d Clock"},
	{metricMemoryClock, "SGPU%dMEMCLK", "GPU%d Memory Clock"},
	{metricUtilization, "SGPU%dUTI", "GPU%d Utilization"},
}

type gpuSource struct {
	reader      gpuReader
	initialized bool
	log         logger.Logger
}

// NewNVML publishes NVIDIA GPU readings as Label/Value fragments. The driver
// is loaded on first use and retried every cycle until it succeeds.
func NewNVML(log logger.Logger) Source {
	return &gpuSource{reader: newGPUReader(log), log: log}
}

func (*gpuSource) Name() string {
	return "nvml"
}

func (g *gpuSource) Enumerate(ctx context.Context) ([]sensor.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.New().Wrap(ErrUnavailable, err).WithData("cancelled")
	}

	if !g.initialized {
		if err := g.reader.Init(); err != nil {
			return nil, err
		}
		g.initialized = true
		g.log.Debug().Msg("NVML initialized")
	}

	devices, err := g.reader.Read()
	if err != nil {
		return nil, err
	}

	return gpuEntries(devices), nil
}

func (g *gpuSource) Close() error {
	if !g.initialized {
		return nil
	}
	g.initialized = false

	return g.reader.Shutdown()
}

func gpuEntries(devices []gpuDevice) []sensor.Entry {
	var entries []sensor.Entry

	for _, d := range devices {
		n := d.Index + 1
		for _, s := range gpuSensors {
			raw, ok := d.Metrics[s.metric]
			if !ok {
				continue
			}

			id := fmt.Sprintf(s.id, n)
			label := fmt.Sprintf(s.label, n)
			entries = append(entries,
				sensor.Entry{Key: sensor.Key(sensor.KindLabel, id), Value: label},
				sensor.Entry{Key: sensor.Key(sensor.KindValue, id), Value: formatGPUMetric(s.metric, raw)},
			)
		}
	}

	return entries
}

func formatGPUMetric(metric gpuMetric, raw uint32) string {
	if metric == metricPowerMilliwatts {
		return strconv.FormatFloat(float64(raw)/1000, 'f', 2, 64)
	}

	return strconv.FormatUint(uint64(raw), 10)
}
