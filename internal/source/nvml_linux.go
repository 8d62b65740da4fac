//go:build linux

package source

import (
	"codeberg.org/mutker/aidasensors/internal/errors"
	"codeberg.org/mutker/aidasensors/internal/logger"
	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// nvmlError represents an NVML-specific error
type nvmlError struct {
	ret nvml.Return
}

func (e nvmlError) Error() string {
	return nvml.ErrorString(e.ret)
}

// classifyNVML maps an NVML return code onto the source error codes.
func classifyNVML(ret nvml.Return) errors.Error {
	errFactory := errors.New()
	err := &nvmlError{ret: ret}

	switch ret {
	case nvml.ERROR_LIBRARY_NOT_FOUND, nvml.ERROR_DRIVER_NOT_LOADED,
		nvml.ERROR_UNINITIALIZED, nvml.ERROR_GPU_IS_LOST:
		return errFactory.Wrap(ErrUnavailable, err)
	case nvml.ERROR_NO_PERMISSION:
		return errFactory.Wrap(ErrPermissionDenied, err)
	}

	return errFactory.Wrap(ErrQueryFailed, err)
}

type nvmlReader struct {
	log logger.Logger
}

func newGPUReader(log logger.Logger) gpuReader {
	return &nvmlReader{log: log}
}

func (*nvmlReader) Init() error {
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return classifyNVML(ret)
	}

	return nil
}

func (*nvmlReader) Shutdown() error {
	if ret := nvml.Shutdown(); ret != nvml.SUCCESS {
		return errors.New().Wrap(errors.ErrShutdownFailed, &nvmlError{ret: ret})
	}

	return nil
}

func (r *nvmlReader) Read() ([]gpuDevice, error) {
	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return nil, classifyNVML(ret)
	}

	devices := make([]gpuDevice, 0, count)
	for i := 0; i < count; i++ {
		device, ret := nvml.DeviceGetHandleByIndex(i)
		if ret != nvml.SUCCESS {
			r.log.Debug().Int("index", i).Msgf("Failed to get device handle: %s", nvml.ErrorString(ret))
			continue
		}

		d := gpuDevice{Index: i, Metrics: make(map[gpuMetric]uint32)}
		if name, ret := device.GetName(); ret == nvml.SUCCESS {
			r.log.Debug().Int("index", i).Str("name", name).Msg("Reading GPU")
		}
		if temp, ret := device.GetTemperature(nvml.TEMPERATURE_GPU); ret == nvml.SUCCESS {
			d.Metrics[metricTemperature] = temp
		}
		if speed, ret := device.GetFanSpeed(); ret == nvml.SUCCESS {
			d.Metrics[metricFanSpeed] = speed
		}
		if power, ret := device.GetPowerUsage(); ret == nvml.SUCCESS {
			d.Metrics[metricPowerMilliwatts] = power
		}
		if clock, ret := device.GetClockInfo(nvml.CLOCK_GRAPHICS); ret == nvml.SUCCESS {
			d.Metrics[metricGraphicsClock] = clock
		}
		if clock, ret := device.GetClockInfo(nvml.CLOCK_MEM); ret == nvml.SUCCESS {
			d.Metrics[metricMemoryClock] = clock
		}
		if util, ret := device.GetUtilizationRates(); ret == nvml.SUCCESS {
			d.Metrics[metricUtilization] = util.Gpu
		}

		devices = append(devices, d)
	}

	return devices, nil
}
