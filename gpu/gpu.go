//go:build !nogpu

// Package gpu registers the hardware device with the render package.
//
// Import it for its side effect to let render.OpenWindowless prefer a GPU
// over the software rasterizer:
//
//	import _ "github.com/gogpu/shaderviz/gpu"
//
// If no Vulkan adapter is available, opening fails and OpenWindowless
// moves on to the next provider.
package gpu

import (
	"log/slog"
	"sync"

	"github.com/gogpu/shaderviz"
	gpuimpl "github.com/gogpu/shaderviz/internal/gpu"
	"github.com/gogpu/shaderviz/render"
)

// Priority is the registry priority of the GPU device. It is higher than
// the software device so that the GPU is tried first.
const Priority = 10

var (
	mu       sync.Mutex
	provider render.DeviceHandle
)

func init() {
	render.Register(gpuimpl.Name, Priority, open)
}

func open() (render.Device, error) {
	gpuimpl.SetLogger(shaderviz.Logger().With(slog.String("device", gpuimpl.Name)))

	mu.Lock()
	p := provider
	mu.Unlock()
	var (
		d   *gpuimpl.Device
		err error
	)
	if p != nil {
		d, err = gpuimpl.SetDeviceProvider(p)
	} else {
		d, err = gpuimpl.Open()
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// SetDeviceProvider makes later opens of the "gpu" device share the
// device and queue of a host application instead of creating a headless
// Vulkan instance. The provider must also expose HalDevice() and
// HalQueue(). Passing nil restores the headless default.
func SetDeviceProvider(p render.DeviceHandle) {
	mu.Lock()
	defer mu.Unlock()
	provider = p
}
