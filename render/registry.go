package render

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/shaderviz"
)

// ErrNoDevice is returned by OpenWindowless when no provider could open a device.
var ErrNoDevice = errors.New("render: no windowless device available")

// Opener opens a device. Openers are registered via Register and called
// by OpenDevice and OpenWindowless.
type Opener func() (Device, error)

type provider struct {
	priority int
	open     Opener
}

var (
	registryMu sync.RWMutex
	providers  = make(map[string]provider)
)

func init() {
	Register("software", 0, func() (Device, error) {
		return NewSoftwareDevice(), nil
	})
}

// Register makes a device provider available by name, following the
// database/sql driver pattern. Providers with a higher priority are tried
// first by OpenWindowless.
//
// Register panics if open is nil or the name is already registered.
func Register(name string, priority int, open Opener) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if open == nil {
		panic("render: Register opener is nil")
	}
	if _, dup := providers[name]; dup {
		panic("render: Register called twice for " + name)
	}
	providers[name] = provider{priority: priority, open: open}
}

// Unregister removes a provider. Unknown names are ignored.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(providers, name)
}

// IsRegistered reports whether a provider with the given name exists.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := providers[name]
	return ok
}

// Providers returns the registered names, highest priority first and
// alphabetical within the same priority.
func Providers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		pi, pj := providers[names[i]].priority, providers[names[j]].priority
		if pi != pj {
			return pi > pj
		}
		return names[i] < names[j]
	})
	return names
}

// OpenDevice opens a device by provider name.
func OpenDevice(name string) (Device, error) {
	registryMu.RLock()
	p, ok := providers[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("render: unknown device provider %q (forgotten import?)", name)
	}
	d, err := p.open()
	if err != nil {
		return nil, fmt.Errorf("render: open %s: %w", name, err)
	}
	return d, nil
}

// OpenWindowless opens the first device that succeeds and wraps it in a
// Context. With no arguments every registered provider is tried in
// priority order; otherwise only the named ones, in the given order.
func OpenWindowless(names ...string) (*Context, error) {
	if len(names) == 0 {
		names = Providers()
	}

	log := shaderviz.Logger()
	var errs []error
	for _, name := range names {
		d, err := OpenDevice(name)
		if err != nil {
			log.Warn("render: device unavailable", "provider", name, "err", err)
			errs = append(errs, err)
			continue
		}
		caps := d.Capabilities()
		log.Info("render: device opened", "provider", name, "device", caps.DeviceName, "maxSamples", caps.MaxSamples)
		return NewContext(d), nil
	}
	if len(errs) == 0 {
		return nil, ErrNoDevice
	}
	return nil, fmt.Errorf("%w: %w", ErrNoDevice, errors.Join(errs...))
}
