package window

import (
	"os"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
)

const (
	// EnvReducedMotion overrides the reduced-motion preference of the glfw host.
	EnvReducedMotion = "OXY_REDUCED_MOTION"
	// EnvDeviceMemory overrides the reported device memory, in gigabytes, of the glfw host.
	EnvDeviceMemory = "OXY_DEVICE_MEMORY_GB"
)

// hostConfig is the configuration shared by every host.
type hostConfig struct {
	title         string
	size          common.Size
	viewportSize  common.Size
	pixelRatio    float64
	reducedMotion bool
	memoryGB      float64
	cores         int
	userAgent     string
	noContainer   bool
	frameRate     int
}

func defaultHostConfig() hostConfig {
	return hostConfig{
		title:      "oxy-backdrop",
		size:       common.Size{Width: 800, Height: 600},
		pixelRatio: 1,
		frameRate:  60,
	}
}

// HostBuilderOption is a functional option for configuring a host.
// Use the With* functions to create options.
type HostBuilderOption func(c *hostConfig)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - HostBuilderOption: option function to apply
func WithTitle(title string) HostBuilderOption {
	return func(c *hostConfig) {
		c.title = title
	}
}

// WithSize sets the initial container size in logical pixels. Non-positive sizes are ignored.
//
// Parameters:
//   - width: the width in pixels
//   - height: the height in pixels
//
// Returns:
//   - HostBuilderOption: option function to apply
func WithSize(width, height int) HostBuilderOption {
	return func(c *hostConfig) {
		if width > 0 && height > 0 {
			c.size = common.Size{Width: width, Height: height}
		}
	}
}

// WithViewportSize sets a viewport size different from the container size. Only the headless
// host honors it; a window's viewport is its content area.
func WithViewportSize(width, height int) HostBuilderOption {
	return func(c *hostConfig) {
		if width > 0 && height > 0 {
			c.viewportSize = common.Size{Width: width, Height: height}
		}
	}
}

// WithPixelRatio sets the reported ratio of physical to logical pixels.
//
// Parameters:
//   - ratio: the pixel ratio, ignored when not positive
//
// Returns:
//   - HostBuilderOption: option function to apply
func WithPixelRatio(ratio float64) HostBuilderOption {
	return func(c *hostConfig) {
		if ratio > 0 {
			c.pixelRatio = ratio
		}
	}
}

// WithReducedMotion sets the reported reduced-motion preference.
func WithReducedMotion(reduced bool) HostBuilderOption {
	return func(c *hostConfig) {
		c.reducedMotion = reduced
	}
}

// WithDeviceMemory sets the reported device memory in gigabytes. Zero means not reported.
func WithDeviceMemory(gb float64) HostBuilderOption {
	return func(c *hostConfig) {
		if gb >= 0 {
			c.memoryGB = gb
		}
	}
}

// WithCores sets the reported logical core count. The glfw host reports runtime.NumCPU
// unless this is set.
func WithCores(cores int) HostBuilderOption {
	return func(c *hostConfig) {
		if cores >= 0 {
			c.cores = cores
		}
	}
}

// WithUserAgent sets the reported user agent string.
func WithUserAgent(ua string) HostBuilderOption {
	return func(c *hostConfig) {
		c.userAgent = ua
	}
}

// WithoutContainer makes the host report no container.
func WithoutContainer() HostBuilderOption {
	return func(c *hostConfig) {
		c.noContainer = true
	}
}

// WithFrameRate sets the glfw host's frame ticker rate.
//
// Parameters:
//   - fps: frames per second, ignored when not positive
//
// Returns:
//   - HostBuilderOption: option function to apply
func WithFrameRate(fps int) HostBuilderOption {
	return func(c *hostConfig) {
		if fps > 0 {
			c.frameRate = fps
		}
	}
}

// applyEnv overrides the configuration from the environment. Unparsable values are ignored.
func (c *hostConfig) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvReducedMotion); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			c.reducedMotion = b
		}
	}
	if v, ok := lookup(EnvDeviceMemory); ok {
		if gb, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && gb >= 0 {
			c.memoryGB = gb
		}
	}
}

func newHostConfig(opts []HostBuilderOption, env bool) hostConfig {
	c := defaultHostConfig()
	for _, opt := range opts {
		opt(&c)
	}
	if env {
		c.applyEnv(os.LookupEnv)
	}
	if !c.viewportSize.Valid() {
		c.viewportSize = c.size
	}
	return c
}
