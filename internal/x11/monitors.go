package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display
type Monitor struct {
	ID      int
	Name    string
	X       int
	Y       int
	Width   int
	Height  int
	Primary bool

	// Work area, equal to the monitor geometry when the WM publishes none.
	UsableX      int
	UsableY      int
	UsableWidth  int
	UsableHeight int
}

// GetMonitors retrieves all active monitors using XRandR. When RandR is not
// available the root window is reported as a single monitor.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	monitors, err := c.randrMonitors()
	if err != nil || len(monitors) == 0 {
		root, rerr := c.rootMonitor()
		if rerr != nil {
			if err != nil {
				return nil, err
			}
			return nil, rerr
		}
		monitors = []Monitor{root}
	}

	for i := range monitors {
		c.applyWorkArea(&monitors[i])
	}
	return monitors, nil
}

// PrimaryMonitor returns the RandR primary monitor, or the first one.
func (c *Connection) PrimaryMonitor() (Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return Monitor{}, err
	}
	for _, m := range monitors {
		if m.Primary {
			return m, nil
		}
	}
	return monitors[0], nil
}

func (c *Connection) randrMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		primary = reply.Output
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		isPrimary := false
		for _, out := range crtcInfo.Outputs {
			if primary != 0 && out == primary {
				isPrimary = true
			}
		}

		monitors = append(monitors, Monitor{
			ID:      i,
			Name:    outputName,
			X:       int(crtcInfo.X),
			Y:       int(crtcInfo.Y),
			Width:   int(crtcInfo.Width),
			Height:  int(crtcInfo.Height),
			Primary: isPrimary,
		})
	}
	return monitors, nil
}

func (c *Connection) rootMonitor() (Monitor, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return Monitor{}, fmt.Errorf("failed to get root geometry: %w", err)
	}
	return Monitor{
		Name:    "root",
		Width:   int(geom.Width),
		Height:  int(geom.Height),
		Primary: true,
	}, nil
}

// applyWorkArea intersects the monitor with the EWMH work area of the
// current desktop (excludes panels, docks, etc.).
func (c *Connection) applyWorkArea(m *Monitor) {
	m.UsableX, m.UsableY, m.UsableWidth, m.UsableHeight = m.X, m.Y, m.Width, m.Height

	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return
	}
	desktopIndex := 0
	if currentDesktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil {
		if int(currentDesktop) >= 0 && int(currentDesktop) < len(workArea) {
			desktopIndex = int(currentDesktop)
		}
	}
	wa := workArea[desktopIndex]

	isect := intersect(
		m.X, m.Y, m.X+m.Width, m.Y+m.Height,
		int(wa.X), int(wa.Y), int(wa.X)+int(wa.Width), int(wa.Y)+int(wa.Height),
	)
	if isect.w > 0 && isect.h > 0 {
		m.UsableX, m.UsableY = isect.x, isect.y
		m.UsableWidth, m.UsableHeight = isect.w, isect.h
	}
}

type intersection struct {
	x, y int
	w, h int
}

func intersect(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 int) intersection {
	x1 := max(ax1, bx1)
	y1 := max(ay1, by1)
	x2 := min(ax2, bx2)
	y2 := min(ay2, by2)

	if x2 <= x1 || y2 <= y1 {
		return intersection{}
	}
	return intersection{x: x1, y: y1, w: x2 - x1, h: y2 - y1}
}
