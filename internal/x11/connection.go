package x11

import (
	"context"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

const taskQueueSize = 256

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	tasks    chan func()
	quit     chan struct{}
	quitOnce sync.Once

	xfixesOnce sync.Once
	xfixesErr  error
}

// NewConnection connects to the given X display. An empty display uses $DISPLAY.
func NewConnection(display string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, err
	}

	// Key events are translated to keysyms through the keybind tables.
	keybind.Initialize(xu)

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
		tasks: make(chan func(), taskQueueSize),
		quit:  make(chan struct{}),
	}, nil
}

// Run is the main loop. X event callbacks and posted tasks never run
// concurrently: xevent processes one event between each before/after ping
// while this goroutine waits.
func (c *Connection) Run(ctx context.Context) error {
	pingBefore, pingAfter, pingQuit := xevent.MainPing(c.XUtil)
	for {
		select {
		case <-pingBefore:
			<-pingAfter
		case fn := <-c.tasks:
			fn()
		case <-pingQuit:
			return nil
		case <-c.quit:
			return nil
		case <-ctx.Done():
			c.Quit()
			return ctx.Err()
		}
	}
}

// Post queues fn for the main loop. It returns false once the loop has quit.
func (c *Connection) Post(fn func()) bool {
	select {
	case <-c.quit:
		return false
	default:
	}
	select {
	case c.tasks <- fn:
		return true
	case <-c.quit:
		return false
	}
}

// Quit stops the main loop.
func (c *Connection) Quit() {
	c.quitOnce.Do(func() {
		xevent.Quit(c.XUtil)
		close(c.quit)
	})
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.Quit()
	c.XUtil.Conn().Close()
}
