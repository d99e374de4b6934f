package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xfixes"
)

// SetCursorVisible shows or hides the pointer over the whole screen using
// XFixes. The server counts hide requests per client, so callers must only
// call this on an actual change.
func (c *Connection) SetCursorVisible(visible bool) error {
	if err := c.initXFixes(); err != nil {
		return err
	}
	if visible {
		return xfixes.ShowCursorChecked(c.XUtil.Conn(), c.Root).Check()
	}
	return xfixes.HideCursorChecked(c.XUtil.Conn(), c.Root).Check()
}

func (c *Connection) initXFixes() error {
	c.xfixesOnce.Do(func() {
		if err := xfixes.Init(c.XUtil.Conn()); err != nil {
			c.xfixesErr = fmt.Errorf("xfixes init failed: %w", err)
			return
		}
		// Cursor hiding needs protocol version 4.
		if _, err := xfixes.QueryVersion(c.XUtil.Conn(), 4, 0).Reply(); err != nil {
			c.xfixesErr = fmt.Errorf("xfixes version query failed: %w", err)
		}
	})
	return c.xfixesErr
}
