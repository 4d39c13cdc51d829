package surface

import (
	"context"

	"github.com/pkg/browser"
)

// SystemBrowser opens targets in the host's default browser. A desktop
// browser can't be closed by the app, so Dismiss does nothing.
type SystemBrowser struct{}

func NewSystemBrowser() *SystemBrowser {
	return &SystemBrowser{}
}

func (b *SystemBrowser) Open(ctx context.Context, target string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return browser.OpenURL(target)
}

func (b *SystemBrowser) Dismiss() error {
	return nil
}
