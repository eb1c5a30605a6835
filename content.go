package arscene

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// ErrOverlayUnavailable is returned by a ContentOverlay that cannot show
// content right now, triggering the external-open fallback.
var ErrOverlayUnavailable = errors.New("arscene: content overlay unavailable")

// ContentOverlay shows external content (a web page, a document) over the
// scene.
type ContentOverlay interface {
	RequestOverlay(url string) error
}

// Opener opens a URL outside the process.
type Opener interface {
	OpenExternally(url string) error
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(url string) error

// OpenExternally calls f.
func (f OpenerFunc) OpenExternally(url string) error {
	return f(url)
}

// SystemOpener opens URLs with the platform's default handler: open on
// macOS, rundll32 on Windows and xdg-open elsewhere. The command is started
// and not waited on.
type SystemOpener struct{}

// OpenExternally implements Opener.
func (SystemOpener) OpenExternally(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// requestContent asks the overlay for url, falling back to the opener when
// there is no overlay or it reports an error.
func requestContent(overlay ContentOverlay, opener Opener, url string) error {
	if overlay != nil {
		err := overlay.RequestOverlay(url)
		if err == nil {
			return nil
		}
		if opener == nil {
			return err
		}
	}
	if opener == nil {
		return ErrOverlayUnavailable
	}
	return opener.OpenExternally(url)
}
