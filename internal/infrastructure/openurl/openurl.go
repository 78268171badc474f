package openurl

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Opener launches the system browser. Soft mode swallows launch
// failures; the dashboard keeps running whether or not a browser is
// around.
type Opener struct {
	soft bool
}

func New() *Opener     { return &Opener{soft: false} }
func NewSoft() *Opener { return &Opener{soft: true} }

func (o *Opener) Open(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("empty url")
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	}

	if err := cmd.Run(); err != nil {
		if o.soft {
			return nil
		}
		return err
	}
	return nil
}
