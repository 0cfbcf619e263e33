package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Open launches url in the user's default browser. Used by the docs
// command to bring up the backend's Swagger UI.
func Open(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("browser: unsupported OS %s", runtime.GOOS)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("browser: %w", err)
	}
	return nil
}
