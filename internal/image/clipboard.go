package image

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

// CopyToClipboard places the image on the system clipboard.
func CopyToClipboard(info *ImageInfo) error {
	if info == nil || len(info.Data) == 0 {
		return fmt.Errorf("no image to copy")
	}
	switch runtime.GOOS {
	case "darwin":
		return copyClipboardMacOS(info)
	case "linux":
		return copyClipboardLinux(info)
	default:
		return fmt.Errorf("clipboard not supported on %s", runtime.GOOS)
	}
}

// copyClipboardMacOS writes the image to the macOS clipboard using osascript.
func copyClipboardMacOS(info *ImageInfo) error {
	tmpFile := filepath.Join(os.TempDir(), fmt.Sprintf("clipboard_%d%s", time.Now().UnixNano(), info.Extension()))
	if err := os.WriteFile(tmpFile, info.Data, 0600); err != nil {
		return fmt.Errorf("failed to stage clipboard image: %w", err)
	}
	defer os.Remove(tmpFile)

	class := "«class PNGf»"
	if info.Extension() == ".jpg" {
		class = "JPEG picture"
	}
	script := fmt.Sprintf(`set the clipboard to (read (POSIX file "%s") as %s)`, tmpFile, class)

	if out, err := exec.Command("osascript", "-e", script).CombinedOutput(); err != nil {
		return fmt.Errorf("failed to write clipboard: %w: %s", err, bytes.TrimSpace(out))
	}
	return nil
}

// copyClipboardLinux writes the image to the Linux clipboard using
// wl-copy or xclip.
func copyClipboardLinux(info *ImageInfo) error {
	mediaType := info.MediaType
	if mediaType == "" {
		mediaType = "image/png"
	}

	cmd := exec.Command("wl-copy", "--type", mediaType)
	if os.Getenv("WAYLAND_DISPLAY") == "" {
		cmd = exec.Command("xclip", "-selection", "clipboard", "-t", mediaType, "-i")
	}
	cmd.Stdin = bytes.NewReader(info.Data)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to write clipboard: %w: %s", err, bytes.TrimSpace(out))
	}
	return nil
}
