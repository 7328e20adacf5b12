package platform

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/muesli/termenv"
)

func ValidateURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("post has no URL")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid URL format")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid URL host")
	}
	return trimmed, nil
}

func OpenURLInBrowser(raw string) error {
	u, err := ValidateURL(raw)
	if err != nil {
		return err
	}
	name, args := browserCommand(runtime.GOOS, u)
	return exec.Command(name, args...).Run()
}

func browserCommand(goos, u string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{u}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", u}
	default:
		return "xdg-open", []string{u}
	}
}

// CopyToClipboard writes text to the system clipboard. Without a clipboard
// utility (e.g. over SSH) it falls back to an OSC 52 sequence, which most
// terminals forward to the local clipboard.
func CopyToClipboard(text string) error {
	return copyWith(text, clipboardWriters())
}

type clipboardWriter func(string) error

func clipboardWriters() []clipboardWriter {
	writers := make([]clipboardWriter, 0, 2)
	if !clipboard.Unsupported {
		writers = append(writers, clipboard.WriteAll)
	}
	writers = append(writers, func(text string) error {
		if os.Getenv("TERM") == "dumb" {
			return errors.New("terminal does not support OSC 52")
		}
		termenv.NewOutput(os.Stdout).Copy(text)
		return nil
	})
	return writers
}

func copyWith(text string, writers []clipboardWriter) error {
	for _, w := range writers {
		if err := w(text); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no clipboard available")
}
