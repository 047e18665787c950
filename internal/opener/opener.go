// Package opener hands URLs and file paths to the desktop's default
// handler.
package opener

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"

	"github.com/pkg/browser"
)

func init() {
	// Handlers sometimes print to stdout, which may be the stdio transport.
	browser.Stdout = os.Stderr
}

// Opener opens targets with the platform default handler.
type Opener struct {
	// Argv, if set, replaces the platform handler: the returned command is
	// started and not waited for.
	Argv func(target string) []string
}

// Open hands target to the default handler. URLs with a scheme go to
// the browser lookup; anything else is treated as a file path.
func (o *Opener) Open(target string) error {
	if target == "" {
		return errors.New("empty target")
	}
	if o.Argv != nil {
		return o.start(target)
	}

	var err error
	if IsURL(target) {
		err = browser.OpenURL(target)
	} else {
		err = browser.OpenFile(target)
	}
	if err != nil {
		return fmt.Errorf("opening %s: %w", target, err)
	}
	return nil
}

func (o *Opener) start(target string) error {
	argv := o.Argv(target)
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening %s with %s: %w", target, argv[0], err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// IsURL reports whether target carries a URL scheme. Single-letter
// schemes are Windows drive letters, not URLs.
func IsURL(target string) bool {
	u, err := url.Parse(target)
	return err == nil && len(u.Scheme) > 1
}
