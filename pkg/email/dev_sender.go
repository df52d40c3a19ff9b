package email

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevSender implements Sender for local development by writing messages to
// disk instead of sending them through a provider.
type DevSender struct {
	dir string
}

// NewDevSender creates a development sender that saves emails under dir.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir}
}

var filenameRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// SendEmail writes the message body as an HTML file named after the
// timestamp and subject.
func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", ErrSendFailed, err)
	}

	name := params.Tag
	if name == "" {
		name = params.Subject
	}
	name = strings.ToLower(filenameRegex.ReplaceAllString(strings.ReplaceAll(name, " ", "_"), ""))
	if name == "" {
		name = "email"
	}

	path := filepath.Join(d.dir, fmt.Sprintf("%s_%s.html", time.Now().Format("2006_01_02_150405"), name))
	if err := os.WriteFile(path, []byte(params.BodyHTML), 0o644); err != nil {
		return fmt.Errorf("%w: failed to write file: %v", ErrSendFailed, err)
	}
	return nil
}
