package fs

import (
	"context"
	"encoding/json"
	"fmt"
)

// Identity file formats.
const (
	// FormatRaw writes the credential bytes as-is.
	FormatRaw = "raw"
	// FormatJSON writes the credential as a JSON string literal.
	FormatJSON = "json"
)

// IdentityFile implements ports.IdentityWriter by replacing a file the host
// reads its credential from.
type IdentityFile struct {
	path   string
	format string
}

// NewIdentityFile creates a writer for path. An empty format means FormatRaw.
func NewIdentityFile(path, format string) *IdentityFile {
	if format == "" {
		format = FormatRaw
	}
	return &IdentityFile{path: path, format: format}
}

// Write atomically replaces the identity file with credential.
func (f *IdentityFile) Write(ctx context.Context, credential string) error {
	if f.path == "" {
		return fmt.Errorf("identity path not configured")
	}

	var data []byte
	switch f.format {
	case FormatRaw:
		data = []byte(credential)
	case FormatJSON:
		b, err := json.Marshal(credential)
		if err != nil {
			return err
		}
		data = b
	default:
		return fmt.Errorf("unknown identity format %q", f.format)
	}

	if err := writeFileAtomic(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write identity: %w", err)
	}
	return nil
}

// Path returns the identity file path.
func (f *IdentityFile) Path() string {
	return f.path
}
