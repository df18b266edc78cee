package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Dir writes artifacts into a local directory. Each file is written to a
// temporary name first and renamed into place.
type Dir struct {
	Path string
}

func (d Dir) Prepare(ctx context.Context) error {
	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

func (d Dir) Write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	final := d.Location(name)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move %s into place: %w", name, err)
	}
	return nil
}

func (d Dir) Location(name string) string {
	return filepath.Join(d.Path, name)
}
