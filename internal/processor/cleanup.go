package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// moveToArchived moves a processed source into the archived folder.
func (p *implProcessor) moveToArchived(ctx context.Context, sourcePath string) (string, error) {
	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return "", fmt.Errorf("create archived dir: %w", err)
	}
	destPath := filepath.Join(p.cfg.Paths.Archived, filepath.Base(sourcePath))

	p.logger.Info(ctx, "Archiving source: %s -> %s", sourcePath, destPath)

	if err := os.Rename(sourcePath, destPath); err != nil {
		// rename fails across filesystems
		if err := copyFile(sourcePath, destPath); err != nil {
			return "", fmt.Errorf("archive source: %w", err)
		}
		if err := os.Remove(sourcePath); err != nil {
			return "", fmt.Errorf("remove archived source: %w", err)
		}
	}

	return destPath, nil
}

// cleanupTempDir removes a work directory, logs warning if fails
func (p *implProcessor) cleanupTempDir(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup temp dir %s: %v", dir, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp dir: %s", dir)
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy: %w", err)
	}
	return out.Close()
}
