// Package workspace owns the working-directory lifecycle for a
// fixed-point run: the idempotent reset at run start, seeding the
// index-0 iterate, and copying the final iterate out at the end.
package workspace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/HesslerY/Newton-Krylov-OOC/internal/artifact"
)

// Reset deletes and recreates the working directory. Artifacts from a
// previous run never leak into the current one.
func Reset(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clear workdir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create workdir: %w", err)
	}
	return nil
}

// Seed copies the seed iterate into the workspace as the index-0
// iterate. A missing seed is fatal at startup.
func Seed(seedFname string, l artifact.Layout) error {
	if _, err := os.Stat(seedFname); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("seed iterate not found: %s", seedFname)
		}
		return fmt.Errorf("failed to stat seed iterate: %w", err)
	}
	dst := l.Path(l.IterateFname(0))
	if err := CopyFile(seedFname, dst); err != nil {
		return fmt.Errorf("failed to seed workspace: %w", err)
	}
	return nil
}

// Export copies the final derived iterate to its well-known location
// outside the working directory.
func Export(l artifact.Layout, fpCnt int, outFname string) error {
	src := l.Path(l.IterateFname(fpCnt))
	if dir := filepath.Dir(outFname); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := CopyFile(src, outFname); err != nil {
		return fmt.Errorf("failed to export final iterate: %w", err)
	}
	return nil
}

// CopyFile copies src to dst, replacing dst if it exists.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
