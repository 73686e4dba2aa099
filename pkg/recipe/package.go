package recipe

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/musicscience37/htbuild/pkg/errors"
)

// Package runs the packaging rule: every file matching [HeaderPattern] under
// src/[ExportedSources] is copied to dst, keeping its path relative to src.
// Build scripts, tests and non-header sources are never copied.
//
// It returns the copied paths relative to dst, in lexical order.
func (r *Recipe) Package(ctx context.Context, src, dst string) ([]string, error) {
	exported := filepath.Join(src, ExportedSources)
	info, err := os.Stat(exported)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileSystem, err, "read exported sources")
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeFileSystem, "exported sources %s is not a directory", exported)
	}

	var copied []string
	err = filepath.WalkDir(exported, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !IsHeader(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if err := copyFile(path, filepath.Join(dst, rel)); err != nil {
			return err
		}
		copied = append(copied, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return copied, err
		}
		return copied, errors.Wrap(errors.ErrCodeFileSystem, err, "package headers into %s", dst)
	}
	return copied, nil
}

// IsHeader reports whether a file name matches [HeaderPattern].
func IsHeader(name string) bool {
	ok, _ := filepath.Match(HeaderPattern, name)
	return ok
}

func copyFile(from, to string) error {
	if err := os.MkdirAll(filepath.Dir(to), 0755); err != nil {
		return err
	}
	in, err := os.Open(from)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(to, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
