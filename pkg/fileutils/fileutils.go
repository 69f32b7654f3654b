package fileutils

import (
	"io"
	"os"
	"path/filepath"

	"github.com/ClevertecFrontendLab/check-test/pkg/errs"
	"github.com/ClevertecFrontendLab/check-test/pkg/global"
)

// CopyFile copies the contents of the file named src to the file named
// by dst. The file will be created if it does not already exist. If the
// destination file exists, all it's contents will be replaced by the contents
// of the source file. The copied data is synced/flushed to stable storage.
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return
	}
	defer func() {
		if e := out.Close(); e != nil && err == nil {
			err = e
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return
	}

	return out.Sync()
}

// CheckIfExists checks if file or directory exists in the given path.
func CheckIfExists(path string) (bool, error) {
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) (bool, error) {
	si, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return si.IsDir(), nil
}

// CreateIfNotExists creates a file or a directory only if it does not already exist.
func CreateIfNotExists(path string, isDir bool) error {
	exists, err := CheckIfExists(path)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if isDir {
		if err := os.MkdirAll(path, global.DirectoryPermissions); err != nil {
			return errs.ErrDirCrt(err.Error())
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), global.DirectoryPermissions); err != nil {
		return errs.ErrDirCrt(err.Error())
	}
	f, err := os.OpenFile(path, os.O_CREATE, global.FilePermissions)
	if err != nil {
		return err
	}
	return f.Close()
}

// RemoveDir deletes directory and all its children
func RemoveDir(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return errs.ErrDirDel(err.Error())
	}
	return nil
}

// FileSize returns the size of the file in bytes
func FileSize(path string) (int64, error) {
	si, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return si.Size(), nil
}
