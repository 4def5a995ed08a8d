package state

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"syscall"
)

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// FileMedium stores each key as <dir>/<key>.json.
type FileMedium struct {
	dir string
}

// NewFileMedium creates a file medium rooted at dir. The directory is created
// on the first write.
func NewFileMedium(dir string) *FileMedium {
	return &FileMedium{dir: dir}
}

// Dir returns the directory holding the state files.
func (m *FileMedium) Dir() string {
	return m.dir
}

// Path returns the file that stores key.
func (m *FileMedium) Path(key string) string {
	return filepath.Join(m.dir, key+".json")
}

// lockPath returns the path to the lock file.
func (m *FileMedium) lockPath() string {
	return filepath.Join(m.dir, "state.lock")
}

// Get reads the payload for key. A missing file is not an error.
func (m *FileMedium) Get(key string) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(m.Path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read state file: %w", err)
	}
	return data, true, nil
}

// Put writes payload atomically under an exclusive lock. Writing a payload
// identical to the stored one leaves the file untouched.
func (m *FileMedium) Put(key string, payload []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	lockFile, err := os.OpenFile(m.lockPath(), os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer lockFile.Close()

	if err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer syscall.Flock(int(lockFile.Fd()), syscall.LOCK_UN)

	path := m.Path(key)
	if existing, err := os.ReadFile(path); err == nil {
		if bytes.Equal(existing, payload) {
			return nil
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read state file: %w", err)
	}

	// Write atomically via temp file
	tmpFile, err := os.CreateTemp(m.dir, filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	name := tmpFile.Name()
	_, err = tmpFile.Write(payload)
	if err1 := tmpFile.Close(); err1 != nil && err == nil {
		err = err1
	}
	if err != nil {
		os.Remove(name)
		return fmt.Errorf("write temp state file: %w", err)
	}

	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("rename state file: %w", err)
	}

	return nil
}

// Close is a no-op; files are opened per call.
func (m *FileMedium) Close() error {
	return nil
}

func checkKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
