package state

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestFileMedium_GetMissing(t *testing.T) {
	medium := NewFileMedium(t.TempDir())

	data, ok, err := medium.Get("todos")
	if err != nil {
		t.Fatalf("failed to read missing key: %v", err)
	}
	if ok || data != nil {
		t.Fatalf("expected nothing stored, got %q", data)
	}
}

func TestFileMedium_PutGet(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "nested", "state")
	medium := NewFileMedium(tmpDir)

	if err := medium.Put("todos", []byte(`{"records":[]}`)); err != nil {
		t.Fatalf("failed to put: %v", err)
	}

	data, ok, err := medium.Get("todos")
	if err != nil || !ok {
		t.Fatalf("failed to get: ok=%v err=%v", ok, err)
	}
	if string(data) != `{"records":[]}` {
		t.Errorf("unexpected payload %q", data)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "todos.json")); err != nil {
		t.Errorf("expected todos.json: %v", err)
	}
}

func TestFileMedium_PutSkipsUnchangedPayload(t *testing.T) {
	medium := NewFileMedium(t.TempDir())
	payload := []byte("same\n")

	if err := medium.Put("users", payload); err != nil {
		t.Fatalf("failed to put: %v", err)
	}
	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	if err := os.Chtimes(medium.Path("users"), past, past); err != nil {
		t.Fatalf("failed to set mtime: %v", err)
	}

	if err := medium.Put("users", payload); err != nil {
		t.Fatalf("failed to put again: %v", err)
	}

	info, err := os.Stat(medium.Path("users"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.ModTime().Equal(past) {
		t.Errorf("expected unchanged file to keep mtime %v, got %v", past, info.ModTime())
	}
}

func TestFileMedium_PutLeavesNoTempFiles(t *testing.T) {
	tmpDir := t.TempDir()
	medium := NewFileMedium(tmpDir)

	for _, payload := range []string{"one", "two", "three"} {
		if err := medium.Put("todos", []byte(payload)); err != nil {
			t.Fatalf("failed to put: %v", err)
		}
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if entry.Name() != "todos.json" && entry.Name() != "state.lock" {
			t.Errorf("unexpected file %s", entry.Name())
		}
	}
}

func TestFileMedium_InvalidKey(t *testing.T) {
	medium := NewFileMedium(t.TempDir())

	for _, key := range []string{"", "../escape", "Upper", "a/b"} {
		if err := medium.Put(key, []byte("x")); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Put(%q): expected ErrInvalidKey, got %v", key, err)
		}
		if _, _, err := medium.Get(key); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Get(%q): expected ErrInvalidKey, got %v", key, err)
		}
	}
}

func TestFileMedium_UnwritableDir(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	medium := NewFileMedium(filepath.Join(blocker, "state"))

	if err := medium.Put("todos", []byte("x")); err == nil {
		t.Fatal("expected error writing beneath a regular file")
	}
}

func TestFileMedium_ConcurrentPuts(t *testing.T) {
	tmpDir := t.TempDir()

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			medium := NewFileMedium(tmpDir)
			errs <- medium.Put("todos", []byte{byte('a' + i)})
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent put failed: %v", err)
		}
	}

	data, ok, err := NewFileMedium(tmpDir).Get("todos")
	if err != nil || !ok || len(data) != 1 {
		t.Fatalf("expected one complete payload, got %q ok=%v err=%v", data, ok, err)
	}
}

func TestMemoryMedium(t *testing.T) {
	medium := NewMemoryMedium()
	failure := errors.New("unavailable")

	if _, ok, err := medium.Get("todos"); ok || err != nil {
		t.Fatalf("expected empty medium, got ok=%v err=%v", ok, err)
	}

	payload := []byte("data")
	if err := medium.Put("todos", payload); err != nil {
		t.Fatalf("put: %v", err)
	}
	payload[0] = 'X'
	got, _, _ := medium.Get("todos")
	if string(got) != "data" {
		t.Fatalf("expected stored copy, got %q", got)
	}

	medium.FailPuts(failure)
	if err := medium.Put("todos", []byte("new")); !errors.Is(err, failure) {
		t.Fatalf("expected put failure, got %v", err)
	}
	got, _, _ = medium.Get("todos")
	if string(got) != "data" {
		t.Fatalf("expected failed put to keep old payload, got %q", got)
	}

	medium.FailGets(failure)
	if _, _, err := medium.Get("todos"); !errors.Is(err, failure) {
		t.Fatalf("expected get failure, got %v", err)
	}

	if medium.Puts() != 2 {
		t.Fatalf("expected 2 attempted puts, got %d", medium.Puts())
	}
}
