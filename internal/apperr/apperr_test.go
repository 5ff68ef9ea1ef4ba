package apperr

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestIs_ThroughWrapping(t *testing.T) {
	base := New(NetworkError, "download failed").With("service", "Kaggle API")
	wrapped := fmt.Errorf("source kaggle: %w", base)

	if !Is(wrapped, NetworkError) {
		t.Errorf("Is(wrapped, NetworkError) = false, want true")
	}
	if Is(wrapped, PermissionError) {
		t.Errorf("Is(wrapped, PermissionError) = true, want false")
	}

	e, ok := As(wrapped)
	if !ok {
		t.Fatal("As() did not find *Error")
	}
	if got := e.Get("service", "remote service"); got != "Kaggle API" {
		t.Errorf("Get(service) = %q, want %q", got, "Kaggle API")
	}
	if got := e.Get("path", "unknown"); got != "unknown" {
		t.Errorf("Get(path) = %q, want fallback", got)
	}
}

func TestError_MessageIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(NetworkError, cause, "failed to reach %s", "hub")

	if got, want := err.Error(), "failed to reach hub: connection refused"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestFromFS(t *testing.T) {
	perm := FromFS(fmt.Errorf("open x: %w", fs.ErrPermission), "/x", "writing data")
	if !Is(perm, PermissionError) {
		t.Errorf("FromFS(permission) kind mismatch: %v", perm)
	}

	other := FromFS(fs.ErrNotExist, "/y", "reading data")
	if Is(other, PermissionError) {
		t.Errorf("FromFS(not exist) classified as permission error")
	}
	if !errors.Is(other, fs.ErrNotExist) {
		t.Errorf("FromFS(not exist) lost the cause")
	}

	if FromFS(nil, "/z", "noop") != nil {
		t.Error("FromFS(nil) should return nil")
	}
}
