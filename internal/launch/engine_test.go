// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"errors"
	"os/exec"
	"testing"
)

// stubLookPath replaces lookPath with a fake PATH containing only the given binaries.
// Tests using it must not run in parallel.
func stubLookPath(t *testing.T, installed map[string]string) {
	t.Helper()
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })
	lookPath = func(name string) (string, error) {
		if p, ok := installed[name]; ok {
			return p, nil
		}
		return "", exec.ErrNotFound
	}
}

func TestDetectEngine_Preferred(t *testing.T) {
	stubLookPath(t, map[string]string{"docker": "/usr/bin/docker", "podman": "/usr/bin/podman"})

	p, err := DetectEngine(EnginePodman)
	if err != nil {
		t.Fatalf("DetectEngine() unexpected error: %v", err)
	}
	if p.Engine != EnginePodman || p.EngineBinary != "/usr/bin/podman" {
		t.Errorf("DetectEngine() = %+v, want podman at /usr/bin/podman", p)
	}
}

func TestDetectEngine_Fallback(t *testing.T) {
	stubLookPath(t, map[string]string{"podman": "/usr/local/bin/podman"})

	p, err := DetectEngine(EngineDocker)
	if err != nil {
		t.Fatalf("DetectEngine() unexpected error: %v", err)
	}
	if p.Engine != EnginePodman || p.EngineBinary != "/usr/local/bin/podman" {
		t.Errorf("DetectEngine() = %+v, want podman fallback", p)
	}
}

func TestDetectEngine_NoneInstalled(t *testing.T) {
	stubLookPath(t, nil)

	_, err := DetectEngine(EngineDocker)
	if !errors.Is(err, ErrEngineNotAvailable) {
		t.Fatalf("DetectEngine() error = %v, want ErrEngineNotAvailable", err)
	}
	var notAvail *EngineNotAvailableError
	if !errors.As(err, &notAvail) || notAvail.Engine != EngineDocker {
		t.Errorf("error = %#v, want *EngineNotAvailableError for docker", err)
	}
}

func TestDetectEngine_InvalidPreference(t *testing.T) {
	stubLookPath(t, map[string]string{"docker": "/usr/bin/docker"})

	if _, err := DetectEngine("containerd"); !errors.Is(err, ErrInvalidEngineType) {
		t.Errorf("DetectEngine(containerd) error = %v, want ErrInvalidEngineType", err)
	}
}

func TestEngineType_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		engine  EngineType
		wantErr bool
	}{
		{EngineDocker, false},
		{EnginePodman, false},
		{"", true},
		{"Docker", true},
	}

	for _, tt := range tests {
		err := tt.engine.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("EngineType(%q).Validate() error = %v, wantErr %v", tt.engine, err, tt.wantErr)
		}
	}
}
