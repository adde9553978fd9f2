// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"context"
	"io"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/invowk/envresolve/internal/environment"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// checkTestcontainersAvailable safely checks if testcontainers can be used.
// Provider detection can panic when no engine socket exists.
func checkTestcontainersAvailable() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		return false
	}
	defer provider.Close()
	return true
}

// TestContainerPlan_Integration resolves a container spec, plans it, and hands the
// planned image and entrypoint arguments to a real container launcher.
func TestContainerPlan_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if !checkTestcontainersAvailable() {
		t.Skip("skipping container integration test: testcontainers provider not available")
	}

	spec, err := environment.FromSettings(environment.Settings{Kind: "container", Image: "alpine:3.20"})
	if err != nil {
		t.Fatalf("FromSettings() unexpected error: %v", err)
	}
	inv, err := environment.Resolve(spec)
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}

	planner, err := NewPlanner(EngineDocker, "")
	if err != nil {
		t.Fatalf("NewPlanner() unexpected error: %v", err)
	}
	taskArgs := []string{"echo", "resolved from plan"}
	plan, err := planner.Plan(inv, Request{Args: taskArgs})
	if err != nil {
		t.Fatalf("Plan() unexpected error: %v", err)
	}

	argv := plan.Argv()
	imageIdx := slices.Index(argv, inv.Image)
	if imageIdx < 0 {
		t.Fatalf("planned argv %q does not contain image %q", argv, inv.Image)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:      argv[imageIdx],
			Cmd:        argv[imageIdx+1:],
			WaitingFor: wait.ForExit().WithExitTimeout(time.Minute),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("failed to start container: %v", err)
	}

	logs, err := ctr.Logs(ctx)
	if err != nil {
		t.Fatalf("failed to read container logs: %v", err)
	}
	defer logs.Close()

	out, err := io.ReadAll(logs)
	if err != nil {
		t.Fatalf("failed to read container logs: %v", err)
	}
	if !strings.Contains(string(out), "resolved from plan") {
		t.Errorf("container output = %q, want it to contain %q", out, "resolved from plan")
	}
}
