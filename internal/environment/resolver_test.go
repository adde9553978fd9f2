// SPDX-License-Identifier: MPL-2.0

package environment

import (
	"errors"
	"sync"
	"testing"
)

// foreignSpec satisfies Spec through embedding but is not one of the known variants.
type foreignSpec struct {
	IsolatedEnvironment
}

func TestResolve_DefaultEnvironment(t *testing.T) {
	t.Parallel()

	spec := DefaultEnvironmentFor("/usr/bin/python3.10")
	inv, err := Resolve(spec)
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if inv.Kind != KindDefault {
		t.Errorf("Kind = %q, want %q", inv.Kind, KindDefault)
	}
	if inv.Command != "/usr/bin/python3.10" {
		t.Errorf("Command = %q, want %q", inv.Command, "/usr/bin/python3.10")
	}
	if inv.Image != "" {
		t.Errorf("Image = %q, want empty", inv.Image)
	}
}

func TestNewDefaultEnvironment_CapturesOnce(t *testing.T) {
	orig := executable
	t.Cleanup(func() { executable = orig })

	executable = func() (string, error) { return "/usr/bin/python3.10", nil }
	spec := NewDefaultEnvironment()

	// Later changes to the host must not leak into an already built spec.
	executable = func() (string, error) { return "/somewhere/else", nil }

	for range 3 {
		inv, err := Resolve(spec)
		if err != nil {
			t.Fatalf("Resolve() unexpected error: %v", err)
		}
		if inv.Command != "/usr/bin/python3.10" {
			t.Errorf("Command = %q, want %q", inv.Command, "/usr/bin/python3.10")
		}
	}
}

func TestHostInterpreter_FallsBackToArgs(t *testing.T) {
	orig := executable
	t.Cleanup(func() { executable = orig })

	executable = func() (string, error) { return "", errors.New("unsupported") }
	got := HostInterpreter()
	if got == "" {
		t.Error("HostInterpreter() returned empty path, want os.Args[0]")
	}
}

func TestResolve_IsolatedEnvironmentVerbatim(t *testing.T) {
	t.Parallel()

	paths := []InterpreterPath{
		"/opt/envs/myenv/bin/python",
		"relative/env/bin/python",
		"/opt/envs/with space/bin/python",
		"/opt/envs/myenv/bin/../bin/python",
		"/opt/envs/trailing/",
		"",
	}

	for _, p := range paths {
		t.Run(string(p), func(t *testing.T) {
			t.Parallel()

			inv, err := Resolve(IsolatedEnvironment{Path: p})
			if err != nil {
				t.Fatalf("Resolve(%q) unexpected error: %v", p, err)
			}
			if inv.Command != string(p) {
				t.Errorf("Command = %q, want %q", inv.Command, p)
			}
			if inv.Kind != KindIsolated {
				t.Errorf("Kind = %q, want %q", inv.Kind, KindIsolated)
			}
		})
	}
}

func TestResolve_ContainerEnvironmentPassThrough(t *testing.T) {
	t.Parallel()

	inv, err := Resolve(NewContainerEnvironment("myrepo/worker:1.2"))
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if !inv.IsContainer() {
		t.Error("IsContainer() = false, want true")
	}
	if inv.Image != "myrepo/worker:1.2" {
		t.Errorf("Image = %q, want %q", inv.Image, "myrepo/worker:1.2")
	}
	if inv.Command != "" {
		t.Errorf("Command = %q, want empty", inv.Command)
	}
	if inv.Target() != "myrepo/worker:1.2" {
		t.Errorf("Target() = %q, want %q", inv.Target(), "myrepo/worker:1.2")
	}
}

func TestResolve_ContainerSupportDisabled(t *testing.T) {
	t.Parallel()

	r := NewResolver(WithContainerSupport(false))
	inv, err := r.Resolve(NewContainerEnvironment("myrepo/worker:1.2"))
	if !errors.Is(err, ErrUnsupportedEnvironment) {
		t.Fatalf("Resolve() error = %v, want ErrUnsupportedEnvironment", err)
	}
	if inv != (Invocation{}) {
		t.Errorf("Resolve() returned %+v alongside error, want zero Invocation", inv)
	}

	var unsupported *UnsupportedEnvironmentError
	if !errors.As(err, &unsupported) || unsupported.Kind != KindContainer {
		t.Errorf("error = %#v, want *UnsupportedEnvironmentError for container", err)
	}

	// Other kinds are unaffected.
	if _, err := r.Resolve(IsolatedEnvironment{Path: "/opt/env/bin/python"}); err != nil {
		t.Errorf("Resolve(isolated) unexpected error: %v", err)
	}
}

func TestResolve_InvalidSpecification(t *testing.T) {
	t.Parallel()

	var nilDefault *DefaultEnvironment
	var nilIsolated *IsolatedEnvironment
	var nilContainer *ContainerEnvironment

	tests := []struct {
		name string
		spec Spec
	}{
		{"nil interface", nil},
		{"nil default pointer", nilDefault},
		{"nil isolated pointer", nilIsolated},
		{"nil container pointer", nilContainer},
		{"zero default environment", DefaultEnvironment{}},
		{"foreign implementation", foreignSpec{IsolatedEnvironment{Path: "/x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			inv, err := Resolve(tt.spec)
			if !errors.Is(err, ErrInvalidSpecification) {
				t.Fatalf("Resolve() error = %v, want ErrInvalidSpecification", err)
			}
			if inv != (Invocation{}) {
				t.Errorf("Resolve() returned %+v, want zero Invocation", inv)
			}
			var specErr *InvalidSpecificationError
			if !errors.As(err, &specErr) {
				t.Errorf("error %T is not *InvalidSpecificationError", err)
			}
		})
	}
}

func TestResolve_PointerVariants(t *testing.T) {
	t.Parallel()

	def := DefaultEnvironmentFor("/usr/bin/python3")
	iso := IsolatedEnvironment{Path: "/opt/env/bin/python"}
	ctr := ContainerEnvironment{Image: "python:3.12"}

	tests := []struct {
		spec Spec
		want Invocation
	}{
		{&def, Invocation{Kind: KindDefault, Command: "/usr/bin/python3"}},
		{&iso, Invocation{Kind: KindIsolated, Command: "/opt/env/bin/python"}},
		{&ctr, Invocation{Kind: KindContainer, Image: "python:3.12"}},
	}

	for _, tt := range tests {
		got, err := Resolve(tt.spec)
		if err != nil {
			t.Errorf("Resolve(%T) unexpected error: %v", tt.spec, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%T) = %+v, want %+v", tt.spec, got, tt.want)
		}
	}
}

func TestResolve_DeterministicUnderConcurrency(t *testing.T) {
	t.Parallel()

	specs := []Spec{
		DefaultEnvironmentFor("/usr/bin/python3.10"),
		IsolatedEnvironment{Path: "/opt/envs/myenv/bin/python"},
		ContainerEnvironment{Image: "myrepo/worker:1.2"},
	}
	r := NewResolver()

	want := make([]Invocation, len(specs))
	for i, s := range specs {
		inv, err := r.Resolve(s)
		if err != nil {
			t.Fatalf("Resolve(%T) unexpected error: %v", s, err)
		}
		want[i] = inv
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64*len(specs))
	for range 64 {
		for i, s := range specs {
			wg.Go(func() {
				got, err := r.Resolve(s)
				if err != nil || got != want[i] {
					errs <- got.String()
				}
			})
		}
	}
	wg.Wait()
	close(errs)

	for got := range errs {
		t.Errorf("concurrent Resolve() produced divergent result %q", got)
	}
}

func TestInvocation_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		inv  Invocation
		want string
	}{
		{Invocation{Kind: KindDefault, Command: "/usr/bin/python3"}, "default:/usr/bin/python3"},
		{Invocation{Kind: KindIsolated, Command: "venv/bin/python"}, "isolated:venv/bin/python"},
		{Invocation{Kind: KindContainer, Image: "python:3.12"}, "container:python:3.12"},
	}

	for _, tt := range tests {
		if got := tt.inv.String(); got != tt.want {
			t.Errorf("Invocation.String() = %q, want %q", got, tt.want)
		}
	}
}
