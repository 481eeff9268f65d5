package sandbox

import (
	"context"
	"strings"
	"testing"
)

// Replaces the command runner with a fake recording each invocation as a
// single command line.
func stubCommands(t *testing.T) *[]string {
	t.Helper()

	var calls []string
	orig := runCommand
	t.Cleanup(func() { runCommand = orig })

	runCommand = func(ctx context.Context, name string, args ...string) error {
		calls = append(calls, name+" "+strings.Join(args, " "))
		return nil
	}
	return &calls
}

func TestDivertAndUndivert(t *testing.T) {
	calls := stubCommands(t)
	d := &Diversion{Target: "/usr/sbin/policy-rc.d"}

	if err := d.divert(context.Background(), "/sandbox"); err != nil {
		t.Fatalf("divert: %v", err)
	}
	if err := d.undivert(context.Background()); err != nil {
		t.Fatalf("undivert: %v", err)
	}

	if len(*calls) != 2 {
		t.Fatalf("command calls = %d, want 2", len(*calls))
	}

	divert := (*calls)[0]
	for _, want := range []string{
		"dpkg-divert",
		"--divert /usr/sbin/policy-rc.d.dpkg-divert",
		"--root=/sandbox",
		"--rename",
		"--local",
	} {
		if !strings.Contains(divert, want) {
			t.Errorf("divert command %q missing %q", divert, want)
		}
	}

	undivert := (*calls)[1]
	if !strings.Contains(undivert, "--remove") {
		t.Errorf("undivert command %q missing --remove", undivert)
	}
	if !strings.Contains(undivert, "--root=/sandbox") {
		t.Errorf("undivert command %q missing root", undivert)
	}
}

func TestUndivertWithoutDivertIsNoOp(t *testing.T) {
	calls := stubCommands(t)
	d := &Diversion{Target: "/usr/sbin/policy-rc.d"}

	if err := d.undivert(context.Background()); err != nil {
		t.Fatalf("undivert: %v", err)
	}
	if len(*calls) != 0 {
		t.Fatalf("undivert before divert issued %d commands, want 0", len(*calls))
	}
}
