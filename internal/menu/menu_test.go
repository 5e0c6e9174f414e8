package menu

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"pybuild-go/internal/cstmerr"
	"pybuild-go/internal/pyver"
	"pybuild-go/internal/remover"
)

type fakeInstaller struct {
	calls []string
	err   error
}

func (f *fakeInstaller) Install(_ context.Context, v pyver.Version) error {
	f.calls = append(f.calls, v.Raw)
	return f.err
}

type fakeRemover struct {
	calls []string
	err   error
}

func (f *fakeRemover) Remove(_ context.Context, v pyver.Version) error {
	f.calls = append(f.calls, v.Raw)
	return f.err
}

func runMenu(t *testing.T, input string, inst InstallService, rem RemoveService) string {
	t.Helper()
	var out bytes.Buffer
	m := New(inst, rem, log.New(io.Discard), bufio.NewReader(strings.NewReader(input)), &out)
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestExitChoice(t *testing.T) {
	inst := &fakeInstaller{}
	rem := &fakeRemover{}
	out := runMenu(t, "3\n", inst, rem)
	if !strings.Contains(out, "Bye.") {
		t.Errorf("exit message missing: %q", out)
	}
	if len(inst.calls)+len(rem.calls) != 0 {
		t.Error("operations dispatched on exit")
	}
}

func TestInvalidChoiceRedisplays(t *testing.T) {
	inst := &fakeInstaller{}
	rem := &fakeRemover{}
	out := runMenu(t, "9\n3\n", inst, rem)
	if got := strings.Count(out, "Select an option:"); got != 2 {
		t.Errorf("menu displayed %d times, want 2", got)
	}
	if !strings.Contains(out, "Invalid choice") {
		t.Errorf("invalid choice not reported: %q", out)
	}
	if len(inst.calls)+len(rem.calls) != 0 {
		t.Error("operations dispatched for invalid choice")
	}
}

func TestInstallDispatch(t *testing.T) {
	inst := &fakeInstaller{}
	rem := &fakeRemover{}
	// choice, version, pause-ack, exit
	out := runMenu(t, "1\n3.10.0\n\n3\n", inst, rem)
	if len(inst.calls) != 1 || inst.calls[0] != "3.10.0" {
		t.Fatalf("install calls = %v", inst.calls)
	}
	if !strings.Contains(out, "Install finished.") {
		t.Errorf("success not reported: %q", out)
	}
}

func TestInvalidVersionSkipsOperation(t *testing.T) {
	inst := &fakeInstaller{}
	rem := &fakeRemover{}
	out := runMenu(t, "1\nv3.10.0\n3\n", inst, rem)
	if len(inst.calls) != 0 {
		t.Fatalf("install ran with invalid version: %v", inst.calls)
	}
	if !strings.Contains(out, "does not match MAJOR.MINOR.PATCH") {
		t.Errorf("validation error not shown: %q", out)
	}
	// Back to the menu without a pause prompt.
	if got := strings.Count(out, "Select an option:"); got != 2 {
		t.Errorf("menu displayed %d times, want 2", got)
	}
}

func TestInstallFailureReturnsToMenu(t *testing.T) {
	inst := &fakeInstaller{err: cstmerr.NewDownloadError("no such version")}
	rem := &fakeRemover{}
	out := runMenu(t, "1\n3.99.0\n\n3\n", inst, rem)
	if len(inst.calls) != 1 {
		t.Fatalf("install calls = %v", inst.calls)
	}
	if !strings.Contains(out, "Install failed") {
		t.Errorf("failure not reported: %q", out)
	}
	if !strings.Contains(out, "Bye.") {
		t.Errorf("loop did not continue to exit: %q", out)
	}
}

func TestRemoveDeclinedMessage(t *testing.T) {
	inst := &fakeInstaller{}
	rem := &fakeRemover{err: remover.ErrDeclined}
	out := runMenu(t, "2\n3.10.0\n\n3\n", inst, rem)
	if len(rem.calls) != 1 {
		t.Fatalf("remove calls = %v", rem.calls)
	}
	if !strings.Contains(out, "Removal cancelled") {
		t.Errorf("decline not reported: %q", out)
	}
}

func TestEOFTerminatesLoop(t *testing.T) {
	out := runMenu(t, "", &fakeInstaller{}, &fakeRemover{})
	if !strings.Contains(out, "Select an option:") {
		t.Errorf("menu never displayed: %q", out)
	}
}
