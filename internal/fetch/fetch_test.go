package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"pybuild-go/internal/cstmerr"
	"pybuild-go/internal/sysexec"
)

type fakeRunner struct {
	wgetMissing bool
	cmds        []sysexec.Command
	result      *sysexec.Result
}

func (r *fakeRunner) Run(_ context.Context, cmd sysexec.Command) (*sysexec.Result, error) {
	r.cmds = append(r.cmds, cmd)
	if r.result != nil {
		return r.result, nil
	}
	return &sysexec.Result{}, nil
}

func (r *fakeRunner) LookPath(file string) (string, error) {
	if r.wgetMissing && file == "wget" {
		return "", errors.New("not found")
	}
	return "/usr/bin/" + file, nil
}

func newTestFetcher(runner sysexec.Runner) *Fetcher {
	f := New(runner, log.New(io.Discard))
	f.ProgressOut = io.Discard
	return f
}

func TestFetchPrefersWget(t *testing.T) {
	runner := &fakeRunner{}
	f := newTestFetcher(runner)
	dir := t.TempDir()

	dest, err := f.Fetch(context.Background(), "https://example.org/ftp/3.10.0/Python-3.10.0.tgz", dir)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if dest != filepath.Join(dir, "Python-3.10.0.tgz") {
		t.Errorf("dest = %q", dest)
	}
	if len(runner.cmds) != 1 {
		t.Fatalf("expected one wget invocation, got %d", len(runner.cmds))
	}
	cmd := runner.cmds[0]
	if cmd.Name != "wget" || cmd.Dir != dir {
		t.Errorf("unexpected command: %+v", cmd)
	}
	if cmd.Args[len(cmd.Args)-1] != "https://example.org/ftp/3.10.0/Python-3.10.0.tgz" {
		t.Errorf("URL not passed to wget: %v", cmd.Args)
	}
}

func TestFetchWgetFailure(t *testing.T) {
	runner := &fakeRunner{result: &sysexec.Result{ExitCode: 8}}
	f := newTestFetcher(runner)

	_, err := f.Fetch(context.Background(), "https://example.org/ftp/3.99.0/Python-3.99.0.tgz", t.TempDir())
	var dlErr *cstmerr.DownloadError
	if !errors.As(err, &dlErr) {
		t.Fatalf("expected DownloadError, got %v", err)
	}
}

func TestFetchFallbackDownloads(t *testing.T) {
	payload := []byte("pretend this is a tarball")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	runner := &fakeRunner{wgetMissing: true}
	f := newTestFetcher(runner)
	dir := t.TempDir()

	dest, err := f.Fetch(context.Background(), srv.URL+"/Python-3.10.0.tgz", dir)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("downloaded content mismatch: %q", got)
	}
	if len(runner.cmds) != 0 {
		t.Errorf("fallback path ran %d commands", len(runner.cmds))
	}
}

func TestFetchFallbackNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	runner := &fakeRunner{wgetMissing: true}
	f := newTestFetcher(runner)

	_, err := f.Fetch(context.Background(), srv.URL+"/Python-3.99.0.tgz", t.TempDir())
	var dlErr *cstmerr.DownloadError
	if !errors.As(err, &dlErr) {
		t.Fatalf("expected DownloadError for 404, got %v", err)
	}
}
