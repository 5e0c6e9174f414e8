// Package fetch downloads the CPython source archive. The external wget tool
// is used when present so the operator gets its familiar progress display;
// when wget is not on the search path, the archive is fetched in-process over
// HTTP with an equivalent progress bar.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"
	"resty.dev/v3"

	"pybuild-go/internal/cstmerr"
	"pybuild-go/internal/sysexec"
)

// Fetcher fetches archives into a destination directory.
type Fetcher struct {
	runner sysexec.Runner
	client *resty.Client
	logger *log.Logger

	// ProgressOut receives the fallback progress bar. Defaults to stderr.
	ProgressOut io.Writer
}

// New creates a Fetcher with transport settings suited to large file
// downloads.
func New(runner sysexec.Runner, logger *log.Logger) *Fetcher {
	transportSettings := &resty.TransportSettings{
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 60 * time.Second,
	}
	client := resty.NewWithTransportSettings(transportSettings)
	return &Fetcher{
		runner:      runner,
		client:      client,
		logger:      logger,
		ProgressOut: os.Stderr,
	}
}

// Fetch downloads url into destDir under the URL's last path segment and
// returns the destination path. Any failure is a DownloadError; a typical
// cause is a version that does not exist upstream.
func (f *Fetcher) Fetch(ctx context.Context, url string, destDir string) (string, error) {
	dest := filepath.Join(destDir, path.Base(url))

	if _, err := f.runner.LookPath("wget"); err == nil {
		if err := f.fetchWithWget(ctx, url, destDir); err != nil {
			return "", err
		}
		return dest, nil
	}

	f.logger.Warn("wget not found on PATH, using built-in downloader")
	if err := f.fetchDirect(url, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func (f *Fetcher) fetchWithWget(ctx context.Context, url, destDir string) error {
	res, err := f.runner.Run(ctx, sysexec.Command{
		Name:   "wget",
		Args:   []string{"-q", "--show-progress", "--progress=bar:force", url},
		Dir:    destDir,
		Stream: true,
	})
	if err != nil {
		return cstmerr.NewDownloadError(fmt.Sprintf("failed to start wget: %v", err))
	}
	if !res.Success() {
		return cstmerr.NewDownloadError(
			fmt.Sprintf("wget exited with status %d fetching %s", res.ExitCode, url))
	}
	return nil
}

// fetchDirect streams the archive to disk over HTTP, showing byte progress.
func (f *Fetcher) fetchDirect(url, destinationPath string) error {
	totalSize := int64(-1)
	if headResp, err := f.client.R().Head(url); err == nil {
		if headResp.StatusCode() == http.StatusOK {
			if n, err := strconv.ParseInt(headResp.Header().Get("Content-Length"), 10, 64); err == nil && n > 0 {
				totalSize = n
			}
		}
		headResp.Body.Close()
	}

	resp, err := f.client.R().SetDoNotParseResponse(true).Get(url)
	if err != nil {
		return cstmerr.NewDownloadError(fmt.Sprintf("download GET request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode() != http.StatusOK {
		return cstmerr.NewDownloadError(fmt.Sprintf("download request failed with status: %d", resp.StatusCode()))
	}

	destFile, err := os.OpenFile(destinationPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return cstmerr.NewFileIOError(fmt.Sprintf("failed to create destination file %s", destinationPath), err)
	}
	defer destFile.Close()

	bar := progressbar.NewOptions64(
		totalSize,
		progressbar.OptionSetDescription(path.Base(destinationPath)),
		progressbar.OptionSetWriter(f.progressOut()),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(time.Second/30),
	)

	bytesWritten, err := io.Copy(io.MultiWriter(destFile, bar), resp.RawResponse.Body)
	if err != nil {
		return cstmerr.NewDownloadError(fmt.Sprintf("error reading download stream or writing to file: %v", err))
	}

	f.logger.Info("download complete", "path", destinationPath, "bytes", bytesWritten)
	return nil
}

func (f *Fetcher) progressOut() io.Writer {
	if f.ProgressOut != nil {
		return f.ProgressOut
	}
	return os.Stderr
}
