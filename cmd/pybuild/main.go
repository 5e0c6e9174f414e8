package main

import (
	"bufio"
	"context"
	"os"

	"github.com/charmbracelet/log"

	"pybuild-go/configs/config"
	"pybuild-go/internal/fetch"
	"pybuild-go/internal/installer"
	"pybuild-go/internal/menu"
	"pybuild-go/internal/remover"
	"pybuild-go/internal/sysexec"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "pybuild",
	})

	cfg, err := config.Load(os.Getenv("PYBUILD_CONF"))
	if err != nil {
		logger.Fatal("failed to load configuration", "err", err)
	}

	runner := sysexec.NewExecAdapter()
	fetcher := fetch.New(runner, logger)

	// One buffered reader over stdin, shared by every prompt.
	in := bufio.NewReader(os.Stdin)
	out := os.Stdout

	inst := installer.New(cfg, runner, fetcher, logger, in, out)
	rem := remover.New(cfg, runner, logger, in, out)

	m := menu.New(inst, rem, logger, in, out)
	if err := m.Run(context.Background()); err != nil {
		logger.Fatal("interactive session failed", "err", err)
	}
}
