// Package menu is the interactive surface: a fixed three-choice loop that
// validates input and dispatches to the install and removal workflows.
// Invalid input is never fatal; every path except the explicit exit choice
// returns to the menu.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"pybuild-go/internal/pyver"
	"pybuild-go/internal/remover"
	"pybuild-go/internal/shared"
)

// InstallService runs the install workflow for a validated version.
type InstallService interface {
	Install(ctx context.Context, v pyver.Version) error
}

// RemoveService runs the removal workflow for a validated version.
type RemoveService interface {
	Remove(ctx context.Context, v pyver.Version) error
}

// Menu drives the interactive loop.
type Menu struct {
	installer InstallService
	remover   RemoveService
	logger    *log.Logger
	in        *bufio.Reader
	out       io.Writer
}

// New creates a Menu reading choices from in and writing to out.
func New(installer InstallService, remover RemoveService, logger *log.Logger, in *bufio.Reader, out io.Writer) *Menu {
	return &Menu{
		installer: installer,
		remover:   remover,
		logger:    logger,
		in:        in,
		out:       out,
	}
}

// Run loops until the operator picks the exit choice or input reaches EOF.
// Operation failures are reported and control returns to the menu; Run itself
// only returns an error for broken I/O, never for a failed operation.
func (m *Menu) Run(ctx context.Context) error {
	for {
		m.display()
		choice, ok := shared.ReadLine(m.in)
		if !ok {
			return nil
		}

		switch choice {
		case "1":
			v, ok := m.promptVersion()
			if !ok {
				continue
			}
			if err := m.installer.Install(ctx, v); err != nil {
				m.logger.Error("install failed", "version", v.Raw, "err", err)
				fmt.Fprintln(m.out, errorStyle.Render("Install failed: "+err.Error()))
			} else {
				fmt.Fprintln(m.out, successStyle.Render("Install finished."))
			}
			m.pause()
		case "2":
			v, ok := m.promptVersion()
			if !ok {
				continue
			}
			if err := m.remover.Remove(ctx, v); err != nil {
				if errors.Is(err, remover.ErrDeclined) {
					fmt.Fprintln(m.out, warningStyle.Render("Removal cancelled; nothing was deleted."))
				} else {
					m.logger.Error("removal failed", "version", v.Raw, "err", err)
					fmt.Fprintln(m.out, errorStyle.Render("Removal failed: "+err.Error()))
				}
			} else {
				fmt.Fprintln(m.out, successStyle.Render("Removal finished."))
			}
			m.pause()
		case "3":
			fmt.Fprintln(m.out, "Bye.")
			return nil
		default:
			fmt.Fprintln(m.out, errorStyle.Render("Invalid choice, pick 1, 2 or 3."))
		}
	}
}

func (m *Menu) display() {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, titleStyle.Render("Python build manager"))
	fmt.Fprintln(m.out, "  1) Install a Python version from source")
	fmt.Fprintln(m.out, "  2) Remove an installed version")
	fmt.Fprintln(m.out, "  3) Exit")
	fmt.Fprint(m.out, "Select an option: ")
}

// promptVersion asks for and validates a version string. A malformed version
// is reported and sends the operator straight back to the menu.
func (m *Menu) promptVersion() (pyver.Version, bool) {
	fmt.Fprint(m.out, "Python version (MAJOR.MINOR.PATCH, e.g. 3.10.0): ")
	line, ok := shared.ReadLine(m.in)
	if !ok {
		return pyver.Version{}, false
	}
	v, err := pyver.Parse(line)
	if err != nil {
		fmt.Fprintln(m.out, errorStyle.Render(err.Error()))
		return pyver.Version{}, false
	}
	return v, true
}

func (m *Menu) pause() {
	fmt.Fprint(m.out, "Press Enter to return to the menu... ")
	shared.ReadLine(m.in)
}
