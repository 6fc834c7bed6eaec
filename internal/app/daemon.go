package app

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/vgren/internal/core/domain"
	"go.trai.ch/zerr"
)

// Status prints the state of the daemon serving the project.
func (a *App) Status(ctx context.Context, socket string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	path := socketPath(cfg, socket)

	client, err := a.dialer.Dial(path)
	if err != nil {
		return errors.Join(domain.ErrDaemonUnavailable, zerr.With(err, "socket", path))
	}
	defer func() { _ = client.Close() }()

	st, err := client.Status(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrDaemonUnavailable) {
			_, _ = fmt.Fprintln(a.out, "daemon: not running")
			return nil
		}
		return err
	}

	_, _ = fmt.Fprintf(a.out, "daemon: running\n  pid:    %d\n  uptime: %s\n  units:  %d\n", st.PID, st.Uptime, st.Units)
	if st.IdleRemaining > 0 {
		_, _ = fmt.Fprintf(a.out, "  idle:   %s remaining\n", st.IdleRemaining)
	}
	return nil
}

// Stop asks the daemon serving the project to shut down.
func (a *App) Stop(ctx context.Context, socket string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	path := socketPath(cfg, socket)

	client, err := a.dialer.Dial(path)
	if err != nil {
		return errors.Join(domain.ErrDaemonUnavailable, zerr.With(err, "socket", path))
	}
	defer func() { _ = client.Close() }()

	if err := client.Shutdown(ctx); err != nil {
		return err
	}
	a.logger.Info("daemon stopped")
	return nil
}
