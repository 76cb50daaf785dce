package cli

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/regencheck/regencheck/internal/adapters/outbound/tui"
	"github.com/regencheck/regencheck/internal/adapters/outbound/watcher"
	"github.com/regencheck/regencheck/internal/domain"
)

const watchDebounce = 400 * time.Millisecond

func newWatchCmd() *cobra.Command {
	var (
		serviceDir string
		path       string
	)

	cmd := &cobra.Command{
		Use:   "watch [service]",
		Short: "Re-verify a service directory whenever its files change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := serviceDir
			if len(args) == 1 {
				service = args[0]
			}
			if service == "" {
				return fmt.Errorf("specify --service_directory to watch")
			}

			return runWatch(cmd, path, service)
		},
	}

	cmd.Flags().StringVar(&serviceDir, "service_directory", "", "Service directory to watch")
	cmd.Flags().StringVar(&path, "path", ".", "Repository root")

	return cmd
}

func runWatch(cmd *cobra.Command, path, service string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	serviceAbs := filepath.Join(path, filepath.FromSlash(service))
	if err := w.AddRecursive(serviceAbs); err != nil {
		return fmt.Errorf("watching %s: %w", service, err)
	}

	svc := newVerifyService()
	// Watch mode always regenerates: the edit being watched for is exactly
	// what the fingerprint cache would mask.
	opts := domain.VerifyOptions{NoCache: true}

	runOnce := func() {
		outcome, err := svc.Verify(ctx, path, service, opts)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "verify failed: %v\n", err)
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), tui.RenderOutcome(outcome))
	}

	runOnce()
	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s (ctrl-c to stop)\n", service)

	var debounce *time.Timer
	rerun := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) {
				// New directories need their own watches.
				_ = w.AddRecursive(ev.Name)
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})

		case <-rerun:
			runOnce()

		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "watch error: %v\n", err)
		}
	}
}
