// Command deskmon-sim runs the desk monitor on a host terminal and plays
// scripted sessions as protocol lines.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/config"
	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/display"
	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/feed"
	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/logging"
	"github.com/tuffrabit/tinygo-deskmon-rp2040/pkg/monitor"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:          "deskmon-sim",
		Short:        "Desk monitor simulator",
		Long:         "deskmon-sim runs the desk monitor firmware logic against a terminal panel and replays desk sessions.",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log decoded events")

	newLogger := func() *slog.Logger {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		return logging.New(os.Stderr, level)
	}

	var input string
	cfg := config.Default()
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the monitor on this terminal",
		Example: `  # Type protocol lines by hand
  deskmon-sim run

  # Replay a captured stream without the login pause
  deskmon-sim run --input capture.txt --settle 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}

			var in io.ReadCloser = os.Stdin
			if input != "" {
				f, err := os.Open(input)
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				in = f
			}
			defer in.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runMonitor(ctx, in, cmd.OutOrStdout(), cfg, newLogger())
		},
	}
	runCmd.Flags().StringVar(&input, "input", "", "Read protocol lines from a file instead of stdin")
	runCmd.Flags().DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "Poll interval")
	runCmd.Flags().DurationVar(&cfg.SettleDelay, "settle", cfg.SettleDelay, "Pause after the login screen")

	var out string
	feedCmd := &cobra.Command{
		Use:   "feed <script.yaml>",
		Short: "Play a session script as protocol lines",
		Example: `  # Print the lines
  deskmon-sim feed session.yaml

  # Drive a connected board
  deskmon-sim feed session.yaml --out /dev/ttyACM0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open script: %w", err)
			}
			script, err := feed.LoadScript(f)
			f.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			w := cmd.OutOrStdout()
			if out != "" {
				dst, err := os.OpenFile(out, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open output: %w", err)
				}
				defer dst.Close()
				w = dst
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return feed.Play(ctx, script, feed.NewPublisher(w, newLogger()), time.Sleep)
		},
	}
	feedCmd.Flags().StringVar(&out, "out", "", "Write lines to a file or serial device instead of stdout")

	rootCmd.AddCommand(runCmd, feedCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runMonitor polls the monitor until the input is exhausted or ctx is done.
// One goroutine fills the port from in while the poll loop renders frames to out.
func runMonitor(ctx context.Context, in io.Reader, out io.Writer, cfg config.Monitor, logger logging.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	term := display.NewTerminal(out)
	port := newChanPort(cfg.LineCapacity * 4)
	mon := monitor.New(port, term, cfg, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := port.fill(gctx, in); err != nil && gctx.Err() == nil {
			return fmt.Errorf("read input: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		// Unblock a reader stuck on a terminal once polling stops.
		defer func() {
			cancel()
			if c, ok := in.(io.Closer); ok {
				c.Close()
			}
		}()

		ticker := time.NewTicker(cfg.PollInterval)
		defer ticker.Stop()

		mon.Start()
		for {
			mon.Poll()
			if err := term.Err(); err != nil {
				return err
			}
			if port.drained() {
				stats := mon.Stats()
				logger.Info("input finished", "lines", stats.Lines, "unknown", stats.Unknown)
				return nil
			}
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	})

	return g.Wait()
}
