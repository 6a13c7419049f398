package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchFormat string

var watchCmd = &cobra.Command{
	Use:   "watch file",
	Short: "Re-parse a file every time it is saved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		format := watchFormat
		if format == "" {
			format = cfg.Render.Output
		}
		opts := renderOptions{Format: format, Indent: cfg.Render.Indent}
		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
		path := args[0]

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		report(out, errOut, path, string(data), opts)

		return watchFile(ctx, path, string(data), func(source string) {
			report(out, errOut, path, source, opts)
		})
	},
}

func init() {
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "", "output format: source, json or yaml")
	rootCmd.AddCommand(watchCmd)
}

func report(out, errOut io.Writer, path, source string, opts renderOptions) {
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("-- %s at %s", path, time.Now().Format("15:04:05"))))
	if err := runParse(out, source, opts); err != nil {
		fmt.Fprintln(errOut, withSource(path, source, err).Error())
	}
}

// watchFile calls handle with the new contents of path after every change,
// until ctx is done. The parent directory is watched so editors that save by
// renaming a temporary file are seen too. Saves that leave the contents
// unchanged from initial, or from the previous call, are ignored.
func watchFile(ctx context.Context, path, initial string, handle func(source string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	logger.Debug("watching", "path", target)

	last := initial
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, _ := filepath.Abs(ev.Name)
			if name != target || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			data, err := os.ReadFile(target)
			if err != nil {
				logger.Warn("failed to read watched file", "path", target, "error", err)
				continue
			}
			if string(data) == last {
				continue
			}
			last = string(data)
			logger.Debug("file changed", "path", target, "op", ev.Op.String())
			handle(last)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}
