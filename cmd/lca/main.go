package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/renjie/prism-lca/internal/app"
	"github.com/renjie/prism-lca/internal/config"
	"github.com/renjie/prism-lca/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string) int {
	root, st := newRootCmd()
	root.SetArgs(args)
	if err := execute(ctx, root, st); err != nil {
		return 1
	}
	return 0
}

// execute runs the command tree, logs a failure and releases the container on every path.
func execute(ctx context.Context, root *cobra.Command, st *rootState) error {
	err := root.ExecuteContext(ctx)
	if err != nil {
		st.logError(err)
	}
	if cerr := st.close(); cerr != nil {
		fmt.Fprintln(os.Stderr, "error: close:", cerr)
		err = errors.Join(err, cerr)
	}
	return err
}

// rootState is shared by all subcommands; the container is built once flags are parsed.
type rootState struct {
	envFile string
	di      *app.DI
}

func newRootCmd() (*cobra.Command, *rootState) {
	st := &rootState{}

	root := &cobra.Command{
		Use:   "lca",
		Short: "Life cycle assessment impact aggregator",
		Long: `Compute per-row and per-product environmental impacts (carbon, energy, water)
from an activity table and a table of per-kilogram impact factors.

Configuration is read from LCA_* environment variables; with APP_ENV=local a .env
file is loaded first. Command flags override configuration.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var paths []string
			if st.envFile != "" {
				paths = append(paths, st.envFile)
			}
			cfg, err := config.Load(paths...)
			if err != nil {
				return err
			}
			st.di = app.NewDI(cfg)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&st.envFile, "env-file", "", "dotenv file loaded when APP_ENV=local (default .env)")

	root.AddCommand(
		newAnalyzeCmd(st),
		newCompareCmd(st),
		newDescribeCmd(st),
		newHistoryCmd(st),
	)
	return root, st
}

// logError reports a command failure through the configured logger, or a default
// console logger when configuration could not be loaded.
func (st *rootState) logError(err error) {
	var log *zap.Logger
	if st.di != nil {
		log, _ = st.di.Logger()
	}
	if log == nil {
		fallback, ferr := logger.New("error", false)
		if ferr != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			return
		}
		defer func() { _ = fallback.Sync() }()
		log = fallback
	}
	log.Error("command failed", zap.Error(err))
}

func (st *rootState) close() error {
	if st.di == nil {
		return nil
	}
	return st.di.Close()
}
