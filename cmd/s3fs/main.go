// Command s3fs runs single filesystem calls through the cache router, so
// cache paths are served by the object store and every other path by the
// local filesystem.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/mwantia/s3fs"
	"github.com/mwantia/s3fs/bridge"
	"github.com/mwantia/s3fs/config"
	"github.com/mwantia/s3fs/router"
	"github.com/mwantia/s3fs/telemetry"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI with the given args and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{
		stdin:  os.Stdin,
		stdout: stdout,
		stderr: stderr,
		native: afero.NewOsFs(),
		lookup: os.LookupEnv,
	}

	return a.run(args)
}

// app carries everything the commands touch outside of the store.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	native afero.Fs
	lookup config.LookupFunc

	configPath string
	logLevel   string
}

func (a *app) run(args []string) int {
	root := a.newRootCmd()
	if args == nil {
		args = []string{}
	}

	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(a.stderr, "s3fs: %v\n", err)
		return 1
	}

	return 0
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "s3fs",
		Short:         "Filesystem calls routed between an object store and the local disk",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	a.addGlobalFlags(root.PersistentFlags())

	root.AddCommand(
		a.newCatCmd(),
		a.newPutCmd(),
		a.newLsCmd(),
		a.newStatCmd(),
		a.newMkdirCmd(),
		a.newRmCmd(),
		a.newRmdirCmd(),
		a.newUnlinkCmd(),
		a.newExistsCmd(),
		a.newRouteCmd(),
	)

	return root
}

func (a *app) addGlobalFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&a.configPath, "config", "c", "", "path to a TOML config file")
	flags.StringVar(&a.logLevel, "log-level", "", "override the configured log level")
}

// withRouter builds the whole stack from the configuration, hands the
// blocking router view to fn and tears everything down afterwards.
func (a *app) withRouter(cmd *cobra.Command, fn func(*router.SyncRouter) error) error {
	ctx := cmd.Context()

	cfg, err := config.Load(a.native, a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(a.lookup); err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.NewLogger(a.stderr, !isTerminal(a.stderr))
	if err != nil {
		return err
	}

	primary, err := cfg.NewBackend(ctx)
	if err != nil {
		return err
	}

	vfs, err := s3fs.New(ctx, primary,
		s3fs.WithLogger(logger.Named("vfs")),
		s3fs.WithWorkDir(cfg.WorkDir),
	)
	if err != nil {
		return err
	}
	defer vfs.Close(ctx)

	provider, shutdown, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry.Endpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("failed to flush metrics: %v", err)
		}
	}()
	recorder := telemetry.NewRecorder(provider)

	b := bridge.New(
		bridge.WithTimeout(cfg.Bridge.Timeout),
		bridge.WithLogger(logger.Named("bridge")),
		bridge.WithRecorder(recorder),
	)
	defer b.Close()

	r := router.New(vfs, s3fs.NewNative(a.native),
		router.WithLogger(logger.Named("router")),
		router.WithRecorder(recorder),
	)
	return fn(r.Sync(b))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
