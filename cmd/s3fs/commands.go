package main

import (
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/mwantia/s3fs/router"
	"github.com/spf13/cobra"
)

func (a *app) newCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <path>...",
		Short: "Print the content of files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRouter(cmd, func(r *router.SyncRouter) error {
				for _, path := range args {
					data, err := r.ReadFile(path)
					if err != nil {
						return err
					}
					if _, err := a.stdout.Write(data); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func (a *app) newPutCmd() *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "put <path>",
		Short: "Write a file from --data or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := []byte(content)
			if !cmd.Flags().Changed("data") {
				stdin, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				data = stdin
			}

			return a.withRouter(cmd, func(r *router.SyncRouter) error {
				return r.WriteFile(args[0], data)
			})
		},
	}

	cmd.Flags().StringVarP(&content, "data", "d", "", "content to write instead of stdin")
	return cmd
}

func (a *app) newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <path>",
		Short: "List the entries of a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRouter(cmd, func(r *router.SyncRouter) error {
				entries, err := r.ReadDir(args[0])
				if err != nil {
					return err
				}
				for _, entry := range entries {
					fmt.Fprintln(a.stdout, entry)
				}
				return nil
			})
		},
	}
}

func (a *app) newStatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat <path>",
		Short: "Print size, mode and modification time of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRouter(cmd, func(r *router.SyncRouter) error {
				info, err := r.Stat(args[0])
				if err != nil {
					return err
				}
				printStat(a.stdout, info)
				return nil
			})
		},
	}
}

func printStat(w io.Writer, info fs.FileInfo) {
	fmt.Fprintf(w, "name:  %s\n", info.Name())
	fmt.Fprintf(w, "size:  %d\n", info.Size())
	fmt.Fprintf(w, "mode:  %s\n", info.Mode())
	fmt.Fprintf(w, "mtime: %s\n", info.ModTime().Format(time.RFC3339))
}

func (a *app) newMkdirCmd() *cobra.Command {
	return a.newEachCmd("mkdir <path>...", "Create directories", (*router.SyncRouter).Mkdir)
}

func (a *app) newRmCmd() *cobra.Command {
	return a.newEachCmd("rm <path>...", "Remove files", (*router.SyncRouter).Remove)
}

func (a *app) newRmdirCmd() *cobra.Command {
	return a.newEachCmd("rmdir <path>...", "Remove empty directories", (*router.SyncRouter).RemoveDir)
}

func (a *app) newUnlinkCmd() *cobra.Command {
	return a.newEachCmd("unlink <path>...", "Unlink files", (*router.SyncRouter).Unlink)
}

// newEachCmd runs op once per argument and stops at the first failure.
func (a *app) newEachCmd(use, short string, op func(*router.SyncRouter, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRouter(cmd, func(r *router.SyncRouter) error {
				for _, path := range args {
					if err := op(r, path); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func (a *app) newExistsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exists <path>",
		Short: "Print whether a file exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRouter(cmd, func(r *router.SyncRouter) error {
				exists, err := r.Exists(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, exists)
				return nil
			})
		},
	}
}

func (a *app) newRouteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route <path>",
		Short: "Print where a path is served from without touching it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decision := router.New(nil, nil).Decide(args[0])
			if decision.Virtual {
				fmt.Fprintf(a.stdout, "virtual %s\n", decision.Key)
			} else {
				fmt.Fprintf(a.stdout, "native %s\n", args[0])
			}
			return nil
		},
	}
}
