// Package cli implements the command-line interface for iffc.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/eunmann/iffc/internal/logctx"
	"github.com/eunmann/iffc/pkg/gamedir"
	"github.com/eunmann/iffc/pkg/rebuild"
)

const usage = "usage: iffc <command> [options]\ncommands: compile, compile-variant, update-xml, add-rotations, inspect, restore"

// globalFlags are shared by every command.
type globalFlags struct {
	gameDir   string
	debug     bool
	human     bool
	workers   int
	cacheSize int
	backupDir string
}

func (g *globalFlags) game() (*gamedir.Dir, error) {
	return gamedir.Resolve(g.gameDir)
}

func (g *globalFlags) options() rebuild.Options {
	return rebuild.DefaultOptions().WithWorkers(g.workers).WithCacheSize(g.cacheSize)
}

// Run executes the CLI with the given arguments.
func Run(args []string) error {
	return run(context.Background(), args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func newRootCommand() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:           "iffc",
		Short:         "Rebuild object archives from exported descriptions",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New(usage)
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := logctx.NewLogger(cmd.ErrOrStderr(), g.debug, g.human)
			cmd.SetContext(logctx.WithLogger(cmd.Context(), logger))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&g.gameDir, "game-dir", "", "game install directory (default $"+gamedir.EnvInstallPath+")")
	flags.BoolVar(&g.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&g.human, "human", false, "human-readable console logs instead of JSON")
	flags.IntVar(&g.workers, "workers", 0, "sprites encoded in parallel (default number of CPUs)")
	flags.IntVar(&g.cacheSize, "cache-size", 0, "decoded bitmaps kept in memory")
	flags.StringVar(&g.backupDir, "backup-dir", "", "directory for compressed backups of replaced archives")

	root.AddCommand(
		newCompileCommand(g),
		newCompileVariantCommand(g),
		newUpdateXMLCommand(),
		newAddRotationsCommand(),
		newInspectCommand(),
		newRestoreCommand(g),
	)
	return root
}

func printResult(w io.Writer, res *rebuild.FileResult) {
	fmt.Fprintf(w, "wrote %s: %d chunks kept, %d built, %d sprites elided, %d GUID operands patched\n",
		res.OutputPath, res.KeptChunks, res.BuiltChunks, len(res.ElidedSprites), res.PatchedOperands)
	if res.BackupPath != "" {
		fmt.Fprintf(w, "backup %s\n", res.BackupPath)
	}
}
