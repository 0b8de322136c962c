package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eunmann/iffc/internal/logctx"
	"github.com/eunmann/iffc/pkg/description"
	"github.com/eunmann/iffc/pkg/fileutil"
	"github.com/eunmann/iffc/pkg/iff"
	"github.com/eunmann/iffc/pkg/rebuild"
)

func newCompileCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "compile <description.xml>",
		Short: "Rebuild the game archive a description names, in place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := g.game()
			if err != nil {
				return err
			}
			res, err := rebuild.Compile(cmd.Context(), rebuild.CompileRequest{
				DescriptionPath: args[0],
				Game:            game,
				BackupDir:       g.backupDir,
				Options:         g.options(),
			})
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func newCompileVariantCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "compile-variant <source-dir> <format> <creator> <object> [<original-variant> <new-variant>]",
		Short: "Rebuild a variant archive in the downloads directory",
		Long: `Rebuild a variant archive in the downloads directory.

The format names the archives and may reference {name} (the creator),
{object}, {variant} and {hash}. An archive found only under its unhashed
name is renamed to the hashed name first. With a variant pair the color
channels are switched from the original to the new variant and the new
variant's archive is rebuilt from the original's.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 4 && len(args) != 6 {
				return fmt.Errorf("accepts 4 or 6 arg(s), received %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := g.game()
			if err != nil {
				return err
			}
			req := rebuild.VariantRequest{
				SourceDir: args[0],
				Game:      game,
				BackupDir: g.backupDir,
				Options:   g.options(),
			}
			req.Name.Format, req.Name.Creator, req.Name.Object = args[1], args[2], args[3]
			if len(args) == 6 {
				req.From, req.To = args[4], args[5]
			}

			res, err := rebuild.CompileVariant(cmd.Context(), req)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func newUpdateXMLCommand() *cobra.Command {
	var variant string
	cmd := &cobra.Command{
		Use:   "update-xml <source-dir> <object>",
		Short: "Import split sprite tiles into <object>.xml",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceDir, object := args[0], args[1]
			path := filepath.Join(sourceDir, object+rebuild.DescriptionExt)

			d, err := description.Load(path)
			if err != nil {
				return err
			}
			n, err := d.ImportSpriteTiles(sourceDir, description.TilesDir(sourceDir, object, variant))
			if err != nil {
				return err
			}
			if err := d.Save(path); err != nil {
				return err
			}
			log := logctx.FromContext(cmd.Context())
			log.Info().Str("description", path).Int("sprites", n).Msg("imported sprite tiles")
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d sprites into %s\n", n, path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&variant, "variant", "v", "", "variant whose sprite tiles to import")
	return cmd
}

func newAddRotationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-rotations <description.xml>",
		Short: "Replace flipped draw group items with real rotations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logctx.WithDescription(cmd.Context(), args[0])
			d, err := description.Load(args[0])
			if err != nil {
				return err
			}
			n := d.AddRotations(ctx)
			if err := d.Save(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "converted %d draw group items\n", n)
			return nil
		},
	}
}

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <archive.iff>",
		Short: "List the chunks of an archive and check its directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := iff.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "OFFSET\tTYPE\tID\tSIZE\tLABEL")
			offsets := f.Offsets()
			for i, c := range f.Chunks {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n", offsets[i], c.Type(), c.Header.ID, c.Size(), c.Label())
			}
			if err := w.Flush(); err != nil {
				return err
			}
			return checkDirectory(cmd, f.Archive, offsets)
		},
	}
}

// checkDirectory reports directory entries that disagree with the chunk layout.
func checkDirectory(cmd *cobra.Command, a *iff.Archive, offsets []uint32) error {
	out := cmd.OutOrStdout()
	at := -1
	for i, o := range offsets {
		if o == a.DirectoryOffset && a.Chunks[i].Type() == iff.TypeDirectory {
			at = i
		}
	}
	if at < 0 {
		fmt.Fprintf(out, "no directory at offset %d\n", a.DirectoryOffset)
		return nil
	}

	dir, err := iff.ParseDirectory(a.Chunks[at])
	if err != nil {
		return err
	}
	stale := 0
	for i, c := range a.Chunks {
		if i == at {
			continue
		}
		if !dir.Locates(c.Type(), c.Header.ID, offsets[i]) {
			fmt.Fprintf(out, "directory entry for %s is stale\n", c)
			stale++
		}
	}
	fmt.Fprintf(out, "directory: %d entries, %d stale\n", dir.Len(), stale)
	return nil
}

func newRestoreCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <archive.iff>",
		Short: "Restore an archive from its latest backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if g.backupDir == "" {
				return errors.New("--backup-dir is required")
			}
			if !fileutil.Exists(g.backupDir) {
				return fmt.Errorf("backup directory %s does not exist", g.backupDir)
			}
			path := args[0]
			backup, ok, err := fileutil.LatestBackup(g.backupDir, filepath.Base(path))
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no backup of %s in %s", filepath.Base(path), g.backupDir)
			}
			if err := fileutil.Restore(backup, path); err != nil {
				return err
			}
			log := logctx.FromContext(cmd.Context())
			log.Info().Str("archive", path).Str("backup", backup).Msg("restored archive")
			fmt.Fprintf(cmd.OutOrStdout(), "restored %s from %s\n", path, backup)
			return nil
		},
	}
}
