package main

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/skyline93/pk2/internal/archive"
	"github.com/skyline93/pk2/internal/restorer"
	"github.com/spf13/cobra"
)

var cmdExtract = &cobra.Command{
	Use:   "extract [flags] ARCHIVE DEST [PATH]",
	Short: "Extract files from an archive",
	Long: `
The "extract" command recreates the file or directory PATH of an archive
below the local directory DEST. Without PATH the whole archive is extracted.

Modification times are restored; creation and access times are stored in the
extended attributes user.pk2.ctime and user.pk2.atime where supported.

EXIT STATUS
===========

Exit status is 0 if the command was successful, and non-zero if there was any error.
`,
	Args:              cobra.RangeArgs(2, 3),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(cmd.Context(), cmd.OutOrStdout(), extractOptions, args[0], args[1], archivePath(args, 2))
	},
}

// ExtractOptions bundles all options for the extract command.
type ExtractOptions struct {
	Workers      uint
	IgnoreErrors bool
}

var extractOptions ExtractOptions

func init() {
	cmdRoot.AddCommand(cmdExtract)

	f := cmdExtract.Flags()
	f.UintVar(&extractOptions.Workers, "workers", 0, "write `n` files concurrently (default: number of CPUs)")
	f.BoolVar(&extractOptions.IgnoreErrors, "ignore-errors", false, "report files that cannot be extracted and continue")
}

func runExtract(ctx context.Context, out io.Writer, opts ExtractOptions, archiveFile, dest, p string) error {
	return withArchive(archiveFile, func(arch *archive.Archive) error {
		ropts := restorer.Options{Workers: opts.Workers}
		if opts.IgnoreErrors {
			ropts.Error = func(item string, err error) error {
				log.Warnf("ignoring error for %v: %v", item, err)
				return nil
			}
		}

		r := restorer.New(arch, ropts)
		if err := r.Extract(ctx, p, dest); err != nil {
			return pathError(err)
		}

		stats := r.Stats()
		fmt.Fprintf(out, "extracted %d files and %d directories, %v\n",
			stats.Files, stats.Dirs, humanize.IBytes(stats.Bytes))
		return nil
	})
}
