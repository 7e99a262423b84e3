package main

import (
	"context"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/skyline93/pk2/internal/archive"
	"github.com/skyline93/pk2/internal/errors"
	"github.com/skyline93/pk2/internal/fs"
	"github.com/skyline93/pk2/internal/restorer"
	"github.com/spf13/cobra"
)

var cmdExport = &cobra.Command{
	Use:   "export [flags] ARCHIVE OUTPUT [PATH]",
	Short: "Export files from an archive as a tar file",
	Long: `
The "export" command writes the file or directory PATH of an archive to the
tar file OUTPUT. Use "-" as OUTPUT to write to standard output.
`,
	Args:              cobra.RangeArgs(2, 3),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.Context(), cmd.OutOrStdout(), exportOptions, args[0], args[1], archivePath(args, 2))
	},
}

// ExportOptions bundles all options for the export command.
type ExportOptions struct {
	Zstd bool
	Max  bool
}

var exportOptions ExportOptions

func init() {
	cmdRoot.AddCommand(cmdExport)

	f := cmdExport.Flags()
	f.BoolVar(&exportOptions.Zstd, "zstd", false, "compress the tar file with zstd")
	f.BoolVar(&exportOptions.Max, "max", false, "use the best zstd compression level")
}

func runExport(ctx context.Context, stdout io.Writer, opts ExportOptions, archiveFile, output, p string) error {
	mode := restorer.CompressionOff
	switch {
	case opts.Zstd && opts.Max:
		mode = restorer.CompressionMax
	case opts.Zstd:
		mode = restorer.CompressionFast
	case opts.Max:
		return errors.Fatal("--max requires --zstd")
	}

	return withArchive(archiveFile, func(arch *archive.Archive) error {
		r := restorer.New(arch, restorer.Options{})
		if output == "-" {
			return pathError(r.WriteTar(ctx, stdout, p, mode))
		}

		f, err := fs.Create(output, 0644)
		if err != nil {
			return errors.WithStack(err)
		}

		err = r.WriteTar(ctx, f, p, mode)
		if cerr := f.Close(); err == nil {
			err = errors.WithStack(cerr)
		}
		if err != nil {
			if rerr := fs.RemoveIfExists(output); rerr != nil {
				log.Warnf("unable to remove %v: %v", output, rerr)
			}
			return pathError(err)
		}
		return nil
	})
}
