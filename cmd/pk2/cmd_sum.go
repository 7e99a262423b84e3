package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/minio/sha256-simd"
	"github.com/skyline93/pk2/internal/archive"
	"github.com/skyline93/pk2/internal/errors"
	"github.com/spf13/cobra"
)

var cmdSum = &cobra.Command{
	Use:   "sum ARCHIVE [PATH]",
	Short: "Print SHA-256 checksums of files in an archive",
	Long: `
The "sum" command prints the SHA-256 checksum of every file below PATH in the
format used by sha256sum.
`,
	Args:              cobra.RangeArgs(1, 2),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSum(cmd.OutOrStdout(), args[0], archivePath(args, 1))
	},
}

func init() {
	cmdRoot.AddCommand(cmdSum)
}

func runSum(out io.Writer, archiveFile, dir string) error {
	return withArchive(archiveFile, func(arch *archive.Archive) error {
		return arch.Walk(dir, func(p string, fi *archive.FileInfo, err error) error {
			if err != nil {
				return pathError(err)
			}
			if fi.IsDir() {
				return nil
			}

			h := sha256.New()
			if _, err := io.Copy(h, arch.OpenInfo(fi)); err != nil {
				return errors.Wrapf(err, "read %v", p)
			}

			fmt.Fprintf(out, "%s  %s\n", hex.EncodeToString(h.Sum(nil)), p)
			return nil
		})
	})
}
