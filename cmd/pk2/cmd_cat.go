package main

import (
	"io"

	"github.com/skyline93/pk2/internal/archive"
	"github.com/skyline93/pk2/internal/errors"
	"github.com/spf13/cobra"
)

var cmdCat = &cobra.Command{
	Use:   "cat ARCHIVE PATH...",
	Short: "Print the content of files in an archive",
	Long: `
The "cat" command writes the content of the files to standard output.
`,
	Args:              cobra.MinimumNArgs(2),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCat(cmd.OutOrStdout(), args[0], args[1:])
	},
}

func init() {
	cmdRoot.AddCommand(cmdCat)
}

func runCat(out io.Writer, archiveFile string, paths []string) error {
	return withArchive(archiveFile, func(arch *archive.Archive) error {
		for _, p := range paths {
			buf, err := arch.ReadFile(p)
			if err != nil {
				return pathError(err)
			}
			if _, err := out.Write(buf); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	})
}
