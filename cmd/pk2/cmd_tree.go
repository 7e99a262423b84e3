package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/skyline93/pk2/internal/archive"
	"github.com/spf13/cobra"
)

var cmdTree = &cobra.Command{
	Use:   "tree ARCHIVE [PATH]",
	Short: "Print the directory tree of an archive",
	Long: `
The "tree" command prints all files and directories below PATH, indented by
their depth.
`,
	Args:              cobra.RangeArgs(1, 2),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTree(cmd.OutOrStdout(), args[0], archivePath(args, 1))
	},
}

func init() {
	cmdRoot.AddCommand(cmdTree)
}

func runTree(out io.Writer, archiveFile, dir string) error {
	return withArchive(archiveFile, func(arch *archive.Archive) error {
		base := archive.CleanPath(dir)
		depth := func(p string) int {
			if p == base {
				return 0
			}
			rel := strings.TrimPrefix(strings.TrimPrefix(p, base), "/")
			return strings.Count(rel, "/") + 1
		}

		return arch.Walk(dir, func(p string, fi *archive.FileInfo, err error) error {
			if err != nil {
				return pathError(err)
			}
			if p == base && fi.IsDir() {
				fmt.Fprintln(out, "/"+base)
				return nil
			}
			fmt.Fprintf(out, "%s%s\n", strings.Repeat("  ", depth(p)), displayName(fi))
			return nil
		})
	})
}
