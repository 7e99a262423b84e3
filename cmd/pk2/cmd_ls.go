package main

import (
	"fmt"
	"io"
	"path"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/skyline93/pk2/internal/archive"
	"github.com/spf13/cobra"
)

var cmdLs = &cobra.Command{
	Use:   "ls [flags] ARCHIVE [PATH]",
	Short: "List files in an archive",
	Long: `
The "ls" command lists the contents of the directory PATH in an archive, or
of the root directory when PATH is omitted.

EXIT STATUS
===========

Exit status is 0 if the command was successful, and non-zero if there was any error.
`,
	Args:              cobra.RangeArgs(1, 2),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLs(cmd.OutOrStdout(), lsOptions, args[0], archivePath(args, 1))
	},
}

// LsOptions bundles all options for the ls command.
type LsOptions struct {
	Long bool
}

var lsOptions LsOptions

func init() {
	cmdRoot.AddCommand(cmdLs)

	f := cmdLs.Flags()
	f.BoolVarP(&lsOptions.Long, "long", "l", false, "use a long listing format showing size and times")
}

func runLs(out io.Writer, opts LsOptions, archiveFile, dir string) error {
	return withArchive(archiveFile, func(arch *archive.Archive) error {
		fi, err := arch.Stat(dir)
		if err != nil {
			return pathError(err)
		}

		list := []*archive.FileInfo{fi}
		if fi.IsDir() {
			list, err = arch.ReadDir(dir)
			if err != nil {
				return pathError(err)
			}
		}

		if !opts.Long {
			for _, fi := range list {
				fmt.Fprintln(out, displayName(fi))
			}
			return nil
		}

		tw := tablewriter.NewWriter(out)
		tw.SetHeader([]string{"Type", "Size", "Modified", "Name"})
		tw.SetAlignment(tablewriter.ALIGN_LEFT)
		tw.SetAutoWrapText(false)
		tw.SetBorder(false)
		for _, fi := range list {
			tw.Append([]string{
				typeString(fi),
				sizeString(fi),
				timeString(fi),
				displayName(fi),
			})
		}
		tw.Render()
		return nil
	})
}

func displayName(fi *archive.FileInfo) string {
	if fi.IsDir() {
		return path.Clean(fi.Name()+"/") + "/"
	}
	return fi.Name()
}

func typeString(fi *archive.FileInfo) string {
	if fi.IsDir() {
		return "dir"
	}
	return "file"
}

func sizeString(fi *archive.FileInfo) string {
	if fi.IsDir() {
		return "-"
	}
	return humanize.IBytes(uint64(fi.Size()))
}

func timeString(fi *archive.FileInfo) string {
	if fi.ModTime().IsZero() {
		return "-"
	}
	return fi.ModTime().Local().Format("2006-01-02 15:04:05")
}
