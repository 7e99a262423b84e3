package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/skyline93/pk2/internal/archive"
	"github.com/spf13/cobra"
)

var cmdStat = &cobra.Command{
	Use:   "stat ARCHIVE [PATH]",
	Short: "Show information about an archive or a file in it",
	Long: `
The "stat" command prints the entry of PATH. Without PATH, it prints
information about the archive itself.
`,
	Args:              cobra.RangeArgs(1, 2),
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return runStatArchive(cmd.OutOrStdout(), args[0])
		}
		return runStat(cmd.OutOrStdout(), args[0], args[1])
	},
}

func init() {
	cmdRoot.AddCommand(cmdStat)
}

func runStatArchive(out io.Writer, archiveFile string) error {
	return withArchive(archiveFile, func(arch *archive.Archive) error {
		var files, dirs int
		var size uint64
		err := arch.Walk("", func(p string, fi *archive.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				dirs++
				return nil
			}
			files++
			size += uint64(fi.Size())
			return nil
		})
		if err != nil {
			return err
		}

		hdr := arch.Header()
		fmt.Fprintf(out, "archive:     %v\n", archiveFile)
		fmt.Fprintf(out, "version:     %#x\n", hdr.Version)
		fmt.Fprintf(out, "encrypted:   %v\n", hdr.Encrypted)
		fmt.Fprintf(out, "chains:      %d\n", arch.Index().Len())
		fmt.Fprintf(out, "directories: %d\n", dirs)
		fmt.Fprintf(out, "files:       %d\n", files)
		fmt.Fprintf(out, "size:        %v\n", humanize.IBytes(size))
		return nil
	})
}

func runStat(out io.Writer, archiveFile, p string) error {
	return withArchive(archiveFile, func(arch *archive.Archive) error {
		fi, err := arch.Stat(p)
		if err != nil {
			return pathError(err)
		}

		fmt.Fprintf(out, "name:     %v\n", fi.Name())
		fmt.Fprintf(out, "type:     %v\n", typeString(fi))
		if !fi.IsDir() {
			fmt.Fprintf(out, "size:     %d (%v)\n", fi.Size(), humanize.IBytes(uint64(fi.Size())))
		}
		fmt.Fprintf(out, "position: %#x\n", fi.Position())
		fmt.Fprintf(out, "created:  %v\n", formatTime(fi.CreateTime()))
		fmt.Fprintf(out, "modified: %v\n", formatTime(fi.ModTime()))
		fmt.Fprintf(out, "accessed: %v\n", formatTime(fi.AccessTime()))
		return nil
	})
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%v (%v)", t.Local().Format(time.RFC3339), humanize.Time(t))
}
