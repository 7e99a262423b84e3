package main

import (
	"fmt"
	"os"

	"github.com/skyline93/pk2/internal/errors"
	"github.com/spf13/cobra"
)

var version = "0.3.0"

// cmdRoot is the base command when no other command has been specified.
var cmdRoot = &cobra.Command{
	Use:   "pk2",
	Short: "Inspect and extract PK2 archives",
	Long: `
pk2 reads PK2 pack archives. It lists, prints and extracts the files stored
in an archive without modifying it.

Encrypted archives are opened with the key given by --key or $PK2_KEY. When
neither is set, the default key is used.
`,
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	DisableAutoGenTag: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return globalOptions.load()
	},
}

func main() {
	err := cmdRoot.Execute()
	switch {
	case err == nil:
	case errors.IsFatal(err):
		fmt.Fprintln(os.Stderr, err)
	default:
		fmt.Fprintf(os.Stderr, "%+v\n", err)
	}
	if err != nil {
		os.Exit(1)
	}
}
