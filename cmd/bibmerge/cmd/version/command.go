// Package version provides the version command.
package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// AppContext defines what the version command needs from the app.
type AppContext interface {
	Version() string
	Commit() string
	Date() string
	BuiltBy() string
}

// NewCommand creates the version command.
func NewCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			_, err := fmt.Fprintf(w,
				"bibmerge version %s\ncommit: %s\nbuilt: %s\nbuilt by: %s\ngo version: %s\nplatform: %s/%s\n",
				app.Version(), app.Commit(), app.Date(), app.BuiltBy(),
				runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return err
		},
	}
}
