package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/pokedash/internal/version"
)

type versionOptions struct {
	json  bool
	short bool
}

func newVersionCommand() *cobra.Command {
	opts := &versionOptions{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the pokedash version, git commit, build date, Go version and
platform, together with the generations and stat columns this build
understands.`,
		Example: `  pokedash version
  pokedash version --short
  pokedash version --json`,
		Args: cobra.NoArgs,
		// Runs without loading config, so a broken config file does not
		// hide the version.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printVersion(cmd, opts, version.GetInfo())
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.json, "json", false, "print version info as JSON")
	f.BoolVar(&opts.short, "short", false, "print the version number only")
	cmd.MarkFlagsMutuallyExclusive("json", "short")

	return cmd
}

func printVersion(cmd *cobra.Command, opts *versionOptions, info version.Info) error {
	w := cmd.OutOrStdout()

	switch {
	case opts.short:
		_, err := fmt.Fprintln(w, info.Version)
		return err
	case opts.json:
		j, err := info.JSON()
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, j)

		return err
	default:
		_, err := fmt.Fprintln(w, info.String())
		return err
	}
}
