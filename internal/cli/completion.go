package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/pokedash/internal/config"
	"github.com/hupe1980/pokedash/internal/dataset"
	"github.com/hupe1980/pokedash/internal/filter"
	"github.com/hupe1980/pokedash/internal/output"
	"github.com/hupe1980/pokedash/internal/pokedex"
)

func newCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for pokedash.

Besides commands and flags, the scripts complete the values of --type,
--country and --generation from the data file given by --data-file
(default: ` + config.DefaultDataFile + `).

Bash:
  $ source <(pokedash completion bash)

Zsh:
  $ pokedash completion zsh > "${fpath[1]}/_pokedash"

Fish:
  $ pokedash completion fish > ~/.config/fish/completions/pokedash.fish

PowerShell:
  PS> pokedash completion powershell | Out-String | Invoke-Expression
`,
		// Scripts are generated without loading config or data.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Args:              cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:         []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}

			return nil
		},
	}

	return cmd
}

// registerFilterCompletions completes the filter flag values from the
// dataset named by --data-file.
func registerFilterCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("type", datasetValues(pokedex.TypeDimension, false))
	_ = cmd.RegisterFlagCompletionFunc("country", datasetValues(pokedex.CountryDimension, true))
	_ = cmd.RegisterFlagCompletionFunc("generation", datasetValues(pokedex.GenerationDimension, true))
}

// registerFormatCompletion completes --format with the registered output
// formats.
func registerFormatCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("format", fixedValues(output.DefaultRegistry(output.Options{}).Formats()...))
}

func fixedValues(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return withPrefix(values, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

// datasetValues loads the data file on every completion request. The
// config file is not consulted: completion runs without the root hooks.
func datasetValues(d pokedex.Dimension, withAll bool) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		path := config.DefaultDataFile
		if f := cmd.Flag("data-file"); f != nil && f.Value.String() != "" {
			path = f.Value.String()
		}

		t, err := dataset.Load(path)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveError
		}

		values := t.Distinct(d)
		if d == pokedex.GenerationDimension {
			pokedex.SortGenerations(values)
		} else {
			slices.Sort(values)
		}

		if withAll {
			values = append([]string{filter.All}, values...)
		}

		return withPrefix(values, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

func withPrefix(values []string, prefix string) []string {
	out := make([]string, 0, len(values))

	for _, v := range values {
		if strings.HasPrefix(strings.ToLower(v), strings.ToLower(prefix)) {
			out = append(out, v)
		}
	}

	return out
}
