package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// completionGenerators maps a shell name to its script generator. The bool
// selects whether completions carry descriptions.
var completionGenerators = map[string]func(root *cobra.Command, w io.Writer, desc bool) error{
	"bash": func(root *cobra.Command, w io.Writer, desc bool) error {
		return root.GenBashCompletionV2(w, desc)
	},
	"zsh": func(root *cobra.Command, w io.Writer, desc bool) error {
		if desc {
			return root.GenZshCompletion(w)
		}

		return root.GenZshCompletionNoDesc(w)
	},
	"fish": func(root *cobra.Command, w io.Writer, desc bool) error {
		return root.GenFishCompletion(w, desc)
	},
	"powershell": func(root *cobra.Command, w io.Writer, desc bool) error {
		if desc {
			return root.GenPowerShellCompletionWithDesc(w)
		}

		return root.GenPowerShellCompletion(w)
	},
}

func newCompletionCommand() *cobra.Command {
	var noDesc bool

	cmd := &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for bash, zsh, fish, or powershell.

Bash:
  $ source <(manifestsplit completion bash)

Zsh:
  $ manifestsplit completion zsh > "${fpath[1]}/_manifestsplit"

Fish:
  $ manifestsplit completion fish > ~/.config/fish/completions/manifestsplit.fish

PowerShell:
  PS> manifestsplit completion powershell | Out-String | Invoke-Expression
`,
		// Override parent PersistentPreRunE; completion needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Args:              cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:         []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionGenerators[args[0]](cmd.Root(), cmd.OutOrStdout(), !noDesc)
		},
	}

	cmd.Flags().BoolVar(&noDesc, "no-descriptions", false, "disable completion descriptions")

	return cmd
}
