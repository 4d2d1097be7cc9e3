package cli

import (
	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/cmaptree/pkg/io"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for cmaptree.

To load completions:

Bash:
  $ source <(cmaptree completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ cmaptree completion bash > /etc/bash_completion.d/cmaptree
  # macOS:
  $ cmaptree completion bash > $(brew --prefix)/etc/bash_completion.d/cmaptree

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ cmaptree completion zsh > "${fpath[1]}/_cmaptree"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ cmaptree completion fish | source

  # To load completions for each session, execute once:
  $ cmaptree completion fish > ~/.config/fish/completions/cmaptree.fish

PowerShell:
  PS> cmaptree completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> cmaptree completion powershell > cmaptree.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
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

// completeMapFiles completes concept map files by extension.
func completeMapFiles(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"cxl", "xml", "json"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeConceptIDs completes --root with the concept ids of the map given
// as the first argument, described by their labels.
func completeConceptIDs(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	m, err := pkgio.Import(args[0])
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	ids := make([]string, 0, len(m.Concepts))
	for _, c := range m.Concepts {
		ids = append(ids, c.ID+"\t"+c.Label)
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
