package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kmltool/pkg/proj"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for kmltool.

Besides commands and flags, the scripts complete input files by type
(.dxf for convert; .kml, .kmz and .dxf elsewhere), reference systems for
--crs and output formats for --format:

  $ kmltool convert network.dxf --crs EPSG:2<TAB>
  EPSG:2056    -- CH1903+ / LV95
  EPSG:21781   -- CH1903 / LV03

Bash:
  $ source <(kmltool completion bash)
  # permanently, on Linux:
  $ kmltool completion bash > /etc/bash_completion.d/kmltool

Zsh (requires "autoload -U compinit; compinit" in ~/.zshrc):
  $ kmltool completion zsh > "${fpath[1]}/_kmltool"

Fish:
  $ kmltool completion fish > ~/.config/fish/completions/kmltool.fish

PowerShell:
  PS> kmltool completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// completeFiles completes the single positional argument with files of the
// given extensions.
func completeFiles(exts ...string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return exts, cobra.ShellCompDirectiveFilterFileExt
	}
}

// completeCRS completes --crs with the supported reference systems and
// their names.
func completeCRS(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, code := range proj.Supported() {
		if !strings.HasPrefix(strings.ToUpper(code), strings.ToUpper(toComplete)) {
			continue
		}
		if p, err := proj.Lookup(code); err == nil {
			out = append(out, code+"\t"+p.Name())
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
