package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/consultsync/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for consultsync.

The TUI opens on the main menu. From the library you can import bundles,
remove recordings and open one in the player. Settings for the initial
playback rate, volume and library store are edited in place.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select / Open
  i        - Import a bundle (library)
  Esc      - Back / Cancel
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	library, err := requireLibrary()
	if err != nil {
		return err
	}
	sessions, err := requireSessions()
	if err != nil {
		return err
	}
	return runPlayer(cmd, tui.NewPorts(library, sessions), nil)
}
