package cli

import (
	"bufio"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/consultsync/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"settings"},
	Short:   "Manage player and library settings",
	Long: `View and modify consultsync settings.

Settings are stored in ~/.consultsync/config.toml. Player settings apply to
the next recording that is opened.

Keys:
  player.rate           initial playback rate (0.25 - 4)
  player.volume         initial volume (0 - 1)
  player.tick_ms        position update interval in milliseconds (1-120)
  player.waveform_bars  number of bars drawn on the waveform
  storage.backend       library store (sqlite or memory)
  storage.data_dir      directory holding the library database`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a single setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a single setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive settings wizard",
	Long:  `Walk through the player and library settings interactively.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigWizard,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configWizardCmd)
	rootCmd.AddCommand(configCmd)
}

// configKey binds a dotted key to its field in AppSettings.
type configKey struct {
	get func(s *domain.AppSettings) string
	set func(value string) error
}

var configKeys = map[string]configKey{
	"player.rate": {
		get: func(s *domain.AppSettings) string { return formatFloat(s.Player.Rate) },
		set: func(value string) error {
			rate, err := parseFloat(value)
			if err != nil {
				return err
			}
			return settingsService.SetRate(rate)
		},
	},
	"player.volume": {
		get: func(s *domain.AppSettings) string { return formatFloat(s.Player.Volume) },
		set: func(value string) error {
			volume, err := parseFloat(value)
			if err != nil {
				return err
			}
			return settingsService.SetVolume(volume)
		},
	},
	"player.tick_ms": {
		get: func(s *domain.AppSettings) string {
			return strconv.Itoa(int(s.Player.TickInterval / time.Millisecond))
		},
		set: func(value string) error {
			ms, err := parsePositiveInt(value)
			if err != nil {
				return err
			}
			return updateSettings(func(s *domain.AppSettings) {
				s.Player.TickInterval = time.Duration(ms) * time.Millisecond
			})
		},
	},
	"player.waveform_bars": {
		get: func(s *domain.AppSettings) string { return strconv.Itoa(s.Player.WaveformBars) },
		set: func(value string) error {
			bars, err := parsePositiveInt(value)
			if err != nil {
				return err
			}
			return updateSettings(func(s *domain.AppSettings) { s.Player.WaveformBars = bars })
		},
	},
	"storage.backend": {
		get: func(s *domain.AppSettings) string { return s.Storage.Backend.String() },
		set: func(value string) error {
			return settingsService.SetStoreBackend(domain.StoreBackend(strings.ToLower(value)))
		},
	},
	"storage.data_dir": {
		get: func(s *domain.AppSettings) string { return s.Storage.DataDir },
		set: func(value string) error {
			return updateSettings(func(s *domain.AppSettings) { s.Storage.DataDir = value })
		},
	},
}

func lookupKey(name string) (configKey, error) {
	key, ok := configKeys[name]
	if !ok {
		return configKey{}, fmt.Errorf("unknown setting %q (known: %s)", name, strings.Join(knownKeys(), ", "))
	}
	return key, nil
}

func knownKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Player]")
	cmd.Printf("  Rate: %gx\n", settings.Player.Rate)
	cmd.Printf("  Volume: %d%%\n", int(settings.Player.Volume*100+0.5))
	cmd.Printf("  Tick: %s\n", settings.Player.TickInterval)
	cmd.Printf("  Waveform Bars: %d\n", settings.Player.WaveformBars)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend.Description())
	dataDir := settings.Storage.DataDir
	if dataDir == "" {
		dataDir = "(default)"
	}
	cmd.Printf("  Data Dir: %s\n", dataDir)

	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	key, err := lookupKey(args[0])
	if err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Println(key.get(settings))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	key, err := lookupKey(args[0])
	if err != nil {
		return err
	}

	if err := key.set(strings.TrimSpace(args[1])); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s to %s\n", args[0], args[1])
	return nil
}

func runConfigWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	current, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("consultsync Settings Wizard")
	cmd.Println("===========================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	// Step 1: playback rate
	cmd.Println("Step 1: Initial Playback Rate")
	cmd.Println("-----------------------------")
	rateDefault := 1
	for i, r := range domain.PlaybackRates {
		cmd.Printf("  %d. %gx\n", i+1, r)
		if r == current.Player.Rate {
			rateDefault = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", rateDefault)
	rate := domain.PlaybackRates[parseChoice(readLine(reader), len(domain.PlaybackRates), rateDefault)-1]
	if err := settingsService.SetRate(rate); err != nil {
		return fmt.Errorf("failed to set playback rate: %w", err)
	}
	cmd.Printf("Set playback rate to: %gx\n\n", rate)

	// Step 2: volume
	cmd.Println("Step 2: Initial Volume")
	cmd.Println("----------------------")
	percent := int(current.Player.Volume*100 + 0.5)
	cmd.Printf("Enter volume 0-100 [%d]: ", percent)
	percent = parsePercent(readLine(reader), percent)
	if err := settingsService.SetVolume(float64(percent) / 100); err != nil {
		return fmt.Errorf("failed to set volume: %w", err)
	}
	cmd.Printf("Set volume to: %d%%\n\n", percent)

	// Step 3: library store
	cmd.Println("Step 3: Library Store")
	cmd.Println("---------------------")
	backends := domain.AllStoreBackends()
	backendDefault := 1
	for i, b := range backends {
		cmd.Printf("  %d. %s\n", i+1, b.Description())
		if b == current.Storage.Backend {
			backendDefault = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", backendDefault)
	backend := backends[parseChoice(readLine(reader), len(backends), backendDefault)-1]
	if err := settingsService.SetStoreBackend(backend); err != nil {
		return fmt.Errorf("failed to set library store: %w", err)
	}
	cmd.Printf("Set library store to: %s\n\n", backend.Description())

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	cmd.Println("New values apply to the next recording you open.")
	return nil
}

// updateSettings applies fn to the current settings and saves them.
func updateSettings(fn func(s *domain.AppSettings)) error {
	settings, err := settingsService.Get()
	if err != nil {
		return err
	}
	fn(settings)
	return settingsService.Save(settings)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func parsePercent(input string, defaultVal int) int {
	val, err := strconv.Atoi(strings.TrimSuffix(input, "%"))
	if err != nil || val < 0 || val > 100 {
		return defaultVal
	}
	return val
}

func parseFloat(value string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSuffix(value, "x"), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number: %w", value, domain.ErrInvalidInput)
	}
	return f, nil
}

func parsePositiveInt(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%q is not a positive integer: %w", value, domain.ErrInvalidInput)
	}
	return n, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
