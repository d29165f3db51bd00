package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/quicksilvermail/quicksilver/internal/app"
	"github.com/quicksilvermail/quicksilver/internal/config"
	"github.com/quicksilvermail/quicksilver/internal/domain"
	"github.com/quicksilvermail/quicksilver/internal/tui"
)

var (
	// version is set via ldflags at build time.
	version = "dev"
	cfgFile string

	// jsonFlag enables JSON output for all commands.
	jsonFlag bool
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "quicksilver",
		Short:   "Terminal email client",
		Long:    "A terminal email client running against simulated mailbox data.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if shell, _ := cmd.Flags().GetString("generate-completion"); shell != "" {
				switch shell {
				case "bash":
					return cmd.Root().GenBashCompletion(os.Stdout)
				case "zsh":
					return cmd.Root().GenZshCompletion(os.Stdout)
				case "fish":
					return cmd.Root().GenFishCompletion(os.Stdout, true)
				default:
					return fmt.Errorf("unsupported shell: %s (use bash, zsh, or fish)", shell)
				}
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			return tui.Run(a)
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("quicksilver %s\n", version))
	root.CompletionOptions.DisableDefaultCmd = true
	root.Flags().String("generate-completion", "", "Generate shell completion (bash, zsh, fish)")
	root.Flags().MarkHidden("generate-completion")
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	root.PersistentFlags().BoolVar(&jsonFlag, "json", false, "output in JSON format")
	root.AddCommand(newLoginCmd())
	root.AddCommand(newLogoutCmd())
	root.AddCommand(newRegisterCmd())
	root.AddCommand(newWhoamiCmd())
	root.AddCommand(newProfileCmd())
	root.AddCommand(newResetPasswordCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newReadCmd())
	root.AddCommand(newContactsCmd())
	root.AddCommand(newComposeCmd())
	root.AddCommand(newDraftCmd())
	root.AddCommand(newReplyCmd())
	root.AddCommand(newTrashCmd())
	root.AddCommand(newMarkReadCmd())
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the application configuration from the config file.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = filepath.Join(config.ConfigDir(), "config.toml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newApp builds the application context for a CLI invocation.
func newApp() (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a, err := app.New(cfg, clockwork.NewRealClock())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return a, nil
}

// requireUser returns the signed-in user or an actionable error.
func requireUser(a *app.App) (*domain.User, error) {
	u := a.Session.CurrentUser()
	if u == nil {
		return nil, fmt.Errorf("not logged in; run 'quicksilver login <email>' first")
	}
	return u, nil
}
