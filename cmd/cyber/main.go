package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yanmxa/cyberchat/internal/app"
	"github.com/yanmxa/cyberchat/internal/chat"
	"github.com/yanmxa/cyberchat/internal/config"
	"github.com/yanmxa/cyberchat/internal/locale"
	"github.com/yanmxa/cyberchat/internal/log"
	"github.com/yanmxa/cyberchat/internal/tui"
)

var (
	version = "0.1.0"
)

func init() {
	// Load .env file if it exists (silent fail if not found)
	_ = godotenv.Load()

	// Initialize logging (enabled via CYBER_DEBUG=1)
	_ = log.Init()
}

func main() {
	defer log.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cyber [message]",
	Short: "Cyber Chatbot AI - a neon chat assistant for the terminal",
	Long: `Cyber Chatbot AI keeps parallel chat missions, renders images
and remembers everything between runs.

Non-interactive mode:
  cyber "your message"       Send a message to the active mission
  echo "message" | cyber     Send a message via stdin
  cyber -p "prompt"          Same as a positional message`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		message := getInputMessage(args)

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if strings.TrimSpace(message) != "" {
			return runNonInteractive(cmd.Context(), a, message)
		}
		return tui.Run(a)
	},
}

// Global flags
var (
	promptFlag    string
	providerFlag  string
	modelFlag     string
	storageFlag   string
	langFlag      string
	ephemeralFlag bool
)

func init() {
	rootCmd.Flags().StringVarP(&promptFlag, "prompt", "p", "", "Message to send without starting the interface")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&providerFlag, "provider", "", "Generation provider (google, openai, anthropic, moonshot)")
	pf.StringVarP(&modelFlag, "model", "m", "", "Text model override")
	pf.StringVar(&storageFlag, "storage", "", "Storage medium (file, sqlite, redis, memory)")
	pf.StringVar(&langFlag, "lang", "", "Interface and reply language (en, vi)")
	pf.BoolVar(&ephemeralFlag, "ephemeral", false, "Keep state in memory only")

	rootCmd.AddCommand(versionCmd)
}

// loadSettings loads layered settings and applies command-line overrides.
func loadSettings() (*config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}
	if providerFlag != "" {
		settings.Provider = providerFlag
	}
	if modelFlag != "" {
		settings.Model = modelFlag
	}
	if storageFlag != "" {
		settings.Storage.Type = storageFlag
	}
	if langFlag != "" {
		if _, ok := locale.Parse(langFlag); !ok {
			return nil, fmt.Errorf("unsupported language %q (use en or vi)", langFlag)
		}
		settings.Language = langFlag
	}
	return settings, nil
}

// applyLanguageFlag makes an explicit --lang win over the persisted language.
func applyLanguageFlag(state *app.State) error {
	if langFlag == "" {
		return nil
	}
	lang, _ := locale.Parse(langFlag)
	return state.Store.SetLanguage(lang)
}

func openApp(ctx context.Context) (*app.App, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	a, err := app.Open(ctx, settings, ephemeralFlag)
	if err != nil {
		return nil, err
	}
	if err := applyLanguageFlag(a.State); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// openState opens storage only. Commands that never call the model use it
// so that they work without credentials.
func openState(ctx context.Context) (*app.State, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	state, err := app.OpenState(ctx, settings, ephemeralFlag)
	if err != nil {
		return nil, err
	}
	if err := applyLanguageFlag(state); err != nil {
		state.Close()
		return nil, err
	}
	return state, nil
}

// getInputMessage gets input from args, flags, or stdin
func getInputMessage(args []string) string {
	if promptFlag != "" {
		return promptFlag
	}

	if len(args) > 0 {
		return strings.Join(args, " ")
	}

	// Check if stdin has data (non-interactive pipe)
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		reader := bufio.NewReader(os.Stdin)
		data, err := io.ReadAll(reader)
		if err == nil && len(data) > 0 {
			return string(data)
		}
	}

	return ""
}

// runNonInteractive sends one message to the active session and prints the
// reply. The exchange is persisted like any other turn.
func runNonInteractive(ctx context.Context, a *app.App, message string) error {
	ticket, err := a.Chat.Begin(chat.Text, message)
	if err != nil {
		return err
	}
	outcome := a.Chat.Execute(ctx, ticket)
	reply, err := a.Chat.Finish(ticket, outcome)
	if err != nil {
		return err
	}

	fmt.Println(reply.Content)
	if outcome.Err != nil {
		return outcome.Err
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cyber version %s\n", version)
	},
}
