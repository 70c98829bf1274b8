package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yanmxa/cyberchat/internal/config"
	"github.com/yanmxa/cyberchat/internal/log"
	"github.com/yanmxa/cyberchat/internal/provider"
	"github.com/yanmxa/cyberchat/internal/system"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(settings.Redacted())
		if err != nil {
			return err
		}
		fmt.Print(string(data))

		loader := config.NewLoader()
		fmt.Println()
		for _, path := range loader.Sources() {
			status := "missing"
			if _, err := os.Stat(path); err == nil {
				status = "loaded"
			}
			fmt.Printf("# %s (%s)\n", path, status)
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective settings to the user settings file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		path, err := config.NewLoader().SaveToUser(settings)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List generation providers and whether credentials are set",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PROVIDER\tSTATUS\tMODEL\tIMAGE MODEL\tKEYS")
		for _, info := range provider.GetProvidersWithStatus(provider.Provider(settings.Provider)) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\n",
				info.Meta.Provider, info.Status, info.Meta.DefaultModel,
				info.Meta.DefaultImageModel, info.Meta.EnvVars)
		}
		return w.Flush()
	},
}

var modelsRefresh bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models of the configured provider",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		models, err := a.ListModels(cmd.Context(), modelsRefresh)
		if err != nil {
			return err
		}
		for _, m := range models {
			marker := " "
			if m.ID == a.Client.Model {
				marker = "*"
			}
			if m.DisplayName != "" && m.DisplayName != m.ID {
				fmt.Printf("%s %s (%s)\n", marker, m.ID, m.DisplayName)
			} else {
				fmt.Printf("%s %s\n", marker, m.ID)
			}
		}
		return nil
	},
}

func init() {
	modelsCmd.Flags().BoolVar(&modelsRefresh, "refresh", false, "Bypass the cached model list")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd, providersCmd, modelsCmd)
}

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "List the memory files appended to the persona",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		userDir, err := log.DataDir()
		if err != nil {
			return err
		}
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}

		files := system.LoadMemoryFiles(userDir, cwd)
		if len(files) == 0 {
			paths := system.GetAllMemoryPaths(userDir, cwd)
			fmt.Println("No memory files. Create one of:")
			for _, p := range append(paths.Global, paths.Project...) {
				fmt.Println("  " + p)
			}
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "LEVEL\tSIZE\tPATH")
		for _, f := range files {
			level := f.Level
			if f.Source != "" {
				level += "/" + f.Source
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", level, system.FormatFileSize(f.Size), f.Path)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(memoryCmd)
}
