package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yanmxa/cyberchat/internal/app"
	"github.com/yanmxa/cyberchat/internal/session"
)

var sessionsCmd = &cobra.Command{
	Use:     "sessions",
	Aliases: []string{"missions"},
	Short:   "List and manage chat missions",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withState(cmd, func(state *app.State) error {
			printSessions(state.Store)
			return nil
		})
	},
}

var sessionsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new mission and make it active",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withState(cmd, func(state *app.State) error {
			sess := state.Chat.NewSession()
			fmt.Printf("Created mission %s\n", sess.ID)
			return nil
		})
	},
}

var sessionsSwitchCmd = &cobra.Command{
	Use:   "switch <id>",
	Short: "Make a mission active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withState(cmd, func(state *app.State) error {
			if err := state.Store.SwitchActive(args[0]); err != nil {
				return err
			}
			fmt.Printf("Active mission: %s\n", args[0])
			return nil
		})
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a mission (the last one is kept)",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withState(cmd, func(state *app.State) error {
			if err := state.Chat.DeleteSession(args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted mission %s\n", args[0])
			return nil
		})
	},
}

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe all missions and settings held in storage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetForce {
			return fmt.Errorf("reset deletes every mission; rerun with --force to confirm")
		}
		return withState(cmd, func(state *app.State) error {
			if err := state.Chat.Reset(); err != nil {
				return err
			}
			fmt.Println("System reset.")
			return nil
		})
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Confirm the reset")

	sessionsCmd.AddCommand(sessionsNewCmd, sessionsSwitchCmd, sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd, resetCmd)
}

// withState runs fn against the persisted state and closes it afterwards.
func withState(cmd *cobra.Command, fn func(*app.State) error) error {
	state, err := openState(cmd.Context())
	if err != nil {
		return err
	}
	defer state.Close()
	return fn(state)
}

func printSessions(store *session.Store) {
	activeID := store.ActiveID()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tTITLE\tMESSAGES\tCREATED")
	for _, sess := range store.Sessions() {
		marker := ""
		if sess.ID == activeID {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			marker, sess.ID, sess.Title, len(sess.Messages),
			sess.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	w.Flush()
}
