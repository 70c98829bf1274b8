package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yanmxa/cyberchat/internal/app"
	"github.com/yanmxa/cyberchat/internal/log"
	"github.com/yanmxa/cyberchat/internal/session"
	"github.com/yanmxa/cyberchat/internal/transcript"
)

var (
	exportList   bool
	exportDelete string
)

var exportCmd = &cobra.Command{
	Use:   "export [mission-id]",
	Short: "Export a mission as a markdown transcript",
	Long: `Export a mission as a markdown transcript.

Without an ID the active mission is exported. Images are decoded next
to the transcript so the markdown renders them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := transcriptStore()
		if err != nil {
			return err
		}

		switch {
		case exportList:
			return printTranscripts(store)
		case exportDelete != "":
			if err := store.Delete(exportDelete); err != nil {
				return err
			}
			fmt.Printf("Deleted transcript %s\n", exportDelete)
			return nil
		}

		return withState(cmd, func(state *app.State) error {
			sess := state.Store.Active()
			if len(args) == 1 {
				var ok bool
				if sess, ok = state.Store.Session(args[0]); !ok {
					return fmt.Errorf("%w: %s", session.ErrSessionNotFound, args[0])
				}
			}
			path, err := store.Export(sess, state.Store.Language())
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().BoolVarP(&exportList, "list", "l", false, "List exported transcripts")
	exportCmd.Flags().StringVar(&exportDelete, "delete", "", "Delete an exported transcript by ID")
	rootCmd.AddCommand(exportCmd)
}

func transcriptStore() (*transcript.Store, error) {
	dir, err := log.DataDir()
	if err != nil {
		return nil, err
	}
	return transcript.NewStore(filepath.Join(dir, "transcripts"))
}

func printTranscripts(store *transcript.Store) error {
	list, err := store.List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No transcripts exported yet.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tMESSAGES\tEXPORTED")
	for _, t := range list {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			t.ID, t.Title, t.Messages, t.ExportedAt.Local().Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
