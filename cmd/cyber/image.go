package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yanmxa/cyberchat/internal/chat"
	"github.com/yanmxa/cyberchat/internal/image"
	"github.com/yanmxa/cyberchat/internal/log"
)

var imageOutput string

var imageCmd = &cobra.Command{
	Use:   "image [prompt]",
	Short: "Render an image in the active mission and save it to a file",
	Long: `Render an image from a prompt. A blank prompt renders the default
cyberpunk scene. The image is stored in the active mission and written to
--output, or to ~/.cyber/images when no output is given.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		ticket, err := a.Chat.Begin(chat.Image, strings.Join(args, " "))
		if err != nil {
			return err
		}
		outcome := a.Chat.Execute(cmd.Context(), ticket)
		reply, err := a.Chat.Finish(ticket, outcome)
		if err != nil {
			return err
		}
		if outcome.Err != nil {
			return outcome.Err
		}
		if !reply.HasImage() {
			return fmt.Errorf("%s", reply.Content)
		}

		info, err := image.ParseDataURI(reply.ImageURL)
		if err != nil {
			return err
		}
		path, err := saveImage(info, reply.ID)
		if err != nil {
			return err
		}
		fmt.Println(reply.Content)
		fmt.Printf("Saved %s (%s)\n", path, image.FormatBytes(info.Size))
		return nil
	},
}

func init() {
	imageCmd.Flags().StringVarP(&imageOutput, "output", "o", "", "File to write the image to")
	rootCmd.AddCommand(imageCmd)
}

func saveImage(info *image.ImageInfo, id string) (string, error) {
	if imageOutput != "" {
		dir, file := filepath.Split(imageOutput)
		if dir == "" {
			dir = "."
		}
		name := strings.TrimSuffix(file, filepath.Ext(file))
		return info.Save(dir, name)
	}
	dataDir, err := log.DataDir()
	if err != nil {
		return "", err
	}
	return info.Save(filepath.Join(dataDir, "images"), id)
}
