package transcript

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yanmxa/cyberchat/internal/image"
	"github.com/yanmxa/cyberchat/internal/locale"
	"github.com/yanmxa/cyberchat/internal/log"
	"github.com/yanmxa/cyberchat/internal/message"
	"github.com/yanmxa/cyberchat/internal/session"
)

const timeLayout = "2006-01-02 15:04"

// Export renders sess as markdown and saves it, with its images decoded
// into the asset directory. It returns the transcript file path.
func (s *Store) Export(sess session.ChatSession, lang locale.Language) (string, error) {
	t := &Transcript{
		SessionID:  sess.ID,
		Title:      sess.Title,
		Language:   string(lang),
		Messages:   len(sess.Messages),
		CreatedAt:  sess.CreatedAt,
		ExportedAt: time.Now(),
	}
	t.ID = GenerateName(sess.Title, t.ExportedAt)

	images := make(map[string]string) // message id -> relative path
	for _, msg := range sess.Messages {
		if !msg.HasImage() {
			continue
		}
		info, err := image.ParseDataURI(msg.ImageURL)
		if err != nil {
			log.Logger().Warn("Skipping undecodable image", zap.String("message", msg.ID), zap.Error(err))
			continue
		}
		path, err := info.Save(s.AssetDir(t.ID), msg.ID)
		if err != nil {
			return "", err
		}
		images[msg.ID] = filepath.ToSlash(filepath.Join(filepath.Base(s.AssetDir(t.ID)), filepath.Base(path)))
	}

	t.Content = Render(sess, images)
	return s.Save(t)
}

// Render formats the messages of sess as markdown. images maps message IDs
// to image links; messages with an image but no link note the image only.
func Render(sess session.ChatSession, images map[string]string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", sess.Title)

	for _, msg := range sess.Messages {
		sb.WriteString("\n")
		stamp := msg.Timestamp.Local().Format(timeLayout)

		switch msg.Role {
		case message.RoleUser:
			fmt.Fprintf(&sb, "**You** · %s\n\n%s\n", stamp, msg.Content)
		case message.RoleAssistant:
			fmt.Fprintf(&sb, "**Cyber** · %s\n\n%s\n", stamp, msg.Content)
		default:
			fmt.Fprintf(&sb, "> %s\n", msg.Content)
		}

		if msg.HasImage() {
			if link, ok := images[msg.ID]; ok {
				fmt.Fprintf(&sb, "\n![%s](%s)\n", msg.ID, link)
			} else {
				sb.WriteString("\n_(image not exported)_\n")
			}
		}
	}
	return sb.String()
}
