package log

import (
	"fmt"
	"strings"
	"time"

	"github.com/yanmxa/cyberchat/internal/provider"
)

// LogResponse logs a text response in human-readable format
func LogResponse(providerName string, resp provider.CompletionResponse, duration time.Duration) {
	turn := CurrentTurn()
	writeDevResponse(turn, providerName, resp)

	if !IsEnabled() {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "<<< [%s] %s | %s\n", GetTurnPrefix(turn), providerName, duration.Round(time.Millisecond))

	if resp.Text != "" {
		sb.WriteString("    Content:\n")
		for _, line := range strings.Split(resp.Text, "\n") {
			fmt.Fprintf(&sb, "        %s\n", line)
		}
	}

	Logger().Info(sb.String())
}

// LogImageResponse logs an image response in human-readable format
func LogImageResponse(providerName string, resp provider.ImageResponse, duration time.Duration) {
	turn := CurrentTurn()
	writeDevResponse(turn, providerName, describeParts(resp))

	if !IsEnabled() {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "<<< [%s] %s | %s\n", GetTurnPrefix(turn), providerName, duration.Round(time.Millisecond))
	fmt.Fprintf(&sb, "    Parts(%d):\n", len(resp.Parts))
	for i, p := range resp.Parts {
		switch part := p.(type) {
		case provider.TextPart:
			fmt.Fprintf(&sb, "      [%d] Text: %s\n", i, escapeForLog(part.Text))
		case provider.InlineImagePart:
			fmt.Fprintf(&sb, "      [%d] Image: %s %d bytes\n", i, part.MIMEType, len(part.Data))
		case provider.UnknownPart:
			fmt.Fprintf(&sb, "      [%d] Unknown: %s\n", i, part.Kind)
		}
	}

	Logger().Info(sb.String())
}

// LogError logs an error in human-readable format
func LogError(context string, err error) {
	if !IsEnabled() {
		return
	}
	Logger().Error(fmt.Sprintf("!!! ERROR [%s] %v", context, err))
}
