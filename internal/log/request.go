package log

import (
	"fmt"
	"strings"

	"github.com/yanmxa/cyberchat/internal/provider"
)

// LogRequest logs a text request in human-readable format
func LogRequest(providerName string, req provider.CompletionRequest) {
	turn := NextTurn()
	writeDevRequest(turn, providerName, req)

	if !IsEnabled() {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "───────────────────────────────────────── Turn %d ─────────────────────────────────────────\n", turn)
	fmt.Fprintf(&sb, ">>> [%s] %s | temp=%.1f\n", providerName, req.Model, req.Temperature)

	if req.SystemInstruction != "" {
		fmt.Fprintf(&sb, "    System: %s\n", escapeForLog(req.SystemInstruction))
	}

	fmt.Fprintf(&sb, "    Turns(%d):\n", len(req.Turns))
	for i, t := range req.Turns {
		switch t.Role {
		case provider.RoleUser:
			fmt.Fprintf(&sb, "      [%d] User: %s\n", i, escapeForLog(t.Text))
		case provider.RoleModel:
			fmt.Fprintf(&sb, "      [%d] Model: %s\n", i, escapeForLog(t.Text))
		}
	}

	Logger().Info(sb.String())
}

// LogImageRequest logs an image request in human-readable format
func LogImageRequest(providerName string, req provider.ImageRequest) {
	turn := NextTurn()
	writeDevRequest(turn, providerName, req)

	if !IsEnabled() {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "───────────────────────────────────────── Turn %d ─────────────────────────────────────────\n", turn)
	fmt.Fprintf(&sb, ">>> [%s] %s | image aspect=%s\n", providerName, req.Model, req.AspectRatio)
	fmt.Fprintf(&sb, "    Prompt: %s\n", escapeForLog(req.Prompt))

	Logger().Info(sb.String())
}
