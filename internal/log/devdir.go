package log

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/yanmxa/cyberchat/internal/provider"
)

// DevRecord is the envelope saved to a JSON file in DEV_DIR
type DevRecord struct {
	Turn      int       `json:"turn"`
	Timestamp time.Time `json:"timestamp"`
	Provider  string    `json:"provider"`
	Payload   any       `json:"payload"`
}

// devPart is the JSON form of a response part. Image data is summarized.
type devPart struct {
	Kind     string `json:"kind"`
	Text     string `json:"text,omitempty"`
	MIMEType string `json:"mime_type,omitempty"`
	Bytes    int    `json:"bytes,omitempty"`
}

func describeParts(resp provider.ImageResponse) []devPart {
	parts := make([]devPart, 0, len(resp.Parts))
	for _, p := range resp.Parts {
		switch part := p.(type) {
		case provider.TextPart:
			parts = append(parts, devPart{Kind: "text", Text: part.Text})
		case provider.InlineImagePart:
			parts = append(parts, devPart{Kind: "inline_image", MIMEType: part.MIMEType, Bytes: len(part.Data)})
		case provider.UnknownPart:
			parts = append(parts, devPart{Kind: part.Kind})
		}
	}
	return parts
}

// writeDevRequest writes request data to JSON file in DEV_DIR
func writeDevRequest(turn int, providerName string, payload any) {
	writeDev(turn, providerName, "request", payload)
}

// writeDevResponse writes response data to JSON file in DEV_DIR
func writeDevResponse(turn int, providerName string, payload any) {
	writeDev(turn, providerName, "response", payload)
}

func writeDev(turn int, providerName, kind string, payload any) {
	mu.Lock()
	dir, on := devDir, devEnabled
	mu.Unlock()
	if !on {
		return
	}
	rec := DevRecord{
		Turn:      turn,
		Timestamp: time.Now().UTC(),
		Provider:  providerName,
		Payload:   payload,
	}
	filename := filepath.Join(dir, GetTurnPrefix(turn)+"-"+kind+".json")
	writeJSON(filename, rec)
}

func writeJSON(filename string, data any) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(filename, jsonData, 0644)
}
