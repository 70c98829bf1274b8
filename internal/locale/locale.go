// Package locale holds the display languages and their UI strings.
package locale

import (
	"fmt"
	"strings"
)

// Language is a display language code.
type Language string

const (
	English    Language = "en"
	Vietnamese Language = "vi"
)

// Default is the language used when none is configured or persisted.
const Default = English

// Parse converts a user or persisted value into a Language.
func Parse(s string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case English:
		return English, true
	case Vietnamese:
		return Vietnamese, true
	}
	return "", false
}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	return l == English || l == Vietnamese
}

// Toggle returns the other supported language.
func (l Language) Toggle() Language {
	if l == Vietnamese {
		return English
	}
	return Vietnamese
}

// Name is the English name of the language, used in prompt directives.
func (l Language) Name() string {
	if l == Vietnamese {
		return "Vietnamese"
	}
	return "English"
}

// ResponseDirective is appended to outgoing prompts so the model answers
// in the display language.
func (l Language) ResponseDirective() string {
	return fmt.Sprintf("(Please respond in %s)", l.Name())
}

// Strings is the set of user-visible texts for one language.
type Strings struct {
	NewMission       string
	DefaultTitle     string
	MissionLogs      string
	SystemIntegrity  string
	ResetSystem      string
	InputPlaceholder string
	RenderImage      string
	SecureLink       string
	Rendering        string
	Thinking         string
	WelcomeMsg       string
	NewMissionPrompt string
	WipeConfirm      string
	AtLeastOne       string
	ErrorConn        string
	SystemError      string
	GPUActive        string
	LinkStable       string
	Terminate        string
	SystemStatus     string
	Busy             string
	imageCaption     string
}

// ImageCaption is the assistant text attached to a rendered image.
func (s Strings) ImageCaption(prompt string) string {
	return fmt.Sprintf(s.imageCaption, prompt)
}

var table = map[Language]Strings{
	English: {
		NewMission:       "NEW MISSION",
		DefaultTitle:     "New Mission",
		MissionLogs:      "MISSION LOGS",
		SystemIntegrity:  "SYSTEM INTEGRITY: NOMINAL",
		ResetSystem:      "RESET SYSTEM",
		InputPlaceholder: "Command input... (Alt+Enter for newline)",
		RenderImage:      "Render Image",
		SecureLink:       "Secure Neural Link Established | Encrypted Session",
		Rendering:        "RENDERING VISUAL ASSET...",
		Thinking:         "PROCESSING...",
		WelcomeMsg:       "System Initialized. 🚀 Hello! I am Cyber Chatbot AI. Start a new mission or ask me anything!",
		NewMissionPrompt: "System Initialized. New mission parameters required. 🎮",
		WipeConfirm:      "Wipe all system logs? This cannot be undone.",
		AtLeastOne:       "At least one mission must remain active.",
		ErrorConn:        "CRITICAL ERROR: Connection to mainframe failed.",
		SystemError:      "System error.",
		GPUActive:        "GPU: ACTIVATED",
		LinkStable:       "LINK: STABLE",
		Terminate:        "Terminate",
		SystemStatus:     "Online",
		Busy:             "A request is already in flight.",
		imageCaption:     "Visual asset rendered for: %q",
	},
	Vietnamese: {
		NewMission:       "NHIỆM VỤ MỚI",
		DefaultTitle:     "Nhiệm vụ mới",
		MissionLogs:      "NHẬT KÝ NHIỆM VỤ",
		SystemIntegrity:  "HỆ THỐNG: ỔN ĐỊNH",
		ResetSystem:      "KHỞI ĐỘNG LẠI",
		InputPlaceholder: "Nhập lệnh... (Alt+Enter để xuống dòng)",
		RenderImage:      "Tạo hình ảnh",
		SecureLink:       "Đã thiết lập liên kết thần kinh an toàn | Phiên mã hóa",
		Rendering:        "ĐANG KẾT XUẤT HÌNH ẢNH...",
		Thinking:         "ĐANG XỬ LÝ...",
		WelcomeMsg:       "Hệ thống đã sẵn sàng. 🚀 Xin chào! Tôi là Cyber Chatbot AI. Hãy bắt đầu nhiệm vụ mới hoặc hỏi tôi bất cứ điều gì!",
		NewMissionPrompt: "Hệ thống đã khởi tạo. Vui lòng nhập thông số nhiệm vụ mới. 🎮",
		WipeConfirm:      "Xóa toàn bộ nhật ký hệ thống? Hành động này không thể hoàn tác.",
		AtLeastOne:       "Phải giữ lại ít nhất một nhiệm vụ.",
		ErrorConn:        "LỖI NGHIÊM TRỌNG: Kết nối với máy chủ thất bại.",
		SystemError:      "Lỗi hệ thống.",
		GPUActive:        "GPU: ĐANG CHẠY",
		LinkStable:       "KẾT NỐI: ỔN ĐỊNH",
		Terminate:        "Hủy bỏ",
		SystemStatus:     "Trực tuyến",
		Busy:             "Đang có một yêu cầu được xử lý.",
		imageCaption:     "Đã kết xuất hình ảnh cho: %q",
	},
}

// For returns the strings for l, falling back to the default language.
func For(l Language) Strings {
	if s, ok := table[l]; ok {
		return s
	}
	return table[Default]
}
