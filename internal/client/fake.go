package client

import (
	"context"
	"sync"

	"github.com/yanmxa/cyberchat/internal/locale"
	"github.com/yanmxa/cyberchat/internal/message"
)

// Call records one request received by FakeClient.
type Call struct {
	Kind     string // "text" or "image"
	Prompt   string
	History  []message.Message
	Language locale.Language
}

// FakeClient is a test double that returns predefined responses.
//
// Usage:
//
//	fake := &client.FakeClient{
//	    Replies: []string{"hello"},
//	    Images:  []string{"data:image/png;base64,AAAA"},
//	}
type FakeClient struct {
	mu sync.Mutex

	// Replies is the queue of text replies, consumed in order. If
	// exhausted, "no more responses" is returned.
	Replies []string

	// Images is the queue of image data URIs, consumed in order. If
	// exhausted, "" (no image) is returned.
	Images []string

	// Calls records every request received, in order.
	Calls []Call

	// ErrorAt injects an error on the Nth call (1-based). 0 means disabled.
	ErrorAt int

	// ErrorValue is the error to inject when ErrorAt triggers.
	ErrorValue error

	// callCount tracks total calls across both request kinds.
	callCount int
}

// RequestCompletion returns the next text reply.
func (f *FakeClient) RequestCompletion(_ context.Context, prompt string, history []message.Message, lang locale.Language) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, Call{Kind: "text", Prompt: prompt, History: message.Clone(history), Language: lang})
	if f.shouldInjectError() {
		return "", f.ErrorValue
	}
	if len(f.Replies) == 0 {
		return "no more responses", nil
	}
	reply := f.Replies[0]
	f.Replies = f.Replies[1:]
	return reply, nil
}

// RequestImage returns the next image data URI.
func (f *FakeClient) RequestImage(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, Call{Kind: "image", Prompt: prompt})
	if f.shouldInjectError() {
		return "", f.ErrorValue
	}
	if len(f.Images) == 0 {
		return "", nil
	}
	img := f.Images[0]
	f.Images = f.Images[1:]
	return img, nil
}

// CallCount returns the number of requests received.
func (f *FakeClient) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// shouldInjectError increments callCount and returns true when ErrorAt matches.
func (f *FakeClient) shouldInjectError() bool {
	f.callCount++
	return f.ErrorAt > 0 && f.callCount == f.ErrorAt
}

var _ Generator = (*FakeClient)(nil)
