package llm

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// Stream iterates over incremental chunks of a streamed completion.
// Exactly one consumer drives it: call Next, read Current, repeat; check
// Err after Next returns false. Close releases the underlying connection
// and must always be called.
type Stream interface {
	Next() bool
	Current() StreamChunk
	Err() error
	Close() error
}

// StreamChunk is one decoded server-sent event from the completion
// endpoint.
type StreamChunk struct {
	Content      string
	FinishReason string
}

// streamChunkPayload mirrors the wire shape of a streamed chunk.
type streamChunkPayload struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// sseStream decodes the text/event-stream body of a streamed completion.
type sseStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	current StreamChunk
	err     error
	done    bool
}

func newSSEStream(body io.ReadCloser) *sseStream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &sseStream{body: body, scanner: scanner}
}

func (s *sseStream) Next() bool {
	if s.done || s.err != nil {
		return false
	}
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" || !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			s.done = true
			return false
		}

		var payload streamChunkPayload
		if err := json.Unmarshal([]byte(data), &payload); err != nil {
			s.err = eris.Wrap(err, "llm: decode stream chunk")
			return false
		}
		if len(payload.Choices) == 0 {
			continue
		}

		s.current = StreamChunk{
			Content:      payload.Choices[0].Delta.Content,
			FinishReason: payload.Choices[0].FinishReason,
		}
		return true
	}

	if err := s.scanner.Err(); err != nil {
		s.err = eris.Wrap(err, "llm: read stream")
	}
	s.done = true
	return false
}

func (s *sseStream) Current() StreamChunk {
	return s.current
}

func (s *sseStream) Err() error {
	return s.err
}

func (s *sseStream) Close() error {
	return s.body.Close()
}
