package plan

import "strings"

const (
	openTag  = "<think>"
	closeTag = "</think>"
)

// ThinkFilter removes reasoning-tag content from a chunked text stream.
// It is a two-state machine: outside a tag, text passes through; inside,
// text is discarded until the closing tag. Tags split across chunk
// boundaries are handled by withholding any trailing bytes that could be
// the start of the tag being looked for.
//
// The zero value is ready to use. Not safe for concurrent use.
type ThinkFilter struct {
	inside  bool
	pending string
}

// Write feeds one chunk through the filter and returns the text that may
// be released to the consumer.
func (f *ThinkFilter) Write(chunk string) string {
	buf := f.pending + chunk
	f.pending = ""

	var out strings.Builder
	for buf != "" {
		if f.inside {
			idx := strings.Index(buf, closeTag)
			if idx == -1 {
				// Everything is reasoning; remember a possible partial
				// closing tag for the next chunk.
				f.pending = tailOverlap(buf, closeTag)
				return out.String()
			}
			buf = buf[idx+len(closeTag):]
			f.inside = false
			continue
		}

		idx := strings.Index(buf, openTag)
		if idx == -1 {
			hold := tailOverlap(buf, openTag)
			out.WriteString(buf[:len(buf)-len(hold)])
			f.pending = hold
			return out.String()
		}
		out.WriteString(buf[:idx])
		buf = buf[idx+len(openTag):]
		f.inside = true
	}
	return out.String()
}

// Flush ends the stream. Withheld text that turned out not to be a tag is
// released; content inside an unterminated tag is discarded.
func (f *ThinkFilter) Flush() string {
	pending := f.pending
	f.pending = ""
	if f.inside {
		return ""
	}
	return pending
}

// tailOverlap returns the longest suffix of s that is a proper prefix of
// tag.
func tailOverlap(s, tag string) string {
	max := len(tag) - 1
	if max > len(s) {
		max = len(s)
	}
	for n := max; n > 0; n-- {
		if strings.HasPrefix(tag, s[len(s)-n:]) {
			return s[len(s)-n:]
		}
	}
	return ""
}
