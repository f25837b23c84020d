package inputmode

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-docwizard/pkg/answers"
)

// Source records how a file reached the wizard.
type Source string

const (
	SourceSelect Source = "select"
	SourceDrop   Source = "drop"
	SourcePaste  Source = "paste"
)

// ParseSource validates a raw source name; empty defaults to select.
func ParseSource(raw string) (Source, error) {
	switch Source(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SourceSelect:
		return SourceSelect, nil
	case SourceDrop:
		return SourceDrop, nil
	case SourcePaste:
		return SourcePaste, nil
	default:
		return "", fmt.Errorf("inputmode: unknown file source %q", raw)
	}
}

// FileHandle describes an uploaded scan. Contents are never read by the
// wizard; the handle only travels with the answers.
type FileHandle struct {
	Name        string `json:"name" validate:"required"`
	Size        int64  `json:"size,omitempty" validate:"gte=0"`
	ContentType string `json:"content_type,omitempty"`
	Source      Source `json:"source,omitempty"`
}

// Value is the representation stored in the answer set.
func (h FileHandle) Value() map[string]any {
	out := map[string]any{"name": h.Name}
	if h.Size > 0 {
		out["size"] = h.Size
	}
	if h.ContentType != "" {
		out["content_type"] = h.ContentType
	}
	if h.Source != "" {
		out["source"] = string(h.Source)
	}
	return out
}

func handleFrom(value any) (FileHandle, bool) {
	switch v := value.(type) {
	case FileHandle:
		return v, true
	case string:
		return FileHandle{Name: v}, v != ""
	case map[string]any:
		h := FileHandle{
			Name:        answers.Stringify(v["name"]),
			ContentType: answers.Stringify(v["content_type"]),
			Source:      Source(answers.Stringify(v["source"])),
		}
		if n, ok := answers.Number(v["size"]); ok {
			h.Size = int64(n)
		}
		return h, true
	default:
		return FileHandle{}, false
	}
}
