package logger

import (
	"strings"

	"github.com/sirupsen/logrus"
)

const maskValue = "******"

// MaskHook replaces the values of sensitive fields before an entry is
// written. Keys match case-insensitively; nested maps are walked.
type MaskHook struct {
	fields map[string]struct{}
}

// NewMaskHook creates a hook masking the given field names
func NewMaskHook(fields []string) *MaskHook {
	h := &MaskHook{fields: make(map[string]struct{}, len(fields))}
	for _, f := range fields {
		h.fields[strings.ToLower(f)] = struct{}{}
	}
	return h
}

// Levels returns all levels
func (h *MaskHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire masks entry data in place
func (h *MaskHook) Fire(entry *logrus.Entry) error {
	for k, v := range entry.Data {
		entry.Data[k] = h.mask(k, v, 0)
	}
	return nil
}

func (h *MaskHook) mask(key string, value any, depth int) any {
	if _, ok := h.fields[strings.ToLower(key)]; ok {
		return maskValue
	}
	if depth > 8 {
		return value
	}
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = h.mask(k, item, depth+1)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = h.mask("", item, depth+1)
		}
		return out
	}
	return value
}
