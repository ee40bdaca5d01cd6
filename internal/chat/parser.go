package chat

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/recrutaai/recruta-backend/internal/schemas"
)

//go:embed assistant_reply.schema.json
var assistantReplySchema string

// apologyMessage is returned when the model produces an empty reply.
const apologyMessage = "Desculpe, não consegui processar sua mensagem. Pode repetir, por favor?"

// ParsedReply is the structured payload extracted from one raw model reply.
// It is transient: it drives exactly one reconciliation step and is never
// persisted.
type ParsedReply struct {
	Message              string
	ExtractedFields      map[string]any
	IsComplete           bool
	CompletionPercentage float64
}

// ParseAssistantReply converts the model's raw text into a ParsedReply. The
// model is asked for pure JSON but routinely wraps it in prose, so the parser
// decodes the span between the first '{' and the last '}'. Any failure along
// the way degrades to a plain-chat reply (raw text as message, no fields)
// rather than an error; callers never see malformed model output.
func ParseAssistantReply(raw string) *ParsedReply {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return &ParsedReply{
			Message:         apologyMessage,
			ExtractedFields: map[string]any{},
		}
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return plainChatReply(trimmed)
	}
	span := trimmed[start : end+1]

	if err := schemas.ValidateJSONString(assistantReplySchema, span); err != nil {
		return plainChatReply(trimmed)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(span)))
	dec.UseNumber()
	var payload struct {
		Message              string         `json:"message"`
		ExtractedFields      map[string]any `json:"extractedFields"`
		IsComplete           bool           `json:"isComplete"`
		CompletionPercentage json.Number    `json:"completionPercentage"`
	}
	if err := dec.Decode(&payload); err != nil {
		return plainChatReply(trimmed)
	}

	reply := &ParsedReply{
		Message:         payload.Message,
		ExtractedFields: make(map[string]any, len(payload.ExtractedFields)),
		IsComplete:      payload.IsComplete,
	}
	if reply.Message == "" {
		reply.Message = trimmed
	}
	if pct, err := payload.CompletionPercentage.Float64(); err == nil {
		reply.CompletionPercentage = pct
	}
	for name, value := range payload.ExtractedFields {
		reply.ExtractedFields[name] = normalizeValue(value)
	}
	return reply
}

// plainChatReply is the degraded result for replies without a decodable JSON
// span: the turn becomes plain conversation and no fields are updated.
func plainChatReply(text string) *ParsedReply {
	return &ParsedReply{
		Message:         text,
		ExtractedFields: map[string]any{},
	}
}

// normalizeValue applies the per-value decoding policy: strings, booleans and
// nulls pass through, numbers become int64 when they have no fractional part,
// arrays are normalized element by element, and anything else (nested
// objects) is serialized back to its raw textual form. It never fails.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	case string, bool, nil:
		return val
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return nil
		}
		return string(raw)
	}
}
