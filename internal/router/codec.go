package router

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"bb84/internal/domain"
)

var (
	ErrMalformed    = errors.New("router: malformed frame")
	ErrUnknownEvent = errors.New("router: unknown event type")
)

type envelope struct {
	Type domain.EventKind `json:"type"`
	Data json.RawMessage  `json:"data,omitempty"`
}

// Decode parses one inbound frame.
func Decode(raw []byte) (domain.Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	data := env.Data
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		data = json.RawMessage("{}")
	}

	switch env.Type {
	case domain.KindJoin:
		var ev domain.JoinEvent
		if err := unmarshalData(data, &ev); err != nil {
			return nil, err
		}
		if ev.UserID == "" {
			return nil, &domain.ValidationError{Field: "user_id", Reason: "must not be empty"}
		}
		return ev, nil
	case domain.KindSendPhotons:
		return decodeAs[domain.SendPhotonsEvent](data)
	case domain.KindEveIntercept:
		var ev domain.EveInterceptEvent
		if err := unmarshalData(data, &ev); err != nil {
			return nil, err
		}
		ev.Raw = append(json.RawMessage(nil), data...)
		return ev, nil
	case domain.KindBasisComparison:
		return decodeAs[domain.BasisComparisonEvent](data)
	case domain.KindSendMessage:
		return decodeAs[domain.SendMessageEvent](data)
	case domain.KindSessionReset:
		return domain.ResetEvent{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Type)
	}
}

func decodeAs[T domain.Event](data json.RawMessage) (domain.Event, error) {
	var ev T
	if err := unmarshalData(data, &ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func unmarshalData(data json.RawMessage, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: data: %w", ErrMalformed, err)
	}
	return nil
}

// Encode builds one outbound frame.
func Encode(kind domain.EventKind, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}
	return json.Marshal(envelope{Type: kind, Data: raw})
}
