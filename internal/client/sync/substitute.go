package sync

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/iudanet/courtside/internal/models"
)

// resolveFunc returns the server id assigned to the action with the given local id
type resolveFunc func(actionID string) (string, error)

// substitutePayload replaces every JSON string "local:<actionId>" with the
// server id of that action. Other strings, including free text starting
// with "local:", are left alone. Numeric server ids become JSON numbers.
// The payload is returned byte-for-byte unchanged when it has no placeholders.
func substitutePayload(payload json.RawMessage, resolve resolveFunc) (json.RawMessage, error) {
	if len(payload) == 0 || !models.ContainsLocalRef(payload) {
		return payload, nil
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	replaced := false
	doc, err := substituteValue(doc, resolve, &replaced)
	if err != nil {
		return nil, err
	}
	if !replaced {
		return payload, nil
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return out, nil
}

func substituteValue(v any, resolve resolveFunc, replaced *bool) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			next, err := substituteValue(item, resolve, replaced)
			if err != nil {
				return nil, err
			}
			val[k] = next
		}
		return val, nil

	case []any:
		for i, item := range val {
			next, err := substituteValue(item, resolve, replaced)
			if err != nil {
				return nil, err
			}
			val[i] = next
		}
		return val, nil

	case string:
		actionID, ok := models.ParseLocalRef(val)
		if !ok {
			return val, nil
		}
		serverID, err := resolve(actionID)
		if err != nil {
			return nil, err
		}
		*replaced = true
		if isJSONNumber(serverID) {
			return json.Number(serverID), nil
		}
		return serverID, nil

	default:
		return v, nil
	}
}

// substitutePath заменяет сегменты пути вида local:<actionId> на server id
func substitutePath(path string, resolve resolveFunc) (string, error) {
	if !models.ContainsLocalRef([]byte(path)) {
		return path, nil
	}

	rawPath, query, hasQuery := strings.Cut(path, "?")
	segments := strings.Split(rawPath, "/")
	for i, segment := range segments {
		actionID, ok := models.ParseLocalRef(segment)
		if !ok {
			continue
		}
		serverID, err := resolve(actionID)
		if err != nil {
			return "", err
		}
		segments[i] = url.PathEscape(serverID)
	}

	out := strings.Join(segments, "/")
	if hasQuery {
		out += "?" + query
	}
	return out, nil
}

func isJSONNumber(s string) bool {
	if s == "" {
		return false
	}
	if c := s[0]; c != '-' && (c < '0' || c > '9') {
		return false
	}
	return json.Valid([]byte(s))
}
