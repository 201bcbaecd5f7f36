// Package storage defines the local cache and remote store contracts and the
// document merge shared by the remote backends.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/noor/internal/models"
)

// MergeDocument overlays src on dst. Nested objects merge key by key; any
// other value, arrays included, replaces what dst held. dst is modified and
// returned; a nil dst is allocated.
func MergeDocument(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		srcMap, srcIsMap := v.(map[string]any)
		dstMap, dstIsMap := dst[k].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[k] = MergeDocument(dstMap, srcMap)
			continue
		}
		dst[k] = v
	}
	return dst
}

// MergeUser merge-writes u onto an existing stored document and returns the
// new document bytes. existing may be empty.
func MergeUser(existing []byte, u models.UserRecord) ([]byte, error) {
	incoming, err := EncodeDocument(u)
	if err != nil {
		return nil, err
	}
	return MergeStored(existing, incoming)
}

// MergeStored overlays a raw document on the stored bytes. Keys absent from
// incoming keep their stored values.
func MergeStored(existing []byte, incoming map[string]any) ([]byte, error) {
	var current map[string]any
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &current); err != nil {
			return nil, fmt.Errorf("failed to decode stored document: %w", err)
		}
	}

	merged, err := json.Marshal(MergeDocument(current, incoming))
	if err != nil {
		return nil, fmt.Errorf("failed to encode merged document: %w", err)
	}
	return merged, nil
}

// EncodeDocument converts u to its generic document form
func EncodeDocument(u models.UserRecord) (map[string]any, error) {
	u.Normalize()
	data, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user %s: %w", u.Profile.ID, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", u.Profile.ID, err)
	}
	return doc, nil
}

// DecodeUser parses a stored user document
func DecodeUser(data []byte) (models.UserRecord, error) {
	var u models.UserRecord
	if err := json.Unmarshal(data, &u); err != nil {
		return models.UserRecord{}, fmt.Errorf("failed to decode user document: %w", err)
	}
	u.Normalize()
	return u, nil
}

// EncodeState serializes the full application state for a cache
func EncodeState(st models.AppState) ([]byte, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return data, nil
}

// DecodeState parses a cached application state
func DecodeState(data []byte) (models.AppState, error) {
	var st models.AppState
	if err := json.Unmarshal(data, &st); err != nil {
		return models.AppState{}, fmt.Errorf("failed to decode state: %w", err)
	}
	st.Normalize()
	return st, nil
}
