package pond

import (
	"encoding/json"
	"errors"

	"github.com/gopherjs/gopherjs/js"
)

const storageKey = "echopond/presets"

// localGateway persists presets as one JSON document in localStorage.
// Storage can be unavailable (private mode, quota, disabled) or hold
// corrupt data; every failure is reported as an error and absorbed by the
// caller, never propagated as fatal.
type localGateway struct {
	storage *js.Object
}

// NewPresetGateway returns a localStorage-backed gateway, or an in-memory
// one when the browser exposes no storage at all.
func NewPresetGateway() PresetGateway {
	storage := js.Global.Get("localStorage")
	if storage == nil || storage == js.Undefined {
		DebugWarn("localStorage unavailable, presets will not persist")
		return NewMemoryGateway()
	}
	return &localGateway{storage: storage}
}

func (g *localGateway) Load() (presets map[string]Preset, err error) {
	// localStorage access raises a DOM exception in some privacy modes,
	// which GopherJS surfaces as a panic.
	defer func() {
		if r := recover(); r != nil {
			presets, err = nil, errors.New("localStorage read rejected")
		}
	}()

	raw := g.storage.Call("getItem", storageKey)
	if raw == nil || raw == js.Undefined {
		return map[string]Preset{}, nil
	}

	presets = make(map[string]Preset)
	if jsonErr := json.Unmarshal([]byte(raw.String()), &presets); jsonErr != nil {
		return nil, jsonErr
	}
	return presets, nil
}

func (g *localGateway) Save(presets map[string]Preset) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("localStorage write rejected")
		}
	}()

	data, jsonErr := json.Marshal(presets)
	if jsonErr != nil {
		return jsonErr
	}
	g.storage.Call("setItem", storageKey, string(data))
	return nil
}

// MemoryGateway is the storage-less fallback and the test-side gateway:
// a plain map with copy-in/copy-out semantics.
type MemoryGateway struct {
	presets map[string]Preset
}

// NewMemoryGateway creates an empty in-memory gateway.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{presets: make(map[string]Preset)}
}

func (g *MemoryGateway) Load() (map[string]Preset, error) {
	out := make(map[string]Preset, len(g.presets))
	for name, p := range g.presets {
		out[name] = p
	}
	return out, nil
}

func (g *MemoryGateway) Save(presets map[string]Preset) error {
	g.presets = make(map[string]Preset, len(presets))
	for name, p := range presets {
		g.presets[name] = p
	}
	return nil
}
