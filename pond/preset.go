package pond

import (
	"math"
	"sort"
)

// Preset is a named snapshot of the three tunable parameters. The name is
// the map key; saving under an existing name overwrites.
type Preset struct {
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`
	Decay  float64 `json:"decay"`
}

// PresetGateway persists the name→preset mapping. Both directions are
// best-effort: a failed load means "no presets", a failed save is logged by
// the caller and forgotten. The simulation never depends on either working.
type PresetGateway interface {
	Load() (map[string]Preset, error)
	Save(map[string]Preset) error
}

// NameHue derives a hue from a preset name: sum of code points mod 360.
// The same name always renders the same confirmation color.
func NameHue(name string) float64 {
	sum := 0
	for _, r := range name {
		sum += int(r)
	}
	return float64(sum % 360)
}

// PresetBook is the in-memory view over the gateway.
type PresetBook struct {
	gateway PresetGateway
	presets map[string]Preset
}

// NewPresetBook loads whatever the gateway has. Load failures leave an
// empty book; the toy keeps working without persistence.
func NewPresetBook(gateway PresetGateway) *PresetBook {
	b := &PresetBook{
		gateway: gateway,
		presets: make(map[string]Preset),
	}
	loaded, err := gateway.Load()
	if err != nil {
		DebugWarn("preset load failed:", err.Error())
		return b
	}
	for name, p := range loaded {
		b.presets[name] = p
	}
	return b
}

// SaveCurrent snapshots the live parameters under the given name and
// persists the whole mapping. An empty name is ignored.
func (b *PresetBook) SaveCurrent(name string, params *ParameterState) {
	if name == "" {
		return
	}
	b.presets[name] = Preset{
		Pitch:  params.BasePitch,
		Volume: params.Volume,
		Decay:  params.DecayTime,
	}
	if err := b.gateway.Save(b.presets); err != nil {
		DebugWarn("preset save failed:", err.Error())
	}
}

// Apply copies a preset's parameters into the live state, pushes the volume
// to the emitter, and spawns exactly one confirmation echo at the canvas
// center. The parameter write happens first so the confirmation itself
// already sounds at the preset's pitch and volume. Returns false for an
// unknown name.
func (b *PresetBook) Apply(name string, params *ParameterState, store *EchoStore, vol MasterVolume) bool {
	p, ok := b.presets[name]
	if !ok {
		return false
	}

	// Stored presets can be hand-edited; harden each field like live input.
	params.BasePitch = p.Pitch
	if !(params.BasePitch > 0) {
		params.BasePitch = DefaultBasePitch
	}
	params.Volume = ClampGain(p.Volume)
	params.DecayTime = p.Decay
	if !(params.DecayTime > 0) {
		params.DecayTime = DefaultDecay
	}
	if vol != nil {
		vol.SetVolume(params.Volume)
	}

	store.Spawn(store.surface.Width()/2, store.surface.Height()/2, SpawnOptions{
		Hue:       NameHue(name),
		MaxRadius: ConfirmRadius,
		Life:      math.Max(ConfirmMinLife, params.DecayTime),
	})
	return true
}

// Names returns the preset names in sorted order, for stable panel layout.
func (b *PresetBook) Names() []string {
	names := make([]string, 0, len(b.presets))
	for name := range b.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a read-only copy of the mapping for the debug surface.
func (b *PresetBook) Snapshot() map[string]Preset {
	out := make(map[string]Preset, len(b.presets))
	for name, p := range b.presets {
		out[name] = p
	}
	return out
}
