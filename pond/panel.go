package pond

import (
	"bytes"
	_ "embed"
	"html/template"
	"strconv"

	"github.com/gopherjs/gopherjs/js"
)

//go:embed panel.gohtml
var panelHTML string

// panelData feeds the panel template.
type panelData struct {
	BasePitch     float64
	VolumePercent float64
	Decay         float64
	Presets       []string
}

// InitPanel creates the parameter panel and attaches it to the document.
func (a *App) InitPanel() {
	doc := js.Global.Get("document")

	panel := doc.Call("createElement", "div")
	panel.Set("id", "pond-panel")
	panel.Get("style").Set("cssText", `
		position: fixed;
		top: 12px;
		right: 12px;
		background: rgba(10, 14, 24, 0.85);
		border: 1px solid #2a4a6a;
		border-radius: 8px;
		padding: 12px 16px;
		color: #cde;
		font-family: 'Courier New', monospace;
		font-size: 12px;
		z-index: 1000;
		min-width: 260px;
	`)
	doc.Get("body").Call("appendChild", panel)
	a.renderPanel(panel)
}

// renderPanel (re)builds the panel content and wires its handlers. Called
// again after a preset save so the preset list stays current.
func (a *App) renderPanel(panel *js.Object) {
	panel.Set("innerHTML", a.buildPanelHTML())
	a.attachPanelHandlers(panel)
}

// buildPanelHTML renders the embedded template against the live state.
func (a *App) buildPanelHTML() string {
	tmpl, err := template.New("panel").Parse(panelHTML)
	if err != nil {
		return "<div style='color:red'>panel template error: " + err.Error() + "</div>"
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, panelData{
		BasePitch:     a.Params.BasePitch,
		VolumePercent: a.Params.Volume * 100,
		Decay:         a.Params.DecayTime,
		Presets:       a.Presets.Names(),
	}); err != nil {
		return "<div style='color:red'>panel render error: " + err.Error() + "</div>"
	}
	return buf.String()
}

func (a *App) attachPanelHandlers(panel *js.Object) {
	doc := js.Global.Get("document")

	// attachControl wires a numeric input to a parameter setter and keeps
	// its value span in sync. The raw text goes to the setter so unparsable
	// input falls back to a documented default instead of erroring.
	attachControl := func(id, suffix string, apply func(raw string) float64) {
		input := doc.Call("getElementById", id)
		valSpan := doc.Call("getElementById", id+"-val")
		if input == nil || input == js.Undefined {
			return
		}
		input.Call("addEventListener", "input", func(event *js.Object) {
			applied := apply(event.Get("target").Get("value").String())
			if valSpan != nil && valSpan != js.Undefined {
				valSpan.Set("textContent", strconv.FormatFloat(applied, 'f', -1, 64)+suffix)
			}
		})
	}

	attachControl("panel-pitch", " Hz", func(raw string) float64 {
		a.Params.BasePitch = ParsePositive(raw, DefaultBasePitch)
		return a.Params.BasePitch
	})
	attachControl("panel-volume", "%", func(raw string) float64 {
		a.Params.Volume = ClampGain(ParseNonNegative(raw, DefaultVolume*100) / 100)
		a.Audio.SetVolume(a.Params.Volume)
		return a.Params.Volume * 100
	})
	attachControl("panel-decay", " s", func(raw string) float64 {
		a.Params.DecayTime = ParsePositive(raw, DefaultDecay)
		return a.Params.DecayTime
	})

	attachButton := func(id string, fn func()) {
		btn := doc.Call("getElementById", id)
		if btn == nil || btn == js.Undefined {
			return
		}
		btn.Call("addEventListener", "click", func() { fn() })
	}

	attachButton("panel-burst", func() {
		a.Audio.Resume()
		a.Store.Burst(BurstCount)
	})
	attachButton("panel-clear", func() { a.Store.Clear() })
	attachButton("panel-save", func() {
		nameInput := doc.Call("getElementById", "panel-name")
		if nameInput == nil || nameInput == js.Undefined {
			return
		}
		name := nameInput.Get("value").String()
		if name == "" {
			return
		}
		a.Presets.SaveCurrent(name, a.Params)
		a.renderPanel(panel)
	})

	// One button per saved preset.
	presetBtns := doc.Call("querySelectorAll", ".preset-btn")
	for i := 0; i < presetBtns.Length(); i++ {
		btn := presetBtns.Index(i)
		btn.Call("addEventListener", "click", func(event *js.Object) {
			name := event.Get("currentTarget").Call("getAttribute", "data-name").String()
			a.Audio.Resume()
			a.ApplyPreset(name)
			a.renderPanel(panel)
		})
	}
}
