//go:build js
// +build js

package main

import (
	"github.com/gopherjs/gopherjs/js"

	"echopond/audio"
	"echopond/pond"
)

func main() {
	doc := js.Global.Get("document")
	canvas := doc.Call("getElementById", "pond")
	if canvas == nil || canvas == js.Undefined {
		panic("canvas element not found")
	}

	// The pond fills the window; the canvas logical size tracks it so
	// pointer coordinates map one to one.
	window := js.Global.Get("window")
	resize := func() {
		canvas.Set("width", window.Get("innerWidth").Int())
		canvas.Set("height", window.Get("innerHeight").Int())
	}
	resize()
	window.Call("addEventListener", "resize", func() { resize() })

	ctx := canvas.Call("getContext", "2d")

	backend := audio.NewEmitter(pond.DefaultVolume)
	gateway := pond.NewPresetGateway()
	seed := uint32(js.Global.Get("Date").Call("now").Int64())

	app := pond.NewApp(canvas, ctx, backend, gateway, seed)
	app.SetupInputHandlers()
	app.InitPanel()

	// Console-facing handle for poking the pond without the panel.
	js.Global.Set("EchoPond", map[string]interface{}{
		"spawn": func(x, y float64) {
			app.SpawnAt(x, y)
		},
		"burst": func() {
			app.Audio.Resume()
			app.Store.Burst(pond.BurstCount)
		},
		"clear": func() {
			app.Store.Clear()
		},
		"count": func() int {
			return app.Store.Len()
		},
		"presets": func() []string {
			return app.Presets.Names()
		},
		"apply": func(name string) bool {
			app.Audio.Resume()
			return app.ApplyPreset(name)
		},
		"join": func(roomID string) {
			app.Network.Join(roomID)
		},
		"leave": func() {
			app.Network.Leave()
		},
		"peers": func() int {
			return app.Network.PeerCount()
		},
		"debug": func(on bool) {
			pond.EnableDebug = on
		},
	})

	js.Global.Call("addEventListener", "beforeunload", func() {
		app.Network.Leave()
	})

	app.Start()
	select {}
}
