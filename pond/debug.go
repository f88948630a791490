package pond

import "github.com/gopherjs/gopherjs/js"

// EnableDebug turns on console logging. Off in normal play; the shared-room
// handshake is noisy enough to want it off by default.
var EnableDebug = false

// Debug logs a message to the browser console if debug mode is enabled.
func Debug(args ...interface{}) {
	if EnableDebug {
		js.Global.Get("console").Call("log", args...)
	}
}

// DebugWarn logs a warning to the browser console if debug mode is enabled.
func DebugWarn(args ...interface{}) {
	if EnableDebug {
		js.Global.Get("console").Call("warn", args...)
	}
}

// DebugError logs an error to the browser console if debug mode is enabled.
func DebugError(args ...interface{}) {
	if EnableDebug {
		js.Global.Get("console").Call("error", args...)
	}
}
