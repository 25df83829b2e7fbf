//go:build js && wasm

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"syscall/js"

	"github.com/credify/editor/internal/asset"
	"github.com/credify/editor/internal/editor"
	"github.com/credify/editor/internal/geometry"
	"github.com/credify/editor/internal/layout"
	"github.com/credify/editor/internal/project"
	"github.com/credify/editor/internal/render"
)

var (
	session  *editor.Session
	onChange js.Value
)

func main() {
	session = newSession()

	api := js.Global().Get("Object").New()

	// --- Lifecycle ---
	api.Set("loadDocument", js.FuncOf(loadDocument))
	api.Set("loadSample", js.FuncOf(loadSample))
	api.Set("open", js.FuncOf(open))
	api.Set("save", js.FuncOf(save))
	api.Set("onChange", js.FuncOf(setOnChange))

	// --- Input (frontend → engine) ---
	api.Set("pointerDown", js.FuncOf(pointer(func(p geometry.Point) { session.PointerDown(p) })))
	api.Set("pointerMove", js.FuncOf(pointer(func(p geometry.Point) { session.PointerMove(p) })))
	api.Set("pointerUp", js.FuncOf(pointer(func(p geometry.Point) { session.PointerUp(p) })))
	api.Set("doubleClick", js.FuncOf(pointer(func(p geometry.Point) { session.DoubleClick(p) })))
	api.Set("wheel", js.FuncOf(wheel))
	api.Set("key", js.FuncOf(key))
	api.Set("setInputFocus", js.FuncOf(setInputFocus))
	api.Set("setViewportSize", js.FuncOf(setViewportSize))
	api.Set("cancelGesture", js.FuncOf(func(js.Value, []js.Value) interface{} { session.CancelGesture(); return nil }))

	// --- Commands ---
	api.Set("setMode", js.FuncOf(setMode))
	api.Set("select", js.FuncOf(selectID))
	api.Set("clearSelection", js.FuncOf(func(js.Value, []js.Value) interface{} { session.ClearSelection(); return nil }))
	api.Set("undo", js.FuncOf(func(js.Value, []js.Value) interface{} { return js.ValueOf(session.Undo()) }))
	api.Set("redo", js.FuncOf(func(js.Value, []js.Value) interface{} { return js.ValueOf(session.Redo()) }))
	api.Set("delete", js.FuncOf(deleteID))
	api.Set("moveLayer", js.FuncOf(moveLayer))
	api.Set("updateProperties", js.FuncOf(updateProperties))
	api.Set("insertQRCode", js.FuncOf(insertQRCode))
	api.Set("insertImage", js.FuncOf(insertImage))
	api.Set("uploadImage", js.FuncOf(uploadImage))
	api.Set("zoomIn", js.FuncOf(func(js.Value, []js.Value) interface{} { session.ZoomIn(); return nil }))
	api.Set("zoomOut", js.FuncOf(func(js.Value, []js.Value) interface{} { session.ZoomOut(); return nil }))
	api.Set("resetView", js.FuncOf(func(js.Value, []js.Value) interface{} { session.ResetView(); return nil }))

	// --- Queries (frontend ← engine) ---
	api.Set("getState", js.FuncOf(getState))
	api.Set("render", js.FuncOf(renderFrame))
	api.Set("getDocument", js.FuncOf(getDocument))

	js.Global().Set("credifyEditor", api)
	js.Global().Set("credifyWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func newSession(opts ...editor.Option) *editor.Session {
	opts = append(opts, editor.WithOnChange(notify))
	return editor.New(opts...)
}

// notify forwards background changes (upload completion) to the host.
func notify(st editor.State) {
	if onChange.Type() != js.TypeFunction {
		return
	}
	data, err := json.Marshal(st)
	if err != nil {
		return
	}
	onChange.Invoke(string(data))
}

func errorResult(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// promise runs fn off the event loop. Network I/O from a js.FuncOf
// callback would otherwise deadlock the runtime.
func promise(fn func() error) interface{} {
	handler := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		resolve, reject := args[0], args[1]
		go func() {
			if err := fn(); err != nil {
				reject.Invoke(js.Global().Get("Error").New(err.Error()))
				return
			}
			resolve.Invoke(true)
		}()
		return nil
	})
	return js.Global().Get("Promise").New(handler)
}

// --- Lifecycle ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing layout JSON"})
	}
	var doc layout.Document
	if err := json.Unmarshal([]byte(args[0].String()), &doc); err != nil {
		return errorResult(err)
	}
	if err := session.LoadDocument(doc); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func loadSample(this js.Value, args []js.Value) interface{} {
	if err := session.LoadDocument(layout.Sample()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

// open(baseURL, projectID, token) binds a fresh session to the server.
func open(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(map[string]interface{}{"error": "usage: open(baseURL, projectID, token)"})
	}
	baseURL, projectID := args[0].String(), args[1].String()
	token := ""
	if len(args) > 2 && args[2].Type() == js.TypeString {
		token = args[2].String()
	}
	return promise(func() error {
		s := newSession(
			editor.WithStore(project.NewClient(baseURL+"/api", token, nil)),
			editor.WithUploader(asset.NewClient(baseURL, nil)),
		)
		if err := s.Open(context.Background(), projectID); err != nil {
			return err
		}
		session = s
		return nil
	})
}

func save(this js.Value, args []js.Value) interface{} {
	s := session
	return promise(func() error { return s.Save(context.Background()) })
}

func setOnChange(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		onChange = js.Undefined()
		return nil
	}
	onChange = args[0]
	return nil
}

// --- Input ---

func pointer(fn func(geometry.Point)) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if len(args) < 2 {
			return nil
		}
		fn(geometry.Point{X: args[0].Float(), Y: args[1].Float()})
		return nil
	}
}

func wheel(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return nil
	}
	session.Wheel(geometry.Point{X: args[0].Float(), Y: args[1].Float()}, args[2].Float())
	return nil
}

// key takes a KeyboardEvent and reports whether the editor consumed it,
// in which case the host should call preventDefault.
func key(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		return js.ValueOf(false)
	}
	ev := args[0]
	return js.ValueOf(session.Key(editor.KeyEvent{
		Key:   ev.Get("key").String(),
		Ctrl:  ev.Get("ctrlKey").Truthy(),
		Meta:  ev.Get("metaKey").Truthy(),
		Shift: ev.Get("shiftKey").Truthy(),
		Alt:   ev.Get("altKey").Truthy(),
	}))
}

func setInputFocus(this js.Value, args []js.Value) interface{} {
	session.SetInputFocus(len(args) > 0 && args[0].Truthy())
	return nil
}

func setViewportSize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	session.SetViewportSize(args[0].Float(), args[1].Float())
	return nil
}

// --- Commands ---

func setMode(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	if err := session.SetMode(editor.Mode(args[0].String())); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func selectID(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		session.ClearSelection()
		return okResult()
	}
	if err := session.Select(args[0].String()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func deleteID(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	if err := session.Delete(args[0].String()); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func moveLayer(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	moved, err := session.MoveLayer(args[0].String(), layout.Direction(args[1].String()))
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "moved": moved})
}

func updateProperties(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(map[string]interface{}{"error": "usage: updateProperties(id, patchJSON)"})
	}
	var patch layout.Patch
	if err := json.Unmarshal([]byte(args[1].String()), &patch); err != nil {
		return errorResult(err)
	}
	changed, err := session.UpdateProperties(args[0].String(), patch)
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "changed": changed})
}

func insertQRCode(this js.Value, args []js.Value) interface{} {
	ph, err := session.InsertQRCode()
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(ph.ID)
}

func insertImage(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf(map[string]interface{}{"error": "usage: insertImage(url, width, height)"})
	}
	ph, err := session.InsertImage(args[0].String(), args[1].Float(), args[2].Float())
	if err != nil {
		return errorResult(err)
	}
	return js.ValueOf(ph.ID)
}

// uploadImage(filename, Uint8Array) starts a background upload. Completion
// is reported through the onChange callback.
func uploadImage(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(map[string]interface{}{"error": "usage: uploadImage(filename, bytes)"})
	}
	data := make([]byte, args[1].Get("length").Int())
	js.CopyBytesToGo(data, args[1])
	if err := session.UploadImage(context.Background(), args[0].String(), bytes.NewReader(data)); err != nil {
		return errorResult(err)
	}
	return okResult()
}

// --- Queries ---

func getState(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(session.State())
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

func renderFrame(this js.Value, args []js.Value) interface{} {
	data, _ := render.DrawCommandsToJSON(session.DrawCommands())
	return js.ValueOf(data)
}

func getDocument(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(session.Document())
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(string(data))
}
