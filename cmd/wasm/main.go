//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/basu-10/MioHub-sub000/internal/document"
	"github.com/basu-10/MioHub-sub000/internal/engine"
	"github.com/basu-10/MioHub-sub000/internal/scene"
)

const historyLimit = engine.DefaultHistoryLimit

var editor *engine.Editor

func main() {
	editor = engine.NewEditor(document.New(), historyLimit)

	// Create the engine API object
	boardEngine := js.Global().Get("Object").New()

	// --- Document lifecycle ---
	boardEngine.Set("newDocument", js.FuncOf(newDocument))
	boardEngine.Set("loadDocument", js.FuncOf(loadDocument))
	boardEngine.Set("getDocument", js.FuncOf(getDocument))
	boardEngine.Set("exportSession", js.FuncOf(exportSession))
	boardEngine.Set("importSession", js.FuncOf(importSession))

	// --- Drawing ---
	boardEngine.Set("beginStroke", js.FuncOf(beginStroke))
	boardEngine.Set("appendStrokePoint", js.FuncOf(appendStrokePoint))
	boardEngine.Set("endStroke", js.FuncOf(endStroke))
	boardEngine.Set("addText", js.FuncOf(addText))
	boardEngine.Set("addShape", js.FuncOf(addShape))
	boardEngine.Set("addImage", js.FuncOf(addImage))

	// --- Selection and editing ---
	boardEngine.Set("selectAt", js.FuncOf(selectAt))
	boardEngine.Set("clearSelection", js.FuncOf(clearSelection))
	boardEngine.Set("getSelection", js.FuncOf(getSelection))
	boardEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	boardEngine.Set("handleAt", js.FuncOf(handleAt))
	boardEngine.Set("deleteSelection", js.FuncOf(deleteSelection))
	boardEngine.Set("moveSelection", js.FuncOf(moveSelection))
	boardEngine.Set("setColor", js.FuncOf(setColor))
	boardEngine.Set("setWidth", js.FuncOf(setWidth))
	boardEngine.Set("editText", js.FuncOf(editText))
	boardEngine.Set("raiseObject", js.FuncOf(raiseObject))
	boardEngine.Set("lowerObject", js.FuncOf(lowerObject))
	boardEngine.Set("rotateObject", js.FuncOf(rotateObject))
	boardEngine.Set("flipObject", js.FuncOf(flipObject))
	boardEngine.Set("flipSelection", js.FuncOf(flipSelection))

	// --- Gestures ---
	boardEngine.Set("beginMove", js.FuncOf(beginMove))
	boardEngine.Set("beginTransform", js.FuncOf(beginTransform))
	boardEngine.Set("updateMove", js.FuncOf(updateMove))
	boardEngine.Set("updateRotate", js.FuncOf(updateRotate))
	boardEngine.Set("updateResize", js.FuncOf(updateResize))
	boardEngine.Set("endGesture", js.FuncOf(endGesture))
	boardEngine.Set("cancel", js.FuncOf(cancel))

	// --- Clipboard and history ---
	boardEngine.Set("copy", js.FuncOf(copySelection))
	boardEngine.Set("cut", js.FuncOf(cutSelection))
	boardEngine.Set("paste", js.FuncOf(paste))
	boardEngine.Set("undo", js.FuncOf(undo))
	boardEngine.Set("redo", js.FuncOf(redo))
	boardEngine.Set("canUndo", js.FuncOf(canUndo))
	boardEngine.Set("canRedo", js.FuncOf(canRedo))

	// --- Viewport ---
	boardEngine.Set("zoomAt", js.FuncOf(zoomAt))
	boardEngine.Set("startPan", js.FuncOf(startPan))
	boardEngine.Set("updatePan", js.FuncOf(updatePan))
	boardEngine.Set("endPan", js.FuncOf(endPan))
	boardEngine.Set("fitToContent", js.FuncOf(fitToContent))
	boardEngine.Set("screenToWorld", js.FuncOf(screenToWorld))
	boardEngine.Set("getViewport", js.FuncOf(getViewport))

	// --- Pages ---
	boardEngine.Set("addPage", js.FuncOf(addPage))
	boardEngine.Set("setPage", js.FuncOf(setPage))
	boardEngine.Set("removePage", js.FuncOf(removePage))

	// --- Render loop ---
	boardEngine.Set("render", js.FuncOf(render))
	boardEngine.Set("hitTest", js.FuncOf(hitTest))

	// Register on global scope
	js.Global().Set("boardEngine", boardEngine)

	// Signal that WASM is ready
	js.Global().Set("boardWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errResult(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Document lifecycle ---

func newDocument(this js.Value, args []js.Value) interface{} {
	editor = engine.NewEditor(document.New(), historyLimit)
	return okResult()
}

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document JSON"})
	}

	doc, err := document.Unmarshal([]byte(args[0].String()))
	if err != nil {
		return errResult(err)
	}
	editor = engine.NewEditor(doc, historyLimit)
	return okResult()
}

func getDocument(this js.Value, args []js.Value) interface{} {
	data, err := document.Marshal(editor.Document())
	if err != nil {
		return errResult(err)
	}
	return js.ValueOf(string(data))
}

func exportSession(this js.Value, args []js.Value) interface{} {
	data, err := editor.ExportLegacy()
	if err != nil {
		return errResult(err)
	}
	return js.ValueOf(string(data))
}

func importSession(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing session JSON"})
	}

	restored, err := engine.ImportLegacy([]byte(args[0].String()), historyLimit)
	if err != nil {
		return errResult(err)
	}
	editor = restored
	return okResult()
}

// --- Drawing ---

func beginStroke(this js.Value, args []js.Value) interface{} {
	if len(args) < 6 {
		return nil
	}
	p := scene.Point{X: args[0].Float(), Y: args[1].Float()}
	editor.BeginStroke(p, scene.StrokeTool(args[2].String()), args[3].String(), args[4].Float(), args[5].Float())
	return nil
}

func appendStrokePoint(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	editor.AppendStrokePoint(scene.Point{X: args[0].Float(), Y: args[1].Float()})
	return nil
}

func endStroke(this js.Value, args []js.Value) interface{} {
	s := editor.EndStroke()
	if s == nil {
		return js.ValueOf(0)
	}
	return js.ValueOf(s.Meta.ID)
}

func addText(this js.Value, args []js.Value) interface{} {
	if len(args) < 7 {
		return js.ValueOf(0)
	}
	t := editor.AddText(
		args[0].Float(), args[1].Float(),
		args[2].String(), args[3].Float(), args[4].String(),
		args[5].Bool(), args[6].Bool(),
	)
	return js.ValueOf(t.Meta.ID)
}

func addShape(this js.Value, args []js.Value) interface{} {
	if len(args) < 7 {
		return js.ValueOf(0)
	}
	sh := editor.AddShape(
		args[0].Float(), args[1].Float(), args[2].Float(), args[3].Float(),
		scene.ShapeForm(args[4].String()), args[5].String(), args[6].Float(),
	)
	return js.ValueOf(sh.Meta.ID)
}

func addImage(this js.Value, args []js.Value) interface{} {
	if len(args) < 5 {
		return js.ValueOf(0)
	}
	im := editor.AddImage(
		args[0].Float(), args[1].Float(), args[2].Float(), args[3].Float(),
		args[4].String(),
	)
	return js.ValueOf(im.Meta.ID)
}

// --- Selection and editing ---

func selectAt(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(0)
	}
	additive := len(args) > 2 && args[2].Bool()
	o := editor.SelectAt(scene.Point{X: args[0].Float(), Y: args[1].Float()}, additive)
	if o == nil {
		return js.ValueOf(0)
	}
	return js.ValueOf(o.Common().ID)
}

func clearSelection(this js.Value, args []js.Value) interface{} {
	editor.ClearSelection()
	return nil
}

func getSelection(this js.Value, args []js.Value) interface{} {
	ids := editor.Selection().IDs()
	out := make([]interface{}, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return js.ValueOf(out)
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	if editor.Selection().Len() == 0 {
		return js.ValueOf("{}")
	}
	data, err := json.Marshal(editor.Selection().Bounds())
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

func handleAt(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	kind := editor.Selection().HandleAt(scene.Point{X: args[0].Float(), Y: args[1].Float()})
	return js.ValueOf(string(kind))
}

func deleteSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(editor.DeleteSelection())
}

func moveSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	editor.MoveSelection(args[0].Float(), args[1].Float())
	return nil
}

func setColor(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	editor.SetColor(args[0].Int(), args[1].String())
	return nil
}

func setWidth(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	editor.SetWidth(args[0].Int(), args[1].Float())
	return nil
}

func editText(this js.Value, args []js.Value) interface{} {
	if len(args) < 5 {
		return nil
	}
	editor.EditText(args[0].Int(), args[1].String(), args[2].Float(), args[3].Bool(), args[4].Bool())
	return nil
}

func raiseObject(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	editor.RaiseObject(args[0].Int())
	return nil
}

func lowerObject(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	editor.LowerObject(args[0].Int())
	return nil
}

func rotateObject(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	editor.RotateObject(args[0].Int(), args[1].Float())
	return nil
}

func flipObject(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	editor.FlipObject(args[0].Int(), args[1].Bool())
	return nil
}

func flipSelection(this js.Value, args []js.Value) interface{} {
	horizontal := len(args) < 1 || args[0].Bool()
	editor.FlipSelection(horizontal)
	return nil
}

// --- Gestures ---

func beginMove(this js.Value, args []js.Value) interface{} {
	editor.BeginMove()
	return nil
}

func beginTransform(this js.Value, args []js.Value) interface{} {
	editor.BeginTransform()
	return nil
}

func updateMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	editor.UpdateMove(args[0].Float(), args[1].Float())
	return nil
}

func updateRotate(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	editor.UpdateRotate(args[0].Float())
	return nil
}

func updateResize(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	lock := len(args) > 2 && args[2].Bool()
	editor.UpdateResize(args[0].Float(), args[1].Float(), lock)
	return nil
}

func endGesture(this js.Value, args []js.Value) interface{} {
	editor.EndGesture()
	return nil
}

func cancel(this js.Value, args []js.Value) interface{} {
	editor.CancelGesture()
	return nil
}

// --- Clipboard and history ---

func copySelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(editor.Copy())
}

func cutSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(editor.Cut())
}

func paste(this js.Value, args []js.Value) interface{} {
	var anchor *scene.Point
	if len(args) >= 2 {
		anchor = &scene.Point{X: args[0].Float(), Y: args[1].Float()}
	}
	pasted := editor.Paste(anchor)
	ids := make([]interface{}, len(pasted))
	for i, o := range pasted {
		ids[i] = o.Common().ID
	}
	return js.ValueOf(ids)
}

func undo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(editor.Undo())
}

func redo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(editor.Redo())
}

func canUndo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(editor.History().CanUndo())
}

func canRedo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(editor.History().CanRedo())
}

// --- Viewport ---

func zoomAt(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return nil
	}
	editor.Viewport().ZoomAt(args[0].Float(), args[1].Float(), args[2].Float())
	return nil
}

func startPan(this js.Value, args []js.Value) interface{} {
	editor.Viewport().StartPan()
	return nil
}

func updatePan(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	editor.Viewport().UpdatePan(args[0].Float(), args[1].Float())
	return nil
}

func endPan(this js.Value, args []js.Value) interface{} {
	editor.Viewport().EndPan()
	return nil
}

func fitToContent(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	editor.FitToContent(args[0].Float(), args[1].Float())
	return nil
}

func screenToWorld(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("{}")
	}
	wx, wy := editor.Viewport().ScreenToWorld(args[0].Float(), args[1].Float())
	return js.ValueOf(map[string]interface{}{"x": wx, "y": wy})
}

func getViewport(this js.Value, args []js.Value) interface{} {
	v := editor.Viewport()
	return js.ValueOf(map[string]interface{}{
		"panX":     v.PanX,
		"panY":     v.PanY,
		"zoom":     v.Zoom,
		"gridStep": v.GridStep(),
	})
}

// --- Pages ---

func addPage(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(editor.AddPage())
}

func setPage(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	editor.SetPage(args[0].Int())
	return nil
}

func removePage(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	return js.ValueOf(editor.RemovePage(args[0].Int()))
}

// --- Render loop ---

func render(this js.Value, args []js.Value) interface{} {
	commands := engine.CompileDrawCommands(editor)
	out, err := engine.DrawCommandsToJSON(commands)
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(out)
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(0)
	}
	o := engine.TopObjectAt(scene.Point{X: args[0].Float(), Y: args[1].Float()}, editor.Objects())
	if o == nil {
		return js.ValueOf(0)
	}
	return js.ValueOf(o.Common().ID)
}
