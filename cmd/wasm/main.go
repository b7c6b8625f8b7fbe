//go:build js && wasm

// Command wasm draws the fitness chart of the last run in the browser. The run
// log is read from localStorage and handed to Chart.js.
package main

import (
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/felixbrock/ponygp/internal/chart"
	"github.com/felixbrock/ponygp/internal/runlog"
)

// localStorage adapts window.localStorage to runlog.Store.
type localStorage struct {
	storage js.Value
}

func (s localStorage) Get(key string) (string, bool) {
	if s.storage.IsUndefined() || s.storage.IsNull() {
		return "", false
	}

	v := s.storage.Call("getItem", key)
	if v.IsNull() || v.IsUndefined() {
		return "", false
	}

	return v.String(), true
}

var store runlog.Store

func main() {
	store = localStorage{storage: js.Global().Get("localStorage")}

	js.Global().Set("goGetFitnesses", js.FuncOf(getFitnesses))
	js.Global().Set("goSetFitnesses", js.FuncOf(setFitnesses))

	fmt.Println("ponygp wasm loaded")

	select {}
}

// getFitnesses returns the fitnesses of the stored run log as a JSON array, or
// null when there is no run log to read.
func getFitnesses(this js.Value, args []js.Value) interface{} {
	fitnesses, err := runlog.Load(store)
	if err != nil {
		fmt.Printf("Error occured: %s\n", err.Error())
		return js.Null()
	}

	res, err := json.Marshal(fitnesses)
	if err != nil {
		fmt.Printf("Error occured: %s\n", err.Error())
		return js.Null()
	}

	return string(res)
}

// setFitnesses draws the chart into the canvas with the given id.
func setFitnesses(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return "canvas id required"
	}

	fitnesses, err := runlog.Load(store)
	if err != nil {
		fmt.Printf("Error occured: %s\n", err.Error())
		return err.Error()
	}

	canvas := js.Global().Get("document").Call("getElementById", args[0].String())
	if canvas.IsNull() {
		return fmt.Sprintf("canvas %s not found", args[0].String())
	}

	config, err := json.Marshal(chart.NewConfig(fitnesses))
	if err != nil {
		return err.Error()
	}

	ctx := canvas.Call("getContext", "2d")
	cfg := js.Global().Get("JSON").Call("parse", string(config))
	js.Global().Get("Chart").New(ctx, cfg)

	return nil
}
