//go:build js && wasm

package webgl

import (
	"syscall/js"
	"unsafe"
)

func float32Array(data []float32) js.Value {
	arr := js.Global().Get("Float32Array").New(len(data))
	if len(data) == 0 {
		return arr
	}
	view := js.Global().Get("Uint8Array").New(arr.Get("buffer"), arr.Get("byteOffset"), arr.Get("byteLength"))
	js.CopyBytesToJS(view, unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*4))
	return arr
}

func uint8Array(data []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(arr, data)
	return arr
}
