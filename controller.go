// Command lighttest is built as a C shared library that a hardware test rig
// loads to visualise its buttons and RGB light strips:
//
//	go build -buildmode=c-shared -o liblighttest.so .
//
// C functions implemented:
//
//	char* GetName();
//	int   Init(void (*log)(char*));    // 0 on success
//	void  Close();
//	void  Tick(float deltaTime);
//	void  SetButtons(uint32_t bitfield);
//	void  SetLights(uint8_t left, uint32_t pos, uint8_t r, uint8_t g, uint8_t b);
package main

/*
#include <stdint.h>
*/
import "C"

import (
	"unsafe"

	"github.com/thiefmaster/lighttest/host"
)

var (
	surface *host.Surface
	name    = C.CString(host.Name())
)

func init() {
	surface = host.New(newBackend)
}

//export GetName
func GetName() *C.char {
	return name
}

// Init takes the host's log function as an untyped pointer; it is only ever
// called back through callbackLogger.
//
//export Init
func Init(log unsafe.Pointer) C.int {
	var logFn host.LogFunc
	if log != nil {
		logFn = callbackLogger(log)
	}
	return C.int(surface.Init(logFn))
}

//export Close
func Close() {
	surface.Close()
}

//export Tick
func Tick(deltaTime C.float) {
	surface.Tick(float32(deltaTime))
}

//export SetButtons
func SetButtons(bitfield C.uint32_t) {
	surface.SetButtons(uint32(bitfield))
}

//export SetLights
func SetLights(left C.uint8_t, pos C.uint32_t, r, g, b C.uint8_t) {
	surface.SetLights(uint8(left), uint32(pos), uint8(r), uint8(g), uint8(b))
}

func main() {}
