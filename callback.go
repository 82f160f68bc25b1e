package main

/*
#include <stdlib.h>

static void call_log(void *fn, char *msg) {
	((void (*)(char *))fn)(msg);
}
*/
import "C"

import (
	"unsafe"

	"github.com/thiefmaster/lighttest/host"
)

// callbackLogger wraps the host's log function pointer. Each message is
// copied into C memory for the duration of one call.
func callbackLogger(fn unsafe.Pointer) host.LogFunc {
	return func(message string) {
		cs := C.CString(message)
		defer C.free(unsafe.Pointer(cs))
		C.call_log(fn, cs)
	}
}
