package vkdriver

// #include <stdlib.h>
import "C"
import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/andewx/ragengine"
	vk "github.com/vulkan-go/vulkan"
)

// vulkan-go keeps a single Go function behind every debug report callback,
// so all registrations share dispatchDebugReport and are told apart by a
// C-allocated key passed as pUserData.
var callbacks sync.Map // uintptr -> ragengine.DiagnosticsCallback

func registerCallback(callback ragengine.DiagnosticsCallback) unsafe.Pointer {
	key := C.malloc(1)
	callbacks.Store(uintptr(key), callback)
	return key
}

func unregisterCallback(key unsafe.Pointer) {
	if key == nil {
		return
	}
	callbacks.Delete(uintptr(key))
	C.free(key)
}

func dispatchDebugReport(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	v, ok := callbacks.Load(uintptr(pUserData))
	if !ok {
		return vk.Bool32(vk.False)
	}
	severity, category := classify(flags)
	callback := v.(ragengine.DiagnosticsCallback)
	return bool32(callback(severity, category,
		fmt.Sprintf("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)))
}
