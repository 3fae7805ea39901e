//go:build !windows

package vkdriver

// #cgo linux freebsd LDFLAGS: -ldl
// #include <stdlib.h>
// #include <dlfcn.h>
import "C"
import (
	"runtime"
	"unsafe"
)

func loaderNames() []string {
	if runtime.GOOS == "darwin" || runtime.GOOS == "ios" {
		return []string{"libvulkan.1.dylib", "libvulkan.dylib", "libMoltenVK.dylib"}
	}
	return []string{"libvulkan.so.1", "libvulkan.so"}
}

// loaderProcAddr opens the system loader and returns its
// vkGetInstanceProcAddr, or nil when none is found. The library stays open.
func loaderProcAddr() unsafe.Pointer {
	sym := C.CString("vkGetInstanceProcAddr")
	defer C.free(unsafe.Pointer(sym))

	for _, name := range loaderNames() {
		lib := C.CString(name)
		handle := C.dlopen(lib, C.RTLD_LAZY|C.RTLD_LOCAL)
		C.free(unsafe.Pointer(lib))
		if handle == nil {
			continue
		}
		if addr := C.dlsym(handle, sym); addr != nil {
			return addr
		}
		C.dlclose(handle)
	}
	return nil
}
