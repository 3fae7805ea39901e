package vkdriver

/*
#include <stddef.h>
#include <stdint.h>

typedef void (*ragVoidFunction)(void);
typedef ragVoidFunction (*ragGetInstanceProcAddr)(void*, const char*);
typedef int32_t (*ragEnumerateInstanceVersion)(uint32_t*);

// A loader without vkEnumerateInstanceVersion implements Vulkan 1.0.
static int32_t ragInstanceVersion(void* getProcAddr, uint32_t* version) {
	*version = UINT32_C(1) << 22;
	if (getProcAddr == NULL) {
		return 0;
	}
	ragEnumerateInstanceVersion fn = (ragEnumerateInstanceVersion)
		((ragGetInstanceProcAddr)getProcAddr)(NULL, "vkEnumerateInstanceVersion");
	if (fn == NULL) {
		return 0;
	}
	return fn(version);
}
*/
import "C"
import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// instanceVersion calls vkEnumerateInstanceVersion through getProcAddr,
// which vulkan-go does not wrap.
func instanceVersion(getProcAddr unsafe.Pointer) (uint32, vk.Result) {
	var version C.uint32_t
	ret := C.ragInstanceVersion(getProcAddr, &version)
	return uint32(version), vk.Result(ret)
}
