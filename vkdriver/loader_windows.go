package vkdriver

import "unsafe"

// loaderProcAddr is not resolved on windows; Version reports 1.0.0 there,
// which only matters to the darwin portability check.
func loaderProcAddr() unsafe.Pointer {
	return nil
}
