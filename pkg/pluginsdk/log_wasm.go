//go:build wasip1

package pluginsdk

import "unsafe"

//go:wasmimport env log_debug
func logDebug(ptr, size uint32)

//go:wasmimport env log_info
func logInfo(ptr, size uint32)

//go:wasmimport env log_error
func logError(ptr, size uint32)

// stringPtr returns the guest address and length of msg.
func stringPtr(msg string) (uint32, uint32) {
	//nolint:gosec // guest memory is addressed with 32-bit pointers.
	return uint32(uintptr(unsafe.Pointer(unsafe.StringData(msg)))), uint32(len(msg))
}

// Debug logs msg through the host at debug level.
func Debug(msg string) {
	if msg != "" {
		logDebug(stringPtr(msg))
	}
}

// Info logs msg through the host at info level.
func Info(msg string) {
	if msg != "" {
		logInfo(stringPtr(msg))
	}
}

// Error logs msg through the host at error level.
func Error(msg string) {
	if msg != "" {
		logError(stringPtr(msg))
	}
}
