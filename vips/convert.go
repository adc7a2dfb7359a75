package vips

// #include "vips.h"
import "C"

import "unsafe"

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func freeCString(s *C.char) {
	C.free(unsafe.Pointer(s))
}

// bytesPointer passes b to libvips without copying. Loaders read it lazily, so
// b must stay reachable while images loaded from it are in use.
func bytesPointer(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

// bytesFromC copies a libvips allocated buffer and frees it
func bytesFromC(p unsafe.Pointer, n C.size_t) []byte {
	if p == nil {
		return nil
	}
	defer C.g_free(C.gpointer(p))
	return C.GoBytes(p, C.int(n))
}

// intArrayToC copies values into C memory released by freeIntArray
func intArrayToC(values []int) (*C.int, C.int) {
	if len(values) == 0 {
		return nil, 0
	}
	array := (*C.int)(C.malloc(C.size_t(len(values)) * C.size_t(unsafe.Sizeof(C.int(0)))))
	cValues := unsafe.Slice(array, len(values))
	for i, v := range values {
		cValues[i] = C.int(v)
	}
	return array, C.int(len(values))
}

func freeIntArray(array *C.int) {
	C.free(unsafe.Pointer(array))
}

func doubleArrayToC(values []float64) (*C.double, C.int) {
	if len(values) == 0 {
		return nil, 0
	}
	array := (*C.double)(C.malloc(C.size_t(len(values)) * C.size_t(unsafe.Sizeof(C.double(0)))))
	cValues := unsafe.Slice(array, len(values))
	for i, v := range values {
		cValues[i] = C.double(v)
	}
	return array, C.int(len(values))
}

func freeDoubleArray(array *C.double) {
	C.free(unsafe.Pointer(array))
}

// intArrayFromC copies a libvips allocated array and frees it
func intArrayFromC(array *C.int, n C.int) []int {
	if array == nil {
		return nil
	}
	defer C.g_free(C.gpointer(array))

	values := make([]int, int(n))
	for i, v := range unsafe.Slice(array, int(n)) {
		values[i] = int(v)
	}
	return values
}

func doubleArrayFromC(array *C.double, n C.int) []float64 {
	if array == nil {
		return nil
	}
	defer C.g_free(C.gpointer(array))

	values := make([]float64, int(n))
	for i, v := range unsafe.Slice(array, int(n)) {
		values[i] = float64(v)
	}
	return values
}

func newArrayInt(values []int) *C.VipsArrayInt {
	array, n := intArrayToC(values)
	if array == nil {
		return nil
	}
	defer freeIntArray(array)
	return C.vips_array_int_new(array, n)
}

func unrefArrayInt(array *C.VipsArrayInt) {
	C.vipsbindgen_area_unref(unsafe.Pointer(array))
}

func newArrayDouble(values []float64) *C.VipsArrayDouble {
	array, n := doubleArrayToC(values)
	if array == nil {
		return nil
	}
	defer freeDoubleArray(array)
	return C.vips_array_double_new(array, n)
}

func unrefArrayDouble(array *C.VipsArrayDouble) {
	C.vipsbindgen_area_unref(unsafe.Pointer(array))
}

// bytesToBlob copies b into a libvips owned blob
func bytesToBlob(b []byte) *C.VipsBlob {
	if len(b) == 0 {
		return nil
	}
	return C.vips_blob_copy(unsafe.Pointer(&b[0]), C.size_t(len(b)))
}

func unrefBlob(blob *C.VipsBlob) {
	C.vipsbindgen_area_unref(unsafe.Pointer(blob))
}

// blobToBytes copies the blob contents and releases the blob
func blobToBytes(blob *C.VipsBlob) []byte {
	if blob == nil {
		return nil
	}
	defer unrefBlob(blob)

	var length C.size_t
	data := C.vipsbindgen_blob_data(blob, &length)
	if data == nil || length == 0 {
		return nil
	}
	return C.GoBytes(data, C.int(length))
}
