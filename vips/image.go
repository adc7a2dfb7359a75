package vips

// #include "vips.h"
import "C"

import (
	"runtime"
	"sync"
	"unsafe"

	"github.com/cockroachdb/errors"
)

// Image is a libvips image handle. Close releases it; otherwise the garbage
// collector does.
type Image struct {
	image *C.VipsImage
	// buf backs images loaded from memory, libvips reads it lazily
	buf  []byte
	lock sync.Mutex
}

func newImage(image *C.VipsImage) *Image {
	if image == nil {
		return nil
	}
	img := &Image{image: image}
	runtime.SetFinalizer(img, finalizeImage)
	return img
}

// newImageWithBuffer wraps an image libvips decodes from buf, which must stay
// reachable as long as the image
func newImageWithBuffer(image *C.VipsImage, buf []byte) *Image {
	img := newImage(image)
	if img != nil {
		img.buf = buf
	}
	return img
}

func finalizeImage(img *Image) {
	img.Close()
}

// NewImageFromFile loads an image, picking the loader from the file contents
func NewImageFromFile(name string) (*Image, error) {
	cName := C.CString(name)
	defer freeCString(cName)

	image := C.vipsbindgen_image_new_from_file(cName)
	if image == nil {
		return nil, lastError(errors.Newf("vips: failed to load %s", name))
	}
	return newImage(image), nil
}

// NewImageFromBuffer loads an image from memory. The image keeps buf alive.
func NewImageFromBuffer(buf []byte) (*Image, error) {
	if len(buf) == 0 {
		return nil, errors.New("vips: empty buffer")
	}
	image := C.vipsbindgen_image_new_from_buffer(bytesPointer(buf), C.size_t(len(buf)))
	if image == nil {
		return nil, lastError(errors.New("vips: failed to load buffer"))
	}
	return newImageWithBuffer(image, buf), nil
}

// Width is the image width in pixels
func (img *Image) Width() int {
	return int(C.vips_image_get_width(img.image))
}

// Height is the image height in pixels
func (img *Image) Height() int {
	return int(C.vips_image_get_height(img.image))
}

// Bands is the number of bands per pixel
func (img *Image) Bands() int {
	return int(C.vips_image_get_bands(img.image))
}

// HasAlpha reports whether the last band is alpha
func (img *Image) HasAlpha() bool {
	return C.vips_image_hasalpha(img.image) != 0
}

// Close releases the image. It is safe to call more than once.
func (img *Image) Close() {
	img.lock.Lock()
	defer img.lock.Unlock()
	if img.image != nil {
		C.g_object_unref(C.gpointer(img.image))
		img.image = nil
	}
	img.buf = nil
}

// Interpolate is a libvips interpolator handle
type Interpolate struct {
	interpolate *C.VipsInterpolate
}

func newInterpolate(interpolate *C.VipsInterpolate) *Interpolate {
	if interpolate == nil {
		return nil
	}
	i := &Interpolate{interpolate: interpolate}
	runtime.SetFinalizer(i, func(i *Interpolate) {
		C.g_object_unref(C.gpointer(i.interpolate))
	})
	return i
}

// NewInterpolate looks up an interpolator by nickname, e.g. "bicubic"
func NewInterpolate(name string) (*Interpolate, error) {
	cName := C.CString(name)
	defer freeCString(cName)

	interpolate := C.vips_interpolate_new(cName)
	if interpolate == nil {
		return nil, lastError(errors.Newf("vips: unknown interpolator %s", name))
	}
	return newInterpolate(interpolate), nil
}

func imageToC(img *Image) *C.VipsImage {
	if img == nil {
		return nil
	}
	return img.image
}

func interpolateToC(i *Interpolate) *C.VipsInterpolate {
	if i == nil {
		return nil
	}
	return i.interpolate
}

// imageArrayToC copies the handles into a C array released by freeImageArray
func imageArrayToC(images []*Image) **C.VipsImage {
	array := C.vipsbindgen_image_array_new(C.int(len(images)))
	for i, img := range images {
		C.vipsbindgen_image_array_set(array, C.int(i), imageToC(img))
	}
	return array
}

func freeImageArray(array **C.VipsImage) {
	C.free(unsafe.Pointer(array))
}

// imageArrayFromC takes ownership of the images and frees the array
func imageArrayFromC(array **C.VipsImage, n C.int) []*Image {
	if array == nil {
		return nil
	}
	defer C.g_free(C.gpointer(array))

	images := make([]*Image, int(n))
	for i := range images {
		images[i] = newImage(C.vipsbindgen_image_array_get(array, C.int(i)))
	}
	return images
}

func newArrayImage(images []*Image) *C.VipsArrayImage {
	if len(images) == 0 {
		return nil
	}
	array := imageArrayToC(images)
	defer freeImageArray(array)
	return C.vips_array_image_new(array, C.int(len(images)))
}

func unrefArrayImage(array *C.VipsArrayImage) {
	C.vipsbindgen_area_unref(unsafe.Pointer(array))
}
