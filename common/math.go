package common

import (
	"unsafe"
)

// minGrowCapacity is the smallest capacity GrowCapacity will ever return for a non-zero request.
const minGrowCapacity = 8

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice using unsafe.
// The returned slice has length equal to the struct's size in memory.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}

// GrowCapacity returns the capacity a growable store should move to so that it can hold at least needed elements.
// Capacity doubles from the current value, starting at 8, and never shrinks.
//
// Parameters:
//   - current: the current capacity
//   - needed: the minimum number of elements the store must hold
//
// Returns:
//   - int: the new capacity, or current when it already fits
func GrowCapacity(current, needed int) int {
	if needed <= current {
		return current
	}
	next := max(current, minGrowCapacity)
	for next < needed {
		next *= 2
	}
	return next
}

// CeilDiv divides n by d rounding up. A non-positive divisor returns 0.
//
// Parameters:
//   - n: the dividend
//   - d: the divisor
//
// Returns:
//   - int: ceil(n / d)
func CeilDiv(n, d int) int {
	if d <= 0 || n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}

// AlignUp rounds value up to the next multiple of alignment. Alignment must be a power of two.
//
// Parameters:
//   - alignment: the power-of-two alignment
//   - value: the value to round
//
// Returns:
//   - uint64: the aligned value
func AlignUp(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}
