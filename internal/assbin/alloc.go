package assbin

// Allocator hands out every buffer a Scene owns and takes them back on Release.
// Returned slices must have length n and be zeroed.
type Allocator interface {
	Float32s(n int) []float32
	Uint32s(n int) []uint32
	Bytes(n int) []byte

	FreeFloat32s(buf []float32)
	FreeUint32s(buf []uint32)
	FreeBytes(buf []byte)
}

// HeapAllocator allocates with make and leaves reclamation to the GC.
type HeapAllocator struct{}

func (HeapAllocator) Float32s(n int) []float32 { return make([]float32, n) }
func (HeapAllocator) Uint32s(n int) []uint32   { return make([]uint32, n) }
func (HeapAllocator) Bytes(n int) []byte       { return make([]byte, n) }

func (HeapAllocator) FreeFloat32s([]float32) {}
func (HeapAllocator) FreeUint32s([]uint32)   {}
func (HeapAllocator) FreeBytes([]byte)       {}
