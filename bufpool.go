package rasterload

import "sync"

// bytePools and floatPools map buffer length → *sync.Pool. A typical caller
// decodes many images of a handful of sizes, so the maps stay tiny and the
// sync.Map lookup avoids a mutex on the hot path.
var (
	bytePools  sync.Map
	floatPools sync.Map
)

// Release returns a buffer obtained from Decode to the internal pool so a
// later decode of the same size can reuse it. Call it exactly once per
// returned buffer, and never with a slice passed to DecodeInto. Releasing is
// optional — an unreleased buffer is ordinary garbage-collected memory.
func Release(buf []byte) {
	putBytes(buf)
}

// ReleaseFloat is Release for buffers obtained from DecodeFloat.
func ReleaseFloat(buf []float32) {
	putFloats(buf)
}

func getBytes(n int) []byte {
	if p, ok := bytePools.Load(n); ok {
		if v := p.(*sync.Pool).Get(); v != nil {
			return v.([]byte)
		}
	}
	return make([]byte, n)
}

func putBytes(buf []byte) {
	if len(buf) == 0 {
		return
	}
	p, _ := bytePools.LoadOrStore(len(buf), &sync.Pool{})
	p.(*sync.Pool).Put(buf)
}

func getFloats(n int) []float32 {
	if p, ok := floatPools.Load(n); ok {
		if v := p.(*sync.Pool).Get(); v != nil {
			return v.([]float32)
		}
	}
	return make([]float32, n)
}

func putFloats(buf []float32) {
	if len(buf) == 0 {
		return
	}
	p, _ := floatPools.LoadOrStore(len(buf), &sync.Pool{})
	p.(*sync.Pool).Put(buf)
}
