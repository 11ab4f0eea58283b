package rasterload

// sniffQOI classifies a buffer by its first four bytes. QOI must be checked
// before the delegate family: the delegate codecs know nothing about QOI and
// would reject it in their own signature matching. Anything that is not QOI
// falls through to the delegates, which fail there if truly unrecognized.
func sniffQOI(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == "qoif"
}
