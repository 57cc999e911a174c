package reactive

// idCounter is the source of cell IDs. Cells are single-goroutine, so a
// plain counter is enough.
var idCounter uint64

// nextID returns the next cell ID. IDs are never reused.
func nextID() uint64 {
	idCounter++
	return idCounter
}
