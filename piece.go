package piecetree

import "golang.org/x/exp/slices"

// BufferKind identifies which of the two logical buffers a Piece slices into.
type BufferKind int

const (
	// Original is the read-only buffer backing the loaded document.
	Original BufferKind = iota
	// Added is the append-only buffer backing everything inserted since load.
	Added
)

func (k BufferKind) String() string {
	if k == Added {
		return "Added"
	}
	return "Original"
}

// Piece describes a half-open slice [Offset, Offset+Length) of one of the two
// logical buffers, together with the offsets of line breaks interior to the
// slice. A Piece never holds the characters it describes; the core never
// reads character data, per the out-of-scope collaborators in the module
// overview.
//
// LineBreaks is strictly increasing and every element lies in [0, Length).
type Piece struct {
	Buffer     BufferKind
	Offset     int
	Length     int
	LineBreaks []int
}

// numLines returns the number of visual lines this piece contributes,
// counting a trailing break as opening (not completing) the next line.
func (p Piece) numLines() int {
	return len(p.LineBreaks)
}

// splitAt cuts the piece at intra-piece offset s, mutating the receiver into
// the left-hand result and returning the right-hand result.
//
//   - s <= 0: the whole piece moves right; the receiver becomes empty.
//   - s >= Length: nothing moves; the returned piece is empty, positioned
//     immediately after the receiver.
//   - otherwise: the receiver keeps breaks < s, the returned piece takes
//     breaks >= s rebased by -s.
func (p *Piece) splitAt(s int) Piece {
	if s <= 0 {
		right := Piece{
			Buffer:     p.Buffer,
			Offset:     p.Offset,
			Length:     p.Length,
			LineBreaks: p.LineBreaks,
		}
		p.Length = 0
		p.LineBreaks = nil
		return right
	}

	if s >= p.Length {
		return Piece{
			Buffer: p.Buffer,
			Offset: p.Offset + p.Length,
		}
	}

	idx, _ := slices.BinarySearch(p.LineBreaks, s)
	rightBreaks := append([]int(nil), p.LineBreaks[idx:]...)
	for i := range rightBreaks {
		rightBreaks[i] -= s
	}

	right := Piece{
		Buffer:     p.Buffer,
		Offset:     p.Offset + s,
		Length:     p.Length - s,
		LineBreaks: rightBreaks,
	}

	p.Length = s
	p.LineBreaks = append([]int(nil), p.LineBreaks[:idx]...)
	return right
}

// cutRight shortens the piece to exactly c units from its start, discarding
// any breaks at or past the new length.
//
// Quirk preserved from the reference implementation: a request of c == 0
// leaves the piece at length 1, not 0. Callers relying on a true zero-length
// cut must use splitAt(0) instead.
func (p *Piece) cutRight(c int) {
	if c == 0 {
		c = 1
	}
	if c > p.Length {
		c = p.Length
	}
	p.Length = c
	idx, _ := slices.BinarySearch(p.LineBreaks, c)
	p.LineBreaks = p.LineBreaks[:idx]
}

// cutLeft drops the first c units from the piece, rebasing the offset and
// the remaining breaks.
func (p *Piece) cutLeft(c int) {
	if c > p.Length {
		c = p.Length
	}
	p.Offset += c
	p.Length -= c

	idx, _ := slices.BinarySearch(p.LineBreaks, c)
	remaining := append([]int(nil), p.LineBreaks[idx:]...)
	for i := range remaining {
		remaining[i] -= c
	}
	p.LineBreaks = remaining
}

// lineOfOffset returns the number of line breaks strictly before offset p
// within the piece: the index of the first break >= p, or len(LineBreaks)
// if every break precedes p.
func (p Piece) lineOfOffset(offset int) int {
	idx, _ := slices.BinarySearch(p.LineBreaks, offset)
	return idx
}
