package detector

import "fmt"

// Dictionary describes a marker bit-pattern format: the grid geometry and
// the set of valid row codewords with their embedded data bits.
//
// The shipped dictionary is the classic ArUco 5x5 self-checking format: a
// 7x7 cell grid whose outer ring is black and whose inner 5x5 rows each
// carry one of four codewords. A codeword encodes 2 data bits (at columns 1
// and 3), so 5 rows yield a 10-bit id space. The codewords are pairwise far
// apart, which makes the rotation unambiguous: a rotated or corrupted grid
// matches no codeword exactly and is rejected.
type Dictionary struct {
	Name      string
	InnerSize int // code cells per side
	words     [][]bool
}

// Border ring thickness in cells. All shipped formats use a single ring.
const borderCells = 1

// arucoWords are the valid 5-bit row codewords, indexed by their 2 data
// bits. Bits live at columns 1 and 3.
var arucoWords = [][]bool{
	{true, false, false, false, false},  // 10000 -> 00
	{true, false, true, true, true},     // 10111 -> 01
	{false, true, false, false, true},   // 01001 -> 10
	{false, true, true, true, false},    // 01110 -> 11
}

// ArUco5x5 returns the classic ArUco 5x5 dictionary (ids 0-1023).
func ArUco5x5() *Dictionary {
	return &Dictionary{Name: "aruco-5x5", InnerSize: 5, words: arucoWords}
}

// GridSize returns the full cell grid side including the border ring.
func (d *Dictionary) GridSize() int {
	return d.InnerSize + 2*borderCells
}

// Capacity returns the number of distinct ids the dictionary encodes.
func (d *Dictionary) Capacity() int {
	return 1 << (2 * d.InnerSize)
}

// Decode matches every row of an inner bit grid against the codeword set
// and assembles the id, two bits per row, most significant row first.
// Any row at Hamming distance > 0 from all codewords rejects the grid.
func (d *Dictionary) Decode(inner *BitMatrix) (int, bool) {
	if inner.Size != d.InnerSize {
		return 0, false
	}
	id := 0
	for r := range d.InnerSize {
		wi := d.matchRow(inner, r)
		if wi < 0 {
			return 0, false
		}
		id = id<<2 | wi
	}
	return id, true
}

// matchRow returns the codeword index exactly matching row r, or -1.
func (d *Dictionary) matchRow(inner *BitMatrix, r int) int {
	for wi, word := range d.words {
		match := true
		for c := range d.InnerSize {
			if inner.At(r, c) != word[c] {
				match = false
				break
			}
		}
		if match {
			return wi
		}
	}
	return -1
}

// Encode renders an id into a full marker grid including the black border
// ring. Ids outside the dictionary capacity are rejected.
func (d *Dictionary) Encode(id int) (*BitMatrix, error) {
	if id < 0 || id >= d.Capacity() {
		return nil, fmt.Errorf("marker id %d out of range [0, %d)", id, d.Capacity())
	}
	grid := NewBitMatrix(d.GridSize())
	n := grid.Size
	for r := range n {
		for c := range n {
			if r < borderCells || c < borderCells || r >= n-borderCells || c >= n-borderCells {
				grid.Set(r, c, true)
			}
		}
	}
	for r := range d.InnerSize {
		wi := (id >> (2 * (d.InnerSize - 1 - r))) & 3
		for c, bit := range d.words[wi] {
			grid.Set(r+borderCells, c+borderCells, bit)
		}
	}
	return grid, nil
}
