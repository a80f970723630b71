package detector

// BitMatrix is a fixed-size square grid of boolean cells sampled from a
// warped candidate. True means a dark ("black") cell.
type BitMatrix struct {
	Size int
	bits []bool
}

// NewBitMatrix allocates an all-false size x size matrix.
func NewBitMatrix(size int) *BitMatrix {
	return &BitMatrix{Size: size, bits: make([]bool, size*size)}
}

// At reads cell (row, col).
func (m *BitMatrix) At(row, col int) bool {
	return m.bits[row*m.Size+col]
}

// Set writes cell (row, col).
func (m *BitMatrix) Set(row, col int, v bool) {
	m.bits[row*m.Size+col] = v
}

// RotateCW returns a copy rotated 90 degrees clockwise.
func (m *BitMatrix) RotateCW() *BitMatrix {
	out := NewBitMatrix(m.Size)
	n := m.Size
	for r := range n {
		for c := range n {
			out.Set(r, c, m.At(n-1-c, r))
		}
	}
	return out
}

// Inner returns a copy of the matrix with a border of the given cell
// thickness stripped.
func (m *BitMatrix) Inner(border int) *BitMatrix {
	inner := NewBitMatrix(m.Size - 2*border)
	for r := range inner.Size {
		for c := range inner.Size {
			inner.Set(r, c, m.At(r+border, c+border))
		}
	}
	return inner
}
