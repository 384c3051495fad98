package ui

// Scroll is the index of the first visible record. Every method keeps it in
// [0, MaxOffset(n, visible)].
type Scroll struct {
	offset int
}

func MaxOffset(n, visible int) int {
	if visible < 0 {
		visible = 0
	}
	if m := n - visible; m > 0 {
		return m
	}
	return 0
}

func (s *Scroll) Offset() int { return s.offset }

func (s *Scroll) Clamp(n, visible int) {
	if limit := MaxOffset(n, visible); s.offset > limit {
		s.offset = limit
	}
	if s.offset < 0 {
		s.offset = 0
	}
}

func (s *Scroll) By(delta, n, visible int) {
	s.offset += delta
	s.Clamp(n, visible)
}

func (s *Scroll) Down(n, visible int)     { s.By(1, n, visible) }
func (s *Scroll) Up(n, visible int)       { s.By(-1, n, visible) }
func (s *Scroll) PageDown(n, visible int) { s.By(max(visible, 1), n, visible) }
func (s *Scroll) PageUp(n, visible int)   { s.By(-max(visible, 1), n, visible) }
func (s *Scroll) Home()                   { s.offset = 0 }

func (s *Scroll) End(n, visible int) {
	s.offset = MaxOffset(n, visible)
}
