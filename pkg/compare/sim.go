package compare

// Sim is a similarity triple between one left and one right candidate:
// Common counts members present on both sides, Left and Right count members
// unique to each side.
type Sim struct {
	Common int
	Left   int
	Right  int
}

// Rate is the fraction of shared members, in [0, 1]. A pair with nothing in
// common rates 0.
func (s Sim) Rate() float64 {
	total := s.Common + s.Left + s.Right
	if total == 0 {
		return 0
	}
	return float64(s.Common) / float64(total)
}

func (s *Sim) add(other Sim) {
	s.Common += other.Common
	s.Left += other.Left
	s.Right += other.Right
}
