package panel

// PredictionState holds the class index of the last submitted prediction.
// The zero value is absent. Once set it is only ever overwritten, never
// cleared.
type PredictionState struct {
	index   int
	present bool
}

// Set stores index as the current prediction.
func (s *PredictionState) Set(index int) {
	s.index = index
	s.present = true
}

// Get returns the stored index and whether one has been stored.
func (s PredictionState) Get() (int, bool) {
	return s.index, s.present
}

// Present reports whether a prediction has been stored.
func (s PredictionState) Present() bool {
	return s.present
}

// Argmax returns the index of the largest score. Ties resolve to the lowest
// index. An empty slice yields -1.
func Argmax(scores []float64) int {
	if len(scores) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}
