package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger so every sample is traced at debug level.
// Roller itself satisfies Source.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that samples src and logs to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Intn samples [0, n) from the wrapped source and logs the draw.
func (r *Roller) Intn(n int) int {
	v := r.src.Intn(n)
	r.logger.Debug("dice sample",
		zap.Int("scale", n),
		zap.Int("value", v),
	)
	return v
}

// NewSource picks the source a battle should draw from: seeded when seed is
// non-zero, crypto/rand otherwise.
func NewSource(seed uint64) Source {
	if seed == 0 {
		return NewCryptoSource()
	}
	return NewSeededSource(seed)
}
