package service

import "math/rand/v2"

const (
	MinInitialBalance int64 = 50
	MaxInitialBalance int64 = 150
)

type mathRandom struct{}

// NewRandom returns the process-wide pseudo random source
func NewRandom() Random {
	return mathRandom{}
}

func (mathRandom) Intn(n int) int {
	return rand.IntN(n)
}

// RandomInitialBalance draws uniformly from [MinInitialBalance, MaxInitialBalance]
func RandomInitialBalance(rng Random) int64 {
	return MinInitialBalance + int64(rng.Intn(int(MaxInitialBalance-MinInitialBalance+1)))
}
