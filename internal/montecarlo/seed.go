package montecarlo

// DeriveSeed maps the global seed and a location's position in the
// original input sequence to that location's local seed. The index is
// assigned before any parallel dispatch, never from completion order,
// so the derived seed — and every sample drawn from it — is identical
// no matter how the batch is scheduled.
func DeriveSeed(globalSeed int64, locationIndex int) int64 {
	return globalSeed + int64(locationIndex)
}
