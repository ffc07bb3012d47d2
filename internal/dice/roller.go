package dice

// Roller is the source of randomness for expression evaluation. It is
// injected into every evaluation so two concurrent evaluations never share
// state and any evaluation is reproducible given the same source.
type Roller interface {
	// Roll returns a uniformly distributed value in [1, faces].
	Roll(faces int) (int, error)
}
