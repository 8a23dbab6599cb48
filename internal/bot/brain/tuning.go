package brain

// Tuning holds every numeric knob of the opponent engine. The bot package
// carries the default literal; the arena tool overrides fields when sweeping
// parameters.
type Tuning struct {
	// Expert pool.
	FrequencyWindow  int
	Alpha            float64
	RecencyGamma     float64
	PeriodMin        int
	PeriodMax        int
	PeriodWindow     int
	PeriodConfidence float64

	// Hedge learning rate. Higher punishes wrong experts faster, converging
	// quicker but noisier.
	Eta float64

	// Engine routing.
	MinHistory     int
	HeuristicFloor float64

	// Policy sharpening and exploration.
	NormalLambda   float64
	RuthlessLambda float64
	ExploreEpsilon float64
}
