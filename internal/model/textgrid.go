package model

// Interval is a single labeled time span from a Praat TextGrid tier.
type Interval struct {
	Xmin float64 `json:"xmin"`
	Xmax float64 `json:"xmax"`
	Text string  `json:"text"`
}

// Tier is one IntervalTier of a TextGrid (e.g. "words" or "phones").
type Tier struct {
	Name      string     `json:"name"`
	Xmin      float64    `json:"xmin"`
	Xmax      float64    `json:"xmax"`
	Intervals []Interval `json:"intervals"`
}

// TextGridDocument is the parsed form of a Praat .TextGrid file (C10).
type TextGridDocument struct {
	Xmin  float64 `json:"xmin"`
	Xmax  float64 `json:"xmax"`
	Tiers []Tier  `json:"tiers"`
}
