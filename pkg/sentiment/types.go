package sentiment

// Flags the provider (or local phrase matching) can attach to a result.
const (
	FlagHumanRequest        = "human-request"
	FlagAbusiveLanguage     = "abusive-language"
	FlagAnalysisUnavailable = "analysis-unavailable"
)

// Request is the request body for the sentiment provider.
type Request struct {
	Text string `json:"text"`
}

// Result is the sentiment signal for one message.
// Score is overall affect (0 very negative, 1 very positive);
// NegativeIntensity isolates negative affect strength.
type Result struct {
	Score             float64  `json:"score"`
	NegativeIntensity float64  `json:"negative_intensity"`
	Flags             []string `json:"flags,omitempty"`
}

// HasFlag reports whether the result carries the given flag.
func (r Result) HasFlag(flag string) bool {
	for _, f := range r.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Neutral is the substitute result used when analysis is unavailable.
// Sentiment is advisory; its absence must never fail routing.
func Neutral() Result {
	return Result{
		Score:             0.5,
		NegativeIntensity: 0,
		Flags:             []string{FlagAnalysisUnavailable},
	}
}
