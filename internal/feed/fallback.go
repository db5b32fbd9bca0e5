package feed

import "time"

// FallbackItems returns the bundled item set served when every retrieval
// strategy has failed, so the rest of the system always has content to work
// with. Returned fresh on each call so callers may mutate their copy.
func FallbackItems() []Item {
	now := time.Now()
	return []Item{
		{
			Title:   "Global Climate Summit Reaches Historic Net-Zero Agreement",
			Link:    "#",
			PubDate: now,
			Source:  "Global Wire",
			GUID:    "demo-1",
			Snippet: "World leaders have unanimously agreed to accelerate the transition to renewable energy, targeting a 50% reduction in carbon emissions by 2030. The agreement includes funding for developing nations.",
		},
		{
			Title:   "Breakthrough AI Model Predicts Weather Patterns with 99% Accuracy",
			Link:    "#",
			PubDate: now,
			Source:  "Tech Daily",
			GUID:    "demo-2",
			Snippet: "Scientists have unveiled a new machine learning system capable of forecasting extreme weather events weeks in advance, potentially saving thousands of lives and billions in damages.",
		},
		{
			Title:   "Markets Rally as Inflation Data Shows Unexpected Cooling",
			Link:    "#",
			PubDate: now,
			Source:  "Finance Post",
			GUID:    "demo-3",
			Snippet: "Global stock markets hit record highs today after the latest consumer price index revealed inflation has dropped faster than anticipated, signaling relief for consumers worldwide.",
		},
	}
}
