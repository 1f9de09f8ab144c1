package domain

// FirstService is the concrete first offering inside an instant result.
type FirstService struct {
	Name    string `json:"name"`
	Outcome string `json:"outcome"`
}

// ResultMeta carries confidence metadata for an instant result.
type ResultMeta struct {
	Lane              string   `json:"lane"`
	Confidence        int      `json:"confidence"`
	ConfidenceWhy     string   `json:"confidenceWhy"`
	ConfidenceDrivers []string `json:"confidenceDrivers"`
	ConfidenceRaise   []string `json:"confidenceRaise"`
	GatesPassed       []string `json:"gatesPassed"`
}

// InstantResult is the free, first-pass generated idea summary. It is
// generated on demand and never persisted server-side.
type InstantResult struct {
	MicroNiche     string       `json:"microNiche"`
	CoreProblem    string       `json:"coreProblem"`
	FirstService   FirstService `json:"firstService"`
	BuyerPlaces    []string     `json:"buyerPlaces"`
	OneActionToday string       `json:"oneActionToday"`
	Meta           ResultMeta   `json:"meta"`
}

// MoneyEstimate holds the rough economics section of a deep result.
type MoneyEstimate struct {
	StartupCost    string `json:"startupCost"`
	SuggestedPrice string `json:"suggestedPrice"`
	MonthlyCeiling string `json:"monthlyCeiling"`
}

// FirstMove is a copy-paste outreach artifact: one channel, one message.
type FirstMove struct {
	Channel string `json:"channel"`
	Message string `json:"message"`
}

// DeepResult is the paid decision report. Same lifecycle as
// InstantResult: generated on demand, held only by the browser.
type DeepResult struct {
	Verdict    string        `json:"verdict"`
	Why        string        `json:"why"`
	Money      MoneyEstimate `json:"money"`
	TestPlan   []string      `json:"testPlan"`
	FirstMove  FirstMove     `json:"firstMove"`
	KillSwitch []string      `json:"killSwitch"`
}
