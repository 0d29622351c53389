package framework

// Framework is one of the 7 static narrative templates. The table is data,
// not logic: scoring only reads the keyword domains.
type Framework struct {
	Name        string
	Description string
	BestFor     []string // Keyword domain the framework fits best
	Sections    []Section
}

// Section is one structural beat of a framework's storyline, used by the
// outline generator to shape slides
type Section struct {
	Role     string // e.g. "conclusion", "complication", "pillar"
	Heading  string // Title template, %s replaced by the topic
	DataLean bool   // Section benefits from a chart slide
}

// Library is the full set of narrative frameworks, keyed by canonical name
var Library = []Framework{
	{
		Name:        "Hero's Journey",
		Description: "Narrative arc: challenge, struggle, transformation. Best for storytelling.",
		BestFor:     []string{"story", "journey", "transformation", "founder", "turnaround", "history", "disruption"},
		Sections: []Section{
			{Role: "ordinary_world", Heading: "%s: Where We Started"},
			{Role: "challenge", Heading: "The Challenge Facing %s", DataLean: true},
			{Role: "struggle", Heading: "Navigating the Turning Point", DataLean: true},
			{Role: "transformation", Heading: "The Transformation", DataLean: true},
			{Role: "return", Heading: "What %s Looks Like Now"},
		},
	},
	{
		Name:        "PAS",
		Description: "Problem-Agitate-Solution. Best for sales and persuasion.",
		BestFor:     []string{"problem", "pain", "solution", "sales", "pitch", "product", "persuade", "convert"},
		Sections: []Section{
			{Role: "problem", Heading: "The Problem With %s", DataLean: true},
			{Role: "agitate", Heading: "Why It Is Getting Worse", DataLean: true},
			{Role: "solution", Heading: "The Way Forward", DataLean: true},
		},
	},
	{
		Name:        "Pyramid",
		Description: "Top-down: conclusion first, then supporting arguments. Best for executive audiences.",
		BestFor:     []string{"executive", "board", "financial", "report", "results", "earnings", "quarterly", "performance", "fund", "investment", "inflows", "aum"},
		Sections: []Section{
			{Role: "conclusion", Heading: "%s: The Bottom Line"},
			{Role: "argument", Heading: "Supporting Evidence", DataLean: true},
			{Role: "argument", Heading: "Performance Drivers", DataLean: true},
			{Role: "argument", Heading: "Risk Considerations", DataLean: true},
			{Role: "detail", Heading: "Supporting Detail"},
		},
	},
	{
		Name:        "Rule of Three",
		Description: "Three core pillars structure. Best for balanced, memorable presentations.",
		BestFor:     []string{"overview", "introduction", "pillars", "summary", "training", "education", "balanced"},
		Sections: []Section{
			{Role: "setup", Heading: "Three Things to Know About %s"},
			{Role: "pillar", Heading: "Pillar One", DataLean: true},
			{Role: "pillar", Heading: "Pillar Two", DataLean: true},
			{Role: "pillar", Heading: "Pillar Three", DataLean: true},
		},
	},
	{
		Name:        "SCQA",
		Description: "Situation-Complication-Question-Answer. Best for strategic recommendations.",
		BestFor:     []string{"strategy", "strategic", "recommendation", "analysis", "market", "decision", "financial", "outlook", "trends", "inflows", "fund"},
		Sections: []Section{
			{Role: "situation", Heading: "%s Today", DataLean: true},
			{Role: "complication", Heading: "What Has Changed", DataLean: true},
			{Role: "question", Heading: "The Question We Must Answer"},
			{Role: "answer", Heading: "Our Answer", DataLean: true},
		},
	},
	{
		Name:        "Sparkline",
		Description: "Alternates between what is and what could be. Best for visionary topics.",
		BestFor:     []string{"vision", "future", "innovation", "inspire", "change", "opportunity", "potential"},
		Sections: []Section{
			{Role: "what_is", Heading: "%s: The Reality Today", DataLean: true},
			{Role: "what_could_be", Heading: "What Could Be"},
			{Role: "what_is", Heading: "The Gap", DataLean: true},
			{Role: "what_could_be", Heading: "The New Bliss"},
		},
	},
	{
		Name:        "StoryBrand",
		Description: "Audience as hero, presenter as guide. Best for client-facing decks.",
		BestFor:     []string{"client", "customer", "audience", "brand", "marketing", "service", "engagement"},
		Sections: []Section{
			{Role: "hero", Heading: "Your Position in %s"},
			{Role: "guide", Heading: "How We Can Guide You", DataLean: true},
			{Role: "plan", Heading: "The Plan", DataLean: true},
			{Role: "success", Heading: "What Success Looks Like", DataLean: true},
		},
	},
}

// ByName returns the framework with the given canonical name
func ByName(name string) (Framework, bool) {
	for _, f := range Library {
		if f.Name == name {
			return f, true
		}
	}
	return Framework{}, false
}
