// Package analysistest provides complete sample results for tests.
package analysistest

import (
	"encoding/json"

	"nichelens-be/pkg/analysis"
)

func Optimization() *analysis.OptimizationResult {
	return &analysis.OptimizationResult{
		Original: "shipping beats planning",
		Analysis: analysis.PostAnalysis{
			Drivers:               "contrarian framing",
			Friction:              "abstract claim",
			EmotionalRegister:     "confident",
			MissingElements:       "a number",
			SocialRisk:            "low",
			CostlyActionPotential: "bookmarks",
		},
		OptimizedVersions: []analysis.OptimizedVersion{
			{Label: "Hook", Tweet: "I planned for 6 months and shipped nothing.", BulletPoints: []string{"paradox"}, WhyItWorks: "information gap"},
		},
		ReplyTargets: []analysis.ReplyTarget{
			{Handle: "@builder", Name: "Builder", Category: "Mid", WhyReply: "same audience"},
		},
		Recommended:     analysis.Recommendation{VersionLabel: "Hook", HybridSuggestions: "add a number"},
		PostingStrategy: analysis.PostingStrategy{TimeFraming: "morning", ThreadPotential: "high", MediaRecommendation: "none", FollowUpPlays: "quote yourself"},
	}
}

func Reply() *analysis.ReplyResult {
	return &analysis.ReplyResult{
		SourceTweet: "AI will replace writers",
		Variations: []analysis.ReplyVariation{
			{Label: "Insight gap", Reply: "It replaces average writers.", BulletPoints: []string{"sharpen"}, Strategy: "add nuance"},
		},
		Analysis: analysis.ReplyAnalysis{Intent: "provoke", HookOpportunity: "disagree", SocialRisk: "medium"},
	}
}

func Audit() *analysis.ProfileAuditResult {
	return &analysis.ProfileAuditResult{
		Handle:          "alpha",
		OverallScore:    analysis.Number(72),
		Strengths:       []string{"consistent"},
		Weaknesses:      []string{"weak hooks"},
		ImprovementPlan: []string{"open with numbers"},
		TweetAnalyses: []analysis.TweetAnalysis{
			{Original: "Tweet A", Critique: "vague", RevisedHook: "Tweet A, but in 7 words"},
		},
	}
}

func Niche() *analysis.NicheAnalysisResult {
	return &analysis.NicheAnalysisResult{
		Niche:             "indie hacking",
		Description:       "solo founders building in public",
		Score:             analysis.Number(81),
		Voice:             []string{"blunt"},
		Pillars:           []analysis.Pillar{{Icon: "*", Text: "revenue diaries", Why: "trust"}},
		CrossNiche:        []analysis.CrossNiche{{Name: "design", Percentage: analysis.Number(20), Opportunity: "landing pages"}},
		ContentIdeas:      []analysis.ContentIdea{{Type: "thread", Idea: "first $1k", Advice: "show receipts"}},
		Creators:          []analysis.Creator{{Handle: "@maker", Followers: "120k", Type: "Big", Reason: "overlap"}},
		Hooks:             []analysis.Hook{{Category: "paradox", Text: "I earned more by working less", Teaching: "contrast"}},
		EngagementTargets: []analysis.EngagementTarget{{Handle: "@maker", PostType: "launch", Advice: []string{"reply early"}}},
	}
}

func Idea() *analysis.IdeaGenerationResult {
	return &analysis.IdeaGenerationResult{
		Topic: "cold email",
		ArticleOutline: analysis.ArticleOutline{
			Title:     "Cold email is not dead",
			IntroHook: "I sent 400 emails.",
			Sections:  []analysis.OutlineSection{{Heading: "Targeting", KeyPoints: []string{"narrow"}}},
		},
		ThreadStructure: analysis.ThreadStructure{Hook: "400 emails, 31 replies.", Tweets: []string{"1/ list"}, CTA: "follow for part 2"},
		PollIdeas:       []analysis.PollIdea{{Question: "Do you cold email?", Options: []string{"yes", "no"}, Strategy: "segment"}},
	}
}

// For returns the sample result for an API mode.
func For(mode analysis.Mode) analysis.Result {
	switch mode {
	case analysis.ModePost:
		return Optimization()
	case analysis.ModeReply:
		return Reply()
	case analysis.ModeAudit:
		return Audit()
	case analysis.ModeNiche:
		return Niche()
	case analysis.ModeIdeate:
		return Idea()
	}
	return nil
}

// JSON returns the sample result for mode encoded as JSON.
func JSON(mode analysis.Mode) []byte {
	b, err := json.Marshal(For(mode))
	if err != nil {
		panic(err)
	}
	return b
}
