// Package render prints workbench state on a terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"nichelens-be/pkg/analysis"
	"nichelens-be/pkg/history"
	"nichelens-be/pkg/identity"
	"nichelens-be/pkg/workbench"

	"github.com/fatih/color"
)

type Renderer struct {
	w io.Writer

	heading *color.Color
	label   *color.Color
	accent  *color.Color
	muted   *color.Color
	good    *color.Color
	bad     *color.Color
}

// New returns a renderer writing to w. noColor disables escape codes.
func New(w io.Writer, noColor bool) *Renderer {
	r := &Renderer{
		w:       w,
		heading: color.New(color.FgCyan, color.Bold),
		label:   color.New(color.FgYellow),
		accent:  color.New(color.FgWhite, color.Bold),
		muted:   color.New(color.FgHiBlack),
		good:    color.New(color.FgGreen),
		bad:     color.New(color.FgRed),
	}
	if noColor {
		for _, c := range []*color.Color{r.heading, r.label, r.accent, r.muted, r.good, r.bad} {
			c.DisableColor()
		}
	}
	return r
}

func (r *Renderer) printf(c *color.Color, format string, args ...interface{}) {
	_, _ = c.Fprintf(r.w, format, args...)
}

func (r *Renderer) line(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(r.w, format+"\n", args...)
}

func (r *Renderer) section(title string) {
	r.line("")
	r.printf(r.heading, "== %s ==\n", title)
}

func (r *Renderer) field(name, value string) {
	r.printf(r.label, "%s: ", name)
	r.line("%s", value)
}

func (r *Renderer) bullets(items []string) {
	for _, it := range items {
		r.line("  - %s", it)
	}
}

// State prints the error, the populated slot and the visual substate.
func (r *Renderer) State(s workbench.State) {
	if s.Error != "" {
		r.printf(r.bad, "error: %s\n", s.Error)
	}

	switch {
	case s.Mode == analysis.ModeGuide && s.PopulatedSlots() == 0:
		r.Guide()
	case s.Optimization != nil:
		r.Optimization(s.Optimization, s.OutputPreference)
	case s.Reply != nil:
		r.Reply(s.Reply, s.OutputPreference)
	case s.Audit != nil:
		r.Audit(s.Audit)
	case s.Niche != nil:
		r.Niche(s.Niche)
	case s.Idea != nil:
		r.Idea(s.Idea)
	}

	switch {
	case s.Visual.Loading:
		r.printf(r.muted, "forging visual asset...\n")
	case s.Visual.Error != "":
		r.printf(r.bad, "visual: %s\n", s.Visual.Error)
	case s.Visual.Image != "":
		r.field("Visual", summarizeDataURI(s.Visual.Image))
	}
}

func (r *Renderer) Optimization(res *analysis.OptimizationResult, pref workbench.OutputPreference) {
	r.section("Post Forge")
	r.field("Original", res.Original)

	r.section("Analysis")
	r.field("Drivers", res.Analysis.Drivers)
	r.field("Friction", res.Analysis.Friction)
	r.field("Emotional register", res.Analysis.EmotionalRegister)
	r.field("Missing", res.Analysis.MissingElements)
	r.field("Social risk", res.Analysis.SocialRisk)
	r.field("Costly action potential", res.Analysis.CostlyActionPotential)

	r.section("Optimized versions")
	for i, v := range res.OptimizedVersions {
		r.printf(r.accent, "%d. %s\n", i+1, v.Label)
		if pref == workbench.PreferBullets {
			r.bullets(v.BulletPoints)
		} else {
			r.line("  %s", v.Tweet)
		}
		r.printf(r.muted, "  why: %s\n", v.WhyItWorks)
	}

	r.section("Recommended")
	r.field("Version", res.Recommended.VersionLabel)
	r.field("Hybrid", res.Recommended.HybridSuggestions)

	if len(res.ReplyTargets) > 0 {
		r.section("Reply targets")
		for _, t := range res.ReplyTargets {
			r.line("  %s (%s, %s): %s", t.Handle, t.Name, t.Category, t.WhyReply)
		}
	}

	r.section("Posting strategy")
	r.field("Timing", res.PostingStrategy.TimeFraming)
	r.field("Thread potential", res.PostingStrategy.ThreadPotential)
	r.field("Media", res.PostingStrategy.MediaRecommendation)
	r.field("Follow-up", res.PostingStrategy.FollowUpPlays)
}

func (r *Renderer) Reply(res *analysis.ReplyResult, pref workbench.OutputPreference) {
	r.section("Reply Lab")
	r.field("Source", res.SourceTweet)
	r.field("Intent", res.Analysis.Intent)
	r.field("Hook opportunity", res.Analysis.HookOpportunity)
	r.field("Social risk", res.Analysis.SocialRisk)

	r.section("Variations")
	for i, v := range res.Variations {
		r.printf(r.accent, "%d. %s\n", i+1, v.Label)
		if pref == workbench.PreferBullets {
			r.bullets(v.BulletPoints)
		} else {
			r.line("  %s", v.Reply)
		}
		r.printf(r.muted, "  strategy: %s\n", v.Strategy)
	}
}

func (r *Renderer) Audit(res *analysis.ProfileAuditResult) {
	r.section("Profile Audit @" + strings.TrimPrefix(res.Handle, "@"))
	r.field("Score", fmt.Sprintf("%.0f/100", value(res.OverallScore)))

	r.section("Strengths")
	r.bullets(res.Strengths)
	r.section("Weaknesses")
	r.bullets(res.Weaknesses)
	r.section("Improvement plan")
	r.bullets(res.ImprovementPlan)

	r.section("Tweet breakdown")
	for _, ta := range res.TweetAnalyses {
		r.printf(r.accent, "> %s\n", ta.Original)
		r.line("  critique: %s", ta.Critique)
		r.printf(r.good, "  revised hook: %s\n", ta.RevisedHook)
	}
}

func (r *Renderer) Niche(res *analysis.NicheAnalysisResult) {
	r.section("Niche Map: " + res.Niche)
	r.line("%s", res.Description)
	r.field("Score", fmt.Sprintf("%.0f/100", value(res.Score)))
	r.field("Voice", strings.Join(res.Voice, ", "))

	r.section("Pillars")
	for _, p := range res.Pillars {
		r.line("  %s %s: %s", p.Icon, p.Text, p.Why)
	}

	r.section("Cross-niche")
	for _, c := range res.CrossNiche {
		r.line("  %s (%.0f%%): %s", c.Name, value(c.Percentage), c.Opportunity)
	}

	r.section("Content ideas")
	for _, c := range res.ContentIdeas {
		r.line("  [%s] %s: %s", c.Type, c.Idea, c.Advice)
	}

	r.section("Creators")
	for _, c := range res.Creators {
		r.line("  %s (%s, %s): %s", c.Handle, c.Followers, c.Type, c.Reason)
	}

	r.section("Hooks")
	for _, h := range res.Hooks {
		r.line("  [%s] %s", h.Category, h.Text)
		r.printf(r.muted, "    %s\n", h.Teaching)
	}

	r.section("Engagement targets")
	for _, e := range res.EngagementTargets {
		r.line("  %s on %s", e.Handle, e.PostType)
		for _, a := range e.Advice {
			r.line("    - %s", a)
		}
	}

	r.printf(r.muted, "\nTip: `nichelens architect %q` turns this niche into a content plan.\n", res.Niche)
}

func (r *Renderer) Idea(res *analysis.IdeaGenerationResult) {
	r.section("Content Architect: " + res.Topic)

	r.section("Article outline")
	r.field("Title", res.ArticleOutline.Title)
	r.field("Intro hook", res.ArticleOutline.IntroHook)
	for _, sec := range res.ArticleOutline.Sections {
		r.printf(r.accent, "  %s\n", sec.Heading)
		for _, kp := range sec.KeyPoints {
			r.line("    - %s", kp)
		}
	}

	r.section("Thread")
	r.field("Hook", res.ThreadStructure.Hook)
	for i, tw := range res.ThreadStructure.Tweets {
		r.line("  %d. %s", i+1, tw)
	}
	r.field("CTA", res.ThreadStructure.CTA)

	r.section("Polls")
	for _, p := range res.PollIdeas {
		r.printf(r.accent, "  %s\n", p.Question)
		for _, o := range p.Options {
			r.line("    ( ) %s", o)
		}
		r.printf(r.muted, "    %s\n", p.Strategy)
	}
}

// History lists archive entries, newest first.
func (r *Renderer) History(items []history.Item, remote bool) {
	title := "Local Archive"
	if remote {
		title = "Cloud Archive"
	}
	r.section(title)
	if len(items) == 0 {
		r.printf(r.muted, "  empty\n")
		return
	}
	for _, it := range items {
		ts := time.UnixMilli(it.CreatedAt).Local().Format("Jan 2 15:04")
		r.printf(r.muted, "  %s  ", ts)
		r.printf(r.label, "%-7s", it.Mode)
		r.line(" %s  %s", it.ID, preview(it.Input, 60))
	}
}

func (r *Renderer) Session(s identity.Session) {
	if !s.IsAuthenticated {
		r.line("Not signed in. History is kept on this device.")
		return
	}
	r.printf(r.accent, "%s", s.DisplayName)
	r.line(" @%s", s.Handle())
	switch {
	case s.Sandbox:
		r.printf(r.muted, "  sandbox session, history stays local\n")
	case s.UsesRemote():
		r.printf(r.good, "  synced archive\n")
	}
	if s.AvatarURL != "" {
		r.printf(r.muted, "  %s\n", s.AvatarURL)
	}
}

func (r *Renderer) Status(up bool, backendURL string) {
	if up {
		r.printf(r.good, "backend online")
	} else {
		r.printf(r.bad, "backend unreachable")
	}
	r.line(" (%s)", backendURL)
}

func value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

func summarizeDataURI(uri string) string {
	head, _, found := strings.Cut(uri, ",")
	if !found {
		return uri
	}
	return fmt.Sprintf("%s (%d bytes encoded)", head, len(uri)-len(head)-1)
}
