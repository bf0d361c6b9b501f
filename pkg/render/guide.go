package render

type guideEntry struct {
	command string
	mode    string
	about   string
}

var guideEntries = []guideEntry{
	{"map", "niche", "Paste 5-10 of your tweets separated by blank lines or a --- line. Get your niche, pillars, hooks and who to engage."},
	{"architect", "ideate", "Give a topic. Get an article outline, a thread skeleton and poll ideas."},
	{"forge", "post", "Give a draft post. Get rewritten versions, reply targets and a posting plan."},
	{"audit", "audit", "Paste recent tweets. Get a profile score, strengths, weaknesses and revised hooks."},
	{"reply", "reply", "Paste the tweet you want to answer. Get reply variations with strategy notes."},
}

// Guide prints the built-in manual. It is the only output of guide mode.
func (r *Renderer) Guide() {
	r.section("NicheLens manual")
	r.line("Work from the niche outward: map first, then architect, forge and reply.")
	r.line("")
	for _, e := range guideEntries {
		r.printf(r.accent, "  nichelens %-10s", e.command)
		r.printf(r.muted, "(%s)\n", e.mode)
		r.line("      %s", e.about)
	}
	r.line("")
	r.line("Input comes from --input, --file, or stdin. Use --bullets for bullet-point output.")
	r.line("`nichelens history` lists past results; `nichelens history show <id>` reopens one.")
	r.line("`nichelens login` syncs your archive to the backend when it is configured.")
}
