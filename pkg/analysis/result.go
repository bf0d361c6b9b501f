package analysis

// Result is the closed union of the five result shapes. The tag always
// matches the mode that produced it.
type Result interface {
	Mode() Mode
	isResult()
}

type ReplyTarget struct {
	Handle   string `json:"handle" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Category string `json:"category" validate:"required"` // Small | Mid | Big
	WhyReply string `json:"whyReply" validate:"required"`
}

type OptimizedVersion struct {
	Label        string   `json:"label" validate:"required"`
	Tweet        string   `json:"tweet" validate:"required"`
	BulletPoints []string `json:"bulletPoints" validate:"required"`
	WhyItWorks   string   `json:"whyItWorks" validate:"required"`
}

type PostAnalysis struct {
	Drivers               string `json:"drivers" validate:"required"`
	Friction              string `json:"friction" validate:"required"`
	EmotionalRegister     string `json:"emotionalRegister" validate:"required"`
	MissingElements       string `json:"missingElements" validate:"required"`
	SocialRisk            string `json:"socialRisk" validate:"required"`
	CostlyActionPotential string `json:"costlyActionPotential" validate:"required"`
}

type Recommendation struct {
	VersionLabel      string `json:"versionLabel" validate:"required"`
	HybridSuggestions string `json:"hybridSuggestions" validate:"required"`
}

type PostingStrategy struct {
	TimeFraming         string `json:"timeFraming" validate:"required"`
	ThreadPotential     string `json:"threadPotential" validate:"required"`
	MediaRecommendation string `json:"mediaRecommendation" validate:"required"`
	FollowUpPlays       string `json:"followUpPlays" validate:"required"`
}

// OptimizationResult answers ModePost.
type OptimizationResult struct {
	Original          string             `json:"original" validate:"required"`
	Analysis          PostAnalysis       `json:"analysis"`
	OptimizedVersions []OptimizedVersion `json:"optimizedVersions" validate:"required,min=1,dive"`
	ReplyTargets      []ReplyTarget      `json:"replyTargets" validate:"required,dive"`
	Recommended       Recommendation     `json:"recommended"`
	PostingStrategy   PostingStrategy    `json:"postingStrategy"`
}

func (*OptimizationResult) Mode() Mode { return ModePost }
func (*OptimizationResult) isResult()  {}

type ReplyVariation struct {
	Label        string   `json:"label" validate:"required"`
	Reply        string   `json:"reply" validate:"required"`
	BulletPoints []string `json:"bulletPoints" validate:"required"`
	Strategy     string   `json:"strategy" validate:"required"`
}

type ReplyAnalysis struct {
	Intent          string `json:"intent" validate:"required"`
	HookOpportunity string `json:"hookOpportunity" validate:"required"`
	SocialRisk      string `json:"socialRisk" validate:"required"`
}

// ReplyResult answers ModeReply.
type ReplyResult struct {
	SourceTweet string           `json:"sourceTweet" validate:"required"`
	Variations  []ReplyVariation `json:"variations" validate:"required,min=1,dive"`
	Analysis    ReplyAnalysis    `json:"analysis"`
}

func (*ReplyResult) Mode() Mode { return ModeReply }
func (*ReplyResult) isResult()  {}

type TweetAnalysis struct {
	Original    string `json:"original" validate:"required"`
	Critique    string `json:"critique" validate:"required"`
	RevisedHook string `json:"revisedHook" validate:"required"`
}

// ProfileAuditResult answers ModeAudit.
type ProfileAuditResult struct {
	Handle          string          `json:"handle" validate:"required"`
	OverallScore    *float64        `json:"overallScore" validate:"required,gte=0,lte=100"`
	Strengths       []string        `json:"strengths" validate:"required"`
	Weaknesses      []string        `json:"weaknesses" validate:"required"`
	ImprovementPlan []string        `json:"improvementPlan" validate:"required"`
	TweetAnalyses   []TweetAnalysis `json:"tweetAnalyses" validate:"required,dive"`
}

func (*ProfileAuditResult) Mode() Mode { return ModeAudit }
func (*ProfileAuditResult) isResult()  {}

type Pillar struct {
	Icon string `json:"icon" validate:"required"`
	Text string `json:"text" validate:"required"`
	Why  string `json:"why" validate:"required"`
}

type CrossNiche struct {
	Name        string  `json:"name" validate:"required"`
	Percentage  *float64 `json:"percentage" validate:"required,gte=0,lte=100"`
	Opportunity string  `json:"opportunity" validate:"required"`
}

type ContentIdea struct {
	Type   string `json:"type" validate:"required"`
	Idea   string `json:"idea" validate:"required"`
	Advice string `json:"advice" validate:"required"`
}

type Creator struct {
	Handle    string `json:"handle" validate:"required"`
	Followers string `json:"followers" validate:"required"`
	Type      string `json:"type" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
}

type Hook struct {
	Category string `json:"category" validate:"required"`
	Text     string `json:"text" validate:"required"`
	Teaching string `json:"teaching" validate:"required"`
}

type EngagementTarget struct {
	Handle   string   `json:"handle" validate:"required"`
	PostType string   `json:"postType" validate:"required"`
	Advice   []string `json:"advice" validate:"required"`
}

// NicheAnalysisResult answers ModeNiche.
type NicheAnalysisResult struct {
	Niche             string             `json:"niche" validate:"required"`
	Description       string             `json:"description" validate:"required"`
	Score             *float64           `json:"score" validate:"required,gte=0,lte=100"`
	Voice             []string           `json:"voice" validate:"required"`
	Pillars           []Pillar           `json:"pillars" validate:"required,dive"`
	CrossNiche        []CrossNiche       `json:"crossNiche" validate:"required,dive"`
	ContentIdeas      []ContentIdea      `json:"contentIdeas" validate:"required,dive"`
	Creators          []Creator          `json:"creators" validate:"required,dive"`
	Hooks             []Hook             `json:"hooks" validate:"required,dive"`
	EngagementTargets []EngagementTarget `json:"engagementTargets" validate:"required,dive"`
}

func (*NicheAnalysisResult) Mode() Mode { return ModeNiche }
func (*NicheAnalysisResult) isResult()  {}

type OutlineSection struct {
	Heading   string   `json:"heading" validate:"required"`
	KeyPoints []string `json:"keyPoints" validate:"required"`
}

type ArticleOutline struct {
	Title     string           `json:"title" validate:"required"`
	IntroHook string           `json:"introHook" validate:"required"`
	Sections  []OutlineSection `json:"sections" validate:"required,dive"`
}

type ThreadStructure struct {
	Hook   string   `json:"hook" validate:"required"`
	Tweets []string `json:"tweets" validate:"required"`
	CTA    string   `json:"cta" validate:"required"`
}

type PollIdea struct {
	Question string   `json:"question" validate:"required"`
	Options  []string `json:"options" validate:"required,min=2"`
	Strategy string   `json:"strategy" validate:"required"`
}

// IdeaGenerationResult answers ModeIdeate.
type IdeaGenerationResult struct {
	Topic           string          `json:"topic" validate:"required"`
	ArticleOutline  ArticleOutline  `json:"articleOutline"`
	ThreadStructure ThreadStructure `json:"threadStructure"`
	PollIdeas       []PollIdea      `json:"pollIdeas" validate:"required,dive"`
}

func (*IdeaGenerationResult) Mode() Mode { return ModeIdeate }
func (*IdeaGenerationResult) isResult()  {}

// Number returns a pointer to v. Scores are pointers so an absent key is
// told apart from a zero.
func Number(v float64) *float64 { return &v }

// NewResult returns an empty result of the shape the mode produces.
func NewResult(mode Mode) (Result, error) {
	switch mode {
	case ModePost:
		return &OptimizationResult{}, nil
	case ModeReply:
		return &ReplyResult{}, nil
	case ModeAudit:
		return &ProfileAuditResult{}, nil
	case ModeNiche:
		return &NicheAnalysisResult{}, nil
	case ModeIdeate:
		return &IdeaGenerationResult{}, nil
	}
	return nil, &UnsupportedModeError{Mode: mode}
}
