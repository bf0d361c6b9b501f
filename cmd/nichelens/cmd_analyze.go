package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"nichelens-be/pkg/analysis"
	"nichelens-be/pkg/workbench"

	"github.com/spf13/cobra"
)

var (
	inputFlag  string
	fileFlag   string
	bullets    bool
	fromNiche  string
	visualSave string
)

var mapCmd = &cobra.Command{
	Use:   "map [tweets...]",
	Short: "Map your niche from 5-10 of your tweets",
	Long: `Reads your recent tweets and maps the niche they build: pillars, voice,
adjacent niches, hooks, creators to benchmark and who to engage.

Separate tweets with a blank line or a line holding only ---.`,
	RunE: analyzeRunner(analysis.ModeNiche),
}

var architectCmd = &cobra.Command{
	Use:   "architect [topic]",
	Short: "Turn a topic into an article outline, a thread and polls",
	Long: `Builds a content plan for a topic.

Example:
  nichelens architect "why small accounts should reply more than they post"
  nichelens architect --from-niche "Indie SaaS"`,
	RunE: analyzeRunner(analysis.ModeIdeate),
}

var forgeCmd = &cobra.Command{
	Use:   "forge [draft]",
	Short: "Rewrite a draft post into three high-dwell versions",
	RunE:  analyzeRunner(analysis.ModePost),
}

var auditCmd = &cobra.Command{
	Use:   "audit [tweets...]",
	Short: "Score your recent tweets and get a recovery plan",
	Long: `Audits recent tweets for hook decay, bot patterns and weak signals.
The handle of the signed-in account is used when there is one.`,
	RunE: analyzeRunner(analysis.ModeAudit),
}

var replyCmd = &cobra.Command{
	Use:   "reply [tweet]",
	Short: "Craft replies to a tweet",
	RunE:  analyzeRunner(analysis.ModeReply),
}

var visualCmd = &cobra.Command{
	Use:   "visual [prompt]",
	Short: "Generate an image for a post",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runVisual,
}

func init() {
	for _, c := range []*cobra.Command{mapCmd, architectCmd, forgeCmd, auditCmd, replyCmd} {
		c.Flags().StringVarP(&inputFlag, "input", "i", "", "input text")
		c.Flags().StringVarP(&fileFlag, "file", "f", "", "read input from a file")
		rootCmd.AddCommand(c)
	}
	forgeCmd.Flags().BoolVar(&bullets, "bullets", false, "show bullet points instead of full posts")
	replyCmd.Flags().BoolVar(&bullets, "bullets", false, "show bullet points instead of full replies")
	architectCmd.Flags().StringVar(&fromNiche, "from-niche", "", "plan pillar content for a niche from a previous map")

	visualCmd.Flags().StringVarP(&visualSave, "save", "o", "", "write the decoded image to this path")
	rootCmd.AddCommand(visualCmd)
}

func analyzeRunner(mode analysis.Mode) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		bench := current.bench
		bench.SetMode(mode)

		if mode == analysis.ModeIdeate && fromNiche != "" {
			bench.ArchitectFromNiche(fromNiche)
		} else {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			bench.SetInput(input)
		}

		pref := workbench.PreferTweet
		if bullets {
			pref = workbench.PreferBullets
		}
		bench.SetOutputPreference(pref)

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		state, err := bench.Submit(ctx)
		if err != nil {
			current.log.Error(logModule, "Analysis failed", map[string]interface{}{
				"mode":  mode.String(),
				"error": err.Error(),
			})
			return errors.New(analysis.UserMessage(err))
		}
		current.out.State(state)
		return nil
	}
}

// readInput takes --input, then --file, then positional args, then piped
// stdin. Multi-item modes treat each positional arg as one item.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case inputFlag != "":
		return inputFlag, nil
	case fileFlag != "":
		raw, err := os.ReadFile(fileFlag)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", fileFlag, err)
		}
		return string(raw), nil
	case len(args) > 0:
		return strings.Join(args, "\n\n"), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		info, err := f.Stat()
		if err != nil || info.Mode()&os.ModeCharDevice != 0 {
			return "", nil
		}
	}
	raw, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(raw), nil
}

func runVisual(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	state, err := current.bench.GenerateVisual(ctx, strings.Join(args, " "))
	current.out.State(state)
	if err != nil {
		return errors.New(analysis.UserMessage(err))
	}

	if visualSave != "" {
		img, err := decodeDataURI(state.Visual.Image)
		if err != nil {
			return err
		}
		if err := os.WriteFile(visualSave, img, 0o644); err != nil {
			return fmt.Errorf("failed to save visual: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", visualSave)
	}
	return nil
}

func decodeDataURI(uri string) ([]byte, error) {
	head, data, found := strings.Cut(uri, ",")
	if !found || !strings.HasSuffix(head, ";base64") {
		return nil, errors.New("visual is not a base64 data URI")
	}
	return base64.StdEncoding.DecodeString(data)
}
