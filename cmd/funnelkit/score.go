package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/funnelkit/pkg/dsl"
	"github.com/aretw0/funnelkit/pkg/scoring"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var scoreCmd = &cobra.Command{
	Use:   "score [funnel-id|file]",
	Short: "Score quiz answers against a funnel",
	Long: `Scores answers against the choice groups of a funnel. Answers come from a
YAML/JSON file (--answers) or from --pick flags:

  funnelkit score style-quiz --pick q1-2=q1-classic,q1-natural --pick q2-2=q2-classic`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		answers, err := readAnswers(cmd)
		if err != nil {
			return err
		}

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		doc, err := e.loadDocument(cmd.Context(), funnelArg(args, dsl.DefaultFunnelID))
		if err != nil {
			return err
		}
		quiz, err := scoring.FromDocument(doc)
		if err != nil {
			return err
		}
		results, err := scoring.Score(quiz, answers)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		if len(results) == 0 {
			fmt.Fprintln(out, "No scored answers.")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "RANK\tSTYLE\tPOINTS\tSHARE")
		for _, r := range results {
			marker := ""
			if r.Primary {
				marker = " ★"
			}
			fmt.Fprintf(tw, "%d\t%s%s\t%d\t%.1f%%\n", r.Rank, r.Style, marker, r.Points, r.Percentage)
		}
		return tw.Flush()
	},
}

func readAnswers(cmd *cobra.Command) ([]scoring.Answer, error) {
	var answers []scoring.Answer

	if path, _ := cmd.Flags().GetString("answers"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		// JSON is valid YAML
		if err := yaml.Unmarshal(data, &answers); err != nil {
			return nil, fmt.Errorf("failed to parse answers: %w", err)
		}
	}

	picks, _ := cmd.Flags().GetStringArray("pick")
	for _, p := range picks {
		question, options, ok := strings.Cut(p, "=")
		if !ok || question == "" || options == "" {
			return nil, fmt.Errorf("invalid --pick %q, want question=option[,option]", p)
		}
		answers = append(answers, scoring.Answer{QuestionID: question, OptionIDs: strings.Split(options, ",")})
	}
	return answers, nil
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().String("answers", "", "YAML or JSON file with a list of {question_id, option_ids}")
	scoreCmd.Flags().StringArray("pick", nil, "Answer as question=option[,option] (repeatable)")
	scoreCmd.Flags().Bool("json", false, "Print results as JSON")
}
