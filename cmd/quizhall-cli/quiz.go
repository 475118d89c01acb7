package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/quizhall"
	"github.com/sagarc03/quizhall/client"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Create, browse and take quizzes",
	Long: `Create, browse and take quizzes.

Every quiz command authenticates with the configured username and password.`,
}

var (
	quizLimit  int
	quizOffset int
	quizAll    bool
	answers    string
)

var quizListCmd = &cobra.Command{
	Use:   "list",
	Short: "List quizzes",
	Args:  cobra.NoArgs,
	RunE:  runQuizList,
}

var quizShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a quiz without its answers",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuizShow,
}

var quizCreateCmd = &cobra.Command{
	Use:   "create <file|->",
	Short: "Create a quiz from a JSON file",
	Long: `Create a quiz from a JSON file, or from stdin when the file is "-".

The file holds the quiz title, an optional description and its questions:

  {
    "title": "Capitals",
    "questions": [
      {"text": "France?", "options": ["Paris", "Lyon"], "answer": 0}
    ]
  }`,
	Args: cobra.ExactArgs(1),
	RunE: runQuizCreate,
}

var quizDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a quiz you authored",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuizDelete,
}

var quizTakeCmd = &cobra.Command{
	Use:   "take <id>",
	Short: "Answer a quiz and get your score",
	Long: `Answer a quiz and get your score.

Without --answers every question is asked interactively.

Examples:
  quizhall-cli quiz take 1f0c...e2
  quizhall-cli quiz take 1f0c...e2 --answers 0,2,1`,
	Args: cobra.ExactArgs(1),
	RunE: runQuizTake,
}

func init() {
	quizListCmd.Flags().IntVarP(&quizLimit, "limit", "l", client.DefaultPageSize, "max results per page (max: 1000)")
	quizListCmd.Flags().IntVar(&quizOffset, "offset", 0, "number of quizzes to skip")
	quizListCmd.Flags().BoolVar(&quizAll, "all", false, "fetch all pages")

	quizTakeCmd.Flags().StringVar(&answers, "answers", "", "comma separated option indexes, one per question")

	quizCmd.AddCommand(quizListCmd, quizShowCmd, quizCreateCmd, quizDeleteCmd, quizTakeCmd)
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.New("id must be a UUID")
	}
	return id, nil
}

func runQuizList(cmd *cobra.Command, _ []string) error {
	c, err := getClient()
	if err != nil {
		return err
	}

	quizzes, err := c.ListQuizzes(context.Background(), client.ListOptions{
		Limit:  quizLimit,
		Offset: quizOffset,
		All:    quizAll,
	})
	if err != nil {
		return err
	}

	return getFormatter().FormatQuizzes(cmd.OutOrStdout(), quizzes)
}

func runQuizShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	c, err := getClient()
	if err != nil {
		return err
	}

	quiz, err := c.GetQuiz(context.Background(), id)
	if err != nil {
		return err
	}

	return getFormatter().FormatQuiz(cmd.OutOrStdout(), quiz)
}

func runQuizCreate(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0]) //#nosec G304 -- path is user-provided input
		if err != nil {
			return fmt.Errorf("open quiz file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var in quizhall.CreateQuiz
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return fmt.Errorf("parse quiz file: %w", err)
	}

	c, err := getClient()
	if err != nil {
		return err
	}

	quiz, err := c.CreateQuiz(context.Background(), in)
	if err != nil {
		return err
	}

	if quiet {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), quiz.ID)
		return err
	}
	return getFormatter().FormatQuiz(cmd.OutOrStdout(), quiz.View())
}

func runQuizDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	c, err := getClient()
	if err != nil {
		return err
	}

	if err := c.DeleteQuiz(context.Background(), id); err != nil {
		return err
	}

	return getFormatter().FormatDeleted(cmd.OutOrStdout(), "quiz", id.String())
}

func runQuizTake(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	c, err := getClient()
	if err != nil {
		return err
	}
	ctx := context.Background()

	var chosen []int
	if answers != "" {
		chosen, err = parseAnswers(answers)
		if err != nil {
			return err
		}
	} else {
		quiz, getErr := c.GetQuiz(ctx, id)
		if getErr != nil {
			return getErr
		}
		if chosen, err = askQuestions(quiz); err != nil {
			return handlePromptError(err)
		}
	}

	result, err := c.Submit(ctx, id, chosen)
	if err != nil {
		return err
	}

	return getFormatter().FormatResult(cmd.OutOrStdout(), result)
}

// parseAnswers parses "0,2,1" into option indexes.
func parseAnswers(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("answer %d must be a non-negative integer", i+1)
		}
		out = append(out, n)
	}
	return out, nil
}

// askQuestions walks the user through every question with a select prompt.
func askQuestions(quiz quizhall.QuizView) ([]int, error) {
	chosen := make([]int, len(quiz.Questions))
	for i, q := range quiz.Questions {
		prompt := promptui.Select{
			Label: fmt.Sprintf("%d/%d %s", i+1, len(quiz.Questions), q.Text),
			Items: q.Options,
			Size:  min(len(q.Options), 10),
		}
		idx, _, err := prompt.Run()
		if err != nil {
			return nil, err
		}
		chosen[i] = idx
	}
	return chosen, nil
}
