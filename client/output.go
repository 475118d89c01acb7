package client

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sagarc03/quizhall"
)

// Formatter formats results for output.
type Formatter interface {
	FormatUser(w io.Writer, user quizhall.User) error
	FormatUsers(w io.Writer, users []quizhall.User) error
	FormatQuiz(w io.Writer, quiz quizhall.QuizView) error
	FormatQuizzes(w io.Writer, quizzes []quizhall.QuizView) error
	FormatResult(w io.Writer, result quizhall.QuizResult) error
	FormatDeleted(w io.Writer, kind, id string) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text and tables.
type HumanFormatter struct {
	Quiet bool
}

func (f *HumanFormatter) FormatUser(w io.Writer, user quizhall.User) error {
	if f.Quiet {
		_, err := fmt.Fprintln(w, user.ID)
		return err
	}
	_, err := fmt.Fprintf(w, "User: %s (%s)\n", user.Username, user.ID)
	return err
}

func (f *HumanFormatter) FormatUsers(w io.Writer, users []quizhall.User) error {
	if len(users) == 0 {
		_, err := fmt.Fprintln(w, "No users found")
		return err
	}

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.ID.String(), u.Username, u.DisplayName, formatTime(u.CreatedAt)})
	}
	return renderTable(w, []string{"ID", "USERNAME", "DISPLAY NAME", "CREATED"}, rows)
}

func (f *HumanFormatter) FormatQuiz(w io.Writer, quiz quizhall.QuizView) error {
	_, _ = fmt.Fprintf(w, "%s\n", quiz.Title)
	_, _ = fmt.Fprintf(w, "  by %s, %s\n", quiz.Author, formatTime(quiz.CreatedAt))
	if quiz.Description != "" {
		_, _ = fmt.Fprintf(w, "  %s\n", quiz.Description)
	}

	for i, q := range quiz.Questions {
		_, _ = fmt.Fprintf(w, "\n%d. %s\n", i+1, q.Text)
		for j, option := range q.Options {
			_, _ = fmt.Fprintf(w, "   [%d] %s\n", j, option)
		}
	}
	return nil
}

func (f *HumanFormatter) FormatQuizzes(w io.Writer, quizzes []quizhall.QuizView) error {
	if len(quizzes) == 0 {
		_, err := fmt.Fprintln(w, "No quizzes found")
		return err
	}

	rows := make([][]string, 0, len(quizzes))
	for _, q := range quizzes {
		rows = append(rows, []string{
			q.ID.String(),
			q.Title,
			q.Author,
			strconv.Itoa(len(q.Questions)),
			formatTime(q.CreatedAt),
		})
	}
	return renderTable(w, []string{"ID", "TITLE", "AUTHOR", "QUESTIONS", "CREATED"}, rows)
}

func (f *HumanFormatter) FormatResult(w io.Writer, result quizhall.QuizResult) error {
	_, err := fmt.Fprintf(w, "Score: %d/%d (%.0f%%)\n", result.Correct, result.Total, result.Score)
	return err
}

func (f *HumanFormatter) FormatDeleted(w io.Writer, kind, id string) error {
	if f.Quiet {
		return nil
	}
	_, err := fmt.Fprintf(w, "Deleted %s: %s\n", kind, id)
	return err
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// FormatProfileList lists profiles, marking the default with an asterisk.
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		marker := ""
		if p.Name == defaultName {
			marker = "*"
		}
		rows = append(rows, []string{marker, p.Name, p.Endpoint, p.Username, maskSecret(p.Password, showSecrets)})
	}
	return renderTable(w, []string{"", "NAME", "ENDPOINT", "USERNAME", "PASSWORD"}, rows)
}

// FormatProfileShow formats a single profile as human-readable text.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	_, _ = fmt.Fprintf(w, "Name:     %s", profile.Name)
	if isDefault {
		_, _ = fmt.Fprintf(w, " (default)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Endpoint: %s\n", profile.Endpoint)
	_, _ = fmt.Fprintf(w, "Username: %s\n", profile.Username)
	_, _ = fmt.Fprintf(w, "Password: %s\n", maskSecret(profile.Password, showSecrets))
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) FormatUser(w io.Writer, user quizhall.User) error {
	return writeJSON(w, user)
}

func (f *JSONFormatter) FormatUsers(w io.Writer, users []quizhall.User) error {
	return writeJSON(w, quizhall.ListResult[quizhall.User]{Items: users})
}

func (f *JSONFormatter) FormatQuiz(w io.Writer, quiz quizhall.QuizView) error {
	return writeJSON(w, quiz)
}

func (f *JSONFormatter) FormatQuizzes(w io.Writer, quizzes []quizhall.QuizView) error {
	return writeJSON(w, quizhall.ListResult[quizhall.QuizView]{Items: quizzes})
}

func (f *JSONFormatter) FormatResult(w io.Writer, result quizhall.QuizResult) error {
	return writeJSON(w, result)
}

func (f *JSONFormatter) FormatDeleted(w io.Writer, kind, id string) error {
	return writeJSON(w, struct {
		Kind    string `json:"kind"`
		ID      string `json:"id"`
		Deleted bool   `json:"deleted"`
	}{Kind: kind, ID: id, Deleted: true})
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	return writeJSON(w, struct {
		Error string `json:"error"`
	}{Error: err.Error()})
}

// FormatProfileList formats a list of profiles as JSON.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	type jsonProfile struct {
		Name     string `json:"name"`
		Endpoint string `json:"endpoint"`
		Username string `json:"username,omitempty"`
		Password string `json:"password,omitempty"`
		Default  bool   `json:"default,omitempty"`
	}

	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}

	for i, p := range profiles {
		output.Profiles[i] = jsonProfile{
			Name:     p.Name,
			Endpoint: p.Endpoint,
			Username: p.Username,
			Password: maskSecret(p.Password, showSecrets),
			Default:  p.Name == defaultName,
		}
	}

	return writeJSON(w, output)
}

// FormatProfileShow formats a single profile as JSON.
func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	return writeJSON(w, struct {
		Name     string `json:"name"`
		Endpoint string `json:"endpoint"`
		Username string `json:"username"`
		Password string `json:"password"`
		Default  bool   `json:"default"`
	}{
		Name:     profile.Name,
		Endpoint: profile.Endpoint,
		Username: profile.Username,
		Password: maskSecret(profile.Password, showSecrets),
		Default:  isDefault,
	})
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatTime(t time.Time) string {
	return t.Local().Format(time.DateTime)
}

// maskSecret hides all but the first and last two characters of secret
// unless showSecrets is set.
func maskSecret(secret string, showSecrets bool) string {
	if showSecrets {
		return secret
	}
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 6 {
		return "******"
	}
	return secret[:2] + "..." + secret[len(secret)-2:]
}
