package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// ErrAborted signals the user declined or interrupted a prompt.
var ErrAborted = errors.New("cli: aborted")

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

type surveyConfirmer struct{}

func (surveyConfirmer) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// confirmOverwrite allows writing path when it does not exist, --yes is set,
// or the user agrees at the prompt. Without a terminal an existing file is an
// error.
func (a *App) confirmOverwrite(ctx context.Context, path string) error {
	if a.cfg.Yes {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("cli: stat output: %w", err)
	}
	if !a.interactive() {
		return fmt.Errorf("cli: %s already exists, pass --yes to overwrite", path)
	}

	ok, err := a.confirmer.Confirm(ctx, fmt.Sprintf("Overwrite %s?", path))
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}

func stdinIsTerminal() bool {
	return isTerminal(os.Stdin)
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newLogger(w io.Writer, pretty, verbose bool) zerolog.Logger {
	output := w
	if pretty {
		output = zerolog.ConsoleWriter{Out: w, NoColor: !isTerminal(w)}
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
