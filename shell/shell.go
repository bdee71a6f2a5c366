// Package shell is an interactive shell for playing word-formation rounds
// and running tile queries by hand.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/domino14/wordformations/anagrammer"
	"github.com/domino14/wordformations/config"
	"github.com/domino14/wordformations/dictionary"
	"github.com/domino14/wordformations/game"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoRound           = errors.New("no round in progress; type `new` to start one")
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

type ShellController struct {
	l       *readline.Instance
	config  *config.Config
	dict    *dictionary.Dictionary
	matcher anagrammer.Matcher
	rng     game.Randomizer
	round   *game.Round
	upper   cases.Caser
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.l.Stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// NewShellController starts loading the configured word list and sets up
// the readline instance. The shell is usable before the list finishes
// loading; the first command that needs it waits.
func NewShellController(cfg *config.Config) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[33mformations>\033[0m ",
		HistoryFile:     "/tmp/wordformations_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    completer,

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc := newController(cfg)
	sc.l = l
	return sc
}

func newController(cfg *config.Config) *ShellController {
	d, err := dictionary.Get(cfg, cfg.GetString(config.ConfigDefaultLexicon))
	if err != nil {
		// Only a type mismatch in the cache can get here.
		panic(err)
	}
	return &ShellController{
		config:  cfg,
		dict:    d,
		matcher: anagrammer.Matcher{Parallelism: cfg.GetInt(config.ConfigQueryParallelism)},
		upper:   cases.Upper(language.Und),
	}
}

// extractFields splits a line into a command, its arguments, and its
// -option value pairs. Quoting follows shell rules.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}
	for idx := 1; idx < len(fields); idx++ {
		if isOption(fields[idx]) {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[idx][1:]] = fields[idx+1]
			idx++
			continue
		}
		args = append(args, fields[idx])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

// isOption reports whether field is an -option name. Negative numbers are
// arguments.
func isOption(field string) bool {
	if !strings.HasPrefix(field, "-") || len(field) < 2 {
		return false
	}
	_, err := strconv.Atoi(field)
	return err != nil
}

func (sc *ShellController) handle(ctx context.Context, line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "new", "n":
		return sc.newRound(ctx, cmd)
	case "show", "s":
		return sc.show(cmd)
	case "guess", "g":
		return sc.guess(cmd)
	case "solutions", "sol":
		return sc.solutions(cmd)
	case "query", "q":
		return sc.query(ctx, cmd)
	case "anagram", "a":
		return sc.anagram(ctx, cmd)
	case "reload":
		return sc.reload(ctx, cmd)
	case "settings":
		return sc.settings(cmd)
	case "help", "h":
		return sc.help(cmd)
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// Execute runs a single line, as if typed at the prompt.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	sc.executeLine(context.Background(), sig, line)
}

func (sc *ShellController) executeLine(ctx context.Context, sig chan os.Signal, line string) bool {
	if line == "exit" || line == "bye" {
		sig <- syscall.SIGINT
		return false
	}
	resp, err := sc.handle(ctx, line)
	if err != nil {
		sc.showError(err)
	} else if resp != nil {
		sc.showMessage(resp.message)
	}
	return true
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !sc.executeLine(context.Background(), sig, line) {
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

func (sc *ShellController) Cleanup() {
	log.Debug().Msg("cleaning up shell")
}
