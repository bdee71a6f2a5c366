package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/domino14/wordformations/anagrammer"
	"github.com/domino14/wordformations/config"
	"github.com/domino14/wordformations/dictionary"
	"github.com/domino14/wordformations/game"
)

func (sc *ShellController) newRound(ctx context.Context, cmd *shellcmd) (*Response, error) {
	var r *game.Round
	var err error
	if len(cmd.args) > 0 {
		// Play a specific rack rather than a random one.
		minLength := sc.config.GetInt(config.ConfigMinWordLength)
		r, err = game.NewRoundWithTiles(ctx, sc.dict, sc.matcher,
			sc.upper.String(cmd.args[0]), minLength)
	} else {
		r, err = game.NewRound(ctx, sc.dict, sc.matcher, sc.rng, game.OptionsFromConfig(sc.config))
	}
	if err != nil {
		return nil, err
	}
	sc.round = r
	return msg(sc.roundDisplay()), nil
}

func (sc *ShellController) roundDisplay() string {
	r := sc.round
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tiles: %s\n", strings.Join(strings.Split(r.Tiles(), ""), " "))
	fmt.Fprintf(&sb, "Found: %s\n", r.Score())
	for _, w := range r.FoundWords() {
		fmt.Fprintf(&sb, "  %s\n", w)
	}
	if r.Complete() {
		sb.WriteString("Round complete!")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.round == nil {
		return nil, errNoRound
	}
	return msg(sc.roundDisplay()), nil
}

func (sc *ShellController) guess(cmd *shellcmd) (*Response, error) {
	if sc.round == nil {
		return nil, errNoRound
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: guess <word>")
	}
	word := sc.upper.String(cmd.args[0])
	_, err := sc.round.Guess(word)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", word, err)
	}
	if sc.round.Complete() {
		return msg(fmt.Sprintf("%s! %s - Round complete!", word, sc.round.Score())), nil
	}
	return msg(fmt.Sprintf("%s! %s", word, sc.round.Score())), nil
}

func (sc *ShellController) solutions(cmd *shellcmd) (*Response, error) {
	if sc.round == nil {
		return nil, errNoRound
	}
	found := lo.SliceToMap(sc.round.FoundWords(), func(w string) (string, bool) {
		return w, true
	})
	lines := lo.Map(sc.round.Solutions(), func(w string, _ int) string {
		if found[w] {
			return w + " *"
		}
		return w
	})
	return msg(strings.Join(lines, "\n")), nil
}

func (sc *ShellController) parseMinLength(cmd *shellcmd, pos int) (int, error) {
	if v, ok := cmd.options["min"]; ok {
		return strconv.Atoi(v)
	}
	if len(cmd.args) > pos {
		return strconv.Atoi(cmd.args[pos])
	}
	return sc.config.GetInt(config.ConfigMinWordLength), nil
}

func (sc *ShellController) query(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) < 1 {
		return nil, errors.New("usage: query <tiles> [minlength]")
	}
	minLength, err := sc.parseMinLength(cmd, 1)
	if err != nil {
		return nil, err
	}
	ws, err := sc.matcher.ScrabbleWords(ctx, sc.dict, sc.upper.String(cmd.args[0]), minLength)
	if err != nil {
		return nil, err
	}
	return msg(wordList(ws.Sorted())), nil
}

func (sc *ShellController) anagram(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) < 1 {
		return nil, errors.New("usage: anagram <letters> [exact]")
	}
	mode := anagrammer.ModeBuild
	if len(cmd.args) > 1 && cmd.args[1] == "exact" {
		mode = anagrammer.ModeExact
	}
	words, err := sc.matcher.Anagram(ctx, sc.dict, sc.upper.String(cmd.args[0]), mode)
	if err != nil {
		return nil, err
	}
	return msg(wordList(words)), nil
}

func wordList(words []string) string {
	if len(words) == 0 {
		return "No words found."
	}
	if len(words) == 1 {
		return "1 word:\n" + words[0]
	}
	return fmt.Sprintf("%d words:\n%s", len(words), strings.Join(words, "\n"))
}

func (sc *ShellController) reload(ctx context.Context, cmd *shellcmd) (*Response, error) {
	d, err := dictionary.Reload(sc.config, sc.config.GetString(config.ConfigDefaultLexicon))
	if err != nil {
		return nil, err
	}
	sc.dict = d
	if err := d.Wait(ctx); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("loaded %s: %d words", d.Name(), d.Len())), nil
}

func (sc *ShellController) settings(cmd *shellcmd) (*Response, error) {
	out, err := yaml.Marshal(sc.config.SanitizedSettings())
	if err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(string(out), "\n")), nil
}
