// Package edit numbers the sentences and words of annotated documents,
// either programmatically or from an interactive prompt.
package edit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	prompt "github.com/c-bata/go-prompt"

	"github.com/mangalam-research/mmwp/xmldoc"
)

type command struct {
	name string
	args int
	desc string
}

var commands = []command{
	{"number-sentences", 1, "number the sentences of a citation"},
	{"number-all", 1, "number the sentences of a citation and their words"},
	{"number-words", 2, "number the words of a sentence"},
	{"renumber", 2, "renumber the words of a sentence"},
	{"unnumber", 2, "remove the word numbers of a sentence"},
	{"heads", 3, "list the words a word may point to"},
	{"check", 0, "validate the document"},
	{"save", 0, "save the document"},
	{"quit", 0, ""},
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// Handler runs numbering commands typed at a prompt against a Session.
type Handler struct {
	Name    string
	Session *Session

	// Save stores the serialized document.
	Save func(data []byte) error

	Out io.Writer
}

// NewHandler returns a Handler writing to stdout.
func NewHandler(name string, s *Session, save func([]byte) error) *Handler {
	return &Handler{
		Name:    name,
		Session: s,
		Save:    save,
		Out:     os.Stdout,
	}
}

// Run reads commands until quit.
func (h *Handler) Run() error {

	fmt.Fprintf(h.Out, "📝 %s. Ctrl+L: clear, 🔧 quit\n", h.Name)

	// initialize prompt history
	history := []string{}

	for {
		in := prompt.Input("      🔖 ", h.completer(),
			prompt.OptionTitle("mmwp edit"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionHistory(history),
		)

		history = append(history, in)
		quit, err := h.Exec(in)
		if err != nil {
			fmt.Fprintf(h.Out, "❌ %s\n", err)
			continue
		}
		if quit {
			return nil
		}
	}
}

// Exec runs one command line. quit is set when the session should end.
func (h *Handler) Exec(in string) (quit bool, err error) {
	tokens := strings.Fields(in)
	if len(tokens) == 0 {
		return false, nil
	}

	cmd, ok := lookup(tokens[0])
	if !ok {
		return false, errors.New("There is no such command: " + tokens[0] + ".")
	}
	args := tokens[1:]
	if len(args) != cmd.args {
		return false, fmt.Errorf("%s takes %d arguments, got %d.", cmd.name, cmd.args, len(args))
	}

	switch cmd.name {
	case "quit":
		if h.Session.Dirty() {
			fmt.Fprintln(h.Out, "⚠ unsaved changes are lost")
		}
		return true, nil
	case "number-sentences":
		err = h.Session.NumberSentences(args[0])
		err = wrapNumbering("sentences", err)
	case "number-all":
		err = h.Session.NumberSentencesAndWords(args[0])
		err = wrapNumbering("sentences", err)
	case "number-words":
		err = h.Session.NumberWords(args[0], args[1])
		err = wrapNumbering("words", err)
	case "renumber":
		var r Renumbered
		r, err = h.Session.RenumberWords(args[0], args[1])
		err = wrapNumbering("words", err)
		if err == nil && r.NeedsReview() {
			fmt.Fprintln(h.Out, "⚠ The words were renumbered. Check @dep.head and @conc.head for correctness on each word of the sentence.")
		}
	case "unnumber":
		err = h.Session.UnnumberWords(args[0], args[1])
	case "heads":
		err = h.heads(args[0], args[1], args[2])
	case "check":
		err = h.check()
	case "save":
		err = h.save()
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// wrapNumbering phrases numbering refusals for the user.
func wrapNumbering(what string, err error) error {
	var ne *NumberingError
	if !errors.As(err, &ne) {
		return err
	}
	return fmt.Errorf("The %s cannot be numbered because %w.", what, err)
}

func (h *Handler) heads(citID, sID, wordID string) error {
	s, err := Sentence(h.Session.Document(), citID, sID)
	if err != nil {
		return err
	}
	for _, w := range xmldoc.Elements(s) {
		if xmldoc.IsElement(w, "word") && xmldoc.Get(w, "id") == wordID {
			fmt.Fprintln(h.Out, strings.Join(HeadCompletions(w), " "))
			return nil
		}
	}
	return fmt.Errorf("no word with id %s", wordID)
}

func (h *Handler) check() error {
	errs, err := h.Session.Check()
	if err != nil {
		return err
	}
	for _, e := range errs {
		fmt.Fprintf(h.Out, "❌ %s\n", e.Message)
	}
	if len(errs) == 0 {
		fmt.Fprintln(h.Out, "✔ valid")
	}
	return nil
}

func (h *Handler) save() error {
	data, err := h.Session.Bytes()
	if err != nil {
		return err
	}
	if err := h.Save(data); err != nil {
		return err
	}
	h.Session.MarkSaved()
	fmt.Fprintf(h.Out, "✔ saved %s\n", h.Name)
	return nil
}

func (h *Handler) completer() func(in prompt.Document) []prompt.Suggest {
	return func(in prompt.Document) []prompt.Suggest {
		return h.suggest(in.TextBeforeCursor())
	}
}

// suggest completes command names, then citation ids, sentence ids and
// word ids depending on the argument being typed.
func (h *Handler) suggest(befCursor string) []prompt.Suggest {

	s := []prompt.Suggest{}

	// Only one character in line
	if befCursor == "" {
		return s
	}

	tokens := strings.Split(befCursor, " ")
	current := tokens[len(tokens)-1]

	if len(tokens) == 1 {
		for _, c := range commands {
			if strings.HasPrefix(c.name, current) {
				s = append(s, prompt.Suggest{Text: c.name, Description: c.desc})
			}
		}
		return s
	}

	cmd, ok := lookup(tokens[0])
	if !ok || len(tokens)-1 > cmd.args {
		return s
	}

	var ids []string
	doc := h.Session.Document()
	switch len(tokens) {
	case 2:
		for _, cit := range xmldoc.Descendants(doc, "cit") {
			ids = append(ids, xmldoc.Get(cit, "id"))
		}
	case 3:
		cit, err := Cit(doc, tokens[1])
		if err != nil {
			return s
		}
		for _, sent := range xmldoc.Elements(cit) {
			if xmldoc.IsElement(sent, "s") {
				ids = append(ids, xmldoc.Get(sent, "id"))
			}
		}
	case 4:
		sent, err := Sentence(doc, tokens[1], tokens[2])
		if err != nil {
			return s
		}
		for _, w := range xmldoc.Elements(sent) {
			ids = append(ids, xmldoc.Get(w, "id"))
		}
	}

	for _, id := range ids {
		if id != "" && strings.HasPrefix(id, current) {
			s = append(s, prompt.Suggest{Text: id})
		}
	}
	return s
}
