package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/aretw0/verdict"
	"github.com/aretw0/verdict/internal/logging"
	"github.com/aretw0/verdict/internal/presentation/tui"
	"github.com/aretw0/verdict/pkg/domain"
	"github.com/aretw0/verdict/pkg/motion"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type makeOptions struct {
	from, to  int
	successes []string
	failures  []string
	width     int
	pretty    bool
}

var makeCmd = &cobra.Command{
	Use:   "make FILE",
	Short: "Turn lines of a file into a verdict list",
	Long: `Converts the lines between --from and --to (character offsets, whole text by default)
into a group and prints the result. Use "-" to read stdin.

Items named with --success and --failure are marked in that order, so
"--success Tent --success Stove" leaves Tent above Stove.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}

		opts := makeOptions{}
		opts.from, _ = cmd.Flags().GetInt("from")
		opts.to, _ = cmd.Flags().GetInt("to")
		opts.successes, _ = cmd.Flags().GetStringArray("success")
		opts.failures, _ = cmd.Flags().GetStringArray("failure")
		opts.width, _ = cmd.Flags().GetInt("width")

		out := cmd.OutOrStdout()
		if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			opts.pretty = true
		}
		return runMake(cmd.Context(), out, text, opts)
	},
}

func init() {
	rootCmd.AddCommand(makeCmd)
	makeCmd.Flags().Int("from", 0, "Selection start, in characters")
	makeCmd.Flags().Int("to", -1, "Selection end, in characters (-1 for end of text)")
	makeCmd.Flags().StringArray("success", nil, "Mark the item with this text as a success (repeatable)")
	makeCmd.Flags().StringArray("failure", nil, "Mark the item with this text as a failure (repeatable)")
	makeCmd.Flags().Int("width", 80, "Word wrap width for terminal output")
}

func readInput(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

func runMake(ctx context.Context, out io.Writer, text string, opts makeOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger
	if log == nil {
		log = logging.NewNop()
	}
	// The layout stands in for a real view so moved items are still reported.
	editor := verdict.New(
		verdict.WithLogger(log),
		verdict.WithDefaultTitle(cfg.Editor.DefaultTitle),
		verdict.WithIDStrategy(domain.IDStrategy(cfg.Editor.IDStrategy)),
		verdict.WithRenderer(tui.NewLayout()),
		verdict.WithAnimationSink(tui.NewAnimator()),
		verdict.WithMotionOptions(append(cfg.MotionOptions(), motion.WithObserver(func(t motion.Transition) {
			log.Debug("Item moved", "item_id", t.ElementID, "rows", t.From)
		}))...),
	)

	to := opts.to
	if to < 0 {
		to = utf8.RuneCountInString(text)
	}
	if _, err := editor.InitialConvert(ctx, text, opts.from, to); err != nil {
		return fmt.Errorf("nothing to convert: %w", err)
	}

	marks := make([]mark, 0, len(opts.successes)+len(opts.failures))
	for _, s := range opts.successes {
		marks = append(marks, mark{s, domain.StateSuccess})
	}
	for _, f := range opts.failures {
		marks = append(marks, mark{f, domain.StateFailure})
	}
	for _, m := range marks {
		groupID, itemID, ok := findItem(editor.Document(), m.text)
		if !ok {
			return fmt.Errorf("no item %q: %w", m.text, domain.ErrNotFound)
		}
		if _, err := editor.Classify(ctx, groupID, itemID, m.state); err != nil {
			return err
		}
	}

	state := editor.State()
	if !opts.pretty {
		_, err := io.WriteString(out, tui.Markdown(state))
		return err
	}

	render, err := tui.NewRenderer(opts.width)
	if err != nil {
		return err
	}
	rendered, err := render(state)
	if err != nil {
		return err
	}
	fmt.Fprint(out, rendered)
	if r := state.Ratio(); r != nil {
		fmt.Fprintln(out, tui.RatioBadge(termenv.EnvColorProfile(), r))
	}
	return nil
}

type mark struct {
	text  string
	state domain.ItemState
}

// findItem returns the first item whose text is text.
func findItem(doc *domain.Document, text string) (domain.ID, domain.ID, bool) {
	for _, n := range doc.Nodes {
		for _, it := range n.Items {
			if it.Text == text {
				return n.ID, it.ID, true
			}
		}
	}
	return "", "", false
}
