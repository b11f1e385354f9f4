package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/haierkeys/fast-note-board/internal/routers/intent_router"
	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/spf13/cobra"
)

const shellPrompt = "board> "

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive board shell over the same commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer func() {
				a.Close()
				_ = a.Logger().Sync()
			}()

			in := bufio.NewReader(cmd.InOrStdin())
			r := intent_router.New(a, cmd.OutOrStdout(), lineConfirmer(in, cmd.ErrOrStderr()))
			return runShell(cmd.Context(), r, in, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

// runShell reads one command per line and runs it against r until exit or EOF.
// The view state (mode, search, sort, session) lives in r across lines.
// runShell 交互循环，视图状态在各行之间保留
func runShell(ctx context.Context, r *intent_router.Router, in *bufio.Reader, out, errOut io.Writer) error {
	provide := func(*cobra.Command) (*intent_router.Router, func(), error) {
		return r, func() {}, nil
	}

	if err := r.Dispatch(ctx, &intent_router.Request{Intent: intent_router.IntentRefresh}); err != nil {
		printError(errOut, err)
	}

	for {
		fmt.Fprint(out, shellPrompt)
		line, readErr := in.ReadString('\n')

		if line = strings.TrimSpace(line); line != "" {
			args, err := splitArgs(line)
			if err != nil {
				printError(errOut, err)
				continue
			}
			switch args[0] {
			case "exit", "quit":
				return nil
			}

			root := newShellRoot(provide)
			root.SetArgs(args)
			root.SetOut(out)
			root.SetErr(errOut)
			root.SetIn(in)
			if err := root.ExecuteContext(ctx); err != nil {
				printError(errOut, err)
			}
		}

		if readErr == io.EOF {
			fmt.Fprintln(out)
			return nil
		}
		if readErr != nil {
			return readErr
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// newShellRoot 交互模式的命令树，额外包含视图控制命令
func newShellRoot(provide routerProvider) *cobra.Command {
	root := newRootCmd(provide)
	root.Use = "board"
	root.AddCommand(
		&cobra.Command{
			Use:   "view <mine|public>",
			Short: "Switch between your notes and the public board",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return dispatch(cmd, provide, &intent_router.Request{Intent: intent_router.IntentView, View: args[0]})
			},
		},
		&cobra.Command{
			Use:   "search [query]",
			Short: "Filter the loaded notes, no query clears the filter",
			RunE: func(cmd *cobra.Command, args []string) error {
				q := strings.Join(args, " ")
				return dispatch(cmd, provide, &intent_router.Request{Intent: intent_router.IntentSearch, Search: &q})
			},
		},
		&cobra.Command{
			Use:   "sort <mode>",
			Short: "Change the sort order",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return dispatch(cmd, provide, &intent_router.Request{Intent: intent_router.IntentSort, Sort: args[0]})
			},
		},
		&cobra.Command{
			Use:   "refresh",
			Short: "Reload the current view",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return dispatch(cmd, provide, &intent_router.Request{Intent: intent_router.IntentRefresh})
			},
		},
	)
	return root
}

// splitArgs splits a shell line into words. Single and double quotes group
// words, a backslash escapes the next rune outside single quotes.
// splitArgs 按空白拆分参数，支持引号与反斜杠转义
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				args = append(args, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 || escaped {
		return nil, code.ErrorInvalidParams.Clone().WithDetails("unterminated quote or escape")
	}
	if inWord {
		args = append(args, cur.String())
	}
	return args, nil
}
