package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/haierkeys/fast-note-board/internal/app"
	"github.com/haierkeys/fast-note-board/internal/routers/intent_router"
	"github.com/haierkeys/fast-note-board/internal/service"
	"github.com/haierkeys/fast-note-board/pkg/code"
	"github.com/haierkeys/fast-note-board/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// routerProvider returns the router a command dispatches through and a release func.
// routerProvider 返回命令使用的意图分发表
type routerProvider func(cmd *cobra.Command) (*intent_router.Router, func(), error)

// openApp loads the config and builds the client container.
// openApp 加载配置并创建客户端容器
func openApp() (*app.App, error) {
	path, err := app.ResolveConfigPath(flags.config)
	if err != nil {
		return nil, code.ErrorConfigLoad.Clone().WithDetails(err.Error()).WithCause(err)
	}
	cfg, realpath, err := app.LoadConfig(path)
	if err != nil {
		return nil, code.ErrorConfigLoad.Clone().WithDetails(err.Error()).WithCause(err)
	}

	lg, err := logger.NewLogger(cfg.LoggerConfig())
	if err != nil {
		return nil, code.ErrorConfigLoad.Clone().WithDetails(err.Error()).WithCause(err)
	}
	lg.Debug("config loaded", zap.String(logger.FieldPath, realpath))

	return app.NewApp(cfg, lg)
}

// clientRouter builds a fresh container for a one-shot command.
func clientRouter(cmd *cobra.Command) (*intent_router.Router, func(), error) {
	a, err := openApp()
	if err != nil {
		return nil, nil, err
	}
	var confirm service.Confirmer
	if stdinIsTerminal() {
		confirm = lineConfirmer(bufio.NewReader(cmd.InOrStdin()), cmd.ErrOrStderr())
	}
	r := intent_router.New(a, cmd.OutOrStdout(), confirm)
	return r, func() {
		a.Close()
		_ = a.Logger().Sync()
	}, nil
}

func dispatch(cmd *cobra.Command, provide routerProvider, req *intent_router.Request) error {
	r, release, err := provide(cmd)
	if err != nil {
		return err
	}
	defer release()
	return r.Dispatch(cmd.Context(), req)
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// lineConfirmer asks on out and reads one answer line from in. Only y or yes confirms.
// lineConfirmer 终端确认，只有 y 或 yes 表示确认
func lineConfirmer(in *bufio.Reader, out io.Writer) service.Confirmer {
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

// readPassword 未通过参数提供密码时从终端读取
func readPassword(cmd *cobra.Command, given, prompt string) (string, error) {
	if given != "" {
		return given, nil
	}
	if !stdinIsTerminal() {
		return "", code.ErrorInvalidParams.Clone().WithDetails("password is required")
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", code.ErrorInvalidParams.Clone().WithDetails("read password").WithCause(err)
	}
	return string(b), nil
}
