package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/haierkeys/fast-note-board/pkg/code"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// globalFlags 所有子命令共享的参数
type globalFlags struct {
	config string // Specified configuration file path // 指定要使用的配置文件路径
}

var flags = new(globalFlags)

var rootCmd = newRootCmd(clientRouter)

// newRootCmd builds the command tree. The shell builds its own tree per
// line with a provider bound to one long-lived router.
// newRootCmd 构建命令树
func newRootCmd(provide routerProvider) *cobra.Command {
	root := &cobra.Command{
		Use:           "fast-note-board",
		Short:         "Fast Note Board, a shared sticky-note board",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	root.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "config file")

	root.AddCommand(newVersionCmd())
	addClientCommands(root, provide)
	return root
}

func init() {
	rootCmd.AddCommand(newShellCmd(), newServeCmd())
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError prints a catalog error as its message plus details, anything else verbatim.
// printError 输出错误信息
func printError(w io.Writer, err error) {
	style := lipgloss.NewRenderer(w).NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	msg := err.Error()
	if c := code.Of(err); c != nil {
		msg = c.Error()
	}
	fmt.Fprintln(w, style.Render("Error:"), msg)
}
