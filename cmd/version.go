package cmd

import (
	"fmt"

	"github.com/haierkeys/fast-note-board/internal/app"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print out version info and exit. // 打印版本信息并退出。",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "v%s ( Git:%s ) BuildTime:%s\n", app.Version, app.GitTag, app.BuildTime)
		},
	}
}
