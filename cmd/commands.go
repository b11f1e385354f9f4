package cmd

import (
	"github.com/haierkeys/fast-note-board/internal/routers/intent_router"

	"github.com/spf13/cobra"
)

// addClientCommands registers every board command on root.
// addClientCommands 注册客户端命令
func addClientCommands(root *cobra.Command, provide routerProvider) {
	root.AddCommand(
		newLoginCmd(provide),
		newSignUpCmd(provide),
		newLogoutCmd(provide),
		newResendCmd(provide),
		newOAuthCmd(provide),
		newWhoAmICmd(provide),
		newAccountCmd(provide),

		newListCmd(provide),
		newShowCmd(provide),
		newNoteCmd(provide, intent_router.IntentNew),
		newNoteCmd(provide, intent_router.IntentEdit),
		newPinCmd(provide),
		newDeleteCmd(provide),

		newExportCmd(provide),
		newImportCmd(provide),
		newClearCmd(provide),
	)
}

func newLoginCmd(provide routerProvider) *cobra.Command {
	var email, password string
	c := &cobra.Command{
		Use:   "login [--email] [--password]",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password, "Password: ")
			if err != nil {
				return err
			}
			return dispatch(cmd, provide, &intent_router.Request{Intent: intent_router.IntentLogin, Email: email, Password: pw})
		},
	}
	c.Flags().StringVarP(&email, "email", "e", "", "account email")
	c.Flags().StringVarP(&password, "password", "p", "", "password, prompted when omitted")
	return c
}

func newSignUpCmd(provide routerProvider) *cobra.Command {
	var email, password string
	c := &cobra.Command{
		Use:   "signup --email <email> [--password]",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd, password, "Choose a password: ")
			if err != nil {
				return err
			}
			return dispatch(cmd, provide, &intent_router.Request{Intent: intent_router.IntentSignUp, Email: email, Password: pw})
		},
	}
	c.Flags().StringVarP(&email, "email", "e", "", "account email")
	c.Flags().StringVarP(&password, "password", "p", "", "password, prompted when omitted")
	return c
}

func newLogoutCmd(provide routerProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, provide, &intent_router.Request{Intent: intent_router.IntentLogout})
		},
	}
}

func newResendCmd(provide routerProvider) *cobra.Command {
	var email string
	c := &cobra.Command{
		Use:   "resend --email <email>",
		Short: "Send the confirmation email again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, provide, &intent_router.Request{Intent: intent_router.IntentResend, Email: email})
		},
	}
	c.Flags().StringVarP(&email, "email", "e", "", "account email")
	return c
}

func newOAuthCmd(provide routerProvider) *cobra.Command {
	var provider, redirectTo string
	c := &cobra.Command{
		Use:   "oauth --provider <name> [--redirect-to url]",
		Short: "Print the sign-in URL of a third-party provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, provide, &intent_router.Request{
				Intent:     intent_router.IntentOAuth,
				Provider:   provider,
				RedirectTo: redirectTo,
			})
		},
	}
	c.Flags().StringVar(&provider, "provider", "github", "provider name")
	c.Flags().StringVar(&redirectTo, "redirect-to", "", "where the provider sends the browser back")
	return c
}

func newWhoAmICmd(provide routerProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, provide, &intent_router.Request{Intent: intent_router.IntentWhoAmI})
		},
	}
}

func newAccountCmd(provide routerProvider) *cobra.Command {
	var email, password string
	var changePassword bool
	c := &cobra.Command{
		Use:   "account [--email] [--password]",
		Short: "Change the email or password of the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw := password
			if changePassword && pw == "" {
				var err error
				if pw, err = readPassword(cmd, "", "New password: "); err != nil {
					return err
				}
			}
			return dispatch(cmd, provide, &intent_router.Request{Intent: intent_router.IntentAccount, Email: email, Password: pw})
		},
	}
	c.Flags().StringVarP(&email, "email", "e", "", "new email")
	c.Flags().StringVarP(&password, "password", "p", "", "new password")
	c.Flags().BoolVar(&changePassword, "change-password", false, "prompt for a new password")
	return c
}

func newListCmd(provide routerProvider) *cobra.Command {
	var view, search, sortMode string
	var asJSON bool
	c := &cobra.Command{
		Use:     "list [--view mine|public] [--search q] [--sort mode] [--json]",
		Aliases: []string{"ls"},
		Short:   "List notes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &intent_router.Request{Intent: intent_router.IntentList, View: view, Sort: sortMode, JSON: asJSON}
			if cmd.Flags().Changed("search") {
				req.Search = &search
			}
			return dispatch(cmd, provide, req)
		},
	}
	c.Flags().StringVar(&view, "view", "", "mine or public")
	c.Flags().StringVarP(&search, "search", "s", "", "filter by title, content or tag")
	c.Flags().StringVar(&sortMode, "sort", "", "updated_desc, created_desc, created_asc or title_asc")
	c.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return c
}

func newShowCmd(provide routerProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one note in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, provide, &intent_router.Request{Intent: intent_router.IntentShow, ID: args[0]})
		},
	}
}

// noteFlags 新建与编辑共用的笔记参数
type noteFlags struct {
	title, content, tags, color, image string
	pin, public, clearImage            bool
}

func (f *noteFlags) bind(c *cobra.Command) {
	fs := c.Flags()
	fs.StringVarP(&f.title, "title", "t", "", "title")
	fs.StringVar(&f.content, "content", "", "content")
	fs.StringVar(&f.tags, "tags", "", "comma separated tags")
	fs.StringVar(&f.color, "color", "", "card color, #rrggbb")
	fs.StringVar(&f.image, "image", "", "image file to attach")
	fs.BoolVar(&f.pin, "pin", false, "pin the note")
	fs.BoolVar(&f.public, "public", false, "share the note on the public board")
	fs.BoolVar(&f.clearImage, "clear-image", false, "remove the attached image")
}

// input 只包含显式指定的字段
func (f *noteFlags) input(c *cobra.Command) intent_router.NoteInput {
	fs := c.Flags()
	in := intent_router.NoteInput{Image: f.image, ClearImage: f.clearImage}
	if fs.Changed("title") {
		in.Title = &f.title
	}
	if fs.Changed("content") {
		in.Content = &f.content
	}
	if fs.Changed("tags") {
		in.Tags = &f.tags
	}
	if fs.Changed("color") {
		in.Color = &f.color
	}
	if fs.Changed("pin") {
		in.Pinned = &f.pin
	}
	if fs.Changed("public") {
		in.Public = &f.public
	}
	return in
}

func newNoteCmd(provide routerProvider, intent string) *cobra.Command {
	f := new(noteFlags)
	c := &cobra.Command{
		Use:   "new [note flags]",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &intent_router.Request{Intent: intent, Note: f.input(cmd)}
			if len(args) > 0 {
				req.ID = args[0]
			}
			return dispatch(cmd, provide, req)
		},
	}
	if intent == intent_router.IntentEdit {
		c.Use = "edit <id> [note flags]"
		c.Short = "Edit one of your notes"
		c.Args = cobra.ExactArgs(1)
	}
	f.bind(c)
	return c
}

func newPinCmd(provide routerProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "pin <id>",
		Short: "Pin or unpin one of your notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, provide, &intent_router.Request{Intent: intent_router.IntentPin, ID: args[0]})
		},
	}
}

func newDeleteCmd(provide routerProvider) *cobra.Command {
	var yes bool
	c := &cobra.Command{
		Use:     "delete <id> [--yes]",
		Aliases: []string{"rm"},
		Short:   "Delete one of your notes",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, provide, &intent_router.Request{Intent: intent_router.IntentDelete, ID: args[0], Yes: yes})
		},
	}
	c.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return c
}

func newExportCmd(provide routerProvider) *cobra.Command {
	var output string
	c := &cobra.Command{
		Use:   "export [-o file]",
		Short: "Export your notes as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, provide, &intent_router.Request{Intent: intent_router.IntentExport, File: output})
		},
	}
	c.Flags().StringVarP(&output, "output", "o", "", "output file, stdout when omitted")
	return c
}

func newImportCmd(provide routerProvider) *cobra.Command {
	var mode string
	var yes bool
	c := &cobra.Command{
		Use:   "import <file> [--mode merge|replace] [--yes]",
		Short: "Import notes from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, provide, &intent_router.Request{
				Intent: intent_router.IntentImport,
				File:   args[0],
				Mode:   mode,
				Yes:    yes,
			})
		},
	}
	c.Flags().StringVar(&mode, "mode", "merge", "merge or replace")
	c.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return c
}

func newClearCmd(provide routerProvider) *cobra.Command {
	var yes bool
	c := &cobra.Command{
		Use:   "clear [--yes]",
		Short: "Delete all of your notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, provide, &intent_router.Request{Intent: intent_router.IntentClear, Yes: yes})
		},
	}
	c.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return c
}
