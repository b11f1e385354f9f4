package intent_router

import (
	"context"

	"github.com/haierkeys/fast-note-board/internal/domain"
)

func (r *Router) login(ctx context.Context, req *Request) error {
	session, err := r.app.Session.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	r.printf("Signed in as %s\n", userEmail(session.User))
	return nil
}

func (r *Router) signUp(ctx context.Context, req *Request) error {
	session, pending, err := r.app.Session.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	if pending {
		r.printf("Check your inbox to confirm %s, then sign in.\n", req.Email)
		return nil
	}
	r.printf("Account created. Signed in as %s\n", userEmail(session.User))
	return nil
}

func (r *Router) logout(ctx context.Context, req *Request) error {
	if err := r.app.Session.Logout(ctx); err != nil {
		return err
	}
	r.printf("Signed out.\n")
	return nil
}

func (r *Router) resend(ctx context.Context, req *Request) error {
	if err := r.app.Session.Resend(ctx, req.Email); err != nil {
		return err
	}
	r.printf("Confirmation email sent to %s\n", req.Email)
	return nil
}

func (r *Router) oauth(ctx context.Context, req *Request) error {
	u, err := r.app.Session.OAuthURL(ctx, req.Provider, req.RedirectTo)
	if err != nil {
		return err
	}
	r.printf("Open this URL to continue:\n%s\n", u)
	return nil
}

func (r *Router) whoAmI(ctx context.Context, req *Request) error {
	user, err := r.app.Session.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		r.printf("Not signed in.\n")
		return nil
	}
	r.printf("%s (%s)\n", userEmail(user), user.ID)
	return nil
}

func (r *Router) account(ctx context.Context, req *Request) error {
	user, err := r.app.Session.UpdateAccount(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	r.printf("Account updated: %s\n", userEmail(user))
	return nil
}

func userEmail(u *domain.User) string {
	if u == nil || u.Email == "" {
		return "unknown user"
	}
	return u.Email
}
