package issuekit

import "context"

type loginKey struct{}

// WithLogin returns a context attributing changes to login.
func WithLogin(ctx context.Context, login string) context.Context {
	return context.WithValue(ctx, loginKey{}, login)
}

// LoginFromContext returns the login set with WithLogin.
func LoginFromContext(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(loginKey{}).(string)
	return login, ok
}
