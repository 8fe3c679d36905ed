package testutil

import (
	"net/http"

	id "lotolink/pkg/domain"
	"lotolink/pkg/requestcontext"
)

// WithPrincipal attaches an authenticated user and role to the request,
// mirroring what the access-token middleware does.
// An invalid userID is silently ignored.
func WithPrincipal(req *http.Request, userID, role string) *http.Request {
	ctx := req.Context()
	if parsed, err := id.ParseUserID(userID); err == nil {
		ctx = requestcontext.WithUserID(ctx, parsed)
	}
	if role != "" {
		ctx = requestcontext.WithRole(ctx, role)
	}
	return req.WithContext(ctx)
}
