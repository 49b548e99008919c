package http

import "net/http"

const (
	AuthSchemeBearer = "Bearer"
	AuthSchemeAPIKey = "Api-Key"
)

type authTransport struct {
	scheme    string
	token     string
	transport http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())

	if t.token != "" {
		reqCopy.Header.Set("Authorization", t.scheme+" "+t.token)
	}

	return t.transport.RoundTrip(reqCopy)
}

// WithAuthToken sends the token as a bearer credential.
func WithAuthToken(token string) HttpOpts {
	return WithAuthScheme(AuthSchemeBearer, token)
}

// WithAuthScheme sends "Authorization: <scheme> <token>" on every request.
func WithAuthScheme(scheme, token string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &authTransport{
			scheme:    scheme,
			token:     token,
			transport: rt,
		}
	})
}
