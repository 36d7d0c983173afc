package client

import "net/http"

// Transport attaches the session's bearer token and reacts to auth
// failures: a 401 logs the session out, a 403 navigates to the dashboard.
// The response itself is returned untouched.
type Transport struct {
	Base    http.RoundTripper
	Session *Session
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token := t.Session.Token(); token != "" && req.Header.Get("Authorization") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		t.Session.Logout()
	case http.StatusForbidden:
		t.Session.navigate(DashboardPath)
	}
	return resp, nil
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
