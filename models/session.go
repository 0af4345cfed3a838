package models

// Session is the current authentication identity and its readiness state.
// Ready transitions false -> true exactly once per process, after the
// identity provider's first notification; UserID may change any number of
// times afterwards (sign-in, sign-out, account switch).
type Session struct {
	UserID string `json:"userId"`
	Ready  bool   `json:"ready"`
}

// SignedIn reports whether a resolved identity is present.
func (s Session) SignedIn() bool {
	return s.Ready && s.UserID != ""
}
