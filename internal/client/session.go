package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// SavedSession is what the CLI keeps on disk between invocations.
type SavedSession struct {
	BaseURL   string        `json:"base_url"`
	CSRFToken string        `json:"csrf_token,omitempty"`
	Cookies   []SavedCookie `json:"cookies"`
	// TwoFactor is the challenge id of a login waiting for its token.
	TwoFactor string `json:"two_factor,omitempty"`
}

type SavedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitempty"`
}

// Snapshot captures the cookies the jar would send to the base URL.
func (c *Client) Snapshot() SavedSession {
	out := SavedSession{
		BaseURL:   c.baseURL.String(),
		CSRFToken: c.csrfToken,
		Cookies:   []SavedCookie{},
		TwoFactor: c.twoFactor,
	}
	for _, ck := range c.jar.Cookies(c.baseURL) {
		out.Cookies = append(out.Cookies, SavedCookie{Name: ck.Name, Value: ck.Value, Expires: ck.Expires})
	}
	return out
}

// Restore loads s into the jar. A session saved for another base URL is
// ignored.
func (c *Client) Restore(s SavedSession) {
	if s.BaseURL != "" && s.BaseURL != c.baseURL.String() {
		return
	}
	now := time.Now()
	cookies := make([]*http.Cookie, 0, len(s.Cookies))
	for _, sc := range s.Cookies {
		if !sc.Expires.IsZero() && now.After(sc.Expires) {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: sc.Name, Value: sc.Value, Path: "/", Expires: sc.Expires})
	}
	c.jar.SetCookies(c.baseURL, cookies)
	c.csrfToken = s.CSRFToken
	c.twoFactor = s.TwoFactor
}

// LoadSession restores the session stored at path. A missing file is not an
// error.
func (c *Client) LoadSession(path string) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read session file: %w", err)
	}
	var s SavedSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("parse session file: %w", err)
	}
	c.Restore(s)
	return nil
}

// SaveSession writes the current session to path with owner-only permissions.
func (c *Client) SaveSession(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	raw, err := json.MarshalIndent(c.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// ClearSession removes the stored session, if any.
func ClearSession(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
