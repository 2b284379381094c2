package filters

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// SessionName is the cookie session holding the filter entry and visitor id.
const SessionName = "pressfront_session"

const visitorKey = "visitor"

// SessionSlot stores the entry in the visitor's cookie session. It needs
// the echo-contrib session middleware on the request.
type SessionSlot struct {
	c echo.Context
}

// NewSessionSlot returns a slot bound to the request in c.
func NewSessionSlot(c echo.Context) *SessionSlot {
	return &SessionSlot{c: c}
}

// getSession returns the filter session. A cookie that no longer decodes (for
// example after a secret rotation) yields a fresh session.
func getSession(c echo.Context) (*sessions.Session, error) {
	sess, err := session.Get(SessionName, c)
	if sess == nil {
		return nil, err
	}
	return sess, nil
}

func (s *SessionSlot) Read(context.Context) ([]byte, error) {
	sess, err := getSession(s.c)
	if err != nil {
		return nil, err
	}
	v, ok := sess.Values[EntryName].(string)
	if !ok || v == "" {
		return nil, ErrEmpty
	}
	return []byte(v), nil
}

func (s *SessionSlot) Write(_ context.Context, data []byte) error {
	sess, err := getSession(s.c)
	if err != nil {
		return err
	}
	sess.Values[EntryName] = string(data)
	return sess.Save(s.c.Request(), s.c.Response())
}

func (s *SessionSlot) Remove(context.Context) error {
	sess, err := getSession(s.c)
	if err != nil {
		return err
	}
	if _, ok := sess.Values[EntryName]; !ok {
		return nil
	}
	delete(sess.Values, EntryName)
	return sess.Save(s.c.Request(), s.c.Response())
}

// VisitorID returns the random visitor id kept in the session, creating
// and saving one on first use.
func VisitorID(c echo.Context) (string, error) {
	sess, err := getSession(c)
	if err != nil {
		return "", err
	}
	if id, ok := sess.Values[visitorKey].(string); ok && id != "" {
		return id, nil
	}
	id := uuid.NewString()
	sess.Values[visitorKey] = id
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return "", fmt.Errorf("save visitor id: %w", err)
	}
	return id, nil
}
