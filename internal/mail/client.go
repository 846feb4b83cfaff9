// Package mail owns the IMAP side of the relay: the session lifecycle
// against the mail server, message parsing, and the per-folder scan that
// feeds the notification sink.
package mail

import (
	"context"
	"fmt"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"go.uber.org/zap"
)

// AuthError indicates the IMAP server rejected the configured
// credentials. The poll loop treats it like any per-iteration failure,
// but it is kept distinct so logs name the account.
type AuthError struct {
	Account string
	Err     error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed for %s: %v", e.Account, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Credentials holds the mail account login pair.
type Credentials struct {
	Account  string
	Password string
}

// Client dials and authenticates IMAP sessions. It holds no connection
// itself; every WithSession call opens a fresh one.
type Client struct {
	addr  string
	creds Credentials
	tls   bool
	log   *zap.Logger
}

// NewClient creates a session factory for the given server address
// ("host:port") and credentials.
func NewClient(addr string, creds Credentials, useTLS bool, log *zap.Logger) *Client {
	return &Client{
		addr:  addr,
		creds: creds,
		tls:   useTLS,
		log:   log,
	}
}

// WithSession connects, logs in, hands the authenticated session to fn,
// and logs out when fn returns, whether it succeeded or not. Connection
// and login failures are returned to the caller; nothing is retried
// here — retry policy belongs to the poll loop.
func (c *Client) WithSession(ctx context.Context, fn func(*Session) error) error {
	client, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Logout().Wait(); err != nil {
			c.log.Warn("imap logout failed", zap.Error(err))
		}
	}()

	return fn(&Session{client: client})
}

func (c *Client) connect(_ context.Context) (*imapclient.Client, error) {
	var client *imapclient.Client
	var err error

	if c.tls {
		client, err = imapclient.DialTLS(c.addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(c.addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", c.addr, err)
	}

	if err := client.Login(c.creds.Account, c.creds.Password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, &AuthError{Account: c.creds.Account, Err: err}
	}

	return client, nil
}

// Session is one authenticated IMAP connection. It selects one folder at
// a time and lives for a single poll pass.
type Session struct {
	client *imapclient.Client
}

// Select makes folder the session's current mailbox. A missing or
// inaccessible folder surfaces as an error the scanner treats as
// recoverable.
func (s *Session) Select(folder string) error {
	if _, err := s.client.Select(folder, nil).Wait(); err != nil {
		return fmt.Errorf("selecting folder %s: %w", folder, err)
	}
	return nil
}

// SearchUnseen returns the UIDs of all messages in the selected folder
// that are not flagged \Seen at the moment of the search.
func (s *Session) SearchUnseen() ([]imap.UID, error) {
	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
	}

	data, err := s.client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching unseen messages: %w", err)
	}
	return data.AllUIDs(), nil
}

// Fetch retrieves a message by UID and parses its MIME body. The body
// section is fetched with Peek so the server does not set \Seen as a
// side effect; the scanner decides that after delivery.
func (s *Session) Fetch(uid imap.UID) (*RawMessage, error) {
	uidSet := imap.UIDSetNum(uid)

	bodySection := &imap.FetchItemBodySection{Peek: true}
	fetchOpts := &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := s.client.Fetch(uidSet, fetchOpts)
	defer fetchCmd.Close()

	msg := fetchCmd.Next()
	if msg == nil {
		return nil, fmt.Errorf("message UID %d not found", uid)
	}

	buf, err := msg.Collect()
	if err != nil {
		return nil, fmt.Errorf("collecting message data: %w", err)
	}

	raw := buf.FindBodySection(bodySection)
	if raw == nil {
		return nil, fmt.Errorf("message UID %d has no body section", uid)
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("fetching message: %w", err)
	}

	return parseMessage(uid, raw), nil
}

// MarkSeen sets the \Seen flag on a message. Called only after the
// notification sink confirmed delivery.
func (s *Session) MarkSeen(uid imap.UID) error {
	uidSet := imap.UIDSetNum(uid)

	storeCmd := s.client.Store(uidSet, &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}, nil)

	if err := storeCmd.Close(); err != nil {
		return fmt.Errorf("marking UID %d seen: %w", uid, err)
	}
	return nil
}
