package mailbox

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

// IMAPClient implements Client over go-imap v2. One connection is
// held for the lifetime of a sync invocation and reused across
// folders.
type IMAPClient struct {
	host     string
	port     int
	username string
	password string
	tls      bool

	client *imapclient.Client
}

// NewIMAPClient creates an IMAP client configuration. No connection
// is made until Connect.
func NewIMAPClient(host string, port int, username, password string, useTLS bool) *IMAPClient {
	return &IMAPClient{
		host:     host,
		port:     port,
		username: username,
		password: password,
		tls:      useTLS,
	}
}

// Connect dials the IMAP server and authenticates.
func (c *IMAPClient) Connect(_ context.Context) error {
	addr := fmt.Sprintf("%s:%d", c.host, c.port)

	var client *imapclient.Client
	var err error
	if c.tls {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to IMAP %s: %w", addr, err)
	}

	if err := client.Login(c.username, c.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return fmt.Errorf("failed to authenticate %s: %w", c.username, err)
	}

	c.client = client
	return nil
}

// Disconnect logs out and drops the connection.
func (c *IMAPClient) Disconnect() error {
	if c.client == nil {
		return nil
	}
	err := c.client.Logout().Wait()
	c.client = nil
	if err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	return nil
}

// OpenFolder selects a folder on the current connection.
func (c *IMAPClient) OpenFolder(_ context.Context, name string, readOnly bool) (*FolderStatus, error) {
	if c.client == nil {
		return nil, fmt.Errorf("not connected")
	}
	data, err := c.client.Select(name, &imap.SelectOptions{ReadOnly: readOnly}).Wait()
	if err != nil {
		return nil, fmt.Errorf("failed to select folder %s: %w", name, err)
	}
	return &FolderStatus{Name: name, Total: data.NumMessages}, nil
}

// Fetch retrieves raw messages matching the window from the currently
// selected folder. Bodies are fetched with BODY.PEEK so the server
// does not flip the \Seen flag.
func (c *IMAPClient) Fetch(_ context.Context, window Window) ([]RawMessage, error) {
	if c.client == nil {
		return nil, fmt.Errorf("not connected")
	}

	var uidSet imap.UIDSet
	if window.All() {
		uidSet.AddRange(1, 0)
	} else {
		uidSet.AddRange(imap.UID(window.StartUID), 0)
	}

	bodySection := &imap.FetchItemBodySection{Peek: true}
	fetchOpts := &imap.FetchOptions{
		UID:         true,
		Flags:       true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := c.client.Fetch(uidSet, fetchOpts)
	defer fetchCmd.Close()

	var raws []RawMessage
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}
		buf, err := msg.Collect()
		if err != nil {
			continue
		}

		raw := RawMessage{UID: uint32(buf.UID)}
		for _, flag := range buf.Flags {
			raw.Flags = append(raw.Flags, string(flag))
		}
		if body := buf.FindBodySection(bodySection); body != nil {
			raw.Body = bytes.Clone(body)
		}
		raws = append(raws, raw)
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", window.Criteria(), err)
	}
	return raws, nil
}

// Parse turns a raw message into structured fields.
func (c *IMAPClient) Parse(raw RawMessage) (*ParsedMessage, error) {
	parsed, err := parseRaw(raw.Body)
	if err != nil {
		return nil, err
	}
	parsed.UID = raw.UID
	parsed.Flags = raw.Flags
	return parsed, nil
}

// Append uploads a raw message to the given folder.
func (c *IMAPClient) Append(_ context.Context, folder string, flags []string, raw []byte) error {
	if c.client == nil {
		return fmt.Errorf("not connected")
	}

	var imapFlags []imap.Flag
	for _, f := range flags {
		imapFlags = append(imapFlags, imap.Flag(f))
	}
	opts := &imap.AppendOptions{
		Flags: imapFlags,
		Time:  time.Now(),
	}

	appendCmd := c.client.Append(folder, int64(len(raw)), opts)
	if _, err := appendCmd.Write(raw); err != nil {
		_ = appendCmd.Close()
		return fmt.Errorf("failed to write appended message: %w", err)
	}
	if err := appendCmd.Close(); err != nil {
		return fmt.Errorf("failed to close append: %w", err)
	}
	if _, err := appendCmd.Wait(); err != nil {
		return fmt.Errorf("failed to append to %s: %w", folder, err)
	}
	return nil
}
