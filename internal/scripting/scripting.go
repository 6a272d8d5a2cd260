// Package scripting is the write path. The Things database must never
// be written directly, so mutations are templated into the app's URL
// scheme and handed to the system opener. Everything here is
// best-effort: the scheme offers no result channel, and a failure to
// deliver a command is logged and swallowed rather than surfaced as an
// API error.
package scripting

import (
	"fmt"
	"log"
	"net/url"
	"os/exec"
	"strings"
)

// Runner delivers a command URL to the Things app. Swapped for a fake
// in tests.
type Runner interface {
	Open(commandURL string) error
}

// OpenRunner delivers URLs via the macOS open(1) command. The -g flag
// keeps Things from stealing focus on every API write.
type OpenRunner struct{}

func (OpenRunner) Open(commandURL string) error {
	return exec.Command("open", "-g", commandURL).Run()
}

// Client templates Things URL-scheme commands.
type Client struct {
	runner Runner
}

// NewClient creates a write-path client using the system opener.
func NewClient() *Client {
	return &Client{runner: OpenRunner{}}
}

// NewClientWithRunner creates a client with a custom runner.
func NewClientWithRunner(r Runner) *Client {
	return &Client{runner: r}
}

// AddCommand describes a new to-do.
type AddCommand struct {
	Title    string
	Notes    string
	When     string // "today", "someday", or a yyyy-mm-dd date
	Deadline string
	Tags     []string
	List     string // project or area title
}

// Add asks Things to create a to-do. Best effort: a delivery failure is
// logged, never returned, because the scheme cannot report success
// anyway and a lost write must not fail the HTTP request that carried
// it.
func (c *Client) Add(cmd AddCommand) {
	v := url.Values{}
	v.Set("title", cmd.Title)
	if cmd.Notes != "" {
		v.Set("notes", cmd.Notes)
	}
	if cmd.When != "" {
		v.Set("when", cmd.When)
	}
	if cmd.Deadline != "" {
		v.Set("deadline", cmd.Deadline)
	}
	if len(cmd.Tags) > 0 {
		v.Set("tags", strings.Join(cmd.Tags, ","))
	}
	if cmd.List != "" {
		v.Set("list", cmd.List)
	}

	c.deliver(BuildURL("add", v))
}

// Complete asks Things to mark a to-do completed by identifier.
func (c *Client) Complete(id, authToken string) {
	v := url.Values{}
	v.Set("id", id)
	v.Set("completed", "true")
	if authToken != "" {
		v.Set("auth-token", authToken)
	}

	c.deliver(BuildURL("update", v))
}

func (c *Client) deliver(commandURL string) {
	if err := c.runner.Open(commandURL); err != nil {
		log.Printf("scripting: failed to deliver %s command: %v", commandKind(commandURL), err)
	}
}

// BuildURL assembles a things:/// command URL with percent-encoded
// parameters.
func BuildURL(command string, params url.Values) string {
	return fmt.Sprintf("things:///%s?%s", command, params.Encode())
}

func commandKind(commandURL string) string {
	u, err := url.Parse(commandURL)
	if err != nil {
		return "unknown"
	}
	return strings.TrimPrefix(u.Path, "/")
}
