package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pocketdigest/pocketdigest/pkg/cache"
	"github.com/pocketdigest/pocketdigest/pkg/integrations/lastfm"
)

// authCommand creates the auth command with subcommands.
func (c *CLI) authCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorise access to services",
	}
	cmd.AddCommand(c.authLastFMCommand())
	return cmd
}

// authLastFMCommand creates the lastfm subcommand.
func (c *CLI) authLastFMCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lastfm",
		Short: "Obtain a Last.fm session key for recommended events",
		Long: `Run the Last.fm desktop authorisation flow.

Needs api_key and secret in the [lastfm] section. You approve access in the
browser, then the session key is printed for the session_key setting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			client := lastfm.NewClient(cache.NewNullCache(), cfg.Settings(), cfg.LastFM)
			sess, err := runLastFMAuth(cmd.Context(), client, os.Stdin, openBrowser)
			if err != nil {
				return err
			}

			printNewline()
			printSuccess("Authorised as %s", sess.Name)
			printNewline()
			printDetail("Add this to the [lastfm] section of your config:")
			fmt.Fprintln(out, StyleValue.Render(fmt.Sprintf("session_key = %q", sess.Key)))
			return nil
		},
	}
}

// lastfmAuthenticator is the part of the Last.fm client the flow uses.
type lastfmAuthenticator interface {
	Token(ctx context.Context) (string, error)
	AuthURL(token string) string
	Session(ctx context.Context, token string) (lastfm.Session, error)
}

// runLastFMAuth requests a token, shows the approval page and exchanges the
// token for a session once the user presses Enter.
func runLastFMAuth(ctx context.Context, client lastfmAuthenticator, in io.Reader, open func(string) error) (lastfm.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	token, err := client.Token(ctx)
	if err != nil {
		return lastfm.Session{}, fmt.Errorf("request token: %w", err)
	}
	authURL := client.AuthURL(token)

	printNewline()
	printTitle("Last.fm authorisation")
	printNewline()
	printKeyValue("URL", StyleLink.Render(authURL))
	printNewline()
	if err := open(authURL); err != nil {
		printDetail("Copy the URL above and paste it in your browser")
	} else {
		printDetail("Opening browser...")
	}
	printInline("Press Enter once you have allowed access...")

	if err := waitForEnter(ctx, in); err != nil {
		printNewline()
		return lastfm.Session{}, err
	}

	sess, err := client.Session(ctx, token)
	if err != nil {
		return lastfm.Session{}, fmt.Errorf("fetch session: %w", err)
	}
	return sess, nil
}

// waitForEnter blocks until a line is read from in or ctx is done.
func waitForEnter(ctx context.Context, in io.Reader) error {
	read := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(in).ReadString('\n')
		if err == io.EOF {
			err = nil
		}
		read <- err
	}()
	select {
	case err := <-read:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
