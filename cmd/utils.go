package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/chukul/aimsctl/internal"
	"golang.org/x/term"
)

// mustGetSecret resolves the store encryption key from the flag, the
// AIMSCTL_SECRET env var or the macOS keychain, and exits when none exists.
func mustGetSecret(explicit string) string {
	secret, err := internal.GetSecret(explicit)
	if err != nil {
		log.Fatal("Error: no encryption secret found. Pass --secret, set AIMSCTL_SECRET, or run 'aimsctl secret import'.")
	}
	return secret
}

// sessionFromStore rebuilds a live session from a stored profile. The token
// and account id are pinned, so the session never re-authenticates.
func sessionFromStore(profile, secret string) (*internal.Session, *internal.StoredSession, error) {
	stored, err := internal.LoadSession(profile, secret)
	if err != nil {
		return nil, nil, err
	}
	sess, err := internal.NewSession(
		internal.WithToken(stored.Token),
		internal.WithAccountID(stored.AccountID),
		internal.WithGlobalEndpoint(stored.GlobalEndpoint),
		internal.WithResidency(stored.Residency),
	)
	if err != nil {
		return nil, nil, err
	}
	return sess, stored, nil
}

// readPassword reads a masked line from the terminal, used as a fallback
// when a secret has to be typed in a non-interactive prompt context.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func truncateText(text string, max int) string {
	if len(text) > max {
		return text[:max-3] + "..."
	}
	return text
}
