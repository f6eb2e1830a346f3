package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"

	"github.com/spelunkhq/spelunk/internal/errdef"
)

// RunWizard prompts for credentials on stdin/stdout and persists them.
// The token goes to the OS keyring when available; on keyring failure it
// falls back to the TOML file in plaintext. A token stored in the keyring
// is removed from the file so only one copy survives.
func RunWizard(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	fmt.Fprintln(out, "Welcome to the spelunk configuration wizard.")
	fmt.Fprintln(out)

	fmt.Fprint(out, "Splunk base URL: ")
	baseURL, err := readLine(reader)
	if err != nil {
		return errdef.Wrap(errdef.CodeIO, err, "read base URL")
	}

	fmt.Fprint(out, "Splunk token (hidden): ")
	token, err := readSecret(reader)
	fmt.Fprintln(out)
	if err != nil {
		return errdef.Wrap(errdef.CodeIO, err, "read token")
	}

	fmt.Fprint(out, "Verify SSL? [Y/n]: ")
	verifyAnswer, err := readLine(reader)
	if err != nil {
		return errdef.Wrap(errdef.CodeIO, err, "read verify-ssl answer")
	}
	verifySSL := true
	switch strings.ToLower(verifyAnswer) {
	case "n", "no", "false":
		verifySSL = false
	}

	inKeyring := false
	if err := keyring.Set(KeyringService, KeyringUser, token); err != nil {
		fmt.Fprintf(out, "Warning: keyring unavailable (%v); storing token in config file.\n", err)
	} else {
		inKeyring = true
		fmt.Fprintln(out, "Token stored in the OS keyring.")
	}

	fc, err := readFile(FilePath())
	if err != nil && !os.IsNotExist(err) {
		return errdef.Wrap(errdef.CodeIO, err, "read existing config")
	}
	fc.BaseURL = &baseURL
	fc.VerifySSL = &verifySSL
	if inKeyring {
		fc.Token = nil
	} else {
		fc.Token = &token
	}

	if err := writeFile(FilePath(), fc); err != nil {
		return err
	}
	fmt.Fprintf(out, "Configuration saved to %s\n", FilePath())
	return nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readSecret hides input when stdin is a terminal and falls back to a plain
// line read otherwise (tests, pipes).
func readSecret(r *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(raw)), nil
	}
	return readLine(r)
}
