package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/klabast/wb-services/holiday-planner/internal/app"
)

func newHashPasswordCmd() *cobra.Command {
	var overwrite, insecureUnmask bool

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Create the Basic Auth file for the web API",
		Long: "Creates an auth file with a hashed password (Argon2id).\n\n" +
			"The file location comes from auth.file in the configuration or the " +
			app.EnvAuthFile + " environment variable (default: ./" + app.DefaultAuthFile + ").",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig(configFilePath)
			if err != nil {
				return err
			}
			return hashPassword(cfg.Auth.File, overwrite, insecureUnmask, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing auth file without asking")
	cmd.Flags().BoolVar(&insecureUnmask, "insecure-unmask-password", false, "Show password as plain text (INSECURE!)")
	return cmd
}

func hashPassword(path string, overwrite, insecureUnmask bool, in io.Reader, out, errOut io.Writer) error {
	reader := bufio.NewReader(in)

	// Prompt for username
	fmt.Fprint(out, "Enter username: ")
	username, err := readLine(reader)
	if err != nil {
		return fmt.Errorf("error reading username: %w", err)
	}
	if username == "" {
		return errors.New("username cannot be empty")
	}

	// Prompt for password
	var password, passwordConfirm string

	if insecureUnmask || !term.IsTerminal(int(syscall.Stdin)) {
		if insecureUnmask {
			fmt.Fprintf(errOut, "⚠️  WARNING: Password will be visible on screen!\n")
		}
		fmt.Fprint(out, "Enter password:   ")
		if password, err = readLine(reader); err != nil {
			return fmt.Errorf("error reading password: %w", err)
		}
		fmt.Fprint(out, "Confirm password: ")
		if passwordConfirm, err = readLine(reader); err != nil {
			return fmt.Errorf("error reading password confirmation: %w", err)
		}
	} else {
		// Masked mode with asterisks (default, secure)
		fd := int(syscall.Stdin)
		if password, err = readPasswordWithMask(fd, reader, out, "Enter password:   "); err != nil {
			return fmt.Errorf("error reading password: %w", err)
		}
		if passwordConfirm, err = readPasswordWithMask(fd, reader, out, "Confirm password: "); err != nil {
			return fmt.Errorf("error reading password confirmation: %w", err)
		}
	}

	if password == "" {
		return errors.New("password cannot be empty")
	}
	if password != passwordConfirm {
		return errors.New("passwords do not match")
	}

	return app.CreateAuthFile(path, username, password, overwrite, reader, out)
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// errInterrupted is returned when the user presses Ctrl+C at a masked prompt
var errInterrupted = errors.New("interrupted")

// readPasswordWithMask switches the terminal to raw mode and reads a
// password from in, echoing asterisks to out
func readPasswordWithMask(fd int, in io.RuneReader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		// Fall back to hidden input without echo
		password, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		return string(password), err
	}
	defer term.Restore(fd, oldState)

	return readMasked(in, out)
}

// readMasked collects printable ASCII until Enter. Backspace removes the last
// character; Ctrl+C aborts. Input ending without Enter returns what was typed.
func readMasked(in io.RuneReader, out io.Writer) (string, error) {
	var password []rune
	for {
		char, _, err := in.ReadRune()
		if errors.Is(err, io.EOF) {
			fmt.Fprint(out, "\r\n")
			return string(password), nil
		}
		if err != nil {
			return "", err
		}

		switch char {
		case '\n', '\r':
			fmt.Fprint(out, "\r\n")
			return string(password), nil
		case 127, 8: // Backspace or Delete
			if len(password) > 0 {
				password = password[:len(password)-1]
				fmt.Fprint(out, "\b \b")
			}
		case 3: // Ctrl+C
			fmt.Fprint(out, "\r\n")
			return "", errInterrupted
		default:
			if char >= 32 && char <= 126 {
				password = append(password, char)
				fmt.Fprint(out, "*")
			}
		}
	}
}
