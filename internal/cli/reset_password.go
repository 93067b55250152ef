package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/syndic/internal/security"
)

const temporaryPasswordLength = 12

func ResetAdminPasswordCmd(open RuntimeOpener) *cobra.Command {
	var fromStdin bool
	cmd := &cobra.Command{
		Use:   "reset-admin-password",
		Short: "Replace the admin password",
		Long:  "Replace the admin password with a generated temporary one, or with the first line of stdin when --password-stdin is set.",
		RunE: func(cmd *cobra.Command, args []string) error {
			password := ""
			if fromStdin {
				line, err := readPasswordLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = line
			} else {
				generated, err := security.TemporaryPassword(temporaryPasswordLength)
				if err != nil {
					return fmt.Errorf("generate temporary password: %w", err)
				}
				password = generated
			}

			runtime, err := open()
			if err != nil {
				return err
			}
			defer runtime.Close()

			if runtime.Reconciler.RequiresSetup() {
				return errors.New("building setup is not completed, nothing to reset")
			}
			report, err := runtime.Reconciler.SetAdminPassword(password)
			if err != nil {
				return fmt.Errorf("update admin password: %w", err)
			}
			if report.Degraded() {
				return errors.New("storage is full, the new password was not saved")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Admin password reset successful")
			if !fromStdin {
				fmt.Fprintf(out, "Temporary password: %s\n", password)
				fmt.Fprintln(out, "Change it from the settings page after signing in.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromStdin, "password-stdin", false, "read the new password from stdin")
	return cmd
}

func readPasswordLine(input io.Reader) (string, error) {
	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password is empty")
	}
	return line, nil
}
