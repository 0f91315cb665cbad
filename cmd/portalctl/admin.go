package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yigit/campusportal/internal/app/models/dto"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errEmptyPassword = errors.New("password must not be empty")
)

type accountFlags struct {
	universityID string
	fullName     string
	password     string
}

func (f *accountFlags) bind(cmd *cobra.Command, withName bool) {
	cmd.Flags().StringVarP(&f.universityID, "university-id", "u", "", "University ID (required)")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "Password; prompted for when omitted")
	_ = cmd.MarkFlagRequired("university-id")
	if withName {
		cmd.Flags().StringVarP(&f.fullName, "name", "n", "", "Full name (required)")
		_ = cmd.MarkFlagRequired("name")
	}
}

// resolvePassword returns the --password flag or prompts for one
func (f *accountFlags) resolvePassword(cmd *cobra.Command) (string, error) {
	if f.password != "" {
		return f.password, nil
	}

	fmt.Fprint(cmd.OutOrStdout(), "Enter password: ")
	pwd, err := readPasswordFunc(stdinFd())
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if strings.TrimSpace(string(pwd)) == "" {
		return "", errEmptyPassword
	}
	return string(pwd), nil
}

func newCreateAdminCmd(opts *rootOptions) *cobra.Command {
	flags := &accountFlags{}
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := flags.resolvePassword(cmd)
			if err != nil {
				return err
			}

			users, cleanup, err := opts.userService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			user, err := users.CreateAdmin(cmd.Context(), flags.fullName, flags.universityID, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (id %d)\n", user.UniversityID, user.ID)
			return nil
		},
	}
	flags.bind(cmd, true)
	return cmd
}

func newAddStudentCmd(opts *rootOptions) *cobra.Command {
	flags := &accountFlags{}
	cmd := &cobra.Command{
		Use:   "add-student",
		Short: "Create a student account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := flags.resolvePassword(cmd)
			if err != nil {
				return err
			}

			users, cleanup, err := opts.userService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			user, err := users.CreateStudent(cmd.Context(), &dto.CreateStudentRequest{
				FullName:     flags.fullName,
				UniversityID: flags.universityID,
				Password:     password,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created student %s (id %d)\n", user.UniversityID, user.ID)
			return nil
		},
	}
	flags.bind(cmd, true)
	return cmd
}

func newResetPasswordCmd(opts *rootOptions) *cobra.Command {
	flags := &accountFlags{}
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password for any account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := flags.resolvePassword(cmd)
			if err != nil {
				return err
			}

			users, cleanup, err := opts.userService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := users.ResetPassword(cmd.Context(), flags.universityID, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password updated for %s\n", flags.universityID)
			return nil
		},
	}
	flags.bind(cmd, false)
	return cmd
}
