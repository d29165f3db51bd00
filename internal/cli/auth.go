package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/quicksilvermail/quicksilver/internal/domain"
	"github.com/quicksilvermail/quicksilver/internal/session"
)

func newLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in and persist the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := args[0]

			if password == "" {
				if err := promptPassword(&password); err != nil {
					return err
				}
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.Session.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("failed to log in: %w", err)
			}

			if jsonFlag {
				return printJSON(toJSONUser(user))
			}
			fmt.Printf("Logged in as %s <%s>\n", user.Name, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "password (prompted if omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			a.Session.Logout()

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "logout"})
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newRegisterCmd() *cobra.Command {
	var (
		email, password, name string

		mailProvider, mailAddress, mailPassword string
		imapHost, smtpHost                      string
		imapPort, smtpPort                      int
		imapSecure, smtpSecure                  bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Long:  "Create an account, optionally including mail-service connection settings for future IMAP/SMTP integration.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			reg := session.Registration{
				Email:    email,
				Password: password,
				Name:     name,
			}
			if mailProvider != "" || mailAddress != "" || imapHost != "" || smtpHost != "" {
				reg.Mail = &domain.MailProfile{
					Provider: mailProvider,
					Address:  mailAddress,
					Password: mailPassword,
					IMAP:     domain.MailEndpoint{Host: imapHost, Port: imapPort, Secure: imapSecure},
					SMTP:     domain.MailEndpoint{Host: smtpHost, Port: smtpPort, Secure: smtpSecure},
				}
			}

			user, err := a.Session.Register(cmd.Context(), reg)
			if err != nil {
				return fmt.Errorf("failed to register: %w", err)
			}

			if jsonFlag {
				return printJSON(toJSONUser(user))
			}
			fmt.Printf("Account created: %s <%s>\n", user.Name, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "account password (required)")
	cmd.Flags().StringVar(&name, "name", "", "display name (required)")
	cmd.Flags().StringVar(&mailProvider, "mail-provider", "", "mail service provider tag")
	cmd.Flags().StringVar(&mailAddress, "mail-address", "", "mail service address")
	cmd.Flags().StringVar(&mailPassword, "mail-password", "", "mail service credential")
	cmd.Flags().StringVar(&imapHost, "imap-host", "", "incoming mail host")
	cmd.Flags().IntVar(&imapPort, "imap-port", 993, "incoming mail port")
	cmd.Flags().BoolVar(&imapSecure, "imap-secure", true, "incoming mail TLS")
	cmd.Flags().StringVar(&smtpHost, "smtp-host", "", "outgoing mail host")
	cmd.Flags().IntVar(&smtpPort, "smtp-port", 587, "outgoing mail port")
	cmd.Flags().BoolVar(&smtpSecure, "smtp-secure", true, "outgoing mail TLS")
	return cmd
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := requireUser(a)
			if err != nil {
				return err
			}

			if jsonFlag {
				return printJSON(toJSONUser(user))
			}

			fmt.Printf("%s <%s> (id %s)\n", user.Name, user.Email, user.ID)
			if user.Mail != nil {
				fmt.Printf("Mail service: %s (%s)\n", user.Mail.Provider, user.Mail.Address)
				if user.Mail.IMAP.Host != "" {
					fmt.Printf("IMAP: %s:%d secure=%v\n", user.Mail.IMAP.Host, user.Mail.IMAP.Port, user.Mail.IMAP.Secure)
				}
				if user.Mail.SMTP.Host != "" {
					fmt.Printf("SMTP: %s:%d secure=%v\n", user.Mail.SMTP.Host, user.Mail.SMTP.Port, user.Mail.SMTP.Secure)
				}
			}
			return nil
		},
	}
}

func newProfileCmd() *cobra.Command {
	var email, name string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update the signed-in user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			var update session.ProfileUpdate
			if cmd.Flags().Changed("email") {
				update.Email = &email
			}
			if cmd.Flags().Changed("name") {
				update.Name = &name
			}

			user, err := a.Session.UpdateProfile(cmd.Context(), update)
			if err != nil {
				return fmt.Errorf("failed to update profile: %w", err)
			}

			if jsonFlag {
				return printJSON(toJSONUser(user))
			}
			fmt.Printf("Profile updated: %s <%s>\n", user.Name, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "new email")
	cmd.Flags().StringVar(&name, "name", "", "new display name")
	return cmd
}

func newResetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <email>",
		Short: "Request a password reset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			msg, err := a.Session.ResetPassword(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to request reset: %w", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "reset-password", Message: msg})
			}
			fmt.Println(msg)
			return nil
		},
	}
}

// promptPassword asks for a password interactively without echo.
func promptPassword(out *string) error {
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(out),
	))
	if err := form.Run(); err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	return nil
}
