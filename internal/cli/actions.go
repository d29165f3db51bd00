package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quicksilvermail/quicksilver/internal/domain"
	"github.com/quicksilvermail/quicksilver/internal/mailstore"
)

func newComposeCmd() *cobra.Command {
	var toFlag, subjectFlag, bodyFlag string
	var attachFlag []string

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose and send a new email",
		RunE: func(cmd *cobra.Command, args []string) error {
			recipients, err := parseRecipients(toFlag)
			if err != nil {
				return err
			}

			a, err := newMailApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			thread, err := a.Mail.SendEmail(cmd.Context(), mailstore.Email{
				To:          recipients,
				Subject:     subjectFlag,
				Body:        bodyFlag,
				Attachments: attachFlag,
			})
			if err != nil {
				return fmt.Errorf("failed to send email: %w", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "compose", Message: "Email sent", ThreadID: thread.ID})
			}
			fmt.Printf("Email sent. Thread ID: %s\n", thread.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&toFlag, "to", "", "recipients, comma separated (required)")
	cmd.Flags().StringVar(&subjectFlag, "subject", "", "email subject")
	cmd.Flags().StringVar(&bodyFlag, "body", "", "email body")
	cmd.Flags().StringSliceVar(&attachFlag, "attach", nil, "attachment file names")
	cmd.MarkFlagRequired("to")
	return cmd
}

func newDraftCmd() *cobra.Command {
	var toFlag, subjectFlag, bodyFlag string
	var attachFlag []string

	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Save an email as a draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			var recipients []domain.Participant
			if toFlag != "" {
				var err error
				recipients, err = parseRecipients(toFlag)
				if err != nil {
					return err
				}
			}

			a, err := newMailApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			thread, err := a.Mail.SaveDraft(cmd.Context(), mailstore.Email{
				To:          recipients,
				Subject:     subjectFlag,
				Body:        bodyFlag,
				Attachments: attachFlag,
			})
			if err != nil {
				return fmt.Errorf("failed to save draft: %w", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "draft", Message: "Draft saved", ThreadID: thread.ID})
			}
			fmt.Printf("Draft saved. Thread ID: %s\n", thread.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&toFlag, "to", "", "recipients, comma separated")
	cmd.Flags().StringVar(&subjectFlag, "subject", "", "draft subject")
	cmd.Flags().StringVar(&bodyFlag, "body", "", "draft body")
	cmd.Flags().StringSliceVar(&attachFlag, "attach", nil, "attachment file names")
	return cmd
}

func newReplyCmd() *cobra.Command {
	var bodyFlag string

	cmd := &cobra.Command{
		Use:   "reply <thread-id>",
		Short: "Reply to an existing thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			threadID := args[0]
			if strings.TrimSpace(bodyFlag) == "" {
				return fmt.Errorf("reply body must not be empty")
			}

			a, err := newMailApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, ok := a.Mail.GetThread(threadID); !ok {
				return fmt.Errorf("thread not found: %s", threadID)
			}

			msg, err := a.Mail.SendMessage(cmd.Context(), threadID, bodyFlag)
			if err != nil {
				return fmt.Errorf("failed to send reply: %w", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "reply", Message: "Reply sent", ThreadID: threadID, MessageID: msg.ID})
			}
			fmt.Printf("Reply sent. Message ID: %s\n", msg.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&bodyFlag, "body", "", "reply body (required)")
	cmd.MarkFlagRequired("body")
	return cmd
}

func newTrashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trash <thread-id>",
		Short: "Move a thread to trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			threadID := args[0]

			a, err := newMailApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Mail.DeleteThread(cmd.Context(), threadID); err != nil {
				return fmt.Errorf("failed to delete thread: %w", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "trash", Message: "Thread moved to trash", ThreadID: threadID})
			}
			fmt.Printf("Thread %s moved to trash.\n", threadID)
			return nil
		},
	}
}

func newMarkReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark-read <thread-id>",
		Short: "Mark an inbox thread as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			threadID := args[0]

			a, err := newMailApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Mail.MarkAsRead(cmd.Context(), threadID); err != nil {
				return fmt.Errorf("failed to mark as read: %w", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "mark-read", Message: "Thread marked as read", ThreadID: threadID})
			}
			fmt.Printf("Thread %s marked as read.\n", threadID)
			return nil
		},
	}
}

// parseRecipients splits a comma separated recipient list. Each entry
// is either a bare address or "Name <address>".
func parseRecipients(s string) ([]domain.Participant, error) {
	var out []domain.Participant
	for _, raw := range strings.Split(s, ",") {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		p, err := parseRecipient(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no recipients given")
	}
	return out, nil
}

func parseRecipient(entry string) (domain.Participant, error) {
	if open := strings.Index(entry, "<"); open >= 0 {
		end := strings.Index(entry, ">")
		if end < open {
			return domain.Participant{}, fmt.Errorf("malformed recipient %q", entry)
		}
		name := strings.TrimSpace(entry[:open])
		email := strings.TrimSpace(entry[open+1 : end])
		if email == "" {
			return domain.Participant{}, fmt.Errorf("malformed recipient %q", entry)
		}
		if name == "" {
			name = email
		}
		return domain.Participant{Name: name, Email: email}, nil
	}
	if !strings.Contains(entry, "@") {
		return domain.Participant{}, fmt.Errorf("invalid email address %q", entry)
	}
	return domain.Participant{Name: entry, Email: entry}, nil
}
