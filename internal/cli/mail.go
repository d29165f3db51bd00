package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quicksilvermail/quicksilver/internal/app"
	"github.com/quicksilvermail/quicksilver/internal/domain"
)

func newListCmd() *cobra.Command {
	var mailboxFlag string
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List email threads",
		Long:  "List email threads in a mailbox (defaults to inbox).",
		RunE: func(cmd *cobra.Command, args []string) error {
			box, err := domain.ParseMailbox(mailboxFlag)
			if err != nil {
				return err
			}

			a, err := newMailApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			threads := a.Mail.Threads(box)
			if limitFlag > 0 && len(threads) > limitFlag {
				threads = threads[:limitFlag]
			}

			if jsonFlag {
				return printJSON(toJSONThreads(threads))
			}

			if len(threads) == 0 {
				fmt.Println("No messages found.")
				return nil
			}

			if box == domain.MailboxInbox {
				fmt.Printf("Unread: %d\n", a.Mail.UnreadCount())
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "UNREAD\tFROM\tSUBJECT\tDATE\tATTACH\tTHREAD_ID")
			for _, t := range threads {
				unread := " "
				if t.IsUnread() {
					unread = fmt.Sprintf("%d", t.UnreadCount)
				}
				attach := " "
				if t.HasAttachment {
					attach = "*"
				}
				from := t.From()
				if len(from) > 30 {
					from = from[:27] + "..."
				}
				subject := t.Subject
				if len(subject) > 50 {
					subject = subject[:47] + "..."
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					unread, from, subject,
					t.LastMessageTime.Format("Jan 2, 2006"),
					attach, t.ID,
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&mailboxFlag, "mailbox", "inbox", "mailbox to list (inbox, sent, drafts, trash)")
	cmd.Flags().IntVar(&limitFlag, "limit", 25, "max threads to show")
	return cmd
}

func newReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <thread-id>",
		Short: "Read an email thread",
		Long:  "Display a thread's message history and mark it as read.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			threadID := args[0]

			a, err := newMailApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			thread, ok := a.Mail.GetThread(threadID)
			if !ok {
				return fmt.Errorf("thread not found: %s", threadID)
			}

			messages := a.Mail.GetMessages(threadID)
			if err := a.Mail.MarkAsRead(cmd.Context(), threadID); err != nil {
				return fmt.Errorf("failed to mark as read: %w", err)
			}

			if jsonFlag {
				return printJSON(toJSONThreadDetail(&thread, messages))
			}

			fmt.Printf("Subject: %s\n", thread.Subject)
			fmt.Printf("Thread ID: %s\n", thread.ID)
			fmt.Printf("Participants: %s\n", formatParticipants(thread.Participants))
			fmt.Println(strings.Repeat("─", 60))

			for i, msg := range messages {
				if i > 0 {
					fmt.Println()
					fmt.Println(strings.Repeat("─", 60))
				}
				fmt.Printf("From: %s\n", msg.Sender)
				fmt.Printf("Date: %s\n", msg.Timestamp.Format("Mon, Jan 2 2006 3:04 PM"))
				fmt.Printf("Message ID: %s\n", msg.ID)
				fmt.Println()
				fmt.Println(msg.Content)
			}
			return nil
		},
	}
}

func newContactsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contacts",
		Short: "List the address book",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newMailApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			contacts := a.Mail.Contacts()

			if jsonFlag {
				return printJSON(contacts)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL")
			for _, c := range contacts {
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Name, c.Email)
			}
			return w.Flush()
		},
	}
}

// newMailApp builds the app context and loads the mailboxes, which is
// what every mail command needs before it can do anything.
func newMailApp(cmd *cobra.Command) (*app.App, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	if _, err := requireUser(a); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.Mail.Load(cmd.Context()); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load mailboxes: %w", err)
	}
	return a, nil
}

func formatParticipants(ps []domain.Participant) string {
	if len(ps) == 0 {
		return "(none)"
	}
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}
