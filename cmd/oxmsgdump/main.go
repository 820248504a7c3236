// Command oxmsgdump decodes a single .msg file and prints its message,
// recipient, and attachment properties as structured log lines.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/corvidae/oxmsg/cfb"
	"github.com/corvidae/oxmsg/mapi"
	"github.com/corvidae/oxmsg/views"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "oxmsgdump <path-to.msg>",
		Short:         "Dump the MAPI properties of an Outlook .msg file",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				cmd.Usage()
				os.Exit(1)
			}
			return dump(args[0])
		},
	}
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(3)
	}
}

func dump(path string) error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := cfb.Parse(f)
	if err != nil {
		return fmt.Errorf("parsing compound file: %w", err)
	}

	msgFile, err := mapi.Assemble(doc)
	if err != nil {
		return fmt.Errorf("assembling MAPI properties: %w", err)
	}

	msg := views.NewMessage(msgFile.Message)
	logger.Info("message",
		"subject", msg.Subject,
		"sender", msg.SenderName,
		"sender_smtp", msg.SenderSmtpAddress,
		"size", msg.Size,
		"status", msg.Status.Name(),
	)

	for i, rps := range msgFile.Recipients {
		r := views.NewRecipient(rps)
		logger.Info("recipient",
			"index", i,
			"type", r.Type.Name(),
			"display_name", r.DisplayName,
			"email", r.Email,
		)
	}

	for i, aps := range msgFile.Attachments {
		a := views.NewAttachment(aps)
		logger.Info("attachment",
			"index", i,
			"method", a.Method.Name(),
			"filename", a.LongFileName,
			"size", a.Size,
		)
	}

	return nil
}
