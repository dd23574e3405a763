package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
)

func (a *app) files(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: files upload|list|delete")
	}

	switch args[0] {
	case "upload":
		flags := flag.NewFlagSet("files upload", flag.ExitOnError)
		claimID := flags.String("claim", "", "claim id")
		path := flags.String("file", "", "local file path")
		if err := flags.Parse(args[1:]); err != nil {
			return err
		}
		if *claimID == "" || *path == "" {
			return fmt.Errorf("claim and file are required")
		}
		attachment, err := a.client.UploadFile(ctx, *claimID, *path)
		if err != nil {
			return err
		}
		fmt.Printf("uploaded %s (%d bytes) as %s\n", attachment.OriginalName, attachment.Size, attachment.FileID)
		return nil
	case "list":
		flags := flag.NewFlagSet("files list", flag.ExitOnError)
		claimID := flags.String("claim", "", "claim id")
		if err := flags.Parse(args[1:]); err != nil {
			return err
		}
		if *claimID == "" {
			return fmt.Errorf("claim is required")
		}
		attachments, err := a.client.ClaimFiles(ctx, *claimID)
		if err != nil {
			return err
		}
		if len(attachments) == 0 {
			fmt.Println("no attachments")
			return nil
		}
		writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(writer, "ID\tNAME\tTYPE\tSIZE\tUPLOADED")
		for _, attachment := range attachments {
			name := attachment.OriginalName
			if name == "" {
				name = attachment.FileName
			}
			fmt.Fprintf(writer, "%s\t%s\t%s\t%d\t%s\n",
				attachment.FileID, name, attachment.MimeType, attachment.Size,
				attachment.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		return writer.Flush()
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: files delete <file-id>")
		}
		if err := a.client.DeleteFile(ctx, args[1]); err != nil {
			return err
		}
		fmt.Printf("file %s deleted\n", args[1])
		return nil
	default:
		return fmt.Errorf("unknown files action %q", args[0])
	}
}
