package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/emrgen/okr"
	v1 "github.com/emrgen/okr/apis/v1"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "okr link commands",
}

func init() {
	linkCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	linkCmd.AddCommand(requestLinkCmd())
	linkCmd.AddCommand(getLinkCmd())
	linkCmd.AddCommand(listLinksCmd())
	linkCmd.AddCommand(incomingLinksCmd())
	linkCmd.AddCommand(decisionCmd("approve", "approve a link request", okr.Client.Approve))
	linkCmd.AddCommand(decisionCmd("reject", "reject a link request", okr.Client.Reject))
	linkCmd.AddCommand(decisionCmd("changes", "ask the requester for changes", okr.Client.RequestChanges))
	linkCmd.AddCommand(decisionCmd("resubmit", "resubmit a link after changes", okr.Client.Resubmit))
	linkCmd.AddCommand(decisionCmd("cancel", "cancel an open link request", okr.Client.Cancel))
	linkCmd.AddCommand(unlinkCmd())
}

// newClient builds a client from the saved context, returns nil when no user is set.
func newClient() okr.Client {
	ctx := readContext()
	if ctx.UserID == "" {
		color.Red("no context set, run: okr context set -u <user-id>")
		return nil
	}
	return okr.NewClient(ctx.Server, ctx.UserID)
}

func requestLinkCmd() *cobra.Command {
	var sourceID string
	var targetType string
	var targetID string
	var note string

	var required = []string{"source", "target"}

	command := &cobra.Command{
		Use:     "request",
		Short:   "request a link from an objective to an objective or key result",
		Example: "okr link request -s <objective-id> -T key_result -t <kr-id> -n <note>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}
			client := newClient()
			if client == nil {
				return
			}

			link, err := client.RequestLink(context.Background(), &v1.RequestLinkRequest{
				SourceObjectiveID: sourceID,
				TargetType:        targetType,
				TargetID:          targetID,
				Note:              note,
			})
			if err != nil {
				printError(err)
				return
			}

			logrus.Infof("link requested with id: %s", link.ID)
			printLinks([]*v1.Link{link})
		},
	}

	command.Flags().StringVarP(&sourceID, "source", "s", "", "source objective id (required)")
	command.Flags().StringVarP(&targetType, "target-type", "T", "objective", "target type: objective or key_result")
	command.Flags().StringVarP(&targetID, "target", "t", "", "target objective or key result id (required)")
	command.Flags().StringVarP(&note, "note", "n", "", "note for the target owner")

	command.Flags().SortFlags = false

	return command
}

func getLinkCmd() *cobra.Command {
	var linkID string

	var required = []string{"link-id"}

	command := &cobra.Command{
		Use:     "get",
		Short:   "get a link with its history",
		Example: "okr link get -l <link-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}
			client := newClient()
			if client == nil {
				return
			}

			res, err := client.GetLink(context.Background(), linkID)
			if err != nil {
				printError(err)
				return
			}

			link := res.Link
			printField("ID", link.ID)
			printField("Status", link.Status)
			printField("Source", fmt.Sprintf("%s (%s)", link.SourceTitle, link.SourceObjectiveID))
			printField("Target", fmt.Sprintf("%s %s (%s)", link.TargetType, link.TargetTitle, targetID(link)))
			printField("Requested by", link.RequestedBy)
			printField("Target owner", link.TargetOwnerID)
			if link.RequestNote != "" {
				printField("Request note", link.RequestNote)
			}
			if link.DecisionNote != "" {
				printField("Decision note", link.DecisionNote)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Time", "Action", "Actor", "Note"})
			for _, e := range res.Events {
				table.Append([]string{e.CreatedAt.Format("2006-01-02 15:04:05"), e.Action, e.ActorID, e.Note})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&linkID, "link-id", "l", "", "link id (required)")

	return command
}

func listLinksCmd() *cobra.Command {
	var objectiveID string

	var required = []string{"objective"}

	command := &cobra.Command{
		Use:     "list",
		Short:   "list the outgoing links of an objective",
		Example: "okr link list -o <objective-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}
			client := newClient()
			if client == nil {
				return
			}

			links, err := client.ListOutgoingLinks(context.Background(), objectiveID)
			if err != nil {
				printError(err)
				return
			}

			printLinks(links)
		},
	}

	command.Flags().StringVarP(&objectiveID, "objective", "o", "", "source objective id (required)")

	return command
}

func incomingLinksCmd() *cobra.Command {
	var statuses []string

	command := &cobra.Command{
		Use:     "incoming",
		Short:   "list links addressed to the current user",
		Example: "okr link incoming --status pending,needs_changes",
		Run: func(cmd *cobra.Command, args []string) {
			client := newClient()
			if client == nil {
				return
			}

			links, err := client.ListIncomingLinks(context.Background(), "", statuses)
			if err != nil {
				printError(err)
				return
			}

			printLinks(links)
		},
	}

	command.Flags().StringSliceVar(&statuses, "status", nil, "filter by status")

	return command
}

type decisionFunc func(c okr.Client, ctx context.Context, id, note string) (*v1.Link, error)

func decisionCmd(use, short string, decide decisionFunc) *cobra.Command {
	var linkID string
	var note string

	var required = []string{"link-id"}

	command := &cobra.Command{
		Use:     use,
		Short:   short,
		Example: fmt.Sprintf("okr link %s -l <link-id> -n <note>", use),
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}
			client := newClient()
			if client == nil {
				return
			}

			link, err := decide(client, context.Background(), linkID, note)
			if err != nil {
				printError(err)
				return
			}

			printLinks([]*v1.Link{link})
		},
	}

	command.Flags().StringVarP(&linkID, "link-id", "l", "", "link id (required)")
	command.Flags().StringVarP(&note, "note", "n", "", "note")

	return command
}

func unlinkCmd() *cobra.Command {
	var linkID string
	var note string
	var keepOwnership bool

	var required = []string{"link-id"}

	command := &cobra.Command{
		Use:     "unlink",
		Short:   "unlink an approved link",
		Example: "okr link unlink -l <link-id> --keep-ownership",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}
			client := newClient()
			if client == nil {
				return
			}

			link, err := client.Unlink(context.Background(), linkID, &v1.UnlinkRequest{
				Note:          note,
				KeepOwnership: keepOwnership,
			})
			if err != nil {
				printError(err)
				return
			}

			printLinks([]*v1.Link{link})
		},
	}

	command.Flags().StringVarP(&linkID, "link-id", "l", "", "link id (required)")
	command.Flags().StringVarP(&note, "note", "n", "", "note")
	command.Flags().BoolVar(&keepOwnership, "keep-ownership", false, "keep the assignment granted at approval")

	return command
}

func notificationsCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "notifications",
		Short: "list the notifications of the current user",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := readContext()
			client := newClient()
			if client == nil {
				return
			}

			notifications, err := client.ListNotifications(context.Background(), ctx.UserID)
			if err != nil {
				printError(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Time", "Link", "Message"})
			for _, n := range notifications {
				table.Append([]string{n.CreatedAt.Format("2006-01-02 15:04:05"), n.LinkID, n.Message})
			}
			table.Render()
		},
	}

	return command
}

func targetID(link *v1.Link) string {
	if link.TargetKrID != nil {
		return *link.TargetKrID
	}
	return link.TargetObjectiveID
}

func printLinks(links []*v1.Link) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Source", "Target Type", "Target", "Status", "Requested By"})
	for _, link := range links {
		table.Append([]string{link.ID, link.SourceObjectiveID, link.TargetType, targetID(link), link.Status, link.RequestedBy})
	}
	table.Render()
}

func printError(err error) {
	var apiErr *v1.Error
	if errors.As(err, &apiErr) {
		color.Red("%s: %s", apiErr.Code, apiErr.Message)
		if apiErr.ConflictTargetID != "" {
			printField("Existing link target", apiErr.ConflictTargetType+" "+apiErr.ConflictTargetID)
		}
		return
	}
	logrus.Error(err)
}

func printField(label, value string) {
	color.Set(color.FgCyan)
	fmt.Print(label)
	color.Unset()
	fmt.Printf(": %s\n", value)
}

// checkMissingFlags checks if the required flags are set and returns true if any is missing
func checkMissingFlags(cmd *cobra.Command, flags []string) bool {
	var missingFlags []string
	var providedFlags []string
	for _, required := range flags {
		if !cmd.Flag(required).Changed {
			missingFlags = append(missingFlags, "--"+required)
		} else {
			value := cmd.Flag(required).Value.String()
			providedFlags = append(providedFlags, fmt.Sprintf("--%s=%s", required, value))
		}
	}

	if len(missingFlags) > 0 {
		color.Red("missing: %s\n", strings.Join(missingFlags, " "))
		if len(providedFlags) > 0 {
			fmt.Printf("provided: %s\n", strings.Join(providedFlags, " "))
		}
		return true
	}

	return false
}
