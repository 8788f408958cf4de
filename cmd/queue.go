package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aouyang1/signage/api/client"
)

var (
	serverURL string
	apiToken  string

	queueName     string
	slideID       string
	slidePosition int
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Manage queues on a running server",
}

var queueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List queues and their slides",
	RunE: func(cmd *cobra.Command, args []string) error {
		queues, err := newClient().ListQueues(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, q := range queues {
			fmt.Fprintf(out, "%s\t%s\t%s\n", q.Name, q.Owner, strings.Join(q.SlideIDs, ","))
		}
		return nil
	},
}

var queueRemoveSlideCmd = &cobra.Command{
	Use:   "remove-slide",
	Short: "Remove a slide from a queue",
	Long:  `Remove a slide from a queue. A slide cannot be removed from the last queue it is in; delete the slide instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().RemoveSlide(cmd.Context(), queueName, slideID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed slide %s from queue %s\n", slideID, queueName)
		return nil
	},
}

var queueAddSlideCmd = &cobra.Command{
	Use:   "add-slide",
	Short: "Add an existing slide to a queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		var position *int
		if cmd.Flags().Changed("position") {
			position = &slidePosition
		}
		queue, err := newClient().AddSlide(cmd.Context(), queueName, slideID, position)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", queue.Name, strings.Join(queue.SlideIDs, ","))
		return nil
	},
}

func newClient() *client.QueueClient {
	token := apiToken
	if token == "" {
		token = os.Getenv("SIGNAGE_TOKEN")
	}
	return client.NewQueueClient(serverURL, token)
}

func init() {
	queueCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "server base URL")
	queueCmd.PersistentFlags().StringVar(&apiToken, "token", "", "bearer token (defaults to $SIGNAGE_TOKEN)")

	for _, c := range []*cobra.Command{queueRemoveSlideCmd, queueAddSlideCmd} {
		c.Flags().StringVar(&queueName, "queue", "", "queue name")
		c.Flags().StringVar(&slideID, "slide", "", "slide id")
		_ = c.MarkFlagRequired("queue")
		_ = c.MarkFlagRequired("slide")
	}
	queueAddSlideCmd.Flags().IntVar(&slidePosition, "position", -1, "position in the queue, -1 appends")

	queueCmd.AddCommand(queueListCmd, queueRemoveSlideCmd, queueAddSlideCmd)
	rootCmd.AddCommand(queueCmd)
}
