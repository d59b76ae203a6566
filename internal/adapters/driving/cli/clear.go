package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all indexed documents from the knowledge base",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureServices(); err != nil {
			return err
		}

		if !clearYes {
			cmd.Print("This removes every indexed document. Continue? [y/N] ")
			reader := bufio.NewReader(cmd.InOrStdin())
			line, _ := reader.ReadString('\n')
			answer := strings.ToLower(strings.TrimSpace(line))
			if answer != "y" && answer != "yes" {
				cmd.Println("Aborted")
				return nil
			}
		}

		if err := ingestService.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clearing knowledge base: %w", err)
		}
		cmd.Println("Knowledge base cleared")
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}
