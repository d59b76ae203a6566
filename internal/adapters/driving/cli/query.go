package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rajiv714/FinBot/internal/core/domain"
	"github.com/Rajiv714/FinBot/internal/core/ports/driving"
)

var (
	queryTopK      int
	queryThreshold float64
	queryNoContext bool
	queryJSON      bool
)

var queryCmd = &cobra.Command{
	Use:   "query <question>",
	Short: "Ask a single question and print the answer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureServices(); err != nil {
			return err
		}

		resp := ragService.Query(cmd.Context(), args[0], driving.QueryOptions{
			TopK:           queryTopK,
			ScoreThreshold: queryThreshold,
			IncludeContext: !queryNoContext,
		})

		if queryJSON {
			data, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding response: %w", err)
			}
			cmd.Println(string(data))
			return nil
		}

		printQueryResponse(cmd, resp)
		return nil
	},
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of chunks to retrieve (0 = configured default)")
	queryCmd.Flags().Float64VarP(&queryThreshold, "threshold", "t", -1, "minimum similarity score (negative = configured default)")
	queryCmd.Flags().BoolVar(&queryNoContext, "no-context", false, "answer without retrieving document context")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "print the full response as JSON")
	rootCmd.AddCommand(queryCmd)
}

func printQueryResponse(cmd *cobra.Command, resp *domain.QueryResponse) {
	cmd.Println(resp.Answer)

	if len(resp.Sources) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Sources:")
	for i, s := range resp.Sources {
		name := "unknown"
		if v, ok := s.Metadata["filename"].(string); ok && v != "" {
			name = v
		}
		cmd.Printf("  %d. %s (score %.2f)\n", i+1, name, s.Score)
	}
}
