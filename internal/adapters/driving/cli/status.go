package cli

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show component health and knowledge base statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureServices(); err != nil {
			return err
		}

		status := ragService.Status(cmd.Context())

		if status.Healthy {
			cmd.Println("Status:          healthy")
		} else {
			cmd.Println("Status:          unhealthy (vector index unreachable)")
		}
		cmd.Printf("Embedding model: %s (%d dimensions)\n", status.EmbeddingModel, status.EmbeddingDimension)
		cmd.Printf("LLM model:       %s\n", status.LLMModel)
		cmd.Printf("Retrieval:       top %d, threshold %.2f\n", status.TopK, status.ScoreThreshold)
		if status.Collection.Name != "" {
			cmd.Printf("Collection:      %s (%d points, %s distance)\n",
				status.Collection.Name, status.Collection.PointCount, status.Collection.Distance)
		}

		docs, err := ingestService.Documents(cmd.Context())
		if err == nil && len(docs) > 0 {
			cmd.Printf("Documents:       %d ingested\n", len(docs))
			for _, d := range docs {
				cmd.Printf("  %s (%d chunks, %s)\n", d.Filename, d.ChunkCount, d.IngestedAt.Format("2006-01-02 15:04"))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
