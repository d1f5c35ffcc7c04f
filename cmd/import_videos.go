/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/tieubaoca/docs-chat-be/service"
	"github.com/tieubaoca/docs-chat-be/types"
)

// importVideosCmd fetches and chunks video transcripts from the command line,
// useful for checking what a video contributes to the knowledge base before
// wiring it into the server config.
var importVideosCmd = &cobra.Command{
	Use:   "import-videos",
	Short: "Fetch and chunk YouTube video transcripts",
	Long: `Fetches the transcripts of the given YouTube video IDs or URLs, splits
them into chunks, and prints a summary of what would be available to the
retriever. Videos without captions are reported with zero chunks.`,
	Run: func(cmd *cobra.Command, args []string) {
		language, _ := cmd.Flags().GetString("language")
		chunkSize, _ := cmd.Flags().GetInt("chunk-size")
		overlap, _ := cmd.Flags().GetInt("overlap")

		if len(args) == 0 {
			log.Fatal("at least one video ID or URL is required")
		}

		transcriptService := service.NewTranscriptService(types.TranscriptServiceConfig{
			MaxChunkSize: chunkSize,
			OverlapSize:  overlap,
		})
		retriever := service.NewYouTubeRetriever(
			service.NewYouTubeTranscriptFetcher(),
			transcriptService,
			language,
		)

		retriever.AddVideos(context.Background(), args)

		for _, video := range retriever.Videos() {
			fmt.Printf("%s (%s): %d chunks\n", video.VideoID, video.URL, len(video.Chunks))
			for i, chunk := range video.Chunks {
				fmt.Printf("  [%d] %s - %s, %d chars\n", i,
					formatSeconds(chunk.StartTime), formatSeconds(chunk.EndTime), len(chunk.Text))
			}
		}
	},
}

func formatSeconds(seconds float64) string {
	return fmt.Sprintf("%.1fs", seconds)
}

func init() {
	rootCmd.AddCommand(importVideosCmd)
	importVideosCmd.Flags().StringP("language", "l", "en", "Preferred transcript language")
	importVideosCmd.Flags().Int("chunk-size", 500, "Maximum chunk size in characters")
	importVideosCmd.Flags().Int("overlap", 50, "Overlap between chunks in characters")
}
