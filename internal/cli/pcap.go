package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SubodhKumarSahu2826/CyberGuard/internal/cache"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/detector"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/engine"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/models"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/pcapclient"
)

func newPcapCmd() *cobra.Command {
	var pythonBin, scriptPath string

	cmd := &cobra.Command{
		Use:   "pcap <capture-file>",
		Short: "Extract HTTP URLs from a capture file and analyze them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			processor := pcapclient.NewProcessor(pythonBin, scriptPath)
			result, err := processor.Process(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Processed %s: %d packets, %d HTTP, %d URLs extracted\n",
				result.PCAPFile, result.TotalPackets, result.HTTPPackets, len(result.ExtractedURLs))

			analysisCache := cache.New[models.AnalysisResult](cache.DefaultSweepInterval)
			defer analysisCache.Stop()

			eng := engine.New(detector.New(), analysisCache, cache.DefaultTTL)

			byRisk := make(map[models.RiskLevel]int)
			for _, item := range result.QueuedURLs() {
				analysis, err := eng.Analyze(ctx, item.URL)
				if err != nil {
					continue
				}
				byRisk[analysis.RiskLevel]++
				if analysis.RiskLevel != models.RiskLow {
					printResult(analysis, false)
				}
			}

			fmt.Println()
			for _, risk := range []models.RiskLevel{models.RiskCritical, models.RiskHigh, models.RiskMedium, models.RiskLow} {
				if count := byRisk[risk]; count > 0 {
					riskColor(risk).Printf("%-10s %d\n", risk, count)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&pythonBin, "python", "python3", "Python interpreter for the processor script")
	cmd.Flags().StringVar(&scriptPath, "script", "scripts/pcap_processor.py", "Path to the PCAP processor script")

	return cmd
}
