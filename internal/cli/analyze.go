package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/SubodhKumarSahu2826/CyberGuard/internal/cache"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/detector"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/engine"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/mlclient"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/models"
)

func newAnalyzeCmd() *cobra.Command {
	var showFeatures bool
	var mlScript string

	cmd := &cobra.Command{
		Use:   "analyze <url> [url...]",
		Short: "Run one-shot threat analysis against URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner()

			analysisCache := cache.New[models.AnalysisResult](cache.DefaultSweepInterval)
			defer analysisCache.Stop()

			eng := engine.New(detector.New(), analysisCache, cache.DefaultTTL)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			var ml *mlclient.Client
			if mlScript != "" {
				ml = mlclient.NewClient("", mlScript)
			}

			for _, raw := range args {
				result, err := eng.Analyze(ctx, raw)
				if err != nil {
					color.New(color.FgRed).Printf("%-60s invalid: %v\n", raw, err)
					continue
				}
				printResult(result, showFeatures)

				if ml != nil {
					prediction, err := ml.Predict(ctx, raw)
					if err != nil {
						fmt.Printf("  ml: unavailable (%v)\n", err)
						continue
					}
					fmt.Printf("  ml: %s (confidence %.2f, model %s)\n",
						prediction.PredictedAttackType, prediction.Confidence, prediction.ModelUsed)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&showFeatures, "features", false, "Print the extracted feature vector")
	cmd.Flags().StringVar(&mlScript, "ml-script", "", "Path to the ML inference script for a second opinion")

	return cmd
}

func printResult(result *models.AnalysisResult, showFeatures bool) {
	fmt.Println()
	fmt.Printf("URL: %s\n", result.URL)
	riskColor(result.RiskLevel).Printf("Overall risk: %s\n", result.RiskLevel)

	for _, d := range result.Detections {
		riskColor(d.RiskLevel).Printf("  [%s] %s (confidence %.2f)\n", d.RiskLevel, d.AttackType, d.Confidence)
		if d.Payload != "" {
			fmt.Printf("    payload: %s\n", d.Payload)
		}
	}

	if len(result.Detections) == 0 {
		fmt.Println("  no attack signatures matched")
	}

	if showFeatures {
		f := result.Features
		fmt.Printf("  features: len=%d entropy=%.2f params=%d depth=%d keywords=%v encoded=%d\n",
			f.URLLength, f.Entropy, f.ParameterCount, f.PathDepth, f.SuspiciousKeywords, f.EncodedCharCount)
	}
}

func riskColor(risk models.RiskLevel) *color.Color {
	switch risk {
	case models.RiskCritical:
		return color.New(color.FgRed, color.Bold)
	case models.RiskHigh:
		return color.New(color.FgRed)
	case models.RiskMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}
