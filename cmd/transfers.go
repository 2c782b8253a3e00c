package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sanket200511/CrisisForge-AI/internal/alerts"
	"github.com/sanket200511/CrisisForge-AI/sim"
	"github.com/sanket200511/CrisisForge-AI/sim/demo"
	"github.com/sanket200511/CrisisForge-AI/sim/transfer"
)

var (
	facilitiesFile    string  // YAML facility network
	demoFacilities    int     // Size of the generated demo network when no file is given
	pressureThreshold float64 // Pressure above which a facility sends patients
	maxTransfers      int     // Cap on recommendations per plan
	transfersJSON     bool
	notifyTransfers   bool   // Deliver the plan through Telegram
	telegramToken     string // Bot token (or CRISISFORGE_TELEGRAM_TOKEN)
	telegramChatID    string // Chat ID (or CRISISFORGE_TELEGRAM_CHAT_ID)
)

// transfersCmd runs the transfer optimizer over a facility network
var transfersCmd = &cobra.Command{
	Use:   "transfers",
	Short: "Recommend patient transfers across a hospital network",
	Run: func(cmd *cobra.Command, args []string) {
		var facilities []sim.Facility
		if facilitiesFile != "" {
			loaded, err := sim.LoadFacilities(facilitiesFile)
			if err != nil {
				logrus.Fatalf("Unable to load facilities: %v", err)
			}
			facilities = loaded
		} else {
			prng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))
			facilities = demo.Hospitals(demoFacilities, prng.ForSubsystem(sim.SubsystemDemo))
			logrus.Infof("No facility file given, generated a %d-hospital demo network", len(facilities))
		}

		opts := transfer.DefaultOptions()
		opts.PressureThreshold = pressureThreshold
		opts.MaxTransfers = maxTransfers
		plan := transfer.Recommend(facilities, opts)

		if transfersJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(plan); err != nil {
				logrus.Fatalf("Unable to encode plan: %v", err)
			}
		} else {
			printPlan(plan)
		}

		if notifyTransfers {
			sendTransferPlan(plan)
		}
	},
}

func printPlan(plan *transfer.Plan) {
	s := plan.Summary
	fmt.Printf("\nNetwork: %d hospitals, %d overloaded, avg pressure %.1f%% (%.1f%% after transfers)\n\n",
		s.TotalFacilities, s.OverloadedFacilities, s.AvgNetworkPressure, s.PostTransferPress)
	if len(plan.Recommendations) == 0 {
		fmt.Println("No transfers recommended.")
		return
	}
	for _, r := range plan.Recommendations {
		fmt.Printf("#%d [%s] %s -> %s: %d patients (%d general, %d ICU), %.1f km, ~%.0f min\n",
			r.ID, r.Priority, r.FromFacility, r.ToFacility,
			r.TotalPatients, r.PatientsGeneral, r.PatientsICU,
			r.DistanceKm, r.EstimatedTransferTimeMin)
	}
	fmt.Printf("\nTotal patients to transfer: %d\n", plan.TotalPatientsToTransfer)
}

func sendTransferPlan(plan *transfer.Plan) {
	token := telegramToken
	if token == "" {
		token = os.Getenv("CRISISFORGE_TELEGRAM_TOKEN")
	}
	chatID := telegramChatID
	if chatID == "" {
		chatID = os.Getenv("CRISISFORGE_TELEGRAM_CHAT_ID")
	}
	notifier := &alerts.TelegramNotifier{Token: token, ChatID: chatID}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := notifier.Send(ctx, alerts.FormatTransferMessage(plan)); err != nil {
		logrus.Fatalf("Unable to deliver transfer plan: %v", err)
	}
	logrus.Info("Transfer plan delivered")
}

func init() {
	transfersCmd.Flags().StringVar(&facilitiesFile, "facilities", "", "YAML file describing the hospital network")
	transfersCmd.Flags().IntVar(&demoFacilities, "demo", 6, "Demo network size when no facility file is given")
	transfersCmd.Flags().Float64Var(&pressureThreshold, "threshold", 75, "Pressure percentage above which a hospital sends patients")
	transfersCmd.Flags().IntVar(&maxTransfers, "max-transfers", 10, "Maximum transfer recommendations per plan")
	transfersCmd.Flags().BoolVar(&transfersJSON, "json", false, "Emit the plan as JSON")
	transfersCmd.Flags().BoolVar(&notifyTransfers, "notify", false, "Send the plan via Telegram")
	transfersCmd.Flags().StringVar(&telegramToken, "telegram-token", "", "Telegram bot token")
	transfersCmd.Flags().StringVar(&telegramChatID, "telegram-chat", "", "Telegram chat ID")

	rootCmd.AddCommand(transfersCmd)
}
