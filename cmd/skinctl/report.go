package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"skin-health-backend/internal/analyses"
	"skin-health-backend/internal/reports"
	"skin-health-backend/internal/session"
	"skin-health-backend/internal/shared/storage/object"
	localstore "skin-health-backend/internal/shared/storage/object/local"
)

func reportCmd() *cobra.Command {
	var (
		name, age, address, mobile, symptoms, when, out, storeDir string
	)
	cmd := &cobra.Command{
		Use:   "report <image>",
		Short: "Classify a photo and write the PDF diagnosis report",
		Long: `Run the full analysis flow for one photo and patient details, then render
the same PDF report the web service serves at /generate-pdf.

Example:
  skinctl report rash.jpg --name "Asha Verma" --age 31 --symptoms "itchy ring" --out report.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts := time.Now()
			if strings.TrimSpace(when) != "" {
				parsed, err := analyses.ParseTimestamp(when)
				if err != nil {
					return fmt.Errorf("--datetime: %w", err)
				}
				ts = parsed
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			kb, err := loadKnowledge()
			if err != nil {
				return err
			}
			clf, closeFn, err := openClassifier()
			if err != nil {
				return err
			}
			defer closeFn()

			if storeDir == "" {
				storeDir, err = os.MkdirTemp("", "skinctl-*")
				if err != nil {
					return err
				}
				defer os.RemoveAll(storeDir)
			}
			store := localstore.New(storeDir)
			results := session.NewStore[analyses.Result](0, nil)
			svc := &analyses.Service{
				Store:      store,
				Naming:     object.OverwriteNaming,
				Classifier: clf,
				Knowledge:  kb,
				Results:    results,
			}

			sess := session.Session{ID: uuid.NewString()}
			res, err := svc.Analyze(cmd.Context(), sess, analyses.Submission{
				Name:      name,
				Age:       age,
				Address:   address,
				Mobile:    mobile,
				Symptoms:  symptoms,
				Timestamp: ts,
			}, analyses.Upload{FileName: filepath.Base(args[0]), Data: data})
			if err != nil {
				return err
			}

			renderer, err := reports.NewRenderer(store)
			if err != nil {
				return err
			}
			pdf, err := renderer.PDF(cmd.Context(), res)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, pdf, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%.2f%%) -> %s\n", args[0], res.PredictedDisease, res.PredictionScore, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "patient name")
	cmd.Flags().StringVar(&age, "age", "", "patient age")
	cmd.Flags().StringVar(&address, "address", "", "patient address")
	cmd.Flags().StringVar(&mobile, "mobile", "", "patient mobile number")
	cmd.Flags().StringVar(&symptoms, "symptoms", "", "reported symptoms")
	cmd.Flags().StringVar(&when, "datetime", "", "observation time, 2006-01-02T15:04 (default: now)")
	cmd.Flags().StringVarP(&out, "out", "o", "diagnosis_report.pdf", "output PDF path")
	cmd.Flags().StringVar(&storeDir, "store", "", "directory to keep the uploaded copy in (default: temporary)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
