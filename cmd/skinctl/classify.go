package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"skin-health-backend/internal/classifier"
)

type classifyRow struct {
	File       string  `json:"file"`
	Disease    string  `json:"disease,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Error      string  `json:"error,omitempty"`
}

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <image|dir>...",
		Short: "Classify one or more skin photos",
		Long: `Classify skin photos with the production model and print the predicted
disease and confidence for each file. Directories are expanded to the images
they contain.

Examples:
  skinctl classify rash.jpg
  skinctl classify ./photos --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runClassify,
	}
	cmd.Flags().Bool("json", false, "print results as JSON lines")
	_ = viper.BindPFlag("classify.json", cmd.Flags().Lookup("json"))
	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	files, err := collectImages(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no images found")
	}

	clf, closeFn, err := openClassifier()
	if err != nil {
		return err
	}
	defer closeFn()

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Classifying"),
		progressbar.OptionClearOnFinish(),
	)

	rows := make([]classifyRow, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := classifyRow{File: path}
		pred, err := classifyFile(cmd, clf, path)
		if err != nil {
			row.Error = err.Error()
		} else {
			row.Disease = pred.Disease.String()
			row.Confidence = pred.Confidence
		}
		rows = append(rows, row)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	if viper.GetBool("classify.json") {
		enc := json.NewEncoder(cmd.OutOrStdout())
		for _, row := range rows {
			if err := enc.Encode(row); err != nil {
				return err
			}
		}
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), renderTable(rows))
	return nil
}

// renderTable lays rows out in fixed columns. Widths are measured on the
// plain text so styling does not shift alignment.
func renderTable(rows []classifyRow) string {
	fileW := len("FILE")
	diseaseW := len("DISEASE")
	for _, row := range rows {
		fileW = max(fileW, lipgloss.Width(row.File))
		diseaseW = max(diseaseW, lipgloss.Width(row.Disease))
	}
	fileCol := lipgloss.NewStyle().Width(fileW + 2)
	diseaseCol := lipgloss.NewStyle().Width(diseaseW + 2)

	var b strings.Builder
	b.WriteString(fileCol.Render(headerStyle.Render("FILE")))
	b.WriteString(diseaseCol.Render(headerStyle.Render("DISEASE")))
	b.WriteString(headerStyle.Render("CONFIDENCE"))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(fileCol.Render(row.File))
		if row.Error != "" {
			b.WriteString(diseaseCol.Render(subtleStyle.Render("-")))
			b.WriteString(errorStyle.Render("error: " + row.Error))
		} else {
			b.WriteString(diseaseCol.Render(row.Disease))
			b.WriteString(confidenceStyle(row.Confidence).Render(fmt.Sprintf("%.2f%%", row.Confidence)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func classifyFile(cmd *cobra.Command, clf *classifier.Classifier, path string) (classifier.Prediction, error) {
	f, err := os.Open(path)
	if err != nil {
		return classifier.Prediction{}, err
	}
	defer f.Close()
	img, _, err := classifier.Decode(f)
	if err != nil {
		return classifier.Prediction{}, err
	}
	return clf.Classify(cmd.Context(), img)
}
