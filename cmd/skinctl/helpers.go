package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"skin-health-backend/internal/classifier"
	"skin-health-backend/internal/classifier/tflite"
	"skin-health-backend/internal/disease"
)

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true, ".webp": true,
}

// openClassifier loads the model named by the model.* settings. The returned
// close func releases the interpreter.
func openClassifier() (*classifier.Classifier, func(), error) {
	backend, err := tflite.Open(viper.GetString("model.path"), tflite.Options{
		Threads:  viper.GetInt("model.threads"),
		PoolSize: 1,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("load model: %w", err)
	}
	clf, err := classifier.New(backend, viper.GetDuration("model.timeout"))
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	return clf, backend.Close, nil
}

func loadKnowledge() (*disease.KnowledgeBase, error) {
	if path := strings.TrimSpace(viper.GetString("knowledge.path")); path != "" {
		return disease.LoadFile(path)
	}
	return disease.Default()
}

// collectImages expands directories into the image files they contain.
func collectImages(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		var found []string
		for _, e := range entries {
			if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
				continue
			}
			found = append(found, filepath.Join(arg, e.Name()))
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}
