package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/connmat/pkg/errors"
	"github.com/matzehuels/connmat/pkg/matrix"
	"github.com/matzehuels/connmat/pkg/pipeline"
)

// loadedMatrix is a matrix read back from disk with its row labels.
type loadedMatrix struct {
	m      *matrix.Matrix
	labels []uint64
}

// loadMatrix reads a CSV or JSON matrix written by build. CSV matrices take
// their labels from labelsPath when given; otherwise rows are named by
// dense index.
func loadMatrix(path, labelsPath string) (*loadedMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInputAccess, err, "open %s", path)
	}
	defer f.Close()

	var lm loadedMatrix
	if strings.EqualFold(filepath.Ext(path), ".json") {
		lm.m, lm.labels, err = matrix.ReadJSON(f)
	} else {
		lm.m, err = matrix.ReadCSV(f)
	}
	if err != nil {
		return nil, err
	}

	if labelsPath != "" {
		labels, err := pipeline.ReadLabelsFile(labelsPath)
		if err != nil {
			return nil, err
		}
		if len(labels) != lm.m.Size() {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"%s has %d labels for a %dx%d matrix", labelsPath, len(labels), lm.m.Size(), lm.m.Size())
		}
		lm.labels = labels
	}
	if lm.labels == nil {
		lm.labels = make([]uint64, lm.m.Size())
		for i := range lm.labels {
			lm.labels[i] = uint64(i)
		}
	}
	return &lm, nil
}
