package export

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
)

var ErrTooShort = errors.New("export: trajectory needs at least two finite samples")

var csvHeader = []string{"index", "x", "y", "v", "theta"}

// TrajectoryCSV writes one row per sample.
func TrajectoryCSV(w io.Writer, points [][]float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	row := make([]string, len(csvHeader))
	for i, p := range points {
		row[0] = strconv.Itoa(i)
		for j := 0; j < len(csvHeader)-1 && j < len(p); j++ {
			row[j+1] = strconv.FormatFloat(p[j], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
