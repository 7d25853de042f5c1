package loader

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/lukekulik/lidar-align/trajectory"
)

// Fixed field layout of a pose line. Field 1 is present in the 9-field
// layout but unused.
const (
	csvTimeField = 0
	csvXField    = 2
	csvYField    = 3
	csvZField    = 4
	csvRWField   = 5
	csvRXField   = 6
	csvRYField   = 7
	csvRZField   = 8

	csvMinFields = 9

	csvCommentMarker = "#"
)

// LoadTrajectoryFromCSV appends a pose sample to the store for every
// parseable line of the file at the given path, in file order. Comment
// lines and lines with too few fields are skipped; a line with
// malformed numeric content aborts the load with the samples appended
// so far left in place. Unlike the bag source, no empty-result check is
// applied here; LoadTrajectory applies it for both sources.
func (l *Loader) LoadTrajectoryFromCSV(path string, store TrajectoryStore) (err error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "unable to open csv file")
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()

	loaded := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		stamp, t, ok, perr := parseCSVTransform(scanner.Text())
		if perr != nil {
			return perr
		}
		if !ok {
			continue
		}
		store.Append(stamp, t)
		loaded++
		l.logger.Debugf("loaded transform %d from csv", loaded)
	}
	if serr := scanner.Err(); serr != nil {
		return errors.Wrapf(serr, "error while reading csv file")
	}
	return nil
}

// parseCSVTransform parses one comma-delimited pose line. The third
// return value is false for a line to be skipped: empty, comment, or
// fewer than 9 fields. The source timestamp is taken as nanoseconds and
// truncated to microseconds; note the bag source combines seconds and
// nanoseconds itself, so the two paths deliberately convert differently.
// Malformed numeric content is an error, not a skip.
func parseCSVTransform(line string) (trajectory.Timestamp, trajectory.Transform, bool, error) {
	if line == "" || strings.HasPrefix(line, csvCommentMarker) {
		return 0, trajectory.Transform{}, false, nil
	}

	fields := strings.Split(line, ",")
	if len(fields) < csvMinFields {
		return 0, trajectory.Transform{}, false, nil
	}

	stampNanos, err := strconv.ParseInt(fields[csvTimeField], 10, 64)
	if err != nil {
		return 0, trajectory.Transform{}, false, errors.Wrapf(err, "invalid timestamp %q", fields[csvTimeField])
	}

	vals := make([]float64, 0, 7)
	for _, i := range []int{csvXField, csvYField, csvZField, csvRWField, csvRXField, csvRYField, csvRZField} {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return 0, trajectory.Transform{}, false, errors.Wrapf(err, "invalid transform field %q", fields[i])
		}
		vals = append(vals, v)
	}

	stamp := trajectory.Timestamp(stampNanos / 1000)
	t := trajectory.NewTransform(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], vals[6])
	return stamp, t, true, nil
}
