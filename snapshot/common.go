package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ID is a unique identifier of the snapshot.
type ID struct {
	// Label of the payout period (e.g. 2024w01).
	Label string
	// Blockchain height at which rewards were computed.
	Block uint32
}

// String returns hyphen-separated ID fields.
func (x ID) String() string {
	return x.Label + sep + strconv.FormatUint(uint64(x.Block), 10)
}

// decodes ID fields from the hyphen-separated file name.
func (x *ID) decodeString(s string) error {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return fmt.Errorf("expected '%s'-separated string with at least 2 items", sep)
	}
	s = s[:i]

	i = strings.LastIndex(s, sep)
	if i <= 0 {
		return fmt.Errorf("expected '%s'-separated string with at least 3 items", sep)
	}

	n, err := strconv.ParseUint(s[i+1:], 10, 32)
	if err != nil {
		return fmt.Errorf("decode block number from '%s': %w", s[i+1:], err)
	}

	x.Label = s[:i]
	x.Block = uint32(n)

	return nil
}

// ErrInvalidLabel is returned for labels which can't be used in file names.
var ErrInvalidLabel = errors.New("invalid snapshot label")

func (x ID) validate() error {
	if x.Label == "" || strings.ContainsAny(x.Label, `/\`) {
		return fmt.Errorf("%w: '%s'", ErrInvalidLabel, x.Label)
	}
	return nil
}

const (
	// word separator used in snapshot file naming
	sep = "-"
	// suffix of file with payments
	paymentsFileSuffix = "payments.csv"
	// suffix of file with commitment description
	commitmentFileSuffix = "commitment.json"
)

// snapshotStreams groups data streams for payments and commitment.
type snapshotStreams struct {
	payments, commitment io.ReadWriteCloser
}

// close closes all streams.
func (x *snapshotStreams) close() {
	_ = x.payments.Close()
	_ = x.commitment.Close()
}

func snapshotPath(dir string, id ID, suffix string) string {
	return filepath.Join(dir, strings.Join([]string{id.String(), suffix}, sep))
}

// initSnapshotStreams opens data streams for the snapshot files located in the
// specified directory. If read flag is set, streams are read-only. Otherwise,
// files must not exist, and streams are write only.
func initSnapshotStreams(s *snapshotStreams, dir string, id ID, read bool) error {
	pathPayments := snapshotPath(dir, id, paymentsFileSuffix)
	pathCommitment := snapshotPath(dir, id, commitmentFileSuffix)

	var (
		flag int
		perm os.FileMode
	)

	if read {
		flag = os.O_RDONLY
	} else {
		for _, p := range []string{pathPayments, pathCommitment} {
			if err := checkFileNotExists(p); err != nil {
				return err
			}
		}

		flag = os.O_CREATE | os.O_WRONLY
		perm = 0600
	}

	var err error

	s.payments, err = os.OpenFile(pathPayments, flag, perm)
	if err != nil {
		return fmt.Errorf("open file with payments: %w", err)
	}

	s.commitment, err = os.OpenFile(pathCommitment, flag, perm)
	if err != nil {
		_ = s.payments.Close()
		return fmt.Errorf("open file with commitment: %w", err)
	}

	return nil
}

// checkFileNotExists checks that there is no file at the specified path.
func checkFileNotExists(p string) error {
	_, err := os.Stat(p)
	if !os.IsNotExist(err) {
		if err == nil {
			err = os.ErrExist
		}
		return fmt.Errorf("file '%s' absence check failed: %w", p, err)
	}
	return nil
}
