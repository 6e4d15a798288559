package snapshot

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/nspcc-dev/content-contract/merkle"
)

// ErrDuplicateChannel is returned when snapshot has more than one payment of
// the same channel.
var ErrDuplicateChannel = errors.New("duplicate channel payment")

// Creator writes payout snapshots. See package docs for the file format.
//
// Use Open or IterateSnapshots to access existing snapshots.
type Creator struct {
	snapshotStreams

	id       ID
	payments []merkle.PullPayment
	channels map[uint64]struct{}

	paymentsCSV *csv.Writer
}

// NewCreator returns Creator which writes the snapshot into given directory.
// The snapshot is identified by specified ID. Resulting Creator should be
// closed when finished working with it.
//
// NewCreator fails if snapshot with provided ID already exists.
func NewCreator(dir string, id ID) (*Creator, error) {
	if err := id.validate(); err != nil {
		return nil, err
	}

	res := Creator{
		id:       id,
		channels: make(map[uint64]struct{}),
	}

	err := initSnapshotStreams(&res.snapshotStreams, dir, id, false)
	if err != nil {
		return nil, err
	}

	res.paymentsCSV = csv.NewWriter(res.snapshotStreams.payments)

	return &res, nil
}

// Add appends payment to the snapshot. Payments are added in the order of the
// tree leaves.
func (x *Creator) Add(p merkle.PullPayment) error {
	if _, ok := x.channels[p.ChannelID]; ok {
		return fmt.Errorf("%w: channel %d", ErrDuplicateChannel, p.ChannelID)
	}

	err := x.paymentsCSV.Write([]string{
		strconv.FormatUint(p.ChannelID, 10),
		p.CumulativeRewardEarned.ToBig().String(),
	})
	if err != nil {
		return fmt.Errorf("write payment as CSV data: %w", err)
	}

	x.channels[p.ChannelID] = struct{}{}
	x.payments = append(x.payments, p)

	return nil
}

// Flush builds commitment over all added payments and flushes the snapshot
// to the file system.
func (x *Creator) Flush() (Commitment, error) {
	c, err := newCommitment(x.id, x.payments)
	if err != nil {
		return Commitment{}, fmt.Errorf("build commitment: %w", err)
	}

	jEnc := json.NewEncoder(x.snapshotStreams.commitment)
	jEnc.SetIndent("", " ")

	err = jEnc.Encode(c)
	if err != nil {
		return Commitment{}, fmt.Errorf("encode commitment to JSON: %w", err)
	}

	x.paymentsCSV.Flush()

	err = x.paymentsCSV.Error()
	if err != nil {
		return Commitment{}, fmt.Errorf("flush CSV data: %w", err)
	}

	return c, nil
}

// Close releases underlying resources of the Creator and makes it unusable.
func (x *Creator) Close() {
	x.close()
}
