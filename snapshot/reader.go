package snapshot

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nspcc-dev/content-contract/common"
	"github.com/nspcc-dev/content-contract/merkle"
)

var (
	// ErrRootMismatch is returned when payments don't match the commitment.
	ErrRootMismatch = errors.New("payments don't match commitment root")
	// ErrChannelNotFound is returned for channels missing in the snapshot.
	ErrChannelNotFound = errors.New("channel is not in the snapshot")
)

// IterateSnapshots iterates over all snapshots written by the Creator in the
// specified directory, and passes ID and Reader of each snapshot into f.
func IterateSnapshots(dir string, f func(ID, *Reader)) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, e error) error {
		if errors.Is(e, fs.ErrNotExist) {
			return nil
		}
		if e != nil {
			return e
		}

		if d.IsDir() {
			if path != dir {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()

		if !strings.HasSuffix(name, sep+commitmentFileSuffix) {
			return nil
		}

		var id ID

		err := id.decodeString(name)
		if err != nil {
			return fmt.Errorf("decode snapshot ID from file name '%s': %w", name, err)
		}

		r, err := Open(dir, id)
		if err != nil {
			return fmt.Errorf("open snapshot '%s': %w", id, err)
		}

		f(id, r)

		return nil
	})
}

// Reader reads payments of the snapshot.
type Reader struct {
	commitment Commitment
	payments   []merkle.PullPayment
	index      map[uint64]int
	tree       *merkle.Tree
}

// Open reads snapshot with given ID from the directory. Payments are checked
// against the commitment.
func Open(dir string, id ID) (*Reader, error) {
	var streams snapshotStreams

	err := initSnapshotStreams(&streams, dir, id, true)
	if err != nil {
		return nil, err
	}
	defer streams.close()

	var r Reader

	err = r.fromSnapshotStreams(streams.commitment, streams.payments)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

func (x *Reader) fromSnapshotStreams(rCommitment, rPayments io.Reader) error {
	err := json.NewDecoder(rCommitment).Decode(&x.commitment)
	if err != nil {
		return fmt.Errorf("decode commitment from JSON: %w", err)
	}

	_csv := csv.NewReader(rPayments)
	_csv.FieldsPerRecord = 2
	_csv.ReuseRecord = true

	x.index = make(map[uint64]int)

	for {
		rec, err := _csv.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("read next CSV record: %w", err)
		}

		// out-of-range safety guaranteed by csv settings
		id, err := strconv.ParseUint(rec[0], 10, 64)
		if err != nil {
			return fmt.Errorf("decode channel ID: %w", err)
		}

		earned, err := common.ParseAmount(rec[1])
		if err != nil {
			return fmt.Errorf("decode cumulative reward of channel %d: %w", id, err)
		}

		if _, ok := x.index[id]; ok {
			return fmt.Errorf("%w: channel %d", ErrDuplicateChannel, id)
		}

		x.index[id] = len(x.payments)
		x.payments = append(x.payments, merkle.PullPayment{ChannelID: id, CumulativeRewardEarned: *earned})
	}

	x.tree, err = merkle.NewTree(x.payments)
	if err != nil {
		return fmt.Errorf("build tree: %w", err)
	}

	if root := x.tree.Root(); !root.Equals(x.commitment.Root) {
		return fmt.Errorf("%w: expected %s, got %s", ErrRootMismatch,
			EncodeRoot(x.commitment.Root), EncodeRoot(root))
	}

	return nil
}

// Commitment returns description of the snapshot commitment.
func (x *Reader) Commitment() Commitment {
	return x.commitment
}

// Payments returns snapshot payments in the leaf order.
func (x *Reader) Payments() []merkle.PullPayment {
	return x.payments
}

// Payment returns payment of the channel along with its proof.
func (x *Reader) Payment(channelID uint64) (merkle.PullPayment, merkle.Proof, error) {
	i, ok := x.index[channelID]
	if !ok {
		return merkle.PullPayment{}, nil, fmt.Errorf("%w: %d", ErrChannelNotFound, channelID)
	}

	proof, err := x.tree.Proof(i)
	if err != nil {
		return merkle.PullPayment{}, nil, err
	}

	return x.payments[i], proof, nil
}
