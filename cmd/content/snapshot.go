package main

import (
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/nspcc-dev/content-contract/common"
	"github.com/nspcc-dev/content-contract/merkle"
	"github.com/nspcc-dev/content-contract/snapshot"
	"github.com/urfave/cli"
)

var (
	commitCommand = cli.Command{
		Name:      "commit",
		Usage:     "Build payout snapshot from CSV table of 'channel,earned' records",
		ArgsUsage: "<table.csv>",
		Flags:     []cli.Flag{dirFlag, labelFlag, blockFlag},
		Action:    commit,
	}
	proofCommand = cli.Command{
		Name:   "proof",
		Usage:  "Print encoded payment of the channel and its proof from the payout snapshot",
		Flags:  []cli.Flag{dirFlag, labelFlag, blockFlag, channelFlag},
		Action: proof,
	}
)

func snapshotID(c *cli.Context) (snapshot.ID, error) {
	block := c.Uint("block")
	if block > math.MaxUint32 {
		return snapshot.ID{}, fmt.Errorf("block %d is out of range", block)
	}
	return snapshot.ID{Label: c.String("label"), Block: uint32(block)}, nil
}

func commit(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("exactly one payments table is expected", 1)
	}

	id, err := snapshotID(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	f, err := os.Open(c.Args().First())
	if err != nil {
		return cli.NewExitError(fmt.Errorf("open payments table: %w", err), 1)
	}
	defer f.Close()

	dir := c.String("dir")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return cli.NewExitError(fmt.Errorf("create snapshot dir: %w", err), 1)
	}

	s, err := snapshot.NewCreator(dir, id)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("init snapshot creator: %w", err), 1)
	}
	defer s.Close()

	err = readPayments(f, s.Add)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	cm, err := s.Flush()
	if err != nil {
		return cli.NewExitError(fmt.Errorf("flush snapshot: %w", err), 1)
	}

	fmt.Fprintf(c.App.Writer, "Snapshot: %s\n", cm.ID)
	fmt.Fprintf(c.App.Writer, "Commitment: %s\n", cm.Root.StringBE())
	fmt.Fprintf(c.App.Writer, "Payments: %d\n", cm.Payments)
	fmt.Fprintf(c.App.Writer, "Max proof length: %d\n", cm.Depth)
	fmt.Fprintf(c.App.Writer, "Total: %s\n", cm.Total.ToBig())

	return nil
}

// readPayments passes every 'channel,earned' record of the table into f.
func readPayments(r io.Reader, f func(merkle.PullPayment) error) error {
	rd := csv.NewReader(r)
	rd.FieldsPerRecord = 2
	rd.TrimLeadingSpace = true

	for n := 1; ; n++ {
		rec, err := rd.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read payments table: %w", err)
		}

		id, err := strconv.ParseUint(rec[0], 10, 64)
		if err != nil {
			return fmt.Errorf("record #%d: invalid channel: %w", n, err)
		}

		earned, err := common.ParseAmount(rec[1])
		if err != nil {
			return fmt.Errorf("record #%d: %w", n, err)
		}

		err = f(merkle.PullPayment{ChannelID: id, CumulativeRewardEarned: *earned})
		if err != nil {
			return fmt.Errorf("record #%d: %w", n, err)
		}
	}
}

// claimArgs reads encoded payment of the channel and its proof from the
// snapshot.
func claimArgs(c *cli.Context) (proof []byte, payment []byte, err error) {
	id, err := snapshotID(c)
	if err != nil {
		return nil, nil, err
	}

	r, err := snapshot.Open(c.String("dir"), id)
	if err != nil {
		return nil, nil, fmt.Errorf("open snapshot %s: %w", id, err)
	}

	p, pr, err := r.Payment(c.Uint64("channel"))
	if err != nil {
		return nil, nil, err
	}

	return pr.Bytes(), p.Bytes(), nil
}

func proof(c *cli.Context) error {
	pr, p, err := claimArgs(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	fmt.Fprintf(c.App.Writer, "Payment: %s\n", hex.EncodeToString(p))
	fmt.Fprintf(c.App.Writer, "Proof: %s\n", hex.EncodeToString(pr))

	return nil
}
