package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nspcc-dev/content-contract/chain"
	"github.com/nspcc-dev/content-contract/config"
	"github.com/nspcc-dev/content-contract/content"
	rpccontent "github.com/nspcc-dev/content-contract/rpc/content"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var (
	accountFlag = cli.StringFlag{
		Name:     "account, a",
		Usage:    "Address of the account signing the claim",
		Required: true,
	}
	actorFlag = cli.StringFlag{
		Name:  "as",
		Usage: "Actor of the claim: 'member:<id>', 'collaborator:<id>', 'curator:<group>:<curator>' or 'lead'",
		Value: "lead",
	}
	withdrawFlag = cli.BoolFlag{
		Name:  "withdraw",
		Usage: "Pay the reward out to the channel owner at once",
	}

	verifyCommand = cli.Command{
		Name:   "verify",
		Usage:  "Check channel claim from the payout snapshot against the stored commitment",
		Flags:  []cli.Flag{configFlag, dirFlag, labelFlag, blockFlag, channelFlag},
		Action: verify,
	}
	claimCommand = cli.Command{
		Name:   "claim",
		Usage:  "Claim channel reward using the payout snapshot",
		Flags:  []cli.Flag{configFlag, dirFlag, labelFlag, blockFlag, channelFlag, accountFlag, actorFlag, withdrawFlag},
		Action: claim,
	}
)

func verify(c *cli.Context) error {
	proof, payment, err := claimArgs(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	n, err := openNode(c.String("config"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer n.close()

	inc, err := rpccontent.NewReader(n.exec).VerifyClaim(proof, payment)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("verify claim: %w", err), 1)
	}

	fmt.Fprintf(c.App.Writer, "Claimable: %s\n", inc.ToBig())

	return nil
}

func claim(c *cli.Context) error {
	a, err := parseActor(c.String("as"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	acc, err := config.ParseAccount(c.String("account"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	proof, payment, err := claimArgs(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	n, err := openNode(c.String("config"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer n.close()

	var (
		ctx = context.Background()
		ct  = rpccontent.New(n.exec, acc)
		r   *chain.Receipt
	)

	if c.Bool("withdraw") {
		r, err = ct.ClaimAndWithdrawChannelReward(ctx, a, proof, payment)
	} else {
		r, err = ct.ClaimChannelReward(ctx, a, proof, payment)
	}
	if err != nil {
		return cli.NewExitError(fmt.Errorf("claim reward of channel #%d: %w", c.Uint64("channel"), err), 1)
	}

	events, err := rpccontent.ChannelRewardUpdatedEventsFromReceipt(r)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	for _, e := range events {
		n.log.Info("channel reward claimed",
			zap.Uint64("channel", e.ChannelID),
			zap.Stringer("amount", e.Amount),
			zap.Stringer("total", e.CumulativeRewardClaimed),
			zap.Stringer("invocation", r.ID))
		fmt.Fprintf(c.App.Writer, "Claimed: %s (total %s)\n", e.Amount, e.CumulativeRewardClaimed)
	}

	return nil
}

// parseActor parses colon-separated actor description.
func parseActor(s string) (content.Actor, error) {
	parts := strings.Split(s, ":")

	ids := make([]uint64, len(parts)-1)
	for i := range ids {
		var err error
		ids[i], err = strconv.ParseUint(parts[i+1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("actor '%s': invalid identifier: %w", s, err)
		}
	}

	switch {
	case parts[0] == "lead" && len(ids) == 0:
		return content.Lead{}, nil
	case parts[0] == "member" && len(ids) == 1:
		return content.Member{MemberID: ids[0]}, nil
	case parts[0] == "collaborator" && len(ids) == 1:
		return content.Collaborator{MemberID: ids[0]}, nil
	case parts[0] == "curator" && len(ids) == 2:
		return content.Curator{GroupID: ids[0], CuratorID: ids[1]}, nil
	default:
		return nil, fmt.Errorf("invalid actor '%s'", s)
	}
}
