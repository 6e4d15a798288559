package main

import (
	"context"
	"fmt"

	"github.com/nspcc-dev/content-contract/chain"
	"github.com/nspcc-dev/content-contract/config"
	"github.com/nspcc-dev/content-contract/deploy"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var genesisCommand = cli.Command{
	Name:   "genesis",
	Usage:  "Initialize module state from the configuration or update stored one",
	Flags:  []cli.Flag{configFlag},
	Action: genesis,
}

// node is an executor opened over the configured store.
type node struct {
	cfg  *config.Config
	log  *zap.Logger
	exec *chain.Executor
}

func openNode(path string) (*node, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	log, err := cfg.Logger()
	if err != nil {
		return nil, err
	}

	st, err := storage.NewStore(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.DB.Type, err)
	}

	exec, err := chain.NewExecutor(chain.Prm{
		Store:  st,
		Logger: log,
	})
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("init executor: %w", err)
	}

	return &node{cfg: cfg, log: log, exec: exec}, nil
}

func (n *node) close() {
	if err := n.exec.Close(); err != nil {
		n.log.Warn("failed to close store", zap.Error(err))
	}
	_ = n.log.Sync()
}

func genesis(c *cli.Context) error {
	n, err := openNode(c.String("config"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer n.close()

	prm, err := n.cfg.Genesis.Prm()
	if err != nil {
		return cli.NewExitError(fmt.Errorf("genesis configuration: %w", err), 1)
	}
	prm.Logger = n.log
	prm.Executor = n.exec

	res, err := deploy.Deploy(context.Background(), prm)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	if res == nil {
		fmt.Fprintln(c.App.Writer, "State is up to date")
		return nil
	}

	for _, m := range n.cfg.Genesis.Members {
		fmt.Fprintf(c.App.Writer, "Member %s: #%d\n", m.Handle, res.Members[m.Handle])
	}
	if res.Lead != 0 {
		fmt.Fprintf(c.App.Writer, "Lead: worker #%d\n", res.Lead)
	}
	for _, w := range n.cfg.Genesis.Curators {
		fmt.Fprintf(c.App.Writer, "Curator %s: worker #%d\n", w.Handle, res.Curators[w.Handle])
	}

	return nil
}
