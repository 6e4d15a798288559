// Package config provides YAML configuration of the content modules node.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/content-contract/balance/balanceconst"
	"github.com/nspcc-dev/content-contract/common"
	"github.com/nspcc-dev/content-contract/content"
	"github.com/nspcc-dev/content-contract/deploy"
	"github.com/nspcc-dev/neo-go/pkg/core/storage/dbconfig"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is a root of the configuration file.
type Config struct {
	// Store backend: inmemory, leveldb or boltdb.
	DB dbconfig.DBConfiguration `yaml:"DB"`

	LogLevel string `yaml:"LogLevel"`

	Genesis Genesis `yaml:"Genesis"`
}

// Genesis is a configuration of the initial module state. Accounts are Neo
// addresses, amounts are decimal strings.
type Genesis struct {
	Root               string            `yaml:"Root"`
	ExistentialDeposit string            `yaml:"ExistentialDeposit"`
	Budgets            map[string]string `yaml:"Budgets"`
	Limits             Limits            `yaml:"Limits"`
	Members            []Member          `yaml:"Members"`
	Lead               *Worker           `yaml:"Lead"`
	Curators           []Worker          `yaml:"Curators"`
	Endowments         []Endowment       `yaml:"Endowments"`
	Payouts            *Payouts          `yaml:"Payouts"`
}

// Limits overrides default module limits, zero values keep defaults.
type Limits struct {
	MaxMerkleProofHashes       uint32 `yaml:"MaxMerkleProofHashes"`
	MaxCollaboratorsPerChannel uint32 `yaml:"MaxCollaboratorsPerChannel"`
	MaxCuratorsPerGroup        uint32 `yaml:"MaxCuratorsPerGroup"`
}

// Member is a member registered on genesis.
type Member struct {
	Handle     string `yaml:"Handle"`
	Controller string `yaml:"Controller"`
}

// Worker is a working group worker appointed on genesis.
type Worker struct {
	Handle      string `yaml:"Handle"`
	RoleAccount string `yaml:"RoleAccount"`
}

// Endowment is an account funded on genesis.
type Endowment struct {
	Account string `yaml:"Account"`
	Amount  string `yaml:"Amount"`
}

// Payouts is an initial payout commitment. Commitment is a hex-encoded root.
type Payouts struct {
	Commitment        string `yaml:"Commitment"`
	MinCashoutAllowed string `yaml:"MinCashoutAllowed"`
	MaxCashoutAllowed string `yaml:"MaxCashoutAllowed"`
	CashoutsDisabled  bool   `yaml:"CashoutsDisabled"`
}

const defaultDBType = "inmemory"

// Load reads configuration from the YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return Decode(data)
}

// Decode parses YAML configuration. Unknown fields are rejected.
func Decode(data []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.DB.Type == "" {
		cfg.DB.Type = defaultDBType
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = zapcore.InfoLevel.String()
	}

	return &cfg, nil
}

// Logger constructs production logger of the configured level.
func (c *Config) Logger() (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

var budgetNameReplacer = strings.NewReplacer(" ", "", "_", "", "-", "")

// ParseBudget parses budget name ignoring case and word separators:
// "ContentWorkingGroup" and "content_working_group" are the same.
func ParseBudget(s string) (balanceconst.Budget, error) {
	name := strings.ToLower(budgetNameReplacer.Replace(s))
	for _, b := range []balanceconst.Budget{balanceconst.Council, balanceconst.ContentWorkingGroup} {
		if name == budgetNameReplacer.Replace(b.String()) {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown budget '%s'", s)
}

// ParseAccount parses Neo address.
func ParseAccount(s string) (util.Uint160, error) {
	acc, err := address.StringToUint160(s)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid address '%s': %w", s, err)
	}
	return acc, nil
}

func parseOptionalAmount(s string) (*uint256.Int, error) {
	if s == "" {
		return nil, nil
	}
	return common.ParseAmount(s)
}

// Prm converts genesis configuration into deployment parameters. Logger and
// Executor are left for the caller to set.
func (g Genesis) Prm() (deploy.Prm, error) {
	var (
		prm deploy.Prm
		err error
	)

	if g.Root == "" {
		return prm, errors.New("missing root account")
	}

	prm.Root, err = ParseAccount(g.Root)
	if err != nil {
		return prm, fmt.Errorf("root: %w", err)
	}

	prm.ExistentialDeposit, err = parseOptionalAmount(g.ExistentialDeposit)
	if err != nil {
		return prm, fmt.Errorf("existential deposit: %w", err)
	}

	prm.Budgets = make(map[balanceconst.Budget]*uint256.Int, len(g.Budgets))
	for name, v := range g.Budgets {
		b, err := ParseBudget(name)
		if err != nil {
			return prm, err
		}
		prm.Budgets[b], err = common.ParseAmount(v)
		if err != nil {
			return prm, fmt.Errorf("%s budget: %w", b, err)
		}
	}

	prm.Limits = content.DefaultLimits()
	if g.Limits.MaxMerkleProofHashes != 0 {
		prm.Limits.MaxMerkleProofHashes = g.Limits.MaxMerkleProofHashes
	}
	if g.Limits.MaxCollaboratorsPerChannel != 0 {
		prm.Limits.MaxCollaboratorsPerChannel = g.Limits.MaxCollaboratorsPerChannel
	}
	if g.Limits.MaxCuratorsPerGroup != 0 {
		prm.Limits.MaxCuratorsPerGroup = g.Limits.MaxCuratorsPerGroup
	}
	if err := prm.Limits.Validate(); err != nil {
		return prm, err
	}

	for i, m := range g.Members {
		acc, err := ParseAccount(m.Controller)
		if err != nil {
			return prm, fmt.Errorf("member #%d: %w", i, err)
		}
		prm.Members = append(prm.Members, deploy.MemberPrm{Handle: m.Handle, Controller: acc})
	}

	if g.Lead != nil {
		w, err := g.Lead.prm()
		if err != nil {
			return prm, fmt.Errorf("lead: %w", err)
		}
		prm.Lead = &w
	}

	for i, c := range g.Curators {
		w, err := c.prm()
		if err != nil {
			return prm, fmt.Errorf("curator #%d: %w", i, err)
		}
		prm.Curators = append(prm.Curators, w)
	}

	for i, e := range g.Endowments {
		acc, err := ParseAccount(e.Account)
		if err != nil {
			return prm, fmt.Errorf("endowment #%d: %w", i, err)
		}
		a, err := common.ParseAmount(e.Amount)
		if err != nil {
			return prm, fmt.Errorf("endowment #%d: %w", i, err)
		}
		prm.Endowments = append(prm.Endowments, deploy.EndowmentPrm{Account: acc, Amount: a})
	}

	if g.Payouts != nil {
		p, err := g.Payouts.prm()
		if err != nil {
			return prm, fmt.Errorf("payouts: %w", err)
		}
		prm.Payouts = &p
	}

	return prm, nil
}

func (w Worker) prm() (deploy.WorkerPrm, error) {
	acc, err := ParseAccount(w.RoleAccount)
	if err != nil {
		return deploy.WorkerPrm{}, err
	}
	return deploy.WorkerPrm{Handle: w.Handle, RoleAccount: acc}, nil
}

func (p Payouts) prm() (deploy.PayoutsPrm, error) {
	var (
		res deploy.PayoutsPrm
		err error
	)

	res.Commitment, err = util.Uint256DecodeStringBE(p.Commitment)
	if err != nil {
		return res, fmt.Errorf("commitment: %w", err)
	}

	res.MinCashoutAllowed, err = parseOptionalAmount(p.MinCashoutAllowed)
	if err != nil {
		return res, fmt.Errorf("min cashout: %w", err)
	}

	res.MaxCashoutAllowed, err = parseOptionalAmount(p.MaxCashoutAllowed)
	if err != nil {
		return res, fmt.Errorf("max cashout: %w", err)
	}

	res.CashoutsDisabled = p.CashoutsDisabled

	return res, nil
}
