// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/holiman/uint256"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/hyperxcm/asset"
	"github.com/ava-labs/hyperxcm/consts"
	"github.com/ava-labs/hyperxcm/location"
	"github.com/ava-labs/hyperxcm/trace"
)

var (
	ErrInvalidConfigFormat = errors.New("invalid config format")
	ErrInvalidValue        = errors.New("invalid config value")
)

const (
	defaultLogLevel          = "info"
	defaultHRP               = "xcm"
	defaultUnitWeight        = 1_000_000
	defaultMaxInstructions   = 100
	defaultWeightLimit       = 1_000_000_000
	defaultUnitsPerSecond    = "1000000000000"
	defaultOutboxSize        = 1_024
	defaultMaxOffersPerPair  = 1_024
	defaultHTTPHost          = "127.0.0.1"
	defaultHTTPPort          = 9650
	defaultTraceSampleRate   = 0.1
	defaultFeeAsset          = "here"
	defaultTrustNativeAssets = true
)

// Trust names an origin trusted for an asset class.
type Trust struct {
	Asset  string `json:"asset" yaml:"asset"`
	Origin string `json:"origin" yaml:"origin"`
}

type Config struct {
	// Logging
	LogLevel string `json:"logLevel" yaml:"logLevel"`
	LogDir   string `json:"logDir" yaml:"logDir"` // empty logs to the console only

	// Tracing
	TraceEnabled    bool    `json:"traceEnabled" yaml:"traceEnabled"`
	TraceEndpoint   string  `json:"traceEndpoint" yaml:"traceEndpoint"`
	TraceSampleRate float64 `json:"traceSampleRate" yaml:"traceSampleRate"`

	// Executor
	MaxRecursionLimit   int    `json:"maxRecursionLimit" yaml:"maxRecursionLimit"`
	UnitWeight          uint64 `json:"unitWeight" yaml:"unitWeight"`
	MaxInstructions     int    `json:"maxInstructions" yaml:"maxInstructions"`
	WeightLimit         uint64 `json:"weightLimit" yaml:"weightLimit"`
	RefundUnderpaidFees bool   `json:"refundUnderpaidFees" yaml:"refundUnderpaidFees"`

	// Fees
	FeeAsset       string `json:"feeAsset" yaml:"feeAsset"`
	UnitsPerSecond string `json:"unitsPerSecond" yaml:"unitsPerSecond"` // fee units per second of weight

	// Topology
	Ancestry          string   `json:"ancestry" yaml:"ancestry"`
	PaidOrigins       []string `json:"paidOrigins" yaml:"paidOrigins"`
	UnpaidOrigins     []string `json:"unpaidOrigins" yaml:"unpaidOrigins"`
	Superusers        []string `json:"superusers" yaml:"superusers"`
	TrustNativeAssets bool     `json:"trustNativeAssets" yaml:"trustNativeAssets"`
	Reserves          []*Trust `json:"reserves" yaml:"reserves"`
	Teleporters       []*Trust `json:"teleporters" yaml:"teleporters"`

	// Ledger
	HRP             string `json:"hrp" yaml:"hrp"`
	CheckingAccount string `json:"checkingAccount" yaml:"checkingAccount"`
	RevenueAccount  string `json:"revenueAccount" yaml:"revenueAccount"`
	DatabasePath    string `json:"databasePath" yaml:"databasePath"` // empty keeps state in memory
	GenesisPath     string `json:"genesisPath" yaml:"genesisPath"`

	// Router
	Reachable      []string `json:"reachable" yaml:"reachable"`
	OutboxSize     int      `json:"outboxSize" yaml:"outboxSize"`
	MaxMessageSize int      `json:"maxMessageSize" yaml:"maxMessageSize"`

	// Exchange
	MaxOffersPerPair int `json:"maxOffersPerPair" yaml:"maxOffersPerPair"`

	// API
	HTTPHost       string   `json:"httpHost" yaml:"httpHost"`
	HTTPPort       uint16   `json:"httpPort" yaml:"httpPort"`
	AllowedOrigins []string `json:"allowedOrigins" yaml:"allowedOrigins"`
	AllowedHosts   []string `json:"allowedHosts" yaml:"allowedHosts"`

	logLevel        logging.Level
	feeAsset        asset.ID
	unitsPerSecond  *uint256.Int
	ancestry        location.Location
	paidOrigins     []location.Location
	unpaidOrigins   []location.Location
	superusers      []location.Location
	reserves        []Case
	teleporters     []Case
	checkingAccount *location.Location
	revenueAccount  *location.Location
	reachable       []location.Location
}

// Case is a parsed [Trust].
type Case struct {
	Asset  asset.ID
	Origin location.Location
}

// New parses a JSON or YAML config. Empty [b] yields the defaults.
func New(b []byte) (*Config, error) {
	c := &Config{}
	c.setDefault()
	switch {
	case len(b) == 0:
	case isJSON(b):
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
	case isYAML(b):
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
	default:
		return nil, ErrInvalidConfigFormat
	}
	if err := c.parse(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the config at [path].
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(b)
}

func (c *Config) setDefault() {
	c.LogLevel = defaultLogLevel
	c.TraceSampleRate = defaultTraceSampleRate
	c.MaxRecursionLimit = consts.MaxRecursionLimit
	c.UnitWeight = defaultUnitWeight
	c.MaxInstructions = defaultMaxInstructions
	c.WeightLimit = defaultWeightLimit
	c.FeeAsset = defaultFeeAsset
	c.UnitsPerSecond = defaultUnitsPerSecond
	c.TrustNativeAssets = defaultTrustNativeAssets
	c.HRP = defaultHRP
	c.OutboxSize = defaultOutboxSize
	c.MaxMessageSize = consts.MaxMessageSize
	c.MaxOffersPerPair = defaultMaxOffersPerPair
	c.HTTPHost = defaultHTTPHost
	c.HTTPPort = defaultHTTPPort
	c.AllowedOrigins = []string{"*"}
	c.AllowedHosts = []string{"localhost"}
}

func (c *Config) parse() error {
	var err error
	if c.logLevel, err = logging.ToLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: logLevel: %w", ErrInvalidValue, err)
	}
	if c.MaxRecursionLimit <= 0 {
		return fmt.Errorf("%w: maxRecursionLimit must be positive", ErrInvalidValue)
	}
	if c.feeAsset, err = asset.ParseID(c.FeeAsset); err != nil {
		return fmt.Errorf("%w: feeAsset: %w", ErrInvalidValue, err)
	}
	if c.unitsPerSecond, err = uint256.FromDecimal(c.UnitsPerSecond); err != nil {
		return fmt.Errorf("%w: unitsPerSecond: %w", ErrInvalidValue, err)
	}
	if c.ancestry, err = location.Parse(c.Ancestry); err != nil {
		return fmt.Errorf("%w: ancestry: %w", ErrInvalidValue, err)
	}
	if c.paidOrigins, err = parseLocations("paidOrigins", c.PaidOrigins); err != nil {
		return err
	}
	if c.unpaidOrigins, err = parseLocations("unpaidOrigins", c.UnpaidOrigins); err != nil {
		return err
	}
	if c.superusers, err = parseLocations("superusers", c.Superusers); err != nil {
		return err
	}
	if c.reachable, err = parseLocations("reachable", c.Reachable); err != nil {
		return err
	}
	if c.reserves, err = parseTrusts("reserves", c.Reserves); err != nil {
		return err
	}
	if c.teleporters, err = parseTrusts("teleporters", c.Teleporters); err != nil {
		return err
	}
	if c.checkingAccount, err = parseOptional("checkingAccount", c.CheckingAccount); err != nil {
		return err
	}
	if c.revenueAccount, err = parseOptional("revenueAccount", c.RevenueAccount); err != nil {
		return err
	}
	return nil
}

func parseLocations(field string, ss []string) ([]location.Location, error) {
	ls := make([]location.Location, len(ss))
	for i, s := range ss {
		l, err := location.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %w", ErrInvalidValue, field, i, err)
		}
		ls[i] = l
	}
	return ls, nil
}

func parseTrusts(field string, ts []*Trust) ([]Case, error) {
	cs := make([]Case, len(ts))
	for i, t := range ts {
		id, err := asset.ParseID(t.Asset)
		if err != nil {
			return nil, fmt.Errorf("%w: %s[%d].asset: %w", ErrInvalidValue, field, i, err)
		}
		origin, err := location.Parse(t.Origin)
		if err != nil {
			return nil, fmt.Errorf("%w: %s[%d].origin: %w", ErrInvalidValue, field, i, err)
		}
		cs[i] = Case{Asset: id, Origin: origin}
	}
	return cs, nil
}

func parseOptional(field string, s string) (*location.Location, error) {
	if len(s) == 0 {
		return nil, nil
	}
	l, err := location.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidValue, field, err)
	}
	return &l, nil
}

func (c *Config) GetLogLevel() logging.Level             { return c.logLevel }
func (c *Config) GetFeeAsset() asset.ID                  { return c.feeAsset }
func (c *Config) GetUnitsPerSecond() *uint256.Int        { return new(uint256.Int).Set(c.unitsPerSecond) }
func (c *Config) GetAncestry() location.Location         { return c.ancestry }
func (c *Config) GetPaidOrigins() []location.Location    { return c.paidOrigins }
func (c *Config) GetUnpaidOrigins() []location.Location  { return c.unpaidOrigins }
func (c *Config) GetSuperusers() []location.Location     { return c.superusers }
func (c *Config) GetReachable() []location.Location      { return c.reachable }
func (c *Config) GetReserves() []Case                    { return c.reserves }
func (c *Config) GetTeleporters() []Case                 { return c.teleporters }
func (c *Config) GetCheckingAccount() *location.Location { return c.checkingAccount }
func (c *Config) GetRevenueAccount() *location.Location  { return c.revenueAccount }
func (c *Config) GetHTTPAddress() string                 { return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort) }
func (c *Config) GetTraceConfig(agent string) *trace.Config {
	return &trace.Config{
		Enabled:         c.TraceEnabled,
		Endpoint:        c.TraceEndpoint,
		TraceSampleRate: c.TraceSampleRate,
		AppName:         consts.Name,
		Agent:           agent,
		Version:         fmt.Sprintf("v%d", consts.Version),
	}
}

func isJSON(b []byte) bool {
	var js map[string]interface{}
	return json.Unmarshal(b, &js) == nil
}

func isYAML(b []byte) bool {
	var y map[string]interface{}
	return yaml.Unmarshal(b, &y) == nil
}
