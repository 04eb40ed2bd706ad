// Package params holds the console configuration loaded from a toml file.
package params

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/xrplkit/walletconsole/log"
)

const (
	defaultAPIPort    = 11777
	defaultFeeTTL     = 10 // seconds
	defaultNetworkTag = "testnet"
)

var (
	consoleConfig     *ConsoleConfig
	loadConfigStarter sync.Once
	configFilePath    string
	configLock        sync.RWMutex
)

// ConsoleConfig config items (decode from toml file)
type ConsoleConfig struct {
	Identifier     string
	DataDir        string
	DefaultNetwork string           `toml:",omitempty" json:",omitempty"`
	APIServer      *APIServerConfig `toml:",omitempty" json:",omitempty"`
	Networks       []*NetworkConfig
	Alert          *AlertConfig `toml:",omitempty" json:",omitempty"`
}

// APIServerConfig api service config
type APIServerConfig struct {
	Port                 int
	AllowedOrigins       []string `toml:",omitempty" json:",omitempty"`
	MaxRequestsPerSecond float64  `toml:",omitempty" json:",omitempty"`
}

// NetworkConfig a ledger network gateway.
// FeeTTLSeconds overrides how long fee snapshots stay fresh on this network.
type NetworkConfig struct {
	Name          string
	WSServers     []string
	RPCServer     string
	FaucetURL     string `toml:",omitempty" json:",omitempty"`
	FeeTTLSeconds int    `toml:",omitempty" json:",omitempty"`
}

// AlertConfig email alerts for destructive account actions
type AlertConfig struct {
	Enable   bool
	From     string   `toml:",omitempty" json:",omitempty"`
	To       []string `toml:",omitempty" json:",omitempty"`
	SMTPHost string   `toml:",omitempty" json:",omitempty"`
	SMTPPort int      `toml:",omitempty" json:",omitempty"`
	Username string   `toml:",omitempty" json:"-"`
	Password string   `toml:",omitempty" json:"-"`
}

// GetConfig returns the loaded config instance
func GetConfig() *ConsoleConfig {
	configLock.RLock()
	defer configLock.RUnlock()
	return consoleConfig
}

// SetConfig replaces the config instance (used by the reload watcher)
func SetConfig(config *ConsoleConfig) {
	configLock.Lock()
	defer configLock.Unlock()
	consoleConfig = config
}

// GetAPIPort returns the api service port
func GetAPIPort() int {
	apiServer := GetConfig().APIServer
	if apiServer == nil || apiServer.Port == 0 {
		return defaultAPIPort
	}
	return apiServer.Port
}

// GetIdentifier returns the configured identifier
func GetIdentifier() string {
	return GetConfig().Identifier
}

// GetDataDir returns the data directory for local console state
func GetDataDir() string {
	return GetConfig().DataDir
}

// GetDefaultNetwork returns the network selected when none is given
func GetDefaultNetwork() string {
	name := GetConfig().DefaultNetwork
	if name == "" {
		return defaultNetworkTag
	}
	return name
}

// GetNetwork finds a network gateway by name (case insensitive)
func GetNetwork(name string) (*NetworkConfig, error) {
	if name == "" {
		name = GetDefaultNetwork()
	}
	for _, n := range GetConfig().Networks {
		if strings.EqualFold(n.Name, name) {
			return n, nil
		}
	}
	return nil, fmt.Errorf("network '%v' is not configured", name)
}

// GetFeeTTLSeconds returns how long a cached fee snapshot is fresh on a network
func GetFeeTTLSeconds(networkName string) int {
	network, err := GetNetwork(networkName)
	if err != nil || network.FeeTTLSeconds <= 0 {
		return defaultFeeTTL
	}
	return network.FeeTTLSeconds
}

// GetAlertConfig returns alert config, nil when alerts are disabled
func GetAlertConfig() *AlertConfig {
	alert := GetConfig().Alert
	if alert == nil || !alert.Enable {
		return nil
	}
	return alert
}

// LoadConfig loads config from the given toml file (only once)
func LoadConfig(configFile string) *ConsoleConfig {
	loadConfigStarter.Do(func() {
		config, err := loadConfigFile(configFile)
		if err != nil {
			log.Fatalf("LoadConfig error: %v", err)
		}
		configFilePath = configFile
		SetConfig(config)
		bs, _ := json.MarshalIndent(config, "", "  ")
		log.Println("LoadConfig finished.", string(bs))
		if err := CheckConfig(config); err != nil {
			log.Fatalf("Check config failed. %v", err)
		}
		log.Info("Check config success", "configFile", configFile)
	})
	return GetConfig()
}

// ReloadConfig re-reads the config file and swaps it in when valid.
// Invalid content keeps the previous config.
func ReloadConfig() error {
	if configFilePath == "" {
		return errors.New("config was never loaded from a file")
	}
	config, err := loadConfigFile(configFilePath)
	if err != nil {
		return err
	}
	if err := CheckConfig(config); err != nil {
		return err
	}
	SetConfig(config)
	log.Info("Reload config success", "configFile", configFilePath)
	return nil
}

func loadConfigFile(configFile string) (*ConsoleConfig, error) {
	if configFile == "" {
		return nil, errors.New("no config file specified")
	}
	if _, err := os.Stat(configFile); err != nil {
		return nil, fmt.Errorf("config file %v not exist", configFile)
	}
	config := &ConsoleConfig{}
	if _, err := toml.DecodeFile(configFile, &config); err != nil {
		return nil, fmt.Errorf("toml decode file error: %w", err)
	}
	return config, nil
}
