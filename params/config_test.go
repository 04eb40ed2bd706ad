package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testConfigContent = `
Identifier = "walletconsole"
DataDir = "/tmp/walletconsole"
DefaultNetwork = "testnet"

[APIServer]
Port = 12345
AllowedOrigins = ["http://localhost:4200"]
MaxRequestsPerSecond = 20

[[Networks]]
Name = "mainnet"
WSServers = ["wss://s1.ripple.com:443"]
RPCServer = "https://s1.ripple.com:51234"
FeeTTLSeconds = 15

[[Networks]]
Name = "testnet"
WSServers = ["wss://s.altnet.rippletest.net:51233"]
RPCServer = "https://s.altnet.rippletest.net:51234"
FaucetURL = "https://faucet.altnet.rippletest.net/accounts"
FeeTTLSeconds = 8
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "config.toml")
	err := os.WriteFile(file, []byte(content), 0600)
	assert.Nil(t, err)
	return file
}

func TestLoadConfig(t *testing.T) {
	configFile := writeTestConfig(t, testConfigContent)
	config, err := loadConfigFile(configFile)
	assert.Nil(t, err)
	assert.Nil(t, CheckConfig(config))
	SetConfig(config)
	configFilePath = configFile

	assert.Equal(t, "walletconsole", GetIdentifier())
	assert.Equal(t, 12345, GetAPIPort())
	assert.Equal(t, "testnet", GetDefaultNetwork())

	mainnet, err := GetNetwork("mainnet")
	assert.Nil(t, err)
	assert.Equal(t, "https://s1.ripple.com:51234", mainnet.RPCServer)

	// default network is used when no name is given
	testnet, err := GetNetwork("")
	assert.Nil(t, err)
	assert.Equal(t, "testnet", testnet.Name)

	_, err = GetNetwork("nosuchnet")
	assert.Error(t, err)

	assert.Equal(t, 15, GetFeeTTLSeconds("mainnet"))
	assert.Equal(t, 8, GetFeeTTLSeconds("testnet"))
	assert.Equal(t, defaultFeeTTL, GetFeeTTLSeconds("nosuchnet"))
}

func TestCheckConfig(t *testing.T) {
	assert.Error(t, CheckConfig(nil))
	assert.Error(t, CheckConfig(&ConsoleConfig{}))

	config := &ConsoleConfig{
		Identifier: "walletconsole",
		DataDir:    "/tmp/walletconsole",
		Networks: []*NetworkConfig{
			{
				Name:      "testnet",
				WSServers: []string{"wss://s.altnet.rippletest.net:51233"},
				RPCServer: "https://s.altnet.rippletest.net:51234",
			},
		},
	}
	assert.Nil(t, CheckConfig(config))

	config.Networks[0].WSServers = []string{"http://not-a-ws-url"}
	assert.Error(t, CheckConfig(config))
	config.Networks[0].WSServers = []string{"wss://s.altnet.rippletest.net:51233"}

	config.Networks[0].Name = "unknownnet"
	assert.Error(t, CheckConfig(config))
	config.Networks[0].Name = "testnet"

	config.DefaultNetwork = "mainnet"
	assert.Error(t, CheckConfig(config))
	config.DefaultNetwork = "testnet"

	config.Alert = &AlertConfig{Enable: true}
	assert.Error(t, CheckConfig(config))
	config.Alert = &AlertConfig{
		Enable:   true,
		From:     "console@example.com",
		To:       []string{"ops@example.com"},
		SMTPHost: "smtp.example.com",
		SMTPPort: 587,
	}
	assert.Nil(t, CheckConfig(config))
}
