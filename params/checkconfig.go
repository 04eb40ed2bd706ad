package params

import (
	"errors"
	"fmt"
	"strings"
)

// CheckConfig verifies config items
func CheckConfig(config *ConsoleConfig) error {
	if config == nil {
		return errors.New("empty config")
	}
	if config.Identifier == "" {
		return errors.New("config must have 'Identifier'")
	}
	if config.DataDir == "" {
		return errors.New("config must have 'DataDir'")
	}
	if len(config.Networks) == 0 {
		return errors.New("config must have at least one network in 'Networks'")
	}
	seen := make(map[string]bool)
	for _, network := range config.Networks {
		if err := checkNetworkConfig(network); err != nil {
			return err
		}
		name := strings.ToLower(network.Name)
		if seen[name] {
			return fmt.Errorf("duplicate network '%v'", network.Name)
		}
		seen[name] = true
	}
	if config.DefaultNetwork != "" && !seen[strings.ToLower(config.DefaultNetwork)] {
		return fmt.Errorf("default network '%v' is not in 'Networks'", config.DefaultNetwork)
	}
	if err := checkAlertConfig(config.Alert); err != nil {
		return err
	}
	return nil
}

func checkNetworkConfig(network *NetworkConfig) error {
	if network == nil {
		return errors.New("empty network config")
	}
	if network.Name == "" {
		return errors.New("network must have 'Name'")
	}
	switch strings.ToLower(network.Name) {
	case "mainnet", "testnet", "devnet":
	default:
		return fmt.Errorf("unsupported network '%v'", network.Name)
	}
	if len(network.WSServers) == 0 {
		return fmt.Errorf("network '%v' must have 'WSServers'", network.Name)
	}
	for _, wsServer := range network.WSServers {
		if !strings.HasPrefix(wsServer, "ws://") && !strings.HasPrefix(wsServer, "wss://") {
			return fmt.Errorf("network '%v' websocket server '%v' must be a ws/wss url", network.Name, wsServer)
		}
	}
	if network.RPCServer == "" {
		return fmt.Errorf("network '%v' must have 'RPCServer'", network.Name)
	}
	return nil
}

func checkAlertConfig(alert *AlertConfig) error {
	if alert == nil || !alert.Enable {
		return nil
	}
	if alert.From == "" || len(alert.To) == 0 {
		return errors.New("alert config must have 'From' and 'To'")
	}
	if alert.SMTPHost == "" || alert.SMTPPort == 0 {
		return errors.New("alert config must have 'SMTPHost' and 'SMTPPort'")
	}
	return nil
}
