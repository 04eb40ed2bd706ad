package cache

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xrplkit/walletconsole/ledger"
	"github.com/xrplkit/walletconsole/params"
)

// State serves ledger reads through the cache.
// One client per network is dialed and reused.
type State struct {
	store *Store

	clientMu sync.Mutex
	clients  map[string]*ledger.Client
}

// NewState builds a state service with an empty cache
func NewState() *State {
	return &State{
		store:   NewStore(),
		clients: make(map[string]*ledger.Client),
	}
}

// Store exposes the underlying cache
func (s *State) Store() *Store {
	return s.store
}

// Client returns the memoized client of a network, building it on
// first use. The empty name resolves to the default network.
func (s *State) Client(networkName string) (*ledger.Client, error) {
	network, err := params.GetNetwork(networkName)
	if err != nil {
		return nil, err
	}
	s.clientMu.Lock()
	defer s.clientMu.Unlock()
	if client, ok := s.clients[network.Name]; ok {
		return client, nil
	}
	client, err := ledger.NewClient(network.Name)
	if err != nil {
		return nil, err
	}
	s.clients[network.Name] = client
	return client, nil
}

// Close closes all dialed clients
func (s *State) Close() {
	s.clientMu.Lock()
	defer s.clientMu.Unlock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clients = make(map[string]*ledger.Client)
}

func accountKey(network, address, item string) string {
	return fmt.Sprintf("%v:account:%v:%v", network, address, item)
}

func networkKey(network, item string) string {
	return fmt.Sprintf("%v:network:%v", network, item)
}

// InvalidateAccount drops all cached state of one account,
// called after a transaction of that account was submitted
func (s *State) InvalidateAccount(network, address string) {
	s.store.InvalidatePrefix(fmt.Sprintf("%v:account:%v:", network, address))
}

// GetAccountInfo returns the possibly cached account_info of an address
func (s *State) GetAccountInfo(network, address string, forceRefresh bool) (*ledger.AccountInfoResult, error) {
	client, err := s.Client(network)
	if err != nil {
		return nil, err
	}
	key := accountKey(client.Network().Name, address, "info")
	value, err := s.store.GetOrFetch(key, DefaultTTL, forceRefresh, func() (interface{}, error) {
		return client.GetAccountInfo(address)
	})
	if err != nil {
		return nil, err
	}
	return value.(*ledger.AccountInfoResult), nil
}

// GetAccountData returns just the account root of an address
func (s *State) GetAccountData(network, address string, forceRefresh bool) (*ledger.AccountData, error) {
	info, err := s.GetAccountInfo(network, address, forceRefresh)
	if err != nil {
		return nil, err
	}
	return &info.AccountData, nil
}

// GetAccountObjects returns the possibly cached ledger objects of an
// address, one cache slot per object type filter
func (s *State) GetAccountObjects(network, address, objectType string, forceRefresh bool) (*ledger.AccountObjectsResult, error) {
	client, err := s.Client(network)
	if err != nil {
		return nil, err
	}
	item := "objects"
	if objectType != "" {
		item = "objects:" + objectType
	}
	key := accountKey(client.Network().Name, address, item)
	value, err := s.store.GetOrFetch(key, DefaultTTL, forceRefresh, func() (interface{}, error) {
		return client.GetAccountObjects(address, objectType)
	})
	if err != nil {
		return nil, err
	}
	return value.(*ledger.AccountObjectsResult), nil
}

// GetFee returns the possibly cached fee levels of a network.
// Fee entries expire faster than the default, tuned per network.
func (s *State) GetFee(network string, forceRefresh bool) (*ledger.FeeResult, error) {
	client, err := s.Client(network)
	if err != nil {
		return nil, err
	}
	networkName := client.Network().Name
	ttl := time.Duration(params.GetFeeTTLSeconds(networkName)) * time.Second
	value, err := s.store.GetOrFetch(networkKey(networkName, "fee"), ttl, forceRefresh, func() (interface{}, error) {
		return client.GetFee()
	})
	if err != nil {
		return nil, err
	}
	return value.(*ledger.FeeResult), nil
}

// GetServerInfo returns the possibly cached server_info of a network
func (s *State) GetServerInfo(network string, forceRefresh bool) (*ledger.ServerInfoResult, error) {
	client, err := s.Client(network)
	if err != nil {
		return nil, err
	}
	networkName := client.Network().Name
	value, err := s.store.GetOrFetch(networkKey(networkName, "serverinfo"), DefaultTTL, forceRefresh, func() (interface{}, error) {
		return client.GetServerInfo()
	})
	if err != nil {
		return nil, err
	}
	return value.(*ledger.ServerInfoResult), nil
}

// GetFeeAndServerInfo fetches both network snapshots concurrently
func (s *State) GetFeeAndServerInfo(network string, forceRefresh bool) (*ledger.FeeResult, *ledger.ServerInfoResult, error) {
	var (
		fee        *ledger.FeeResult
		serverInfo *ledger.ServerInfoResult
	)
	var group errgroup.Group
	group.Go(func() error {
		var err error
		fee, err = s.GetFee(network, forceRefresh)
		return err
	})
	group.Go(func() error {
		var err error
		serverInfo, err = s.GetServerInfo(network, forceRefresh)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}
	return fee, serverInfo, nil
}
