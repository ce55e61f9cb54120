package transport

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carlosrabelo/bridgevlan/core/domain/entities"
)

var (
	clientCache   = make(map[string]Client)
	clientCacheMu sync.Mutex
)

// cacheKey identifies one login session. Port is part of the key because
// RouterOS devices are often reached through forwarded ports on a shared address.
func cacheKey(cfg entities.SwitchConfig) string {
	keyData := struct {
		Transport string
		Target    string
		Port      int
		Username  string
		Password  string
	}{
		Transport: cfg.Transport,
		Target:    cfg.Target,
		Port:      cfg.Port,
		Username:  cfg.Username,
		Password:  cfg.Password,
	}
	bytes, _ := json.Marshal(keyData)
	hash := sha256.Sum256(bytes)
	return hex.EncodeToString(hash[:])
}

// Get returns a cached CLI client for the provided configuration or creates a new one
func Get(cfg entities.SwitchConfig) Client {
	clientCacheMu.Lock()
	defer clientCacheMu.Unlock()
	key := cacheKey(cfg)
	if client, exists := clientCache[key]; exists {
		return client
	}
	client := newClient(cfg)
	clientCache[key] = client
	return client
}

// CloseAll releases every cached client session
func CloseAll() {
	clientCacheMu.Lock()
	defer clientCacheMu.Unlock()
	for key, client := range clientCache {
		client.Disconnect()
		delete(clientCache, key)
	}
}

func newClient(cfg entities.SwitchConfig) Client {
	if cfg.Transport == "ssh" {
		return NewSSHClient(cfg)
	}
	return NewTelnetClient(cfg)
}

// logRaw dumps device output when raw output was requested with --verbose 2 or 3
func logRaw(cfg entities.SwitchConfig, log *logrus.Entry, format string, args ...interface{}) {
	if cfg.IsRawOutputEnabled() {
		log.WithField("raw", true).Infof(format, args...)
	}
}
