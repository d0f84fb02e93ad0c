package redis

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// KeyPrefixEmail is the prefix for email record keys
	KeyPrefixEmail = "showcase:email:"
	// KeyEmailOrder is the sorted set keeping records in source order
	KeyEmailOrder = "showcase:emails:order"
	// KeyPrefixSession is the prefix for per-session state keys
	KeyPrefixSession = "showcase:session:"
)

// EmailKey returns the Redis key for an email record by ID
func EmailKey(id int) string {
	return KeyPrefixEmail + strconv.Itoa(id)
}

// EmailOrderKey returns the key of the record order set
func EmailOrderKey() string {
	return KeyEmailOrder
}

// SessionPrefix returns the key prefix shared by every entry of a session
func SessionPrefix(sid string) string {
	return KeyPrefixSession + sid + ":"
}

// SessionKey returns the Redis key of one session entry, e.g.
// showcase:session:<sid>:email-favorites
func SessionKey(sid, name string) string {
	return SessionPrefix(sid) + name
}

// ExtractSessionID extracts the session ID from a session entry key
func ExtractSessionID(key string) (string, error) {
	rest, ok := strings.CutPrefix(key, KeyPrefixSession)
	if !ok {
		return "", fmt.Errorf("invalid session key: %s", key)
	}
	sid, _, ok := strings.Cut(rest, ":")
	if !ok || sid == "" {
		return "", fmt.Errorf("invalid session key: %s", key)
	}
	return sid, nil
}
