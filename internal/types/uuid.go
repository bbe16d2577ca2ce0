package types

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID prefixes for all entity types. Prefixed ULIDs keep ids sortable by
// creation time while staying self-describing in logs and API payloads.
const (
	UUID_PREFIX_SUBSCRIPTION_MODEL = "model"
	UUID_PREFIX_TIER               = "tier"
	UUID_PREFIX_FEATURE            = "feat"
	UUID_PREFIX_CUSTOMER           = "cust"
	UUID_PREFIX_PAYMENT_METHOD     = "pm"
	UUID_PREFIX_TRANSACTION        = "txn"
	UUID_PREFIX_REFUND             = "ref"
	UUID_PREFIX_REQUEST            = "req"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// GenerateUUID returns a lowercase ULID.
func GenerateUUID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy).String())
}

// GenerateUUIDWithPrefix returns a ULID with the given entity prefix,
// e.g. "txn_01hx...".
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}
