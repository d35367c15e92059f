package uid

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// ErrStableNodeIdentityUnavailable indicates no stable node identity is available.
var ErrStableNodeIdentityUnavailable = errors.New("uid: cannot determine stable node identity (machine-id/hostname unavailable)")

// StringID produces opaque string identifiers.
type StringID interface {
	Generate() string
}

// ObjectIDGenerator generates 12-byte identifiers rendered as 24 lowercase hex
// characters, laid out like a BSON ObjectId: 4-byte seconds, 5-byte node, 3-byte
// counter. Ids from one generator sort by creation second.
type ObjectIDGenerator struct {
	node    [5]byte
	counter atomic.Uint32
	now     func() time.Time
}

// NewObjectIDGenerator creates a generator whose node bytes derive from the
// machine id (or hostname) and the process id.
func NewObjectIDGenerator() (*ObjectIDGenerator, error) {
	src, err := nodeIdentity()
	if err != nil {
		return nil, err
	}

	g := &ObjectIDGenerator{now: time.Now}
	sum := sha256.Sum256([]byte(src))
	copy(g.node[:3], sum[:3])
	pid := os.Getpid()
	g.node[3] = byte(pid >> 8)
	g.node[4] = byte(pid)

	var seed [4]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, err
	}
	g.counter.Store(uint32(seed[0])<<16 | uint32(seed[1])<<8 | uint32(seed[2]))

	return g, nil
}

func nodeIdentity() (string, error) {
	if b, err := os.ReadFile("/etc/machine-id"); err == nil {
		if s := strings.TrimSpace(string(b)); s != "" {
			return s, nil
		}
	}

	if h, err := os.Hostname(); err == nil {
		if h = strings.TrimSpace(h); h != "" {
			return h, nil
		}
	}

	return "", ErrStableNodeIdentityUnavailable
}

// Generate returns a new 24 character hex identifier.
func (g *ObjectIDGenerator) Generate() string {
	var raw [12]byte

	sec := uint32(g.now().Unix())
	raw[0] = byte(sec >> 24)
	raw[1] = byte(sec >> 16)
	raw[2] = byte(sec >> 8)
	raw[3] = byte(sec)

	copy(raw[4:9], g.node[:])

	c := g.counter.Add(1)
	raw[9] = byte(c >> 16)
	raw[10] = byte(c >> 8)
	raw[11] = byte(c)

	return hex.EncodeToString(raw[:])
}
