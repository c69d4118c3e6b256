package otpstore

import (
	"crypto/rand"
	"math/big"
	"sync"
	"time"

	"github.com/pquerna/otp"
	"github.com/shandysiswandi/gogate/internal/pkg/clock"
)

// DefaultTTL is used when New receives a non-positive TTL.
const DefaultTTL = 5 * time.Minute

// Record is a stored one-time code bound to a subject.
//
// Records are immutable: a new Generate call replaces the record wholesale,
// and a successful Validate (or expiry) removes it.
type Record struct {
	SubjectID string
	Code      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Store defines the contract for one-time code operations.
//
// None of the methods return domain errors: absence, expiry, and mismatch are
// ordinary false/absent outcomes interpreted by the caller.
type Store interface {
	// Generate creates a fresh code for the subject, replacing any prior one.
	Generate(subjectID string) (string, error)
	// Validate redeems a code. It returns true at most once per generated code.
	Validate(subjectID, code string) bool
	// Peek returns the live record for a subject without consuming it.
	Peek(subjectID string) (Record, bool)
}

// Memory is an in-process Store backed by a mutex-guarded map.
//
// The mutex makes lookup-and-remove atomic per call, so concurrent Validate
// calls for the same subject serialize and exactly one caller can win.
type Memory struct {
	mu      sync.Mutex
	records map[string]Record
	ttl     time.Duration
	digits  otp.Digits
	clock   clock.Clocker
}

// NewMemory constructs a Memory store.
//
// ttl bounds the validity window of each code; clk supplies the time source so
// expiry can be tested deterministically.
func NewMemory(ttl time.Duration, clk clock.Clocker) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Memory{
		records: make(map[string]Record),
		ttl:     ttl,
		digits:  otp.DigitsSix,
		clock:   clk,
	}
}

// Generate creates a fresh 6-digit code for the subject and stores it,
// discarding any unconsumed prior code for the same subject.
func (m *Memory) Generate(subjectID string) (string, error) {
	code, err := m.randomCode()
	if err != nil {
		return "", err
	}

	now := m.clock.Now()

	m.mu.Lock()
	m.records[subjectID] = Record{
		SubjectID: subjectID,
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}
	m.mu.Unlock()

	return code, nil
}

// Validate redeems a code for the subject.
//
// Absent record, elapsed TTL, and mismatch all return false. An expired record
// is evicted on the way out (lazy expiry). On match the record is removed in
// the same critical section, making redemption single-use; on mismatch the
// record stays so the subject can retry within the window.
func (m *Memory) Validate(subjectID, code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[subjectID]
	if !ok {
		return false
	}

	if m.clock.Now().After(rec.ExpiresAt) {
		delete(m.records, subjectID)
		return false
	}

	if rec.Code != code {
		return false
	}

	delete(m.records, subjectID)
	return true
}

// Peek returns the live record for a subject without consuming it, evicting
// the record first when it has already expired.
func (m *Memory) Peek(subjectID string) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[subjectID]
	if !ok {
		return Record{}, false
	}

	if m.clock.Now().After(rec.ExpiresAt) {
		delete(m.records, subjectID)
		return Record{}, false
	}

	return rec, true
}

// randomCode draws a uniform value in [100000, 999999] from crypto/rand and
// renders it with the configured digit length.
func (m *Memory) randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}

	return m.digits.Format(int32(n.Int64() + 100000)), nil
}
