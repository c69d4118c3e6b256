package otpstore

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestMemoryGenerate(t *testing.T) {

	t.Run("CodeIsSixDigits", func(t *testing.T) {

		// Arrange
		store := NewMemory(5*time.Minute, newFakeClock())

		// Act
		code, err := store.Generate("DOC1")

		// Assert
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6-digit code, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("expected numeric code, got %q", code)
			}
		}
	})

	t.Run("ReplacesPriorCode", func(t *testing.T) {

		// Arrange
		store := NewMemory(5*time.Minute, newFakeClock())
		first, err := store.Generate("DOC1")
		if err != nil {
			t.Fatalf("generate first: %v", err)
		}

		// Act: regenerate until the code value actually differs
		second := first
		for range 10 {
			second, err = store.Generate("DOC1")
			if err != nil {
				t.Fatalf("generate second: %v", err)
			}
			if second != first {
				break
			}
		}
		if second == first {
			t.Skipf("random codes collided repeatedly")
		}

		// Assert
		if store.Validate("DOC1", first) {
			t.Fatalf("first code should be invalid after regeneration")
		}
		if !store.Validate("DOC1", second) {
			t.Fatalf("second code should validate")
		}
	})
}

func TestMemoryValidate(t *testing.T) {

	t.Run("SucceedsExactlyOnce", func(t *testing.T) {

		// Arrange
		store := NewMemory(5*time.Minute, newFakeClock())
		code, err := store.Generate("DOC1")
		if err != nil {
			t.Fatalf("generate: %v", err)
		}

		// Act & Assert
		if !store.Validate("DOC1", code) {
			t.Fatalf("first validate should succeed")
		}
		if store.Validate("DOC1", code) {
			t.Fatalf("second validate with the same code should fail")
		}
	})

	t.Run("UnknownSubject", func(t *testing.T) {

		// Arrange
		store := NewMemory(5*time.Minute, newFakeClock())

		// Act & Assert
		if store.Validate("NOPE", "123456") {
			t.Fatalf("validate without a generated code should fail")
		}
	})

	t.Run("MismatchKeepsRecord", func(t *testing.T) {

		// Arrange
		store := NewMemory(5*time.Minute, newFakeClock())
		code, err := store.Generate("DOC1")
		if err != nil {
			t.Fatalf("generate: %v", err)
		}

		// Act
		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}
		if store.Validate("DOC1", wrong) {
			t.Fatalf("mismatched code should fail")
		}

		// Assert: retry with the right code still works within the window
		if !store.Validate("DOC1", code) {
			t.Fatalf("correct code should still validate after a mismatch")
		}
	})

	t.Run("ExpiredCodeIsEvicted", func(t *testing.T) {

		// Arrange
		clk := newFakeClock()
		store := NewMemory(5*time.Minute, clk)
		code, err := store.Generate("DOC1")
		if err != nil {
			t.Fatalf("generate: %v", err)
		}

		// Act
		clk.Advance(5*time.Minute + time.Second)

		// Assert
		if store.Validate("DOC1", code) {
			t.Fatalf("expired code should fail")
		}
		if _, ok := store.Peek("DOC1"); ok {
			t.Fatalf("expired record should be evicted")
		}
	})

	t.Run("ConcurrentRedemptionHasOneWinner", func(t *testing.T) {

		// Arrange
		store := NewMemory(5*time.Minute, newFakeClock())
		code, err := store.Generate("DOC1")
		if err != nil {
			t.Fatalf("generate: %v", err)
		}

		const callers = 32
		var wins atomic.Int32
		var start, done sync.WaitGroup
		start.Add(1)
		done.Add(callers)

		// Act
		for range callers {
			go func() {
				defer done.Done()
				start.Wait()
				if store.Validate("DOC1", code) {
					wins.Add(1)
				}
			}()
		}
		start.Done()
		done.Wait()

		// Assert
		if got := wins.Load(); got != 1 {
			t.Fatalf("expected exactly one winner, got %d", got)
		}
	})
}

func TestMemoryPeek(t *testing.T) {

	t.Run("DoesNotConsume", func(t *testing.T) {

		// Arrange
		clk := newFakeClock()
		store := NewMemory(5*time.Minute, clk)
		code, err := store.Generate("DOC1")
		if err != nil {
			t.Fatalf("generate: %v", err)
		}

		// Act
		rec, ok := store.Peek("DOC1")

		// Assert
		if !ok {
			t.Fatalf("expected live record")
		}
		if rec.Code != code || rec.SubjectID != "DOC1" {
			t.Fatalf("unexpected record: %+v", rec)
		}
		if want := clk.Now().Add(5 * time.Minute); !rec.ExpiresAt.Equal(want) {
			t.Fatalf("expected expiry %v, got %v", want, rec.ExpiresAt)
		}
		if !store.Validate("DOC1", code) {
			t.Fatalf("peek must not consume the code")
		}
	})
}
