package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/gogate/internal/auth/entity"
	"github.com/shandysiswandi/gogate/internal/pkg/config"
	"github.com/shandysiswandi/gogate/internal/pkg/goerror"
	"github.com/shandysiswandi/gogate/internal/pkg/goroutine"
	"github.com/shandysiswandi/gogate/internal/pkg/hash"
	"github.com/shandysiswandi/gogate/internal/pkg/instrument"
	"github.com/shandysiswandi/gogate/internal/pkg/otpstore"
	"github.com/shandysiswandi/gogate/internal/pkg/uid"
	"github.com/shandysiswandi/gogate/internal/pkg/validator"
	"github.com/shandysiswandi/gogate/internal/pkg/websession"
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

type fakeMessaging struct {
	mu     sync.Mutex
	events []OtpIssuedEvent
}

func (f *fakeMessaging) PublishOtpIssued(_ context.Context, msg OtpIssuedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, msg)
	return nil
}

func (f *fakeMessaging) published() []OtpIssuedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]OtpIssuedEvent{}, f.events...)
}

type fixture struct {
	uc      *Usecase
	mgr     *websession.Manager
	msg     *fakeMessaging
	clk     *fakeClock
	workers *goroutine.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	return newFixtureWithTTL(t, 5)
}

func newFixtureWithTTL(t *testing.T, ttlMinutes int) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	mgr := websession.NewManager(websession.ManagerConfig{
		Store:  websession.NewRedisStore(client, 30*time.Minute),
		Signer: hash.NewHMACSHA256("test-secret"),
		IDGen:  uid.NewUUID(),
	})

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	cfg, err := config.NewViperFromBytes("yaml", fmt.Appendf(nil, "otp:\n  ttl_minutes: %d\n", ttlMinutes))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	clk := newFakeClock()
	msg := &fakeMessaging{}
	workers := goroutine.NewManager(8)

	uc := New(Dependency{
		Otp:           otpstore.NewMemory(time.Duration(ttlMinutes)*time.Minute, clk),
		RepoMessaging: msg,
		Validator:     v10,
		Config:        cfg,
		Clock:         clk,
		Instrument:    instrument.NewNoop(),
		Goroutine:     workers,
	})

	return &fixture{uc: uc, mgr: mgr, msg: msg, clk: clk, workers: workers}
}

// sessionContext builds a context carrying a fresh session handle, the way the
// session middleware does for real requests.
func (f *fixture) sessionContext(t *testing.T) context.Context {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	return websession.NewContext(t.Context(), f.mgr.Handle(rec, req))
}

func assertUnauthorized(t *testing.T, err error, wantMsg string) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected goerror, got %v", err)
	}
	if gerr.Code() != goerror.CodeUnauthorized {
		t.Fatalf("expected unauthorized code, got %v", gerr.Code())
	}
	if gerr.Msg() != wantMsg {
		t.Fatalf("expected message %q, got %q", wantMsg, gerr.Msg())
	}
}

func TestUsecaseLogin(t *testing.T) {

	t.Run("BindsSubjectAndIssuesCode", func(t *testing.T) {

		// Arrange
		f := newFixture(t)
		ctx := f.sessionContext(t)

		// Act
		out, err := f.uc.Login(ctx, LoginInput{SubjectID: "DOC1", ContactAddress: "a@x.com"})

		// Assert
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if len(out.Code) != 6 {
			t.Fatalf("expected 6-digit code, got %q", out.Code)
		}
		if out.SubjectID != "DOC1" || out.ContactAddress != "a@x.com" || out.ExpiresIn != "5 minutes" {
			t.Fatalf("unexpected output: %+v", out)
		}

		handle, _ := websession.FromContext(ctx)
		state, err := handle.Get(ctx)
		if err != nil {
			t.Fatalf("load state: %v", err)
		}
		if state.SubjectID != "DOC1" || state.Authenticated || state.LoginAt == nil {
			t.Fatalf("unexpected state: %+v", state)
		}

		if err := f.workers.Wait(); err != nil {
			t.Fatalf("publish: %v", err)
		}
		events := f.msg.published()
		if len(events) != 1 || events[0].Code != out.Code || events[0].SubjectID != "DOC1" {
			t.Fatalf("unexpected events: %+v", events)
		}
	})

	t.Run("RejectsInvalidContactAddress", func(t *testing.T) {

		// Arrange
		f := newFixture(t)
		ctx := f.sessionContext(t)

		// Act
		_, err := f.uc.Login(ctx, LoginInput{SubjectID: "DOC1", ContactAddress: "not-an-email"})

		// Assert
		if err == nil {
			t.Fatalf("expected validation error")
		}
	})

	t.Run("ResetsPriorAuthentication", func(t *testing.T) {

		// Arrange
		f := newFixture(t)
		ctx := f.sessionContext(t)
		out, err := f.uc.Login(ctx, LoginInput{SubjectID: "DOC1", ContactAddress: "a@x.com"})
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if _, err := f.uc.Validate(ctx, ValidateInput{Code: out.Code}); err != nil {
			t.Fatalf("validate: %v", err)
		}

		// Act: logging in again on the same session drops the authenticated flag
		if _, err := f.uc.Login(ctx, LoginInput{SubjectID: "DOC2", ContactAddress: "b@x.com"}); err != nil {
			t.Fatalf("second login: %v", err)
		}

		// Assert
		handle, _ := websession.FromContext(ctx)
		state, err := handle.Get(ctx)
		if err != nil {
			t.Fatalf("load state: %v", err)
		}
		if state.Authenticated || state.AuthAt != nil || state.SubjectID != "DOC2" {
			t.Fatalf("unexpected state: %+v", state)
		}
	})

	t.Run("ExpiryWindowFollowsConfig", func(t *testing.T) {

		// Arrange
		f := newFixtureWithTTL(t, 10)
		ctx := f.sessionContext(t)

		// Act
		out, err := f.uc.Login(ctx, LoginInput{SubjectID: "DOC1", ContactAddress: "a@x.com"})

		// Assert
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if out.ExpiresIn != "10 minutes" {
			t.Fatalf("unexpected expiry window: %q", out.ExpiresIn)
		}

		if err := f.workers.Wait(); err != nil {
			t.Fatalf("publish: %v", err)
		}
		events := f.msg.published()
		if len(events) != 1 {
			t.Fatalf("unexpected events: %+v", events)
		}
		if want := f.clk.Now().Add(10 * time.Minute); !events[0].ExpiresAt.Equal(want) {
			t.Fatalf("expected event expiry %v, got %v", want, events[0].ExpiresAt)
		}
	})
}

func TestUsecaseValidate(t *testing.T) {

	t.Run("CorrectCodeAuthenticates", func(t *testing.T) {

		// Arrange
		f := newFixture(t)
		ctx := f.sessionContext(t)
		login, err := f.uc.Login(ctx, LoginInput{SubjectID: "DOC1", ContactAddress: "a@x.com"})
		if err != nil {
			t.Fatalf("login: %v", err)
		}

		// Act
		out, err := f.uc.Validate(ctx, ValidateInput{Code: login.Code})

		// Assert
		if err != nil {
			t.Fatalf("validate: %v", err)
		}
		if !out.Authenticated || out.SubjectID != "DOC1" {
			t.Fatalf("unexpected output: %+v", out)
		}

		handle, _ := websession.FromContext(ctx)
		state, err := handle.Get(ctx)
		if err != nil {
			t.Fatalf("load state: %v", err)
		}
		if !state.Authenticated || state.AuthAt == nil {
			t.Fatalf("authenticated flag not persisted: %+v", state)
		}
	})

	t.Run("WrongCodeIsRejected", func(t *testing.T) {

		// Arrange
		f := newFixture(t)
		ctx := f.sessionContext(t)
		login, err := f.uc.Login(ctx, LoginInput{SubjectID: "DOC1", ContactAddress: "a@x.com"})
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		wrong := "000000"
		if wrong == login.Code {
			wrong = "000001"
		}

		// Act
		out, err := f.uc.Validate(ctx, ValidateInput{Code: wrong})

		// Assert
		if err != nil {
			t.Fatalf("validate: %v", err)
		}
		if out.Authenticated {
			t.Fatalf("wrong code must not authenticate")
		}
		if out.Message != "invalid or expired OTP" {
			t.Fatalf("unexpected message %q", out.Message)
		}
	})

	t.Run("CodeIsSingleUse", func(t *testing.T) {

		// Arrange
		f := newFixture(t)
		ctx := f.sessionContext(t)
		login, err := f.uc.Login(ctx, LoginInput{SubjectID: "DOC1", ContactAddress: "a@x.com"})
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if _, err := f.uc.Validate(ctx, ValidateInput{Code: login.Code}); err != nil {
			t.Fatalf("first validate: %v", err)
		}

		// Act
		out, err := f.uc.Validate(ctx, ValidateInput{Code: login.Code})

		// Assert
		if err != nil {
			t.Fatalf("second validate: %v", err)
		}
		if out.Authenticated {
			t.Fatalf("consumed code must not authenticate again")
		}
	})

	t.Run("NoSessionIsRejected", func(t *testing.T) {

		// Arrange
		f := newFixture(t)
		ctx := f.sessionContext(t)

		// Act
		_, err := f.uc.Validate(ctx, ValidateInput{Code: "123456"})

		// Assert
		assertUnauthorized(t, err, "no active session")
	})

	t.Run("MissingCodeIsInvalidInput", func(t *testing.T) {

		// Arrange
		f := newFixture(t)
		ctx := f.sessionContext(t)

		// Act
		_, err := f.uc.Validate(ctx, ValidateInput{Code: ""})

		// Assert
		if err == nil {
			t.Fatalf("expected validation error")
		}
	})
}

func TestUsecaseStatus(t *testing.T) {

	t.Run("AnonymousSession", func(t *testing.T) {

		// Arrange
		f := newFixture(t)
		ctx := f.sessionContext(t)

		// Act
		out, err := f.uc.Status(ctx)

		// Assert
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if out.Authenticated || out.Message != "no active session" {
			t.Fatalf("unexpected output: %+v", out)
		}
	})

	t.Run("AfterLoginNotYetAuthenticated", func(t *testing.T) {

		// Arrange
		f := newFixture(t)
		ctx := f.sessionContext(t)
		if _, err := f.uc.Login(ctx, LoginInput{SubjectID: "DOC1", ContactAddress: "a@x.com"}); err != nil {
			t.Fatalf("login: %v", err)
		}

		// Act
		out, err := f.uc.Status(ctx)

		// Assert
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if out.Authenticated {
			t.Fatalf("login alone must not authenticate")
		}
		if out.SubjectID != "DOC1" || out.LoginAt == nil || out.SessionID == "" {
			t.Fatalf("unexpected output: %+v", out)
		}
	})

	t.Run("AfterValidateAuthenticated", func(t *testing.T) {

		// Arrange
		f := newFixture(t)
		ctx := f.sessionContext(t)
		login, err := f.uc.Login(ctx, LoginInput{SubjectID: "DOC1", ContactAddress: "a@x.com"})
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if _, err := f.uc.Validate(ctx, ValidateInput{Code: login.Code}); err != nil {
			t.Fatalf("validate: %v", err)
		}

		// Act
		out, err := f.uc.Status(ctx)

		// Assert
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if !out.Authenticated || out.AuthAt == nil || out.SubjectID != "DOC1" {
			t.Fatalf("unexpected output: %+v", out)
		}
	})
}

func TestUsecaseLogout(t *testing.T) {

	t.Run("DestroysSession", func(t *testing.T) {

		// Arrange
		f := newFixture(t)
		ctx := f.sessionContext(t)
		if _, err := f.uc.Login(ctx, LoginInput{SubjectID: "DOC1", ContactAddress: "a@x.com"}); err != nil {
			t.Fatalf("login: %v", err)
		}

		// Act
		out, err := f.uc.Logout(ctx)

		// Assert
		if err != nil {
			t.Fatalf("logout: %v", err)
		}
		if out.Message != "session closed successfully" {
			t.Fatalf("unexpected message %q", out.Message)
		}

		status, err := f.uc.Status(ctx)
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if status.Authenticated || status.Message != "no active session" {
			t.Fatalf("session should be gone: %+v", status)
		}
	})

	t.Run("WithoutSessionStillSucceeds", func(t *testing.T) {

		// Arrange
		f := newFixture(t)
		ctx := f.sessionContext(t)

		// Act
		_, err := f.uc.Logout(ctx)

		// Assert
		if err != nil {
			t.Fatalf("logout: %v", err)
		}
	})
}

func TestUsecaseHello(t *testing.T) {

	t.Run("RequiresPrincipal", func(t *testing.T) {

		// Arrange
		f := newFixture(t)

		// Act
		_, err := f.uc.Hello(t.Context())

		// Assert
		assertUnauthorized(t, err, "authentication required")
	})

	t.Run("GreetsPrincipal", func(t *testing.T) {

		// Arrange
		f := newFixture(t)
		ctx := entity.SetPrincipal(t.Context(), &entity.Principal{
			SubjectID: "DOC1",
			Roles:     []string{entity.RoleUser},
		})

		// Act
		out, err := f.uc.Hello(ctx)

		// Assert
		if err != nil {
			t.Fatalf("hello: %v", err)
		}
		if out.Message != "Hello, DOC1" || out.SubjectID != "DOC1" {
			t.Fatalf("unexpected output: %+v", out)
		}
	})
}
