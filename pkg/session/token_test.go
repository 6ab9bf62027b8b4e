package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"classroom/pkg/classerrors"
)

var testSecret = []byte("classroom-test-secret")

func newTestAuthenticator(t *testing.T, clock Clock, opts ...Option) *Authenticator {
	t.Helper()
	a, err := NewAuthenticator(testSecret, append([]Option{WithClock(clock)}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func sign(t *testing.T, header, payload string, secret []byte) string {
	t.Helper()
	enc := base64.RawURLEncoding
	data := enc.EncodeToString([]byte(header)) + "." + enc.EncodeToString([]byte(payload))
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(data))
	return data + "." + enc.EncodeToString(mac.Sum(nil))
}

func TestNewAuthenticator(t *testing.T) {
	t.Run("empty secret", func(t *testing.T) {
		if _, err := NewAuthenticator(nil); !errors.Is(err, classerrors.ErrNotConfigured) {
			t.Fatalf("expected ErrNotConfigured, got %v", err)
		}
	})

	t.Run("sub-second ttl", func(t *testing.T) {
		if _, err := NewAuthenticator(testSecret, WithTTL(500*time.Millisecond)); err == nil {
			t.Fatal("expected an error for a ttl under one second")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		a, err := NewAuthenticator(testSecret)
		if err != nil {
			t.Fatal(err)
		}
		if a.TTL() != 8*time.Hour {
			t.Fatalf("ttl = %v", a.TTL())
		}
		if a.CookieName() != "tc" {
			t.Fatalf("cookie name = %q", a.CookieName())
		}
	})
}

func TestAuthenticator_IssueWireFormat(t *testing.T) {
	clock := NewFakeClock(time.Unix(1700000000, 0))
	a := newTestAuthenticator(t, clock)

	token, err := a.Issue(Claims{ClaimRole: RoleTeacher})
	if err != nil {
		t.Fatal(err)
	}

	want := sign(t,
		`{"alg":"HS256","typ":"JWT"}`,
		`{"exp":1700028800,"iat":1700000000,"role":"teacher"}`,
		testSecret)
	if token != want {
		t.Fatalf("token mismatch\n got: %s\nwant: %s", token, want)
	}

	parts := strings.Split(token, ".")
	if parts[0] != "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9" {
		t.Fatalf("unexpected header segment %s", parts[0])
	}
	if strings.ContainsAny(token, "+/=") {
		t.Fatalf("token is not base64url without padding: %s", token)
	}
}

func TestAuthenticator_RoundTrip(t *testing.T) {
	clock := NewFakeClock(time.Unix(1700000000, 250*int64(time.Millisecond)))
	a := newTestAuthenticator(t, clock)

	token, err := a.Issue(Claims{ClaimRole: RoleTeacher, "name": "ms-rivera"})
	if err != nil {
		t.Fatal(err)
	}

	claims, err := a.Verify(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Role() != RoleTeacher {
		t.Fatalf("role = %q", claims.Role())
	}
	if claims["name"] != "ms-rivera" {
		t.Fatalf("custom claim lost: %v", claims)
	}
	iat, ok := claims.IssuedAt()
	if !ok || iat.Unix() != 1700000000 {
		t.Fatalf("iat = %v, %v", iat, ok)
	}
	exp, ok := claims.ExpiresAt()
	if !ok || exp.Unix() != 1700000000+28800 {
		t.Fatalf("exp = %v, %v", exp, ok)
	}
	if len(claims) != 4 {
		t.Fatalf("unexpected claims %v", claims)
	}
}

func TestAuthenticator_CallerCannotOverrideExpiry(t *testing.T) {
	clock := NewFakeClock(time.Unix(1700000000, 0))
	a := newTestAuthenticator(t, clock, WithTTL(time.Minute))

	token, err := a.Issue(Claims{ClaimRole: RoleTeacher, ClaimExpiry: int64(4102444800)})
	if err != nil {
		t.Fatal(err)
	}
	claims, err := a.Verify(token)
	if err != nil {
		t.Fatal(err)
	}
	if exp, _ := claims.ExpiresAt(); exp.Unix() != 1700000060 {
		t.Fatalf("exp = %d", exp.Unix())
	}
}

func TestAuthenticator_WrongSecret(t *testing.T) {
	clock := NewFakeClock(time.Unix(1700000000, 0))
	a := newTestAuthenticator(t, clock)
	token, err := a.Issue(Claims{ClaimRole: RoleTeacher})
	if err != nil {
		t.Fatal(err)
	}

	for _, secret := range []string{"other-secret", "classroom-test-secreT", "classroom-test-secret "} {
		other, err := NewAuthenticator([]byte(secret), WithClock(clock))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := other.Verify(token); !errors.Is(err, classerrors.ErrInvalidToken) {
			t.Fatalf("secret %q: expected ErrInvalidToken, got %v", secret, err)
		}
	}
}

func TestAuthenticator_TamperedPayload(t *testing.T) {
	clock := NewFakeClock(time.Unix(1700000000, 0))
	a := newTestAuthenticator(t, clock)
	token, err := a.Issue(Claims{ClaimRole: RoleTeacher})
	if err != nil {
		t.Fatal(err)
	}

	parts := strings.Split(token, ".")
	payload := []byte(parts[1])
	for i := range payload {
		mutated := append([]byte(nil), payload...)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		forged := parts[0] + "." + string(mutated) + "." + parts[2]
		if _, err := a.Verify(forged); !errors.Is(err, classerrors.ErrInvalidToken) {
			t.Fatalf("position %d: tampered token accepted", i)
		}
	}
}

func TestAuthenticator_Expiry(t *testing.T) {
	start := time.Unix(1700000000, 500*int64(time.Millisecond))
	clock := NewFakeClock(start)
	a := newTestAuthenticator(t, clock, WithTTL(time.Second))

	token, err := a.Issue(Claims{ClaimRole: RoleTeacher})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		at    time.Time
		valid bool
	}{
		{"immediately", start, true},
		{"last instant of the exp second", time.Unix(1700000001, 999*int64(time.Millisecond)), true},
		{"one second past exp", time.Unix(1700000002, 0), false},
		{"two seconds later", start.Add(2 * time.Second), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewFakeClock(tt.at)
			v := newTestAuthenticator(t, c)
			_, err := v.Verify(token)
			if tt.valid && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tt.valid && !errors.Is(err, classerrors.ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}

	t.Run("leeway", func(t *testing.T) {
		c := NewFakeClock(time.Unix(1700000003, 0))
		v := newTestAuthenticator(t, c, WithLeeway(5*time.Second))
		if _, err := v.Verify(token); err != nil {
			t.Fatalf("expected valid inside leeway, got %v", err)
		}
	})
}

func TestAuthenticator_IssuedAtNotEnforced(t *testing.T) {
	future := NewFakeClock(time.Unix(1800000000, 0))
	token, err := newTestAuthenticator(t, future).Issue(Claims{ClaimRole: RoleTeacher})
	if err != nil {
		t.Fatal(err)
	}

	now := NewFakeClock(time.Unix(1700000000, 0))
	if _, err := newTestAuthenticator(t, now).Verify(token); err != nil {
		t.Fatalf("iat must not be enforced, got %v", err)
	}
}

func TestAuthenticator_Malformed(t *testing.T) {
	clock := NewFakeClock(time.Unix(1700000000, 0))
	a := newTestAuthenticator(t, clock)

	noExp := sign(t, `{"alg":"HS256","typ":"JWT"}`, `{"role":"teacher","iat":1700000000}`, testSecret)
	notJSON := sign(t, `{"alg":"HS256","typ":"JWT"}`, `role=teacher`, testSecret)
	arrayPayload := sign(t, `{"alg":"HS256","typ":"JWT"}`, `[1,2,3]`, testSecret)
	noneAlg := sign(t, `{"alg":"none","typ":"JWT"}`, `{"role":"teacher","exp":4102444800}`, testSecret)
	valid := sign(t, `{"alg":"HS256","typ":"JWT"}`, `{"role":"teacher","exp":4102444800}`, testSecret)
	validParts := strings.Split(valid, ".")

	tests := map[string]string{
		"empty":            "",
		"too many parts":   "not.a.token.with.too.many.parts",
		"two parts":        "abc.def",
		"only dots":        "..",
		"empty signature":  validParts[0] + "." + validParts[1] + ".",
		"empty payload":    validParts[0] + ".." + validParts[2],
		"bad base64 sig":   validParts[0] + "." + validParts[1] + ".!!!!",
		"padded signature": valid + "=",
		"missing exp":      noExp,
		"payload not json": notJSON,
		"payload array":    arrayPayload,
		"alg none":         noneAlg,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			claims, err := a.Verify(token)
			if err != classerrors.ErrInvalidToken {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
			if claims != nil {
				t.Fatalf("expected no claims, got %v", claims)
			}
		})
	}

	t.Run("hand built token is accepted", func(t *testing.T) {
		claims, err := a.Verify(valid)
		if err != nil {
			t.Fatal(err)
		}
		if claims.Role() != RoleTeacher {
			t.Fatalf("role = %q", claims.Role())
		}
	})
}

func TestAuthenticator_ForeignKeyOrder(t *testing.T) {
	// Payload keys in insertion order rather than sorted, as other signers
	// produce them.
	clock := NewFakeClock(time.Unix(1700000000, 0))
	a := newTestAuthenticator(t, clock)

	payload, _ := json.Marshal(struct {
		Role string `json:"role"`
		Iat  int64  `json:"iat"`
		Exp  int64  `json:"exp"`
	}{RoleTeacher, 1700000000, 1700028800})
	token := sign(t, `{"alg":"HS256","typ":"JWT"}`, string(payload), testSecret)

	if _, err := a.Verify(token); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestPackageIssueVerify(t *testing.T) {
	token, err := Issue(Claims{ClaimRole: RoleTeacher}, testSecret, DefaultTTL)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := Verify(token, testSecret)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Role() != RoleTeacher {
		t.Fatalf("role = %q", claims.Role())
	}

	if _, err := Verify(token, []byte("different")); err != classerrors.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := Verify(token, nil); err != classerrors.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for empty secret, got %v", err)
	}
}

func TestAuthenticator_Concurrent(t *testing.T) {
	a := newTestAuthenticator(t, RealClock())

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := a.Issue(Claims{ClaimRole: RoleTeacher})
			if err != nil {
				errs <- err
				return
			}
			if _, err := a.Verify(token); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}
