package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/minicrm/backend/internal/domain"
)

// initDataKey is the fixed domain-separation constant the platform uses to
// derive the signing secret from the bot token.
const initDataKey = "WebAppData"

// Identity is the verified Telegram user extracted from init data.
type Identity struct {
	TelegramID int64   `json:"id"`
	Username   *string `json:"username"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
}

// InitDataVerifier validates Telegram web-app init data: a signed,
// URL-encoded snapshot of the user session passed from the client surface.
// The payload itself is a static, infinitely replayable string, so freshness
// of auth_date is checked in addition to the signature.
//
// The verifier is pure: a function of its inputs, the configured bot token
// and the injected clock.
type InitDataVerifier struct {
	botToken string
	maxAge   time.Duration
	now      func() time.Time
}

// NewInitDataVerifier creates a verifier with the given bot token and
// maximum accepted payload age.
func NewInitDataVerifier(botToken string, maxAge time.Duration) *InitDataVerifier {
	return &InitDataVerifier{
		botToken: botToken,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// NewInitDataVerifierWithClock is NewInitDataVerifier with an injected clock.
func NewInitDataVerifierWithClock(botToken string, maxAge time.Duration, now func() time.Time) *InitDataVerifier {
	return &InitDataVerifier{botToken: botToken, maxAge: maxAge, now: now}
}

// Verify checks the signature and freshness of raw init data and returns the
// embedded identity.
//
// Returns domain.ErrMissingSecret when no bot token is configured,
// domain.ErrBadSignature on any signature problem, domain.ErrExpired when
// auth_date is older than the configured max age, and
// domain.ErrMalformedPayload when the payload or its user object cannot be
// parsed. Signature validity and freshness are independent checks; an
// expired payload with a valid signature is ErrExpired, not ErrBadSignature.
func (v *InitDataVerifier) Verify(raw string) (*Identity, error) {
	if v.botToken == "" {
		return nil, domain.ErrMissingSecret
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return nil, fmt.Errorf("%w: hash field missing", domain.ErrBadSignature)
	}
	values.Del("hash")

	if !hmac.Equal([]byte(v.expectedHash(values)), []byte(gotHash)) {
		return nil, domain.ErrBadSignature
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: auth_date: %v", domain.ErrMalformedPayload, err)
	}
	if v.now().Sub(time.Unix(authDate, 0)) > v.maxAge {
		return nil, domain.ErrExpired
	}

	userJSON := values.Get("user")
	if userJSON == "" {
		return nil, fmt.Errorf("%w: user field missing", domain.ErrMalformedPayload)
	}

	var identity Identity
	if err := json.Unmarshal([]byte(userJSON), &identity); err != nil {
		return nil, fmt.Errorf("%w: user JSON: %v", domain.ErrMalformedPayload, err)
	}
	if identity.TelegramID == 0 {
		return nil, fmt.Errorf("%w: user id missing", domain.ErrMalformedPayload)
	}

	return &identity, nil
}

// expectedHash computes the hex HMAC-SHA256 digest of the canonical
// data-check string: remaining key=value pairs sorted lexicographically and
// joined with newlines, keyed by HMAC-SHA256("WebAppData", botToken).
func (v *InitDataVerifier) expectedHash(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}
	checkString := strings.Join(pairs, "\n")

	secretMac := hmac.New(sha256.New, []byte(initDataKey))
	secretMac.Write([]byte(v.botToken))
	secret := secretMac.Sum(nil)

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(checkString))
	return hex.EncodeToString(mac.Sum(nil))
}
