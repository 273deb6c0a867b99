package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"auxbox/helpers/apierr"
)

// TokenTTL is how long a signed token or invite stays redeemable.
const TokenTTL = 24 * time.Hour

// Credentials is the payload of a session token: which session the holder
// belongs to and with what rank. Signed is the issue time in Unix
// milliseconds; Hash is the signature over the other fields.
type Credentials struct {
	Session string `json:"session"`
	Rank    Rank   `json:"rank"`
	Signed  int64  `json:"signed"`
	Hash    string `json:"hash,omitempty"`
}

// Invite is the payload of an invite token. It carries no rank; redeeming
// it yields guest credentials for the session.
type Invite struct {
	Session string `json:"session"`
	Signed  int64  `json:"signed"`
	Hash    string `json:"hash,omitempty"`
}

// Codec signs and verifies capability tokens. Tokens are self-contained:
// the server keeps no record of them, validity is purely signature plus
// elapsed time.
type Codec struct {
	key []byte
	now func() time.Time
}

func NewCodec(key string) *Codec {
	return &Codec{key: []byte(key), now: time.Now}
}

// hash computes the HMAC-SHA256 of the payload values in declaration
// order, each stringified, keyed by the server secret.
func (c *Codec) hash(values ...interface{}) string {
	mac := hmac.New(sha256.New, c.key)
	for _, v := range values {
		mac.Write([]byte(fmt.Sprintf("%v", v)))
	}
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// SignCredentials issues a session token for the given session and rank.
func (c *Codec) SignCredentials(sessionID string, rank Rank) string {
	creds := Credentials{
		Session: sessionID,
		Rank:    rank,
		Signed:  c.now().UnixMilli(),
	}
	creds.Hash = c.hash(creds.Session, creds.Rank, creds.Signed)

	raw, _ := json.Marshal(creds)
	return base64.URLEncoding.EncodeToString(raw)
}

// SignInvite issues an invite token for the given session.
func (c *Codec) SignInvite(sessionID string) string {
	inv := Invite{
		Session: sessionID,
		Signed:  c.now().UnixMilli(),
	}
	inv.Hash = c.hash(inv.Session, inv.Signed)

	raw, _ := json.Marshal(inv)
	return base64.URLEncoding.EncodeToString(raw)
}

// VerifyCredentials checks the signature and age of a session token and
// returns its payload.
func (c *Codec) VerifyCredentials(token string) (*Credentials, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, apierr.Unauthorized("malformed token")
	}

	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, apierr.Unauthorized("malformed token")
	}

	expected := c.hash(creds.Session, creds.Rank, creds.Signed)
	if !hmac.Equal([]byte(creds.Hash), []byte(expected)) {
		return nil, apierr.Unauthorized("hashes do not match")
	}
	if err := c.checkAge(creds.Signed); err != nil {
		return nil, err
	}

	return &creds, nil
}

// VerifyInvite checks the signature and age of an invite token and returns
// its payload.
func (c *Codec) VerifyInvite(token string) (*Invite, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, apierr.Unauthorized("malformed invite")
	}

	var inv Invite
	if err := json.Unmarshal(raw, &inv); err != nil {
		return nil, apierr.Unauthorized("malformed invite")
	}

	expected := c.hash(inv.Session, inv.Signed)
	if !hmac.Equal([]byte(inv.Hash), []byte(expected)) {
		return nil, apierr.Unauthorized("hashes do not match")
	}
	if err := c.checkAge(inv.Signed); err != nil {
		return nil, err
	}

	return &inv, nil
}

func (c *Codec) checkAge(signed int64) error {
	if c.now().UnixMilli()-signed > TokenTTL.Milliseconds() {
		return apierr.Expired("token has expired")
	}
	return nil
}
