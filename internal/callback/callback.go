// Package callback encodes and decodes the opaque tokens attached to
// inline keyboard buttons. Telegram stores callback data as a bare string
// and hands it back verbatim on a press, so every decode treats the token
// as untrusted input: a stale or hostile client can replay anything
// through the same channel.
package callback

import (
	"errors"
	"net/url"
	"strings"
)

type Action string

const (
	ActionCreateCall Action = "create_call"
	ActionNewCall    Action = "new_call"
	ActionCopyLink   Action = "copy_link"
)

var (
	ErrUnknownAction  = errors.New("unknown callback action")
	ErrInvalidPayload = errors.New("invalid callback payload")
)

// Token is a decoded callback token. Payload is set only for copy_link.
type Token struct {
	Action  Action
	Payload string
}

// Encode produces the wire form of a token: "action" or "action:payload".
func Encode(action Action, payload string) string {
	if payload == "" {
		return string(action)
	}
	return string(action) + ":" + payload
}

// Decode parses raw callback data. The action part is everything before
// the first ':'; the remainder is the payload. Only copy_link carries a
// payload, and it must look like a join link.
func Decode(raw string) (Token, error) {
	action := raw
	payload := ""
	if i := strings.IndexByte(raw, ':'); i >= 0 {
		action = raw[:i]
		payload = raw[i+1:]
	}

	switch Action(action) {
	case ActionCreateCall, ActionNewCall:
		if payload != "" {
			return Token{}, ErrInvalidPayload
		}
		return Token{Action: Action(action)}, nil
	case ActionCopyLink:
		if !IsJoinLink(payload) {
			return Token{}, ErrInvalidPayload
		}
		return Token{Action: ActionCopyLink, Payload: payload}, nil
	default:
		return Token{}, ErrUnknownAction
	}
}

// IsJoinLink reports whether s looks like a join link this bot could have
// issued: an absolute http(s) URL with a non-empty host.
func IsJoinLink(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
