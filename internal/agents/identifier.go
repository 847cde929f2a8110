package agents

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrMissingAgentType is returned when an identifier yields no usable
// agent-type and the caller supplied no fallback.
var ErrMissingAgentType = errors.New("agent type missing from identifier")

// Legacy identifiers pack org, agent-type and creation timestamp into one
// dash-delimited token: "org1-sales-bot-1700000000". The agent-type itself may
// contain dashes, so only the first and last segments are positional.
const delimiter = "-"

// structuredPrefix marks identifiers minted in the unambiguous form: the
// prefix followed by base64url over NUL-joined org, agent-type and unix
// timestamp. NUL cannot occur in any field, so decoding never guesses.
const structuredPrefix = "a2."

// Identifier is the decoded form of a composite agent identifier.
type Identifier struct {
	Org       string
	AgentType string
	CreatedAt time.Time
}

// Encode renders the identifier in the structured form. The legacy dash
// format is never minted; it stays decode-only for identifiers already in
// circulation.
func (id Identifier) Encode() string {
	payload := id.Org + "\x00" + id.AgentType + "\x00" + strconv.FormatInt(id.CreatedAt.Unix(), 10)
	return structuredPrefix + base64.RawURLEncoding.EncodeToString([]byte(payload))
}

// ParseIdentifier decodes a structured or legacy composite identifier. For
// legacy input the first segment is the org, the last the timestamp, and
// every interior segment belongs to the agent-type. Returns false when the
// input has no composite structure at all.
func ParseIdentifier(s string) (Identifier, bool) {
	if enc, ok := strings.CutPrefix(s, structuredPrefix); ok {
		raw, err := base64.RawURLEncoding.DecodeString(enc)
		if err == nil {
			parts := strings.SplitN(string(raw), "\x00", 3)
			if len(parts) == 3 {
				ts, err := strconv.ParseInt(parts[2], 10, 64)
				if err == nil {
					return Identifier{Org: parts[0], AgentType: parts[1], CreatedAt: time.Unix(ts, 0).UTC()}, true
				}
			}
		}
		return Identifier{}, false
	}

	segs := strings.Split(s, delimiter)
	switch {
	case len(segs) >= 3:
		ts, _ := strconv.ParseInt(segs[len(segs)-1], 10, 64)
		id := Identifier{
			Org:       segs[0],
			AgentType: strings.Join(segs[1:len(segs)-1], delimiter),
		}
		if ts > 0 {
			id.CreatedAt = time.Unix(ts, 0).UTC()
		}
		return id, true
	case len(segs) == 2:
		// Ambiguous by construction: "org1-support" could also be a bare
		// agent-type containing one dash. The org-prefix reading wins; the
		// resolver's literal-match strategy recovers when it was wrong.
		return Identifier{Org: segs[0], AgentType: segs[1]}, true
	default:
		return Identifier{}, false
	}
}

// DecodeAgentType extracts the agent-type token from a composite identifier.
// Pure and case-preserving; comparisons are the caller's business. Returns
// false when the identifier has no composite structure, in which case callers
// fall back to treating the whole string as a literal token.
func DecodeAgentType(identifier string) (string, bool) {
	id, ok := ParseIdentifier(identifier)
	if !ok {
		return "", false
	}
	return id.AgentType, true
}

// AgentTypeForMutation projects an identifier down to the agent-type that
// addresses the backend's update/delete URLs. The decoded type always wins
// over the fallback: the backend indexes agents by type, and routing a write
// by a caller-asserted type would silently address the wrong resource.
func AgentTypeForMutation(identifier, fallback string) (string, error) {
	if typ, ok := DecodeAgentType(identifier); ok && typ != "" {
		return typ, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return "", ErrMissingAgentType
}
