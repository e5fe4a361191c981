package authors

import "encoding/json"

// Wire shape keys.
const (
	WireKeyID              = "id"
	WireKeyAvatarURL       = "avatarUrl"
	WireKeyActivationToken = "activationToken"
	WireKeyEmail           = "email"
	WireKeyPasswordHash    = "passwordHash"
	WireKeyUsername        = "username"
)

// WireShape maps field names to display values for an API-layer encoder.
// The password hash is included; redaction is the caller's job.
type WireShape map[string]string

// WireShape renders every field, with the identifier in canonical text form.
func (a *Author) WireShape() WireShape {
	return WireShape{
		WireKeyID:              a.id.String(),
		WireKeyAvatarURL:       a.avatarURL,
		WireKeyActivationToken: a.activationToken,
		WireKeyEmail:           a.email,
		WireKeyPasswordHash:    a.passwordHash,
		WireKeyUsername:        a.username,
	}
}

// MarshalJSON encodes the wire shape.
func (a *Author) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.WireShape())
}
