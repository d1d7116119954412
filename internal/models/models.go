// Package models holds the row types and request/response bodies of the
// juegos API.
package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strconv"
)

// ErrNotScalar is returned for a JSON value that is not a string, number
// or boolean.
var ErrNotScalar = errors.New("value must be a string or number")

// Game is a row of the juegos table.
type Game struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Precio string `json:"precio"`
}

// Tec is a row of the tec table. It is only ever written.
type Tec struct {
	ID       Text `json:"id"`
	Nombre   Text `json:"nombre"`
	Apellido Text `json:"apellido"`
}

// CreateGameRequest is the body of POST /juegos.
// Absent fields stay invalid and reach the database as NULL.
type CreateGameRequest struct {
	Nombre Text `json:"nombre"`
	Precio Text `json:"precio"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token string `json:"token"`
}

// MessageResponse is the acknowledgement body used by most endpoints.
type MessageResponse struct {
	Mensaje string `json:"mensaje"`
}

// ErrorResponse reports a database failure. Tipo carries the error text
// and SQL the server-side message when the database produced one.
type ErrorResponse struct {
	Mensaje string `json:"mensaje"`
	Tipo    string `json:"tipo"`
	SQL     string `json:"sql,omitempty"`
}

// Text is an untyped scalar passed straight through to the database.
// It accepts a JSON string or number; null or a missing key leave it
// invalid, which is written as SQL NULL.
type Text struct {
	String string
	Valid  bool
}

// NewText returns a valid Text holding s.
func NewText(s string) Text {
	return Text{String: s, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Text{}
		return nil
	}
	s, err := ScalarString(data)
	if err != nil {
		return err
	}
	*t = NewText(s)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.String)
}

// Value implements driver.Valuer.
func (t Text) Value() (driver.Value, error) {
	if !t.Valid {
		return nil, nil
	}
	return t.String, nil
}

// ScalarString renders a raw JSON string, number or boolean as the text
// the database should receive. Objects and arrays are rejected.
func ScalarString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", ErrNotScalar
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[':
		return "", ErrNotScalar
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String(), nil
		}
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			return strconv.FormatBool(b), nil
		}
		return "", ErrNotScalar
	}
}
