package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestScalarString(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: `"Mario"`, want: "Mario"},
		{raw: `"59.99"`, want: "59.99"},
		{raw: `59.99`, want: "59.99"},
		{raw: ` 7 `, want: "7"},
		{raw: `1e3`, want: "1e3"},
		{raw: `true`, want: "true"},
		{raw: `false`, want: "false"},
		{raw: `""`, want: ""},
		{raw: `null`, wantErr: true},
		{raw: ``, wantErr: true},
		{raw: `{"a":1}`, wantErr: true},
		{raw: `[1,2]`, wantErr: true},
	}
	for _, tt := range tests {
		got, err := ScalarString(json.RawMessage(tt.raw))
		if tt.wantErr {
			if !errors.Is(err, ErrNotScalar) {
				t.Errorf("%q: expected ErrNotScalar, got %v", tt.raw, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCreateGameRequest_MissingAndNullFields(t *testing.T) {
	var req CreateGameRequest
	if err := json.Unmarshal([]byte(`{"nombre":"Zelda","precio":null}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !req.Nombre.Valid || req.Nombre.String != "Zelda" {
		t.Errorf("nombre: got %+v", req.Nombre)
	}
	if req.Precio.Valid {
		t.Errorf("null precio should be invalid, got %+v", req.Precio)
	}

	req = CreateGameRequest{}
	if err := json.Unmarshal([]byte(`{"precio":49.5}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.Nombre.Valid {
		t.Errorf("missing nombre should be invalid, got %+v", req.Nombre)
	}
	if req.Precio.String != "49.5" {
		t.Errorf("numeric precio: got %q", req.Precio.String)
	}
}

func TestCreateGameRequest_RejectsObjectField(t *testing.T) {
	var req CreateGameRequest
	if err := json.Unmarshal([]byte(`{"nombre":{"x":1}}`), &req); err == nil {
		t.Fatal("expected error for object value")
	}
}

func TestText_Value(t *testing.T) {
	v, err := Text{}.Value()
	if err != nil || v != nil {
		t.Errorf("invalid text: got %v, %v; want nil, nil", v, err)
	}
	v, err = NewText("Kirby").Value()
	if err != nil || v != "Kirby" {
		t.Errorf("valid text: got %v, %v", v, err)
	}
}

func TestText_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Tec{ID: NewText("3"), Nombre: NewText("Ana")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":"3","nombre":"Ana","apellido":null}`
	if string(b) != want {
		t.Errorf("got %s, want %s", b, want)
	}
}
