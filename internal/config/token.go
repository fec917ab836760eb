package config

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

// Token is a secret that never appears in logs or serialized output.
type Token string

func (t Token) String() string {
	return "*****"
}

func (t Token) MarshalZerologObject(e *zerolog.Event) {
	e.Bool("set", t != "")
}

func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal("*****")
}

func (t Token) MarshalYAML() (interface{}, error) {
	return "*****", nil
}

func (t Token) RawValue() string {
	return string(t)
}
