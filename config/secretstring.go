package config

// SecretStringValue replaces credentials in every serialized form.
const SecretStringValue = "********"

// SecretString holds TestRail credentials. Marshaling, formatting and logging
// never reveal the value, only Value does.
type SecretString string

func (s SecretString) masked() string {
	if s == "" {
		return ""
	}
	return SecretStringValue
}

func (s SecretString) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	return []byte(`"` + s.masked() + `"`), nil
}

func (s SecretString) MarshalYAML() (any, error) {
	if s == "" {
		return nil, nil
	}
	return s.masked(), nil
}

func (s SecretString) String() string {
	return s.masked()
}

// GoString covers %#v.
func (s SecretString) GoString() string {
	return `"` + s.masked() + `"`
}

// Value returns actual secret, use only when talking to the service.
func (s SecretString) Value() string {
	return string(s)
}
