package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	yaml "gopkg.in/yaml.v3"
)

func TestSecretString_Marshal(t *testing.T) {
	tests := []struct {
		name     string
		input    SecretString
		wantJSON string
		wantYAML any
	}{
		{"empty", "", "null", nil},
		{"session token", "0f1e2d3c-4b5a", `"` + SecretStringValue + `"`, SecretStringValue},
		{"single char", "x", `"` + SecretStringValue + `"`, SecretStringValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.input.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON() error = %v", err)
			}
			if string(got) != tt.wantJSON {
				t.Errorf("MarshalJSON() = %s, want %s", got, tt.wantJSON)
			}
			y, err := tt.input.MarshalYAML()
			if err != nil {
				t.Fatalf("MarshalYAML() error = %v", err)
			}
			if y != tt.wantYAML {
				t.Errorf("MarshalYAML() = %v, want %v", y, tt.wantYAML)
			}
		})
	}
}

func testRailWithSecrets() TestRailConfig {
	return TestRailConfig{
		URL:          "https://testrail.example.com",
		SessionToken: "session-7b1f",
		Username:     "qa@example.com",
		APIKey:       "api-key-93c2",
	}
}

func assertNoSecrets(t *testing.T, what, out string) {
	t.Helper()
	for _, secret := range []string{"session-7b1f", "api-key-93c2"} {
		if strings.Contains(out, secret) {
			t.Errorf("%s leaks %q:\n%s", what, secret, out)
		}
	}
	if !strings.Contains(out, SecretStringValue) {
		t.Errorf("%s has no masked values:\n%s", what, out)
	}
}

func TestSecretString_NoLeakage(t *testing.T) {
	tr := testRailWithSecrets()

	j, err := json.Marshal(tr)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	assertNoSecrets(t, "json", string(j))

	y, err := yaml.Marshal(tr)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	assertNoSecrets(t, "yaml", string(y))
	if !strings.Contains(string(y), "qa@example.com") {
		t.Errorf("user name must stay visible:\n%s", y)
	}

	assertNoSecrets(t, "fmt", fmt.Sprintf("%v %s %+v %#v", tr.SessionToken, tr.APIKey, tr, tr))
}

func TestSecretString_Logging(t *testing.T) {
	tr := testRailWithSecrets()

	buf := &bytes.Buffer{}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(buf), zapcore.DebugLevel)
	log := zap.New(core)
	log.Info("Connecting", zap.Any("testrail", tr), zap.Stringer("token", tr.SessionToken))
	_ = log.Sync()

	assertNoSecrets(t, "log", buf.String())
}

func TestSecretString_Dump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.TestRail = testRailWithSecrets()

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	assertNoSecrets(t, "dump", string(data))
}

func TestSecretString_Value(t *testing.T) {
	secret := SecretString("tr-session-value")

	if got := fmt.Sprintf("%v", secret); got != SecretStringValue {
		t.Errorf("Sprintf(%%v) = %q, want %q", got, SecretStringValue)
	}
	if got := secret.Value(); got != "tr-session-value" {
		t.Errorf("Value() = %q, want actual secret", got)
	}
	if got := SecretString("").String(); got != "" {
		t.Errorf("String() of empty secret = %q, want empty", got)
	}
}

func TestSecretString_Unmarshal(t *testing.T) {
	var tr TestRailConfig
	if err := yaml.Unmarshal([]byte("session_token: abc\napi_key: def\n"), &tr); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if tr.SessionToken.Value() != "abc" || tr.APIKey.Value() != "def" {
		t.Errorf("secrets were not read: %q %q", tr.SessionToken.Value(), tr.APIKey.Value())
	}
}
