package config

import "testing"

func TestParseConfigInjectsDefaults(t *testing.T) {
	c, err := ParseConfig([]byte(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Addr != defaultAddr {
		t.Errorf("expected default addr %q, got %q", defaultAddr, c.Addr)
	}
	if c.PactDir != defaultPactDir {
		t.Errorf("expected default pact dir %q, got %q", defaultPactDir, c.PactDir)
	}
	if c.LogLevel != defaultLogLevel || c.LogFormat != defaultLogFormat {
		t.Errorf("expected default log level/format, got %q/%q", c.LogLevel, c.LogFormat)
	}
}

func TestParseConfigYAML(t *testing.T) {
	c, err := ParseConfig([]byte("addr: 127.0.0.1:8080\npact_dir: /tmp/pacts\nconsumer: a\nprovider: b\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Addr != "127.0.0.1:8080" || c.PactDir != "/tmp/pacts" {
		t.Errorf("unexpected config: %+v", c)
	}
}

func TestParseConfigRejectsInvalidLogLevel(t *testing.T) {
	if _, err := ParseConfig([]byte(`{"log_level":"verbose"}`)); err == nil {
		t.Fatalf("expected error for invalid log_level")
	}
}

func TestParseConfigRejectsUnpairedTLSFiles(t *testing.T) {
	if _, err := ParseConfig([]byte(`{"tls_cert_file":"cert.pem"}`)); err == nil {
		t.Fatalf("expected error for unpaired TLS files")
	}
}

func TestParseConfigJSON(t *testing.T) {
	c, err := ParseConfigJSON([]byte(`{"addr":"localhost:9000"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Addr != "localhost:9000" {
		t.Errorf("unexpected addr: %q", c.Addr)
	}
}

func TestTLSEnabled(t *testing.T) {
	c := Config{TLSCertFile: "cert.pem", TLSKeyFile: "key.pem"}
	if !c.TLSEnabled() {
		t.Errorf("expected TLSEnabled to be true")
	}
	if (Config{}).TLSEnabled() {
		t.Errorf("expected TLSEnabled to be false for empty config")
	}
}
