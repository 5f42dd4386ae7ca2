package config

import (
	"crypto/x509"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	LdapAddr     string // host:port, e.g. dc.example.local:636
	BaseDN       string // optional; discovered from the RootDSE when empty
	BindDN       string
	BindPassword string
	SkipVerify   bool
	CACertPath   string // optional path to CA PEM to verify LDAPS certs
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		LdapAddr:     os.Getenv("LDAP_ADDR"),
		BaseDN:       os.Getenv("LDAP_BASE_DN"),
		BindDN:       os.Getenv("LDAP_BIND_DN"),
		BindPassword: os.Getenv("LDAP_BIND_PASSWORD"),
		CACertPath:   os.Getenv("LDAP_CA_CERT"),
	}
	cfg.SkipVerify = boolFromEnv("LDAP_SKIP_VERIFY", false)
	// CA cert path is optional; if provided, it is validated at connection time.
	// Base DN may stay empty; the client discovers it from the RootDSE.
	// Basic validation
	if cfg.LdapAddr == "" {
		return nil, fmt.Errorf("LDAP_ADDR must be set")
	}
	return cfg, nil
}

func boolFromEnv(key string, def bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return def
	}
	trimmed := strings.Trim(val, "\"'")
	b, err := strconv.ParseBool(trimmed)
	if err != nil {
		return def
	}
	return b
}

// helper to load CA pool — callers can use this to build tls.Config
func LoadCAPool(caPath string) (*x509.CertPool, error) {
	if caPath == "" {
		return nil, nil
	}
	pemData, err := os.ReadFile(caPath)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if ok := pool.AppendCertsFromPEM(pemData); !ok {
		return nil, fmt.Errorf("failed to parse CA certificate(s) from %s", caPath)
	}
	return pool, nil
}
