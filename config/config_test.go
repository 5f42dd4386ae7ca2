package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestLoadFromEnv(t *testing.T) {
	t.Run("reads all fields", func(t *testing.T) {
		is := is.New(t)
		t.Setenv("LDAP_ADDR", "dc01.corp.example.com:636")
		t.Setenv("LDAP_BASE_DN", "dc=corp,dc=example,dc=com")
		t.Setenv("LDAP_BIND_DN", "cn=svc-report,cn=Users,dc=corp,dc=example,dc=com")
		t.Setenv("LDAP_BIND_PASSWORD", "hunter2")
		t.Setenv("LDAP_SKIP_VERIFY", "true")
		t.Setenv("LDAP_CA_CERT", "/etc/ssl/corp-ca.pem")

		cfg, err := LoadFromEnv()
		is.NoErr(err)
		is.Equal(cfg.LdapAddr, "dc01.corp.example.com:636")
		is.Equal(cfg.BaseDN, "dc=corp,dc=example,dc=com")
		is.Equal(cfg.BindDN, "cn=svc-report,cn=Users,dc=corp,dc=example,dc=com")
		is.Equal(cfg.BindPassword, "hunter2")
		is.True(cfg.SkipVerify)
		is.Equal(cfg.CACertPath, "/etc/ssl/corp-ca.pem")
	})

	t.Run("base dn may stay empty", func(t *testing.T) {
		is := is.New(t)
		t.Setenv("LDAP_ADDR", "dc01.corp.example.com:636")
		t.Setenv("LDAP_BASE_DN", "")

		cfg, err := LoadFromEnv()
		is.NoErr(err)
		is.Equal(cfg.BaseDN, "")
	})

	t.Run("missing addr errors", func(t *testing.T) {
		is := is.New(t)
		t.Setenv("LDAP_ADDR", "")

		_, err := LoadFromEnv()
		is.True(err != nil)
	})
}

func TestBoolFromEnv(t *testing.T) {
	is := is.New(t)

	t.Setenv("TEST_BOOL", "true")
	is.True(boolFromEnv("TEST_BOOL", false))

	t.Setenv("TEST_BOOL", "0")
	is.True(!boolFromEnv("TEST_BOOL", true))

	t.Setenv("TEST_BOOL", "\"true\"")
	is.True(boolFromEnv("TEST_BOOL", false)) // quoted values are tolerated

	t.Setenv("TEST_BOOL", "banana")
	is.True(boolFromEnv("TEST_BOOL", false) == false) // garbage falls back to the default

	t.Setenv("TEST_BOOL", "")
	is.True(boolFromEnv("TEST_BOOL", true))
}

func TestLoadCAPool(t *testing.T) {
	t.Run("empty path means no pool", func(t *testing.T) {
		is := is.New(t)
		pool, err := LoadCAPool("")
		is.NoErr(err)
		is.True(pool == nil)
	})

	t.Run("missing file errors", func(t *testing.T) {
		is := is.New(t)
		_, err := LoadCAPool(filepath.Join(t.TempDir(), "absent.pem"))
		is.True(err != nil)
	})

	t.Run("non-pem content errors", func(t *testing.T) {
		is := is.New(t)
		path := filepath.Join(t.TempDir(), "bogus.pem")
		is.NoErr(os.WriteFile(path, []byte("this is not a certificate"), 0o600))

		_, err := LoadCAPool(path)
		is.True(err != nil)
	})
}
