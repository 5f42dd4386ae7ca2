package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"go.uber.org/zap"

	"github.com/SyntaxSnafu777/Active-Directory-Query-Password-Expiration/config"
	"github.com/SyntaxSnafu777/Active-Directory-Query-Password-Expiration/ldaps"
)

type fakeDirectory struct {
	pingErr   error
	policy    *ldaps.PasswordPolicy
	policyErr error
	ouDN      string
	ouErr     error
	group     *ldaps.Group
	groupErr  error
	users     []ldaps.User
	searchErr error

	pingCalls   int
	searchCalls int
	ouName      string
	groupName   string
	lastScope   ldaps.Scope
}

func (f *fakeDirectory) Ping(ctx context.Context) error {
	f.pingCalls++
	return f.pingErr
}

func (f *fakeDirectory) FetchPasswordPolicy(ctx context.Context) (*ldaps.PasswordPolicy, error) {
	if f.policyErr != nil {
		return nil, f.policyErr
	}
	if f.policy != nil {
		return f.policy, nil
	}
	maxAge := 90 * 24 * time.Hour
	return &ldaps.PasswordPolicy{MaxPasswordAge: &maxAge}, nil
}

func (f *fakeDirectory) FindOU(ctx context.Context, name string) (string, error) {
	f.ouName = name
	if f.ouErr != nil {
		return "", f.ouErr
	}
	if f.ouDN != "" {
		return f.ouDN, nil
	}
	return "", errors.New("FindOU not stubbed")
}

func (f *fakeDirectory) FindGroup(ctx context.Context, name string) (*ldaps.Group, error) {
	f.groupName = name
	if f.groupErr != nil {
		return nil, f.groupErr
	}
	if f.group != nil {
		return f.group, nil
	}
	return nil, errors.New("FindGroup not stubbed")
}

func (f *fakeDirectory) SearchUsers(ctx context.Context, scope ldaps.Scope) ([]ldaps.User, error) {
	f.searchCalls++
	f.lastScope = scope
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.users, nil
}

func testFlags() *Flags {
	return &Flags{Format: "csv", Timeout: 30 * time.Second}
}

func testUsers() []ldaps.User {
	lastSet := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []ldaps.User{
		{
			DN:              "CN=Jane Doe,OU=Engineering,DC=corp,DC=example,DC=com",
			Name:            "Jane Doe",
			SAMAccountName:  "jdoe",
			PasswordLastSet: &lastSet,
		},
		{
			DN:                   "CN=svc-backup,OU=Service,DC=corp,DC=example,DC=com",
			Name:                 "svc-backup",
			SAMAccountName:       "svc-backup",
			PasswordLastSet:      &lastSet,
			PasswordNeverExpires: true,
		},
	}
}

func testApp(flags *Flags, client DirectoryClient, input string) (*App, *bytes.Buffer) {
	cfg := &config.Config{LdapAddr: "dc01.corp.example.com:636"}
	app := New(cfg, flags, zap.NewNop(), client)
	out := &bytes.Buffer{}
	app.in = bufio.NewScanner(strings.NewReader(input))
	app.out = out
	return app, out
}

func TestRunScopes(t *testing.T) {
	t.Run("all flag renders every enabled user", func(t *testing.T) {
		is := is.New(t)
		flags := testFlags()
		flags.All = true
		flags.NoExport = true
		fake := &fakeDirectory{users: testUsers()}
		app, out := testApp(flags, fake, "")

		is.NoErr(app.Run(context.Background()))
		is.Equal(fake.searchCalls, 1)
		is.Equal(fake.lastScope, ldaps.Scope{})
		is.True(strings.Contains(out.String(), "all enabled users"))
		is.True(strings.Contains(out.String(), "Jane Doe"))
		is.True(strings.Contains(out.String(), "never"))
	})

	t.Run("interactive menu drives group scope", func(t *testing.T) {
		is := is.New(t)
		flags := testFlags()
		fake := &fakeDirectory{
			users: testUsers(),
			group: &ldaps.Group{DN: "cn=VPN Users,ou=Groups,dc=corp,dc=example,dc=com", CN: "VPN Users"},
		}
		app, out := testApp(flags, fake, "3\nVPN Users\nn\n")

		is.NoErr(app.Run(context.Background()))
		is.Equal(fake.groupName, "VPN Users")
		is.Equal(fake.lastScope.GroupDN, "cn=VPN Users,ou=Groups,dc=corp,dc=example,dc=com")
		is.Equal(fake.lastScope.Nested, false)
		is.True(strings.Contains(out.String(), "group VPN Users (direct members)"))
	})

	t.Run("ou flag skips the prompts", func(t *testing.T) {
		is := is.New(t)
		flags := testFlags()
		flags.OU = "Engineering"
		flags.NoExport = true
		fake := &fakeDirectory{
			users: testUsers(),
			ouDN:  "ou=Engineering,dc=corp,dc=example,dc=com",
		}
		app, out := testApp(flags, fake, "")

		is.NoErr(app.Run(context.Background()))
		is.Equal(fake.ouName, "Engineering")
		is.Equal(fake.lastScope.BaseDN, "ou=Engineering,dc=corp,dc=example,dc=com")
		is.True(strings.Contains(out.String(), "OU ou=Engineering,dc=corp,dc=example,dc=com"))
	})

	t.Run("nested flag reaches the search scope", func(t *testing.T) {
		is := is.New(t)
		flags := testFlags()
		flags.Group = "Staff"
		flags.Nested = true
		flags.NoExport = true
		fake := &fakeDirectory{
			users: testUsers(),
			group: &ldaps.Group{DN: "cn=Staff,dc=corp,dc=example,dc=com", CN: "Staff"},
		}
		app, out := testApp(flags, fake, "")

		is.NoErr(app.Run(context.Background()))
		is.True(fake.lastScope.Nested)
		is.True(strings.Contains(out.String(), "group Staff (nested members)"))
	})

	t.Run("prompt eof aborts the run", func(t *testing.T) {
		is := is.New(t)
		flags := testFlags()
		fake := &fakeDirectory{users: testUsers()}
		app, _ := testApp(flags, fake, "")

		err := app.Run(context.Background())
		is.True(errors.Is(err, errInputClosed))
		is.Equal(fake.searchCalls, 0)
	})
}

func TestRunCheck(t *testing.T) {
	t.Run("reports success and stops", func(t *testing.T) {
		is := is.New(t)
		flags := testFlags()
		flags.Check = true
		fake := &fakeDirectory{}
		app, out := testApp(flags, fake, "")

		is.NoErr(app.Run(context.Background()))
		is.Equal(fake.pingCalls, 1)
		is.Equal(fake.searchCalls, 0)
		is.True(strings.Contains(out.String(), "connection and bind ok"))
	})

	t.Run("surfaces bind failures", func(t *testing.T) {
		is := is.New(t)
		flags := testFlags()
		flags.Check = true
		fake := &fakeDirectory{pingErr: errors.New("invalid credentials")}
		app, _ := testApp(flags, fake, "")

		is.True(app.Run(context.Background()) != nil)
	})
}

func TestRunFailures(t *testing.T) {
	t.Run("policy failure aborts before searching", func(t *testing.T) {
		is := is.New(t)
		flags := testFlags()
		flags.All = true
		fake := &fakeDirectory{policyErr: errors.New("not a domain object")}
		app, _ := testApp(flags, fake, "")

		is.True(app.Run(context.Background()) != nil)
		is.Equal(fake.searchCalls, 0)
	})

	t.Run("search failure propagates", func(t *testing.T) {
		is := is.New(t)
		flags := testFlags()
		flags.All = true
		fake := &fakeDirectory{searchErr: errors.New("size limit exceeded")}
		app, _ := testApp(flags, fake, "")

		is.True(app.Run(context.Background()) != nil)
	})

	t.Run("group lookup failure propagates", func(t *testing.T) {
		is := is.New(t)
		flags := testFlags()
		flags.Group = "Ghosts"
		fake := &fakeDirectory{groupErr: ldaps.ErrGroupNotFound}
		app, _ := testApp(flags, fake, "")

		err := app.Run(context.Background())
		is.True(errors.Is(err, ldaps.ErrGroupNotFound))
		is.Equal(fake.searchCalls, 0)
	})
}

func TestRunExport(t *testing.T) {
	t.Run("export flag writes csv without prompting", func(t *testing.T) {
		is := is.New(t)
		path := filepath.Join(t.TempDir(), "report.csv")
		flags := testFlags()
		flags.All = true
		flags.Export = true
		flags.Output = path
		fake := &fakeDirectory{users: testUsers()}
		app, out := testApp(flags, fake, "")

		is.NoErr(app.Run(context.Background()))

		raw, err := os.ReadFile(path)
		is.NoErr(err)
		is.True(bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}))
		is.True(strings.Contains(string(raw), "Jane Doe"))
		is.True(strings.Contains(out.String(), "report written to "+path))
	})

	t.Run("prompt answer yes writes the file", func(t *testing.T) {
		is := is.New(t)
		path := filepath.Join(t.TempDir(), "report.csv")
		flags := testFlags()
		flags.All = true
		flags.Output = path
		fake := &fakeDirectory{users: testUsers()}
		app, _ := testApp(flags, fake, "y\n")

		is.NoErr(app.Run(context.Background()))

		_, err := os.Stat(path)
		is.NoErr(err)
	})

	t.Run("prompt answer no writes nothing", func(t *testing.T) {
		is := is.New(t)
		path := filepath.Join(t.TempDir(), "report.csv")
		flags := testFlags()
		flags.All = true
		flags.Output = path
		fake := &fakeDirectory{users: testUsers()}
		app, _ := testApp(flags, fake, "n\n")

		is.NoErr(app.Run(context.Background()))

		_, err := os.Stat(path)
		is.True(os.IsNotExist(err))
	})

	t.Run("xlsx format", func(t *testing.T) {
		is := is.New(t)
		path := filepath.Join(t.TempDir(), "report.xlsx")
		flags := testFlags()
		flags.All = true
		flags.Export = true
		flags.Format = "xlsx"
		flags.Output = path
		fake := &fakeDirectory{users: testUsers()}
		app, _ := testApp(flags, fake, "")

		is.NoErr(app.Run(context.Background()))

		info, err := os.Stat(path)
		is.NoErr(err)
		is.True(info.Size() > 0)
	})

	t.Run("ldif dump lands next to the report", func(t *testing.T) {
		is := is.New(t)
		path := filepath.Join(t.TempDir(), "snapshot.ldif")
		flags := testFlags()
		flags.All = true
		flags.NoExport = true
		flags.DumpLDIF = path
		fake := &fakeDirectory{users: testUsers()}
		app, _ := testApp(flags, fake, "")

		is.NoErr(app.Run(context.Background()))

		_, err := os.Stat(path)
		is.NoErr(err)
	})
}
