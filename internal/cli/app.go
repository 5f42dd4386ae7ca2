package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/SyntaxSnafu777/Active-Directory-Query-Password-Expiration/config"
	"github.com/SyntaxSnafu777/Active-Directory-Query-Password-Expiration/ldaps"
	"github.com/SyntaxSnafu777/Active-Directory-Query-Password-Expiration/report"
)

// DirectoryClient defines the directory operations the pipeline needs.
type DirectoryClient interface {
	Ping(ctx context.Context) error
	FetchPasswordPolicy(ctx context.Context) (*ldaps.PasswordPolicy, error)
	FindOU(ctx context.Context, name string) (string, error)
	FindGroup(ctx context.Context, name string) (*ldaps.Group, error)
	SearchUsers(ctx context.Context, scope ldaps.Scope) ([]ldaps.User, error)
}

// App composes dependencies and runs the pipeline.
type App struct {
	cfg    *config.Config
	flags  *Flags
	logger *zap.Logger
	client DirectoryClient

	in  *bufio.Scanner
	out io.Writer
}

// New creates an App reading prompts from stdin and writing the report
// to stdout.
func New(cfg *config.Config, flags *Flags, logger *zap.Logger, client DirectoryClient) *App {
	return &App{
		cfg:    cfg,
		flags:  flags,
		logger: logger,
		client: client,
		in:     bufio.NewScanner(os.Stdin),
		out:    os.Stdout,
	}
}

// Run executes the pipeline: policy, scope, search, render, export.
func (a *App) Run(ctx context.Context) error {
	if a.flags.Check {
		return a.check(ctx)
	}

	policy, err := a.fetchPolicy(ctx)
	if err != nil {
		return err
	}

	scope, scopeLabel, err := a.resolveScope(ctx)
	if err != nil {
		return err
	}

	users, err := a.searchUsers(ctx, scope)
	if err != nil {
		return err
	}

	if a.flags.DumpLDIF != "" {
		if err := ldaps.WriteLDIF(a.flags.DumpLDIF, users); err != nil {
			return err
		}
		a.logger.Info("ldif.written", zap.String("path", a.flags.DumpLDIF), zap.Int("entries", len(users)))
	}

	rows := report.Build(users, policy, time.Now())
	report.Sort(rows)

	meta := report.Meta{Host: a.cfg.LdapAddr, Scope: scopeLabel, Policy: policy}
	if err := report.Render(a.out, rows, meta); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	return a.maybeExport(rows)
}

func (a *App) check(ctx context.Context) error {
	opCtx, cancel := context.WithTimeout(ctx, a.flags.Timeout)
	defer cancel()

	if err := a.client.Ping(opCtx); err != nil {
		return fmt.Errorf("directory check failed: %w", err)
	}
	fmt.Fprintf(a.out, "%s: connection and bind ok\n", a.cfg.LdapAddr)
	return nil
}

func (a *App) fetchPolicy(ctx context.Context) (*ldaps.PasswordPolicy, error) {
	opCtx, cancel := context.WithTimeout(ctx, a.flags.Timeout)
	defer cancel()

	policy, err := a.client.FetchPasswordPolicy(opCtx)
	if err != nil {
		return nil, fmt.Errorf("fetch password policy: %w", err)
	}
	a.logger.Debug("policy.fetched", zap.Bool("expires", policy.MaxPasswordAge != nil))
	return policy, nil
}

// resolveScope turns flags or prompt answers into a search scope plus a
// human label for the report header.
func (a *App) resolveScope(ctx context.Context) (ldaps.Scope, string, error) {
	choice := scopeAll
	switch {
	case a.flags.OU != "":
		choice = scopeOU
	case a.flags.Group != "":
		choice = scopeGroup
	case a.flags.All:
		choice = scopeAll
	default:
		var err error
		choice, err = promptScopeChoice(a.in, a.out)
		if err != nil {
			return ldaps.Scope{}, "", err
		}
	}

	switch choice {
	case scopeOU:
		name, err := a.scopeName(a.flags.OU, "organizational unit")
		if err != nil {
			return ldaps.Scope{}, "", err
		}
		opCtx, cancel := context.WithTimeout(ctx, a.flags.Timeout)
		defer cancel()
		dn, err := a.client.FindOU(opCtx, name)
		if err != nil {
			return ldaps.Scope{}, "", err
		}
		return ldaps.Scope{BaseDN: dn}, fmt.Sprintf("OU %s", dn), nil

	case scopeGroup:
		name, err := a.scopeName(a.flags.Group, "group")
		if err != nil {
			return ldaps.Scope{}, "", err
		}
		opCtx, cancel := context.WithTimeout(ctx, a.flags.Timeout)
		defer cancel()
		group, err := a.client.FindGroup(opCtx, name)
		if err != nil {
			return ldaps.Scope{}, "", err
		}
		label := fmt.Sprintf("group %s (direct members)", group.CN)
		if a.flags.Nested {
			label = fmt.Sprintf("group %s (nested members)", group.CN)
		}
		return ldaps.Scope{GroupDN: group.DN, Nested: a.flags.Nested}, label, nil

	default:
		return ldaps.Scope{}, "all enabled users", nil
	}
}

// scopeName returns the flag value when set, otherwise prompts for one.
// Either way the name is validated before use.
func (a *App) scopeName(flagValue, what string) (string, error) {
	if flagValue != "" {
		return SanitizeScopeName(flagValue)
	}
	return promptScopeName(a.in, a.out, what)
}

func (a *App) searchUsers(ctx context.Context, scope ldaps.Scope) ([]ldaps.User, error) {
	opCtx, cancel := context.WithTimeout(ctx, a.flags.Timeout)
	defer cancel()

	users, err := a.client.SearchUsers(opCtx, scope)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	a.logger.Debug("search.done", zap.Int("users", len(users)))
	return users, nil
}

func (a *App) maybeExport(rows []report.Row) error {
	if a.flags.NoExport {
		return nil
	}

	doExport := a.flags.Export
	if !doExport {
		var err error
		doExport, err = promptExport(a.in, a.out)
		if err != nil {
			return err
		}
	}
	if !doExport {
		return nil
	}

	path := a.flags.Output
	if path == "" {
		path = report.ExportName(a.flags.Format, time.Now())
	}

	if err := a.writeExport(path, rows); err != nil {
		return err
	}
	a.logger.Info("export.written", zap.String("path", path), zap.Int("rows", len(rows)))
	fmt.Fprintf(a.out, "report written to %s\n", path)
	return nil
}

func (a *App) writeExport(path string, rows []report.Row) error {
	if a.flags.Format == "xlsx" {
		return report.WriteXLSX(path, rows)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := report.WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
