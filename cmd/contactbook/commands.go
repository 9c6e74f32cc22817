package main

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/tartampluch/go-contactbook/internal/config"
	"github.com/tartampluch/go-contactbook/internal/contact"
	"github.com/tartampluch/go-contactbook/internal/credentials"
	"github.com/tartampluch/go-contactbook/internal/engine"
	"github.com/tartampluch/go-contactbook/internal/i18n"
	"github.com/tartampluch/go-contactbook/internal/server"
)

// app carries the collaborators shared by every command.
type app struct {
	out      io.Writer
	settings config.Settings
	tr       *i18n.Translator
	clock    contact.Clock
	keyring  *credentials.Store
	loader   *engine.Loader
	styles   styles
}

// SourceFlags selects the vCard source. Without flags the settings' source_url is used.
type SourceFlags struct {
	File string `short:"f" help:"Local .vcf file." type:"path"`
	URL  string `help:"Remote vCard URL."`
	User string `help:"HTTP Basic auth user; the password is read from the keyring."`
}

func (a *app) load(ctx context.Context, src SourceFlags) (*contact.AddressBook, error) {
	s := engine.Source{Path: src.File, URL: src.URL, User: src.User}
	if s.Path == "" && s.URL == "" {
		s.URL = a.settings.SourceURL
		s.User = cmp.Or(s.User, a.settings.SourceUser)
	}
	if s.URL != "" && s.User != "" {
		pass, err := a.keyring.Password(s.User)
		if err != nil {
			return nil, err
		}
		s.Pass = pass
	}
	return a.loader.Load(ctx, s)
}

func (a *app) generator() *engine.Generator {
	return &engine.Generator{Clock: a.clock, FormatSummary: a.tr.Summary}
}

func (a *app) println(s string) {
	fmt.Fprintln(a.out, s)
}

// writeOutput writes data to path, or to stdout when path is empty or "-".
func (a *app) writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := a.out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteFile, err)
	}
	a.println(a.tr.Msg(config.TKeyFileWritten, map[string]any{"Path": path}))
	return nil
}

// ListCmd prints the address book in batches.
type ListCmd struct {
	SourceFlags `embed:""`
	Batch       int `short:"b" help:"Contacts per batch (default from settings)."`
}

// Run executes the list command.
func (c *ListCmd) Run(ctx context.Context, a *app) error {
	book, err := a.load(ctx, c.SourceFlags)
	if err != nil {
		return err
	}
	if book.Len() == 0 {
		a.println(a.tr.Msg(config.TKeyEmptyBook, nil))
		return nil
	}

	it, err := book.Iterator(cmp.Or(c.Batch, a.settings.BatchSize))
	if err != nil {
		return err
	}
	for index := 1; ; index++ {
		batch, err := it.Next()
		if errors.Is(err, contact.ErrExhausted) {
			return nil
		}
		if err != nil {
			return err
		}

		a.println(a.styles.header.Render(a.tr.Msg(config.TKeyBatchHeader, map[string]any{"Index": index, "Count": len(batch)})))
		for _, e := range batch {
			a.println(e.Record.String())
		}
	}
}

// FindCmd prints one contact.
type FindCmd struct {
	SourceFlags `embed:""`
	Name        string `arg:"" help:"Exact contact name."`
}

// Run executes the find command.
func (c *FindCmd) Run(ctx context.Context, a *app) error {
	book, err := a.load(ctx, c.SourceFlags)
	if err != nil {
		return err
	}
	r, ok := book.Find(c.Name)
	if !ok {
		a.println(a.tr.Msg(config.TKeyNotFound, nil))
		return nil
	}
	a.println(a.styles.name.Render(r.Name()))
	a.println(r.String())
	if b, ok := r.Birthday(); ok {
		a.println(a.styles.muted.Render(b.String()))
	}
	return nil
}

// BirthdaysCmd prints the countdown to each birthday, soonest first.
type BirthdaysCmd struct {
	SourceFlags `embed:""`
	Name        string `arg:"" optional:"" help:"Only this contact."`
	All         bool   `help:"Also list contacts without a birthday."`
}

// Run executes the birthdays command.
func (c *BirthdaysCmd) Run(ctx context.Context, a *app) error {
	book, err := a.load(ctx, c.SourceFlags)
	if err != nil {
		return err
	}

	if c.Name != "" {
		r, ok := book.Find(c.Name)
		if !ok {
			a.println(a.tr.Msg(config.TKeyNotFound, nil))
			return nil
		}
		days, err := r.DaysToBirthday()
		if errors.Is(err, contact.ErrNoBirthday) {
			a.println(a.tr.Msg(config.TKeyNoBirthday, map[string]any{"Name": r.Name()}))
			return nil
		}
		if err != nil {
			return err
		}
		a.println(a.tr.Msg(config.TKeyDaysToBirthday, map[string]any{"Name": r.Name(), "Days": days}))
		return nil
	}

	for _, e := range a.generator().Upcoming(book) {
		if e.Today {
			a.println(a.styles.today.Render(a.tr.Msg(config.TKeyBirthdayToday, map[string]any{"Name": e.Name})))
			continue
		}
		a.println(a.tr.Msg(config.TKeyDaysToBirthday, map[string]any{"Name": e.Name, "Days": e.DaysLeft}))
	}

	if c.All {
		for _, r := range book.Records() {
			if _, ok := r.Birthday(); !ok {
				a.println(a.styles.muted.Render(a.tr.Msg(config.TKeyNoBirthday, map[string]any{"Name": r.Name()})))
			}
		}
	}
	return nil
}

// CalendarCmd writes the iCalendar birthday feed.
type CalendarCmd struct {
	SourceFlags `embed:""`
	Output      string `short:"o" help:"Output file (default stdout)." type:"path"`
	Reminder    string `help:"ISO8601 alarm trigger, e.g. -P1D (default from settings)."`
}

// Run executes the calendar command.
func (c *CalendarCmd) Run(ctx context.Context, a *app) error {
	book, err := a.load(ctx, c.SourceFlags)
	if err != nil {
		return err
	}
	ics, _, err := a.generator().Calendar(ctx, book, cmp.Or(c.Reminder, a.settings.Reminder))
	if err != nil {
		return err
	}
	return a.writeOutput(c.Output, ics)
}

// ExportCmd writes the address book as vCard.
type ExportCmd struct {
	SourceFlags `embed:""`
	Output      string `short:"o" help:"Output file (default stdout)." type:"path"`
}

// Run executes the export command.
func (c *ExportCmd) Run(ctx context.Context, a *app) error {
	book, err := a.load(ctx, c.SourceFlags)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := a.loader.Codec.Encode(&buf, book); err != nil {
		return err
	}
	return a.writeOutput(c.Output, buf.Bytes())
}

// ServeCmd publishes the calendar and vCards over HTTP on localhost.
type ServeCmd struct {
	SourceFlags `embed:""`
	Port        string        `help:"Listening port (default from settings)."`
	Refresh     time.Duration `help:"Reload the source at this interval (0 disables)."`
}

// Run executes the serve command. It blocks until interrupted.
func (c *ServeCmd) Run(ctx context.Context, a *app) error {
	srv := server.NewBookServer(cmp.Or(c.Port, a.settings.Port))
	if err := c.publish(ctx, a, srv); err != nil {
		return err
	}

	if c.Refresh > 0 {
		go func() {
			ticker := time.NewTicker(c.Refresh)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := c.publish(ctx, a, srv); err != nil && ctx.Err() == nil {
						slog.Warn(config.ErrAppFailed,
							config.LogKeyComponent, config.CompServer,
							config.LogKeyError, err)
					}
				}
			}
		}()
	}
	return srv.Start(ctx)
}

func (c *ServeCmd) publish(ctx context.Context, a *app, srv *server.BookServer) error {
	book, err := a.load(ctx, c.SourceFlags)
	if err != nil {
		return err
	}
	ics, _, err := a.generator().Calendar(ctx, book, a.settings.Reminder)
	if err != nil {
		return err
	}
	var vcf bytes.Buffer
	if err := a.loader.Codec.Encode(&vcf, book); err != nil {
		return err
	}
	srv.Update(ics, vcf.Bytes())
	return nil
}

// CheckCmd groups the field validators.
type CheckCmd struct {
	Phone    CheckPhoneCmd    `cmd:"" help:"Validate a 10-digit phone number."`
	Birthday CheckBirthdayCmd `cmd:"" help:"Validate a birthday (yyyy-mm-dd or dd-mm-yyyy)."`
}

// CheckPhoneCmd validates one phone number.
type CheckPhoneCmd struct {
	Value string `arg:""`
}

// Run executes the phone check.
func (c *CheckPhoneCmd) Run(a *app) error {
	p, err := contact.ParsePhone(c.Value)
	if err != nil {
		return err
	}
	a.println(a.tr.Msg(config.TKeyValid, map[string]any{"Value": p.String()}))
	return nil
}

// CheckBirthdayCmd validates one birthday.
type CheckBirthdayCmd struct {
	Value string `arg:""`
}

// Run executes the birthday check.
func (c *CheckBirthdayCmd) Run(a *app) error {
	b, err := contact.ParseBirthday(c.Value, a.clock.Now())
	if err != nil {
		return err
	}
	a.println(a.tr.Msg(config.TKeyValid, map[string]any{"Value": b.String()}))
	return nil
}

// LoginCmd stores a remote source password in the OS keyring.
type LoginCmd struct {
	User     string `arg:"" help:"HTTP Basic auth user."`
	Password string `help:"Password; empty removes the stored entry." env:"CONTACTBOOK_PASSWORD"`
}

// Run executes the login command.
func (c *LoginCmd) Run(a *app) error {
	if err := a.keyring.SetPassword(c.User, c.Password); err != nil {
		return err
	}
	a.println(a.tr.Msg(config.TKeyPasswordSaved, map[string]any{"User": c.User}))
	return nil
}
