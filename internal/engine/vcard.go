package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-contactbook/internal/config"
	"github.com/tartampluch/go-contactbook/internal/contact"
)

// Codec converts between vCard streams and AddressBooks.
type Codec struct {
	// Policy governs invalid TEL and BDAY values.
	Policy contact.Policy
	Clock  contact.Clock
}

// Decode reads every card of r into a new AddressBook, in stream order.
// Cards sharing a name overwrite each other. A malformed stream aborts the
// import; invalid field values are handled by c.Policy.
func (c *Codec) Decode(ctx context.Context, r io.Reader) (*contact.AddressBook, error) {
	log := slog.With(
		config.LogKeyComponent, config.CompCodec,
		config.LogKeyPolicy, c.Policy.String(),
	)

	book := contact.NewAddressBook()
	decoder := vcard.NewDecoder(r)
	cards := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn(config.MsgSkippedCard, config.LogKeyError, err)
			return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
		}
		cards++

		rec, err := c.decodeCard(card)
		if err != nil {
			return nil, err
		}
		book.Add(rec)
	}

	log.Info(config.MsgImportDone,
		config.LogKeyTotal, cards,
		config.LogKeyImported, book.Len())
	return book, nil
}

func (c *Codec) decodeCard(card vcard.Card) (*contact.Record, error) {
	name := cardName(card)

	var bday string
	if f := card.Get(vcard.FieldBirthday); f != nil {
		bday = normalizeBirthday(f.Value)
	}

	rec, err := c.Policy.Build(name, bday, card.Values(vcard.FieldTelephone), contact.WithClock(c.Clock))
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", config.ErrVCardRecord, name, err)
	}
	return rec, nil
}

// cardName picks FN, then the structured N, then a fallback.
func cardName(card vcard.Card) string {
	if fn := strings.TrimSpace(card.PreferredValue(vcard.FieldFormattedName)); fn != "" {
		return fn
	}
	if n := card.Name(); n != nil {
		if full := strings.TrimSpace(n.GivenName + " " + n.FamilyName); full != "" {
			return full
		}
	}
	return config.FallbackName
}

// normalizeBirthday rewrites vCard date forms (basic, RFC3339) as yyyy-mm-dd.
// Anything else is returned untouched for the validator to judge.
func normalizeBirthday(value string) string {
	for _, layout := range []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(config.DateFormatFullDash)
		}
	}
	return value
}

// Encode writes book as vCard 4.0, one card per record in insertion order.
func (c *Codec) Encode(w io.Writer, book *contact.AddressBook) error {
	enc := vcard.NewEncoder(w)

	for _, r := range book.Records() {
		card := make(vcard.Card)
		card.SetValue(vcard.FieldFormattedName, r.Name())

		b, hasBday := r.Birthday()
		card.SetValue(vcard.FieldUID, recordUID(r.Name(), b))
		if hasBday {
			card.SetValue(vcard.FieldBirthday, b.String())
		}
		for _, p := range r.Phones() {
			card.AddValue(vcard.FieldTelephone, p.String())
		}

		vcard.ToV4(card)
		if err := enc.Encode(card); err != nil {
			return fmt.Errorf("%s: %w", config.ErrVCardEncode, err)
		}
	}

	slog.Debug(config.MsgExportDone,
		config.LogKeyComponent, config.CompCodec,
		config.LogKeyCount, book.Len())
	return nil
}
