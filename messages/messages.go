package messages

import (
	"embed"
	"log"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed active.*.toml
var localeFS embed.FS

// Message ids of the user-facing strings.
const (
	LoginInvalid   = "login.invalid"
	LoginThrottled = "login.throttled"
	LoginFailed    = "login.failed"
	LoginSuccess   = "login.success"
	LoggedOut      = "logout.success"

	EventsEmpty      = "events.empty"
	EventsLoadFailed = "events.load_failed"
	EventsNoUpcoming = "events.no_upcoming"
	EventNotFound    = "event.not_found"
	EventSaved       = "event.saved"
	EventDeleted     = "event.deleted"
	EventInvalid     = "event.invalid"

	BookingsEmpty      = "bookings.empty"
	BookingsLoadFailed = "bookings.load_failed"
	BookingReceived    = "booking.received"

	BoothBookingsEmpty      = "booth_bookings.empty"
	BoothBookingsLoadFailed = "booth_bookings.load_failed"
	BoothBookingReceived    = "booth_booking.received"
	BoothBookingNotFound    = "booth_booking.not_found"
	BoothNotAvailable       = "booth.not_available"
	BoothOptionNotFound     = "booth.option_not_found"

	ContactsEmpty      = "contacts.empty"
	ContactsLoadFailed = "contacts.load_failed"
	ContactReceived    = "contact.received"
	ContactDeleted     = "contact.deleted"
	ContactNotFound    = "contact.not_found"

	PartnersEmpty         = "partners.empty"
	PartnersLoadFailed    = "partners.load_failed"
	PartnerReceived       = "partner.received"
	PartnerDeleted        = "partner.deleted"
	PartnerNotFound       = "partner.not_found"
	PartnerFileType       = "partner.file_type"
	PartnerFileSize       = "partner.file_size"
	PartnerNoOpenEvents   = "partner.no_open_events"
	PartnerTypeNotAllowed = "partner.type_not_allowed"

	StatusUpdated = "status.updated"
	StatusInvalid = "status.invalid"
	FormInvalid   = "form.invalid"
	ServerError   = "server.error"
)

type Translator interface {
	T(locale, key string, data map[string]any) string
}

// Catalog is a thin wrapper around go-i18n's Bundle/Localizer.
type Catalog struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
}

// NewCatalog loads the embedded active.*.toml files with defaultLocale as the
// fallback language.
func NewCatalog(defaultLocale string) *Catalog {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range []string{"active.en.toml", "active.fr.toml"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.Printf("messages: failed to load %s: %v", file, err)
		}
	}

	return &Catalog{
		bundle:          bundle,
		defaultLanguage: tag,
	}
}

// T renders key for locale, falling back to the default locale and then to
// the key itself. locale may be a raw Accept-Language header.
func (c *Catalog) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}

	languages := []string{}
	if locale = strings.TrimSpace(locale); locale != "" {
		languages = append(languages, locale)
	}
	languages = append(languages, c.defaultLanguage.String())

	localizer := i18n.NewLocalizer(c.bundle, languages...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		log.Printf("messages: localize failed (key=%s, locales=%v): %v", key, languages, err)
		return key
	}
	return msg
}
