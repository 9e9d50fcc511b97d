package model

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the struct fields against their validate tags.
func Validate(val interface{}) error {
	return validate.Struct(val)
}

// InvalidFields lists the json names of the fields that failed validation.
func InvalidFields(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}

type ContactSubmission struct {
	Name       string `json:"name" form:"name" validate:"required"`
	Email      string `json:"email" form:"email" validate:"required"`
	Phone      string `json:"phone" form:"phone" validate:"required"`
	Subject    string `json:"subject" form:"subject" validate:"required"`
	Message    string `json:"message" form:"message" validate:"required"`
	Acceptance bool   `json:"acceptance" form:"acceptance"`
}

func (s *ContactSubmission) Trim() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Subject = strings.TrimSpace(s.Subject)
	s.Message = strings.TrimSpace(s.Message)
}

func (s ContactSubmission) Contact(now time.Time) Contact {
	return Contact{
		Name:      s.Name,
		Email:     s.Email,
		Phone:     s.Phone,
		Subject:   s.Subject,
		Message:   s.Message,
		Status:    ContactNew,
		CreatedAt: At(now),
	}
}

type BookingRequest struct {
	Name    string `json:"name" form:"name" validate:"required"`
	Email   string `json:"email" form:"email" validate:"required,email"`
	Phone   string `json:"phone" form:"phone" validate:"required"`
	Tickets int    `json:"tickets" form:"tickets" validate:"min=1"`
}

// Booking prices the request against the event as it is now; later price
// changes do not touch the stored total.
func (r BookingRequest) Booking(eventID string, event Event, now time.Time) Booking {
	return Booking{
		EventID:    eventID,
		Name:       strings.TrimSpace(r.Name),
		Email:      strings.TrimSpace(r.Email),
		Phone:      strings.TrimSpace(r.Phone),
		Tickets:    r.Tickets,
		TotalPrice: event.Price * float64(r.Tickets),
		Status:     BookingPending,
		CreatedAt:  At(now),
	}
}

type BoothBookingRequest struct {
	FirstName string `json:"firstName" form:"firstName" validate:"required"`
	LastName  string `json:"lastName" form:"lastName" validate:"required"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	Company   string `json:"company" form:"company" validate:"required"`
	Position  string `json:"position" form:"position"`
	Phone     string `json:"phone" form:"phone"`
}

func (r BoothBookingRequest) BoothBooking(eventID string, event Event, option BoothOption, now time.Time) BoothBooking {
	return BoothBooking{
		EventID:     eventID,
		EventTitle:  event.Title,
		BoothOption: SnapshotOption(option),
		FirstName:   strings.TrimSpace(r.FirstName),
		LastName:    strings.TrimSpace(r.LastName),
		Email:       strings.TrimSpace(r.Email),
		Company:     strings.TrimSpace(r.Company),
		Position:    strings.TrimSpace(r.Position),
		Phone:       strings.TrimSpace(r.Phone),
		Status:      BookingPending,
		CreatedAt:   At(now),
	}
}

type PartnerApplication struct {
	EventID      string `json:"eventId" form:"eventId" validate:"required"`
	Name         string `json:"name" form:"name" validate:"required"`
	Email        string `json:"email" form:"email" validate:"required,email"`
	Phone        string `json:"phone" form:"phone"`
	Organization string `json:"organization" form:"organization" validate:"required"`
	Position     string `json:"position" form:"position"`
	Message      string `json:"message" form:"message"`

	SponsorshipLevel   string `json:"sponsorshipLevel" form:"sponsorshipLevel"`
	CompanyDescription string `json:"companyDescription" form:"companyDescription"`
	Website            string `json:"website" form:"website"`

	Expertise        string `json:"expertise" form:"expertise"`
	TalkTitle        string `json:"talkTitle" form:"talkTitle"`
	TalkDescription  string `json:"talkDescription" form:"talkDescription"`
	PreviousSpeaking string `json:"previousSpeaking" form:"previousSpeaking"`
	LinkedIn         string `json:"linkedIn" form:"linkedIn"`

	Services     []string `json:"services" form:"services"`
	OtherService string   `json:"otherService" form:"otherService"`
	Availability string   `json:"availability" form:"availability"`
	Experience   string   `json:"experience" form:"experience"`
}

func (a PartnerApplication) details(t PartnerType) PartnerDetails {
	switch t {
	case PartnerSponsor:
		return SponsorDetails{
			SponsorshipLevel:   strings.TrimSpace(a.SponsorshipLevel),
			CompanyDescription: strings.TrimSpace(a.CompanyDescription),
			Website:            strings.TrimSpace(a.Website),
		}
	case PartnerSpeaker:
		return SpeakerDetails{
			Expertise:        strings.TrimSpace(a.Expertise),
			TalkTitle:        strings.TrimSpace(a.TalkTitle),
			TalkDescription:  strings.TrimSpace(a.TalkDescription),
			PreviousSpeaking: strings.TrimSpace(a.PreviousSpeaking),
			LinkedIn:         strings.TrimSpace(a.LinkedIn),
		}
	case PartnerVolunteer:
		services := []string{}
		for _, s := range a.Services {
			if s = strings.TrimSpace(s); s != "" {
				services = append(services, s)
			}
		}
		if other := strings.TrimSpace(a.OtherService); other != "" {
			services = append(services, other)
		}
		return VolunteerDetails{
			Services:     services,
			Availability: strings.TrimSpace(a.Availability),
			Experience:   strings.TrimSpace(a.Experience),
		}
	}
	return nil
}

// Partner builds the stored application. eventTitle is copied from the chosen event.
func (a PartnerApplication) Partner(t PartnerType, eventTitle, bioURL string, now time.Time) Partner {
	return Partner{
		EventID:      strings.TrimSpace(a.EventID),
		EventTitle:   eventTitle,
		Name:         strings.TrimSpace(a.Name),
		Email:        strings.TrimSpace(a.Email),
		Phone:        strings.TrimSpace(a.Phone),
		Organization: strings.TrimSpace(a.Organization),
		Position:     strings.TrimSpace(a.Position),
		BioURL:       bioURL,
		Message:      strings.TrimSpace(a.Message),
		Status:       PartnerPending,
		CreatedAt:    At(now),
		Details:      a.details(t),
	}
}
