package model

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PartnerType string

const (
	PartnerSponsor   PartnerType = "sponsor"
	PartnerSpeaker   PartnerType = "speaker"
	PartnerVolunteer PartnerType = "volunteer"
)

func ParsePartnerType(s string) (PartnerType, error) {
	switch t := PartnerType(s); t {
	case PartnerSponsor, PartnerSpeaker, PartnerVolunteer:
		return t, nil
	}
	return "", fmt.Errorf("unknown partner type %q", s)
}

// PartnerDetails is implemented by SponsorDetails, SpeakerDetails and VolunteerDetails only.
type PartnerDetails interface {
	PartnerType() PartnerType
}

type SponsorDetails struct {
	SponsorshipLevel   string
	CompanyDescription string
	Website            string
}

type SpeakerDetails struct {
	Expertise        string
	TalkTitle        string
	TalkDescription  string
	PreviousSpeaking string
	LinkedIn         string
}

type VolunteerDetails struct {
	Services     []string
	Availability string
	Experience   string
}

func (SponsorDetails) PartnerType() PartnerType { return PartnerSponsor }
func (SpeakerDetails) PartnerType() PartnerType { return PartnerSpeaker }
func (VolunteerDetails) PartnerType() PartnerType { return PartnerVolunteer }

// Partner is an application to sponsor, speak or volunteer at an event.
// All three kinds share one collection; the stored "type" field selects Details.
type Partner struct {
	Id           primitive.ObjectID
	EventID      string
	EventTitle   string
	Name         string
	Email        string
	Phone        string
	Organization string
	Position     string
	BioURL       string
	Message      string
	Status       PartnerStatus
	CreatedAt    Instant
	UpdatedAt    Instant
	Details      PartnerDetails
}

func (p Partner) Type() PartnerType {
	if p.Details == nil {
		return ""
	}
	return p.Details.PartnerType()
}

// partnerDocument is the flat stored shape of a Partner.
type partnerDocument struct {
	Id           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Type         PartnerType        `json:"type" bson:"type"`
	EventID      string             `json:"eventId" bson:"eventId"`
	EventTitle   string             `json:"eventTitle" bson:"eventTitle"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	Phone        string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Organization string             `json:"organization" bson:"organization"`
	Position     string             `json:"position,omitempty" bson:"position,omitempty"`
	BioURL       string             `json:"bioUrl,omitempty" bson:"bioUrl,omitempty"`
	Message      string             `json:"message,omitempty" bson:"message,omitempty"`
	Status       PartnerStatus      `json:"status" bson:"status"`
	CreatedAt    Instant            `json:"createdAt" bson:"createdAt,omitempty"`
	UpdatedAt    Instant            `json:"updatedAt" bson:"updatedAt,omitempty"`

	SponsorshipLevel   string `json:"sponsorshipLevel,omitempty" bson:"sponsorshipLevel,omitempty"`
	CompanyDescription string `json:"companyDescription,omitempty" bson:"companyDescription,omitempty"`
	Website            string `json:"website,omitempty" bson:"website,omitempty"`

	Expertise        string `json:"expertise,omitempty" bson:"expertise,omitempty"`
	TalkTitle        string `json:"talkTitle,omitempty" bson:"talkTitle,omitempty"`
	TalkDescription  string `json:"talkDescription,omitempty" bson:"talkDescription,omitempty"`
	PreviousSpeaking string `json:"previousSpeaking,omitempty" bson:"previousSpeaking,omitempty"`
	LinkedIn         string `json:"linkedIn,omitempty" bson:"linkedIn,omitempty"`

	Services     []string `json:"services,omitempty" bson:"services,omitempty"`
	Availability string   `json:"availability,omitempty" bson:"availability,omitempty"`
	Experience   string   `json:"experience,omitempty" bson:"experience,omitempty"`
}

func (p Partner) document() (partnerDocument, error) {
	doc := partnerDocument{
		Id:           p.Id,
		EventID:      p.EventID,
		EventTitle:   p.EventTitle,
		Name:         p.Name,
		Email:        p.Email,
		Phone:        p.Phone,
		Organization: p.Organization,
		Position:     p.Position,
		BioURL:       p.BioURL,
		Message:      p.Message,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	switch d := p.Details.(type) {
	case SponsorDetails:
		doc.Type = PartnerSponsor
		doc.SponsorshipLevel = d.SponsorshipLevel
		doc.CompanyDescription = d.CompanyDescription
		doc.Website = d.Website
	case SpeakerDetails:
		doc.Type = PartnerSpeaker
		doc.Expertise = d.Expertise
		doc.TalkTitle = d.TalkTitle
		doc.TalkDescription = d.TalkDescription
		doc.PreviousSpeaking = d.PreviousSpeaking
		doc.LinkedIn = d.LinkedIn
	case VolunteerDetails:
		doc.Type = PartnerVolunteer
		doc.Services = d.Services
		doc.Availability = d.Availability
		doc.Experience = d.Experience
	default:
		return partnerDocument{}, fmt.Errorf("partner %s has no details", p.Id.Hex())
	}
	return doc, nil
}

func (doc partnerDocument) partner() (Partner, error) {
	p := Partner{
		Id:           doc.Id,
		EventID:      doc.EventID,
		EventTitle:   doc.EventTitle,
		Name:         doc.Name,
		Email:        doc.Email,
		Phone:        doc.Phone,
		Organization: doc.Organization,
		Position:     doc.Position,
		BioURL:       doc.BioURL,
		Message:      doc.Message,
		Status:       doc.Status,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
	switch doc.Type {
	case PartnerSponsor:
		p.Details = SponsorDetails{
			SponsorshipLevel:   doc.SponsorshipLevel,
			CompanyDescription: doc.CompanyDescription,
			Website:            doc.Website,
		}
	case PartnerSpeaker:
		p.Details = SpeakerDetails{
			Expertise:        doc.Expertise,
			TalkTitle:        doc.TalkTitle,
			TalkDescription:  doc.TalkDescription,
			PreviousSpeaking: doc.PreviousSpeaking,
			LinkedIn:         doc.LinkedIn,
		}
	case PartnerVolunteer:
		p.Details = VolunteerDetails{
			Services:     doc.Services,
			Availability: doc.Availability,
			Experience:   doc.Experience,
		}
	default:
		return Partner{}, fmt.Errorf("partner %s: unknown type %q", doc.Id.Hex(), doc.Type)
	}
	return p, nil
}

func (p Partner) MarshalBSON() ([]byte, error) {
	doc, err := p.document()
	if err != nil {
		return nil, err
	}
	return bson.Marshal(doc)
}

func (p *Partner) UnmarshalBSON(data []byte) error {
	var doc partnerDocument
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}
	decoded, err := doc.partner()
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

func (p Partner) MarshalJSON() ([]byte, error) {
	doc, err := p.document()
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
