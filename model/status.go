package model

import "fmt"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// OrDefault treats a missing status as pending.
func (s BookingStatus) OrDefault() BookingStatus {
	if s == "" {
		return BookingPending
	}
	return s
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	switch status := BookingStatus(s); status {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return status, nil
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

type ContactStatus string

const (
	ContactNew     ContactStatus = "new"
	ContactRead    ContactStatus = "read"
	ContactReplied ContactStatus = "replied"
)

// OrDefault treats a missing status as new.
func (s ContactStatus) OrDefault() ContactStatus {
	if s == "" {
		return ContactNew
	}
	return s
}

func ParseContactStatus(s string) (ContactStatus, error) {
	switch status := ContactStatus(s); status {
	case ContactNew, ContactRead, ContactReplied:
		return status, nil
	}
	return "", fmt.Errorf("unknown contact status %q", s)
}

type PartnerStatus string

const (
	PartnerPending  PartnerStatus = "pending"
	PartnerReviewed PartnerStatus = "reviewed"
	PartnerApproved PartnerStatus = "approved"
	PartnerRejected PartnerStatus = "rejected"
)

// OrDefault treats a missing status as pending.
func (s PartnerStatus) OrDefault() PartnerStatus {
	if s == "" {
		return PartnerPending
	}
	return s
}

func ParsePartnerStatus(s string) (PartnerStatus, error) {
	switch status := PartnerStatus(s); status {
	case PartnerPending, PartnerReviewed, PartnerApproved, PartnerRejected:
		return status, nil
	}
	return "", fmt.Errorf("unknown partner status %q", s)
}
