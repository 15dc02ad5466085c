package models

import (
	"fmt"
	"strings"
	"time"
)

// ItemID identifies an item record within its variant's collection.
type ItemID int64

// Variant selects between the lost and found collections.
type Variant string

const (
	Lost  Variant = "lost"
	Found Variant = "found"
)

// DateLayout is the only accepted textual form of an item date.
const DateLayout = "2006-01-02"

// ParseVariant accepts "lost" or "found" in any letter case.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case Lost, Found:
		return v, nil
	default:
		return "", fmt.Errorf("unknown item kind %q", s)
	}
}

// Valid reports whether v is Lost or Found.
func (v Variant) Valid() bool {
	return v == Lost || v == Found
}

// DateLabel is the human name of the variant's date field.
func (v Variant) DateLabel() string {
	if v == Found {
		return "Date Found"
	}
	return "Date Lost"
}

// Item is a lost or found report owned by an account.
type Item struct {
	ID          ItemID
	Variant     Variant
	OwnerID     AccountID
	Name        string
	Description string
	Location    string
	Date        time.Time
	ContactInfo string
	CreatedAt   time.Time
}

// ItemView is an item joined with its reporter's username.
type ItemView struct {
	Item
	OwnerUsername string
}

// ParseDate parses s as a YYYY-MM-DD calendar date. Out-of-range fields such
// as month 13 or day 40 are rejected.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
