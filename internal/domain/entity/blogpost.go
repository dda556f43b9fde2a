// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as BlogPost and Clinic, along with
// their validation rules and domain-specific errors.
package entity

import "time"

// BlogPost represents an ingested clinic review post from a Naver blog.
// The content fields are a snapshot captured at fetch time; they are not
// re-fetched unless an explicit re-ingestion is requested.
type BlogPost struct {
	ID           string
	CanonicalURL string
	Title        string
	Content      string
	Summary      string
	ImageURL     string
	PublishedAt  time.Time
	Author       string

	// Raw hints from the ingestion row, kept for audit even after matching.
	ClinicNameHint    string
	ClinicAddressHint string
	Notes             string

	// HospitalID links the post to a Clinic. nil means unmatched.
	// IsMatched must always equal (HospitalID != nil).
	HospitalID *int64
	IsMatched  bool

	// IsVerified gates public visibility. Posts start unverified.
	IsVerified bool

	Categories []string
	Tags       []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SetHospital attaches the post to a clinic and keeps the matched flag in sync.
func (p *BlogPost) SetHospital(hospitalID int64) {
	id := hospitalID
	p.HospitalID = &id
	p.IsMatched = true
}

// ClearHospital detaches the post from its clinic.
func (p *BlogPost) ClearHospital() {
	p.HospitalID = nil
	p.IsMatched = false
}
