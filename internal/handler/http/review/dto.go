// Package review provides HTTP handlers for the public review surface and
// the admin moderation endpoints.
package review

import (
	"time"

	"clinic-reviews/internal/domain/entity"
	"clinic-reviews/internal/repository"
)

// DTO is the public JSON shape of a verified review post.
type DTO struct {
	ID           string     `json:"id"`
	CanonicalURL string     `json:"canonical_url"`
	Title        string     `json:"title"`
	Summary      string     `json:"summary"`
	Content      string     `json:"content"`
	ImageURL     string     `json:"image_url,omitempty"`
	Author       string     `json:"author"`
	PublishedAt  time.Time  `json:"published_at"`
	Categories   []string   `json:"categories"`
	Tags         []string   `json:"tags"`
	Clinic       *ClinicDTO `json:"clinic,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ClinicDTO is the clinic block embedded in a matched review.
type ClinicDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Province string `json:"province,omitempty"`
	District string `json:"district,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Website  string `json:"website,omitempty"`
}

// QueueDTO is the moderation-queue shape. It exposes the raw ingestion
// hints the public DTO hides.
type QueueDTO struct {
	ID                string    `json:"id"`
	CanonicalURL      string    `json:"canonical_url"`
	Title             string    `json:"title"`
	Summary           string    `json:"summary"`
	Author            string    `json:"author"`
	PublishedAt       time.Time `json:"published_at"`
	ClinicNameHint    string    `json:"clinic_name_hint"`
	ClinicAddressHint string    `json:"clinic_address_hint"`
	Notes             string    `json:"notes"`
	IsVerified        bool      `json:"is_verified"`
	Categories        []string  `json:"categories"`
	CreatedAt         time.Time `json:"created_at"`
}

func toDTO(item repository.PostWithClinic) DTO {
	out := DTO{
		ID:           item.Post.ID,
		CanonicalURL: item.Post.CanonicalURL,
		Title:        item.Post.Title,
		Summary:      item.Post.Summary,
		Content:      item.Post.Content,
		ImageURL:     item.Post.ImageURL,
		Author:       item.Post.Author,
		PublishedAt:  item.Post.PublishedAt,
		Categories:   item.Post.Categories,
		Tags:         item.Post.Tags,
		CreatedAt:    item.Post.CreatedAt,
	}
	if item.Clinic != nil {
		out.Clinic = &ClinicDTO{
			ID:       item.Clinic.ID,
			Name:     item.Clinic.Name,
			Address:  item.Clinic.Address,
			Province: item.Clinic.Province,
			District: item.Clinic.District,
			Phone:    item.Clinic.Phone,
			Website:  item.Clinic.Website,
		}
	}
	return out
}

func toQueueDTO(post *entity.BlogPost) QueueDTO {
	return QueueDTO{
		ID:                post.ID,
		CanonicalURL:      post.CanonicalURL,
		Title:             post.Title,
		Summary:           post.Summary,
		Author:            post.Author,
		PublishedAt:       post.PublishedAt,
		ClinicNameHint:    post.ClinicNameHint,
		ClinicAddressHint: post.ClinicAddressHint,
		Notes:             post.Notes,
		IsVerified:        post.IsVerified,
		Categories:        post.Categories,
		CreatedAt:         post.CreatedAt,
	}
}
