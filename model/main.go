package model

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Sample accounts are recognised by the domain part of their email address.
const (
	SampleEmailDomain  = "@example.com"
	BuilderEmailDomain = "@builderai.com"
)

// SampleEmailPatterns returns the LIKE patterns matching every sample account.
func SampleEmailPatterns() []string {
	return []string{"%" + SampleEmailDomain, "%" + BuilderEmailDomain}
}

type ApprovalStatus string

const (
	Approved ApprovalStatus = "approved"
	Pending  ApprovalStatus = "pending"
	Rejected ApprovalStatus = "rejected"
)

// IsValid returns true if ApprovalStatus is known
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case Approved, Pending, Rejected:
		return true
	}
	return false
}

func (s *ApprovalStatus) Scan(value interface{ any }) error {
	switch v := value.(type) {
	case string:
		*s = ApprovalStatus(v)
	case []byte:
		*s = ApprovalStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into ApprovalStatus", value)
	}
	return nil
}

func (s ApprovalStatus) Value() (driver.Value, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid ApprovalStatus %q", s)
	}
	return string(s), nil
}

type ListingStatus string

const (
	Active   ListingStatus = "active"
	Inactive ListingStatus = "inactive"
	Draft    ListingStatus = "draft"
)

func (s ListingStatus) IsValid() bool {
	switch s {
	case Active, Inactive, Draft:
		return true
	}
	return false
}

func (s *ListingStatus) Scan(value interface{ any }) error {
	switch v := value.(type) {
	case string:
		*s = ListingStatus(v)
	case []byte:
		*s = ListingStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into ListingStatus", value)
	}
	return nil
}

func (s ListingStatus) Value() (driver.Value, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid ListingStatus %q", s)
	}
	return string(s), nil
}

// A User is an account on the platform. Only the columns this tool reads are
// mapped; the schema script owns the rest.
type User struct {
	ID    string `gorm:"primaryKey"`
	Email string `gorm:"size:254"`
}

type Project struct {
	ID     string `gorm:"primaryKey"`
	UserID string `gorm:"index"`
}

// A MarketplaceProject is a published listing of a Project by its builder.
//
// Listing visibility is gated by ApprovalStatus, independently of Status.
type MarketplaceProject struct {
	ID              string `gorm:"primaryKey"`
	ProjectID       string `gorm:"index"`
	BuilderID       string `gorm:"index"`
	Title           string
	Description     string
	Price           int
	Category        string
	Tags            string
	Status          ListingStatus `gorm:"type:text"`
	Featured        bool
	Rating          float64
	ReviewCount     int
	DownloadCount   int
	Revenue         int
	PublishedAt     *time.Time
	UpdatedAt       *time.Time
	Metadata        string
	PopularityScore float64
	McpServers      string
	ApprovalStatus  ApprovalStatus `gorm:"type:text"`
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string
}

type MarketplacePurchase struct {
	ID                   string `gorm:"primaryKey"`
	MarketplaceProjectID string `gorm:"index"`
	BuyerID              string `gorm:"index"`
	Amount               int
	PurchasedAt          time.Time
}

type MarketplaceReview struct {
	ID                   string `gorm:"primaryKey"`
	MarketplaceProjectID string `gorm:"index"`
	UserID               string `gorm:"index"`
	Rating               int
	Comment              string
	CreatedAt            time.Time
}

type MarketplaceDownload struct {
	ID                   string `gorm:"primaryKey"`
	MarketplaceProjectID string `gorm:"index"`
	UserID               string `gorm:"index"`
	DownloadedAt         time.Time
}
