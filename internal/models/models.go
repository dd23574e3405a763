package models

import "time"

const (
	RolePharmacy     = "pharmacy"
	RoleDepotManager = "depot_manager"
	RoleLaboratory   = "laboratory"
)

const (
	StatusCreated    = "created"
	StatusInProgress = "in_progress"
	StatusPending    = "pending"
	StatusResolved   = "resolved"
	StatusRejected   = "rejected"
	StatusClosed     = "closed"
)

const (
	ClaimTypeExpiredProduct    = "expired_product"
	ClaimTypeDefectiveProduct  = "defective_product"
	ClaimTypeDeliveryError     = "delivery_error"
	ClaimTypeIncorrectQuantity = "incorrect_quantity"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type User struct {
	UserID         string `json:"_id"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	FirstName      string `json:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	CompanyName    string `json:"companyName,omitempty"`
	CompanyAddress string `json:"companyAddress,omitempty"`
	Phone          string `json:"phone,omitempty"`
}

type StatusEntry struct {
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	ChangedAt time.Time `json:"changedAt"`
}

type Claim struct {
	ClaimID         string        `json:"_id"`
	Reference       string        `json:"reference"`
	ClaimType       string        `json:"claimType"`
	Priority        string        `json:"priority"`
	Status          string        `json:"status"`
	Description     string        `json:"description"`
	BatchNumber     string        `json:"batchNumber,omitempty"`
	Quantity        int           `json:"quantity,omitempty"`
	ExpiryDate      *time.Time    `json:"expiryDate,omitempty"`
	ResolutionNotes string        `json:"resolutionNotes,omitempty"`
	PharmacyID      string        `json:"pharmacyId,omitempty"`
	DepotID         string        `json:"depotId,omitempty"`
	LaboratoryID    string        `json:"laboratoryId,omitempty"`
	ResolvedBy      string        `json:"resolvedBy,omitempty"`
	StatusHistory   []StatusEntry `json:"statusHistory"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       *time.Time    `json:"updatedAt,omitempty"`
}

// Sender is the populated form of a message's senderId reference.
type Sender struct {
	UserID      string `json:"_id"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	Email       string `json:"email,omitempty"`
}

type Message struct {
	MessageID  string    `json:"_id"`
	ClaimID    string    `json:"claimId"`
	Sender     Sender    `json:"senderId"`
	SenderRole string    `json:"senderRole"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Product is a catalog entry referenced by stock items. The catalog itself is
// backend-owned; clients only browse it.
type Product struct {
	ProductID string `json:"_id"`
	Name      string `json:"name"`
	SKU       string `json:"sku,omitempty"`
}

type StockItem struct {
	StockID     string     `json:"_id"`
	ProductID   string     `json:"productId,omitempty"`
	ProductName string     `json:"productName,omitempty"`
	BatchNumber string     `json:"batchNumber,omitempty"`
	Quantity    int        `json:"quantity"`
	ExpiryDate  *time.Time `json:"expiryDate,omitempty"`
	Status      string     `json:"status,omitempty"`
}

type Partner struct {
	PartnerID      string   `json:"_id"`
	CompanyName    string   `json:"companyName"`
	Role           string   `json:"role"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone,omitempty"`
	CompanyAddress string   `json:"companyAddress,omitempty"`
	Location       Location `json:"location"`
}

// Location follows the backend's GeoJSON point shape, coordinates are
// [longitude, latitude]. A zero pair means no position was recorded.
type Location struct {
	Type        string    `json:"type,omitempty"`
	Coordinates []float64 `json:"coordinates,omitempty"`
}

type FileAttachment struct {
	FileID       string    `json:"_id"`
	ClaimID      string    `json:"claimId"`
	FileName     string    `json:"fileName"`
	OriginalName string    `json:"originalName,omitempty"`
	MimeType     string    `json:"mimetype"`
	Size         int64     `json:"size"`
	UploadedBy   string    `json:"uploadedBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ClaimStats struct {
	Total      int `json:"total"`
	Created    int `json:"created"`
	InProgress int `json:"inProgress"`
	Pending    int `json:"pending"`
	Resolved   int `json:"resolved"`
	Rejected   int `json:"rejected"`
	Closed     int `json:"closed"`
}

type StockStats struct {
	TotalItems    int `json:"totalItems"`
	TotalQuantity int `json:"totalQuantity"`
	Warning       int `json:"warning"`
	Expired       int `json:"expired"`
}
