package models

import (
	"github.com/shopspring/decimal"
)

// Ref is the {id, name} stub the backend embeds for joined rows.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Applicant is a prospective business owner's signup request.
type Applicant struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	BusinessName  string `json:"business_name"`
	BusinessEmail string `json:"business_email"`
	Approved      Flag   `json:"approved"`
	Enrolled      Flag   `json:"enrolled"`
	Remarks       string `json:"remarks"`
	CreatedAt     string `json:"created_at"`
}

type Business struct {
	ID                       int64              `json:"id"`
	Name                     string             `json:"name"`
	Email                    Reviewable[string] `json:"email"`
	Phone                    Reviewable[string] `json:"phone"`
	Address                  Reviewable[string] `json:"address"`
	PanNo                    Reviewable[string] `json:"pan_no"`
	RegisteredDate           Reviewable[string] `json:"registered_date"`
	Balance                  decimal.Decimal    `json:"balance"`
	Active                   Flag               `json:"active"`
	IsLive                   Flag               `json:"is_live"`
	PanImage                 string             `json:"pan_image,omitempty"`
	CompanyRegistrationImage string             `json:"company_registration_image,omitempty"`
	CreatedAt                string             `json:"created_at,omitempty"`
}

// PendingReview lists the business fields still carrying placeholder data.
func (b Business) PendingReview() []string {
	var out []string
	fields := []struct {
		name string
		v    Reviewable[string]
	}{
		{"email", b.Email},
		{"phone", b.Phone},
		{"address", b.Address},
		{"pan_no", b.PanNo},
		{"registered_date", b.RegisteredDate},
	}
	for _, f := range fields {
		if f.v.NeedsReview {
			out = append(out, f.name)
		}
	}
	return out
}

type BusinessAdmin struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	IsSuperAdmin Flag   `json:"is_super_admin"`
	Active       Flag   `json:"active"`
	BusinessID   int64  `json:"business_id"`
	Business     *Ref   `json:"business,omitempty"`
	Token        string `json:"token,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

type BusinessUser struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Phone      string          `json:"phone"`
	Gender     string          `json:"gender"`
	Balance    decimal.Decimal `json:"balance"`
	Active     Flag            `json:"active"`
	BusinessID int64           `json:"business_id"`
	Business   *Ref            `json:"business,omitempty"`
	CreatedAt  string          `json:"created_at,omitempty"`
}

// BusinessCashflow is an append-only ledger row for a business balance.
// Remark is its only mutable field.
type BusinessCashflow struct {
	ID             int64           `json:"id"`
	Type           string          `json:"type"`
	AmountAdded    decimal.Decimal `json:"amount_added"`
	AmountDeducted decimal.Decimal `json:"amount_deducted"`
	Remark         string          `json:"remark"`
	BusinessID     int64           `json:"business_id"`
	UserID         int64           `json:"user_id"`
	AdminID        int64           `json:"admin_id"`
	Business       *Ref            `json:"business,omitempty"`
	Admin          *Ref            `json:"admin,omitempty"`
	CreatedAt      string          `json:"created_at"`
}

// UsersCashflow is an append-only ledger row for a business-user service
// purchase.
type UsersCashflow struct {
	ID          int64           `json:"id"`
	ServiceType string          `json:"service_type"`
	Amount      decimal.Decimal `json:"amount"`
	Receipt     string          `json:"receipt"`
	ReferenceID Text            `json:"reference_id"`
	Remark      string          `json:"remark"`
	BusinessID  int64           `json:"business_id"`
	UserID      int64           `json:"user_id"`
	Business    *Ref            `json:"business,omitempty"`
	User        *Ref            `json:"user,omitempty"`
	CreatedAt   string          `json:"created_at"`
}
