package onboarding

import (
	"encoding/hex"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"business-console/internal/models"
)

// Placeholders are the business details the backend requires but an
// applicant never supplied. Each is flagged for review when sent.
type Placeholders struct {
	Email          string
	Phone          string
	Address        string
	PanNo          string
	RegisteredDate string
}

type PlaceholderSource interface {
	For(a models.Applicant) Placeholders
}

// RandomPlaceholders derives digits from random UUIDs.
type RandomPlaceholders struct {
	Address string
	Domain  string

	newID func() uuid.UUID
	now   func() time.Time
}

func NewRandomPlaceholders(address, domain string) *RandomPlaceholders {
	return &RandomPlaceholders{Address: address, Domain: domain, newID: uuid.New, now: time.Now}
}

func (p *RandomPlaceholders) For(a models.Applicant) Placeholders {
	id, pan := p.newID(), p.newID()

	registered := a.CreatedAt
	if registered == "" {
		registered = p.now().UTC().Format("2006-01-02")
	}

	return Placeholders{
		Email:          slug(a.BusinessName) + "." + hex.EncodeToString(id[:3]) + "@" + p.Domain,
		Phone:          "9" + string("678"[id[3]%3]) + digits(id[4:12]),
		Address:        p.Address,
		PanNo:          digits(pan[:9]),
		RegisteredDate: registered,
	}
}

func digits(b []byte) string {
	var sb strings.Builder
	for _, v := range b {
		sb.WriteByte('0' + v%10)
	}
	return sb.String()
}

func slug(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "business"
	}
	return sb.String()
}
